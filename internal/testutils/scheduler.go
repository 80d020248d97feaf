// Package testutils holds helpers shared by package tests.
package testutils

import (
	"sort"
	"sync"
	"time"

	"gatehouse/internal/storage/connmgr"
)

// ManualTask is a task recorded by ManualScheduler.
type ManualTask struct {
	Delay time.Duration
	Seq   int

	fn      func()
	mu      sync.Mutex
	stopped bool
	fired   bool
}

func (t *ManualTask) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Active reports whether the task can still fire.
func (t *ManualTask) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.stopped && !t.fired
}

// Fire runs the task on the caller's goroutine. It reports false if the
// task was stopped or already fired.
func (t *ManualTask) Fire() bool {
	t.mu.Lock()
	if t.stopped || t.fired {
		t.mu.Unlock()
		return false
	}
	t.fired = true
	t.mu.Unlock()
	t.fn()
	return true
}

// ManualScheduler records tasks instead of starting timers; tests fire
// them explicitly.
type ManualScheduler struct {
	mu    sync.Mutex
	tasks []*ManualTask
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) connmgr.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &ManualTask{Delay: d, Seq: len(s.tasks), fn: f}
	s.tasks = append(s.tasks, t)
	return t
}

// All returns every task ever scheduled, in scheduling order.
func (s *ManualScheduler) All() []*ManualTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*ManualTask(nil), s.tasks...)
}

// Active returns tasks that can still fire, shortest delay first.
func (s *ManualScheduler) Active() []*ManualTask {
	var out []*ManualTask
	for _, t := range s.All() {
		if t.Active() {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Delay < out[j].Delay })
	return out
}

// ActiveWithDelay returns active tasks scheduled with exactly d.
func (s *ManualScheduler) ActiveWithDelay(d time.Duration) []*ManualTask {
	var out []*ManualTask
	for _, t := range s.Active() {
		if t.Delay == d {
			out = append(out, t)
		}
	}
	return out
}
