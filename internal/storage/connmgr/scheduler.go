package connmgr

import "time"

// Task is a deferred call that can be cancelled before it fires.
type Task interface {
	// Stop cancels the call; it reports false if the call already fired
	// or was stopped.
	Stop() bool
}

// Scheduler defers calls. Tests inject a manual implementation.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

type timerScheduler struct{}

func (timerScheduler) AfterFunc(d time.Duration, f func()) Task {
	return time.AfterFunc(d, f)
}

// TimerScheduler runs tasks on time.AfterFunc.
var TimerScheduler Scheduler = timerScheduler{}
