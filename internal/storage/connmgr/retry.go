package connmgr

import "time"

const (
	DefaultBaseWait  = 3 * time.Second
	DefaultIncrement = time.Second
)

// RetryTicket schedules reconnect attempts with linear backoff. At most
// one task is pending; scheduling again replaces it. RetryTicket is not
// safe for concurrent use; the owning Manager serialises access.
type RetryTicket struct {
	attempt   int
	baseWait  time.Duration
	increment time.Duration
	sched     Scheduler
	pending   Task
	gen       uint64
}

// NewRetryTicket creates a ticket; zero durations take the defaults.
func NewRetryTicket(sched Scheduler, baseWait, increment time.Duration) *RetryTicket {
	if sched == nil {
		sched = TimerScheduler
	}
	if baseWait <= 0 {
		baseWait = DefaultBaseWait
	}
	if increment <= 0 {
		increment = DefaultIncrement
	}
	return &RetryTicket{sched: sched, baseWait: baseWait, increment: increment}
}

// Delay is the wait the next attempt would use.
func (r *RetryTicket) Delay() time.Duration {
	return time.Duration(r.attempt)*r.increment + r.baseWait
}

// Schedule cancels any pending task and schedules fn after Delay. The
// attempt counter advances after the delay is computed unless soft is set.
// fn receives a generation token for Claim.
func (r *RetryTicket) Schedule(fn func(gen uint64), soft bool) time.Duration {
	r.Cancel()

	delay := r.Delay()
	if !soft {
		r.attempt++
	}
	r.gen++
	gen := r.gen
	r.pending = r.sched.AfterFunc(delay, func() { fn(gen) })
	return delay
}

// Claim marks the task for gen as fired. It reports false for a task
// that was replaced or cancelled after it had already started running.
func (r *RetryTicket) Claim(gen uint64) bool {
	if r.pending == nil || gen != r.gen {
		return false
	}
	r.pending = nil
	return true
}

// Cancel stops the pending task, if any.
func (r *RetryTicket) Cancel() {
	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}
}

// Reset cancels the pending task and zeroes the attempt counter.
func (r *RetryTicket) Reset() {
	r.Cancel()
	r.attempt = 0
}

func (r *RetryTicket) Attempt() int  { return r.attempt }
func (r *RetryTicket) Pending() bool { return r.pending != nil }
