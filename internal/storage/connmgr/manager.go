// Package connmgr keeps one storage connection alive per driver: it
// connects with linear-backoff retries, probes the handle on access and on
// a heartbeat, and reconnects in the background when the probe fails.
package connmgr

import (
	"context"
	"sync"
	"time"

	coreerrors "gatehouse/internal/core/errors"
	corelog "gatehouse/internal/core/log"
)

const DefaultProbeTimeout = 5 * time.Second

var (
	// ErrConnectionUnavailable is returned by Acquire when the handle is
	// missing or fails its probe. A reconnect has been scheduled.
	ErrConnectionUnavailable = coreerrors.New(coreerrors.CodeUnavailable, "connection unavailable")
	// ErrClosed is returned to a connect that raced with Disconnect.
	ErrClosed = coreerrors.New(coreerrors.CodeUnavailable, "connection manager closed")
)

// Connector opens and checks handles of type H for one storage backend.
type Connector[H any] interface {
	// Connect opens a new handle.
	Connect(ctx context.Context) (H, error)
	// Select switches the handle to the configured logical database.
	Select(ctx context.Context, h H) error
	Ping(ctx context.Context, h H) error
	Close(h H) error
}

// Config tunes a Manager.
type Config struct {
	Name              string
	BaseWait          time.Duration
	Increment         time.Duration
	HeartbeatInterval time.Duration // 0 disables the heartbeat
	ProbeTimeout      time.Duration
}

// Option configures a Manager.
type Option func(*options)

type options struct {
	sched   Scheduler
	logger  corelog.Logger
	metrics *Metrics
}

func WithScheduler(s Scheduler) Option   { return func(o *options) { o.sched = s } }
func WithLogger(l corelog.Logger) Option { return func(o *options) { o.logger = l } }
func WithMetrics(m *Metrics) Option      { return func(o *options) { o.metrics = m } }

// Status is a point-in-time view of a Manager.
type Status struct {
	Name    string `json:"name"`
	State   string `json:"state"`
	Ready   bool   `json:"ready"`
	Attempt int    `json:"attempt"`
}

// Manager owns the connection handle of one driver. Only its methods
// mutate its state; timer callbacks take the same lock.
type Manager[H any] struct {
	cfg       Config
	connector Connector[H]
	sched     Scheduler
	logger    corelog.Logger
	metrics   *Metrics

	mu            sync.Mutex
	handle        H
	hasHandle     bool
	state         State
	ready         bool
	dialing       bool
	everConnected bool
	ticket        *RetryTicket
	heartbeat     Task
	hbGen         uint64
	epoch         uint64
}

// New creates a disconnected manager. Call Connect to start it.
func New[H any](connector Connector[H], cfg Config, opts ...Option) *Manager[H] {
	o := options{sched: TimerScheduler}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = corelog.Default()
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}

	m := &Manager[H]{
		cfg:       cfg,
		connector: connector,
		sched:     o.sched,
		logger:    o.logger.WithFields(map[string]any{"component": "connmgr", "driver": cfg.Name}),
		metrics:   o.metrics,
		ticket:    NewRetryTicket(o.sched, cfg.BaseWait, cfg.Increment),
	}
	m.metrics.setState(cfg.Name, StateDisconnected)
	return m
}

func (m *Manager[H]) Name() string { return m.cfg.Name }

// Connect dials immediately, replacing any pending retry. On failure the
// manager stays Connecting and retries in the background; the error is
// returned for logging only.
func (m *Manager[H]) Connect(ctx context.Context) error {
	m.mu.Lock()
	if m.state == StateConnected {
		m.mu.Unlock()
		return nil
	}
	if m.dialing {
		m.mu.Unlock()
		return ErrConnectionUnavailable
	}
	m.ticket.Cancel()
	m.transitionLocked(StateConnecting)
	m.dialing = true
	epoch := m.epoch
	m.mu.Unlock()

	return m.dial(ctx, epoch)
}

func (m *Manager[H]) dial(ctx context.Context, epoch uint64) error {
	h, err := m.connector.Connect(ctx)
	if err == nil {
		if serr := m.connector.Select(ctx, h); serr != nil {
			_ = m.connector.Close(h)
			err = serr
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if epoch != m.epoch {
		if err == nil {
			_ = m.connector.Close(h)
		}
		return ErrClosed
	}
	m.dialing = false

	if err != nil {
		m.ready = false
		m.metrics.connectError(m.cfg.Name)
		delay := m.scheduleRetryLocked(false)
		m.logger.WithError(err).Warnf("connect failed, retrying in %s", delay)
		return coreerrors.Wrapf(err, coreerrors.CodeUnavailable, "connect %s", m.cfg.Name)
	}

	if m.hasHandle {
		if cerr := m.connector.Close(m.handle); cerr != nil {
			m.logger.WithError(cerr).Debug("close replaced handle")
		}
	}
	m.handle = h
	m.hasHandle = true
	m.ready = true
	m.ticket.Reset()
	m.transitionLocked(StateConnected)
	m.startHeartbeatLocked()

	if m.everConnected {
		m.logger.Info("connection resumed")
	} else {
		m.logger.Info("connected")
	}
	m.everConnected = true
	return nil
}

// Acquire probes the handle and returns it when healthy. Otherwise it
// schedules a soft retry and fails immediately with
// ErrConnectionUnavailable.
func (m *Manager[H]) Acquire(ctx context.Context) (H, error) {
	var zero H

	m.mu.Lock()
	if m.state == StateDisconnected {
		m.metrics.refused(m.cfg.Name)
		m.mu.Unlock()
		return zero, ErrConnectionUnavailable
	}
	if !m.hasHandle {
		if !m.dialing {
			m.scheduleRetryLocked(true)
		}
		m.metrics.refused(m.cfg.Name)
		m.mu.Unlock()
		return zero, ErrConnectionUnavailable
	}
	h := m.handle
	epoch := m.epoch
	m.mu.Unlock()

	pctx, cancel := context.WithTimeout(ctx, m.cfg.ProbeTimeout)
	err := m.connector.Ping(pctx, h)
	cancel()
	if err == nil {
		return h, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.metrics.probeFailure(m.cfg.Name, "acquire")
	m.metrics.refused(m.cfg.Name)
	if epoch == m.epoch {
		m.ready = false
		if m.state == StateConnected {
			m.transitionLocked(StateDegraded)
			m.stopHeartbeatLocked()
		}
		if !m.dialing {
			delay := m.scheduleRetryLocked(true)
			m.logger.WithError(err).Warnf("probe failed, reconnecting in %s", delay)
		}
	}
	return zero, ErrConnectionUnavailable
}

// ForceReconnect schedules a backoff retry regardless of current health.
func (m *Manager[H]) ForceReconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateDisconnected || m.dialing {
		return
	}
	delay := m.scheduleRetryLocked(false)
	m.logger.Infof("reconnect requested, retrying in %s", delay)
}

// Disconnect cancels pending work, closes the handle and returns to
// Disconnected. A dial in flight is discarded when it completes.
func (m *Manager[H]) Disconnect() error {
	m.mu.Lock()
	m.epoch++
	m.ticket.Reset()
	m.stopHeartbeatLocked()
	h, had := m.handle, m.hasHandle
	var zero H
	m.handle = zero
	m.hasHandle = false
	m.ready = false
	m.dialing = false
	m.transitionLocked(StateDisconnected)
	m.mu.Unlock()

	if !had {
		return nil
	}
	m.logger.Info("disconnected")
	return m.connector.Close(h)
}

// IsReady reports whether the last connect selected its database and no
// probe has failed since. The value may be stale.
func (m *Manager[H]) IsReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

func (m *Manager[H]) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Attempt is the current retry attempt counter.
func (m *Manager[H]) Attempt() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ticket.Attempt()
}

func (m *Manager[H]) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{
		Name:    m.cfg.Name,
		State:   m.state.String(),
		Ready:   m.ready,
		Attempt: m.ticket.Attempt(),
	}
}

func (m *Manager[H]) retryFired(gen uint64) {
	m.mu.Lock()
	if !m.ticket.Claim(gen) || m.dialing || m.state == StateDisconnected {
		m.mu.Unlock()
		return
	}
	m.transitionLocked(StateConnecting)
	m.dialing = true
	epoch := m.epoch
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ProbeTimeout)
	defer cancel()
	_ = m.dial(ctx, epoch)
}

func (m *Manager[H]) scheduleRetryLocked(soft bool) time.Duration {
	m.metrics.retry(m.cfg.Name, soft)
	return m.ticket.Schedule(m.retryFired, soft)
}

func (m *Manager[H]) startHeartbeatLocked() {
	m.stopHeartbeatLocked()
	if m.cfg.HeartbeatInterval <= 0 {
		return
	}
	gen := m.hbGen
	m.heartbeat = m.sched.AfterFunc(m.cfg.HeartbeatInterval, func() { m.beat(gen) })
}

func (m *Manager[H]) stopHeartbeatLocked() {
	m.hbGen++
	if m.heartbeat != nil {
		m.heartbeat.Stop()
		m.heartbeat = nil
	}
}

func (m *Manager[H]) beat(gen uint64) {
	m.mu.Lock()
	if gen != m.hbGen || !m.hasHandle {
		m.mu.Unlock()
		return
	}
	m.heartbeat = nil
	h := m.handle
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ProbeTimeout)
	err := m.connector.Ping(ctx, h)
	cancel()

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.hbGen {
		return
	}
	if err == nil {
		if m.state == StateConnected {
			m.startHeartbeatLocked()
		}
		return
	}

	m.metrics.probeFailure(m.cfg.Name, "heartbeat")
	m.ready = false
	if m.state == StateConnected {
		m.transitionLocked(StateDegraded)
	}
	if !m.dialing {
		delay := m.scheduleRetryLocked(false)
		m.logger.WithError(err).Warnf("heartbeat failed, reconnecting in %s", delay)
	}
}

func (m *Manager[H]) transitionLocked(s State) {
	if m.state == s {
		return
	}
	m.logger.Debugf("state %s -> %s", m.state, s)
	m.state = s
	m.metrics.setState(m.cfg.Name, s)
}
