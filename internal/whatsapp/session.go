package whatsapp

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/axisvitor/sistema-cobranca/internal/domain"
)

// State is the connection state of the WhatsApp session.
type State string

const (
	StateDisconnected State = "DISCONNECTED"
	StateConnecting   State = "CONNECTING"
	StateConnected    State = "CONNECTED"
	// StateFailed is terminal: every send fails fast until Reinitialize.
	StateFailed State = "FAILED"
)

// EventType identifies session-level events surfaced to the operator.
type EventType string

const (
	EventStateChanged    EventType = "state_changed"
	EventPairingRequired EventType = "pairing_required"
)

// Event is a session notification consumed by a single dispatcher
// (typically the operator log sink in main).
type Event struct {
	Type        EventType
	State       State
	PairingCode string
}

// Status is the externally visible session state snapshot.
type Status struct {
	State             State `json:"status"`
	ReconnectAttempts int   `json:"reconnect_attempts"`
}

// SessionConfig carries the tunables for a Session. Zero values get
// sensible defaults matching the production setup.
type SessionConfig struct {
	MaxReconnect int           // consecutive failed connects before Failed (default 5)
	SendTimeout  time.Duration // upper bound on one in-flight send (default 30s)
	SendRate     rate.Limit    // outbound pacing; 0 means unlimited
	CountryCode  string        // prepended by NormalizePhone (default "55")
}

func (c SessionConfig) withDefaults() SessionConfig {
	if c.MaxReconnect == 0 {
		c.MaxReconnect = 5
	}
	if c.SendTimeout == 0 {
		c.SendTimeout = 30 * time.Second
	}
	if c.SendRate == 0 {
		c.SendRate = rate.Inf
	}
	if c.CountryCode == "" {
		c.CountryCode = DefaultCountryCode
	}
	return c
}

// Session wraps the single external WhatsApp connection with a bounded
// reconnect state machine. All outbound sends are serialized: the underlying
// session is single-threaded by nature, so only one send may be in flight.
type Session struct {
	transport Transport
	cfg       SessionConfig
	limiter   *rate.Limiter
	logger    *zap.Logger

	mu                sync.Mutex // guards state and reconnectAttempts
	state             State
	reconnectAttempts int

	sendMu sync.Mutex // serializes sends against the external session

	reconnecting atomic.Bool

	events chan Event
}

func NewSession(transport Transport, cfg SessionConfig, logger *zap.Logger) *Session {
	cfg = cfg.withDefaults()
	return &Session{
		transport: transport,
		cfg:       cfg,
		limiter:   rate.NewLimiter(cfg.SendRate, 1),
		logger:    logger,
		state:     StateDisconnected,
		events:    make(chan Event, 16),
	}
}

// Connect drives Disconnected -> Connecting -> Connected. A failure lands
// back on Disconnected and counts one reconnect attempt; reaching the
// attempt cap moves the session to terminal Failed. A successful connect
// resets the attempt counter.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateFailed:
		s.mu.Unlock()
		return domain.ErrSessionFailed
	case StateConnecting, StateConnected:
		s.mu.Unlock()
		return nil
	}
	s.setStateLocked(StateConnecting)
	s.mu.Unlock()

	err := s.transport.Connect(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.reconnectAttempts++
		if s.reconnectAttempts >= s.cfg.MaxReconnect {
			s.setStateLocked(StateFailed)
			s.logger.Error("max reconnect attempts reached, session failed",
				zap.Int("attempts", s.reconnectAttempts), zap.Error(err))
			return fmt.Errorf("%w: %v", domain.ErrSessionFailed, err)
		}
		s.setStateLocked(StateDisconnected)
		return fmt.Errorf("connect whatsapp: %w", err)
	}

	s.reconnectAttempts = 0
	s.setStateLocked(StateConnected)
	s.logger.Info("whatsapp session connected")
	return nil
}

// Run is the dispatcher loop consuming transport events: pairing requests
// are forwarded to the session event channel, disconnects trigger the
// bounded automatic reconnect. Blocks until ctx is cancelled or the
// transport closes its event stream.
func (s *Session) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.transport.Events():
			if !ok {
				return
			}
			switch ev.Type {
			case TransportPairingRequired:
				s.logger.Info("qr code generated, scan to authenticate")
				s.emit(Event{Type: EventPairingRequired, PairingCode: ev.PairingCode})
			case TransportDisconnected:
				s.mu.Lock()
				if s.state == StateConnected {
					s.setStateLocked(StateDisconnected)
				}
				s.mu.Unlock()
				// Reconnect off the dispatcher goroutine so transport
				// events (a fresh pairing request, say) keep flowing
				// while connects are in progress.
				if s.reconnecting.CompareAndSwap(false, true) {
					go func() {
						defer s.reconnecting.Store(false)
						s.reconnect(ctx)
					}()
				}
			}
		}
	}
}

func (s *Session) reconnect(ctx context.Context) {
	for {
		s.mu.Lock()
		state, attempts := s.state, s.reconnectAttempts
		s.mu.Unlock()
		if state == StateConnected || state == StateFailed {
			return
		}

		s.logger.Info("reconnect attempt",
			zap.Int("attempt", attempts+1), zap.Int("max", s.cfg.MaxReconnect))
		if err := s.Connect(ctx); err == nil {
			return
		}

		delay := time.Duration(attempts+1) * time.Second
		if delay > 5*time.Second {
			delay = 5 * time.Second
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

// Send delivers text to the recipient, normalizing the phone number first.
// It requires the session to be Connected: there is no implicit queueing
// here, callers own their retry policy. The returned detail is the provider
// message id.
func (s *Session) Send(ctx context.Context, recipient, text string) (string, error) {
	s.mu.Lock()
	switch s.state {
	case StateFailed:
		s.mu.Unlock()
		return "", domain.ErrSessionFailed
	case StateConnected:
		s.mu.Unlock()
	default:
		s.mu.Unlock()
		return "", domain.ErrNotConnected
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	// The original design had no bound on an in-flight send; the timeout
	// keeps a hung gateway from starving the delivery tick.
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	to := NormalizePhone(recipient, s.cfg.CountryCode)
	detail, err := s.transport.Send(ctx, to, text)
	if err != nil {
		return "", fmt.Errorf("send to %s: %w", to, err)
	}
	return detail, nil
}

// Reinitialize clears a Failed session and attempts a fresh connect.
// This is the only way out of the Failed state.
func (s *Session) Reinitialize(ctx context.Context) error {
	s.mu.Lock()
	s.reconnectAttempts = 0
	s.setStateLocked(StateDisconnected)
	s.mu.Unlock()
	return s.Connect(ctx)
}

// Status returns the current state and reconnect attempt counter.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{State: s.state, ReconnectAttempts: s.reconnectAttempts}
}

// Events exposes session notifications (state changes, pairing requests).
// Intended for a single consumer; events are dropped if nobody drains them.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Close releases the underlying transport.
func (s *Session) Close() error {
	return s.transport.Close()
}

func (s *Session) setStateLocked(st State) {
	if s.state == st {
		return
	}
	s.state = st
	s.emit(Event{Type: EventStateChanged, State: st})
}

func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
	}
}
