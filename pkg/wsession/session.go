package wsession

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/wsession/pkg/outqueue"
	"github.com/dmitrymomot/wsession/pkg/supervisor"
	"github.com/dmitrymomot/wsession/pkg/wsframe"
)

// State names a phase of the session lifecycle.
type State string

const (
	// StateStarting is the initial state: no outbound sink bound yet.
	StateStarting State = "starting"
	// StateOpen is normal operation.
	StateOpen State = "open"
	// StateClosed is terminal and never re-entered.
	StateClosed State = "closed"
)

// DecodeFunc converts one complete inbound payload into a typed input.
// It runs on the inbound path, outside the control loop, and may suspend.
// Binary payloads arrive through the same path as text.
type DecodeFunc[C, I any] func(ctx context.Context, cv C, payload []byte) (I, error)

// HandlerFunc processes one decoded input. Each invocation runs on its own
// goroutine, so a slow handler never blocks delivery of subsequent inputs.
// A returned error becomes a handler failure routed through the supervision
// policy; a panic is recovered and treated the same way.
type HandlerFunc[C, I, O any] func(ctx context.Context, p Peer[C, I, O], in I) error

// EncodeFunc converts one typed outbound value to wire-ready form. Encoding
// happens once, at Send time, before the value enters the outbound queue.
type EncodeFunc[O any] func(out O) ([]byte, error)

// CloseFunc is invoked exactly once when the session reaches its terminal
// state, regardless of which path triggered teardown. last is the most
// recently decoded input, or nil if none was ever decoded.
type CloseFunc[C, I any] func(cv C, last *I)

// OutboundSink is the transport collaborator the session drains into.
// Send pushes one wire-ready unit; its return is the acknowledgement that
// gates the next pop from the queue. Done is closed when the outbound side
// of the transport terminates; the session subscribes to it once, at bind
// time, and treats it as authoritative for "this connection is gone".
type OutboundSink interface {
	Send(payload []byte) error
	Done() <-chan struct{}
	Close() error
}

// Internal control-loop events. All session state transitions happen on the
// loop goroutine, one event at a time.
type (
	evConnect struct{ sink OutboundSink }
	evFailure struct{ failure *Failure }
	evClose   struct{}
)

type evInput[I any] struct{ in I }

const mailboxSize = 32

// Session is the per-connection state machine. Exactly one Session exists
// per physical connection; it owns the outbound queue and is destroyed when
// the connection closes by any path.
type Session[C, I, O any] struct {
	id      uuid.UUID
	cfg     Config
	log     *slog.Logger
	cv      C
	decode  DecodeFunc[C, I]
	handler HandlerFunc[C, I, O]
	encode  EncodeFunc[O]
	policy  supervisor.Policy
	onClose CloseFunc[C, I]
	asm     *wsframe.Assembler

	queue *outqueue.Queue[[]byte]

	events  chan any
	drainCh chan struct{}
	done    chan struct{}

	started atomic.Bool
	closed  atomic.Bool

	stateMu sync.RWMutex
	state   State

	lastInput atomic.Pointer[I]

	// Loop-owned fields, touched only by the control goroutine.
	sink       OutboundSink
	sinkDone   <-chan struct{}
	peer       *sessionPeer[C, I, O]
	retryTimer *time.Timer

	terminalErr error // written before done is closed, read after
}

// New creates a session around the given context value. The context value is
// opaque and immutable: it is shared by reference with every decode, handler,
// and close invocation and never mutated by the session.
func New[C, I, O any](cv C, opts ...Option[C, I, O]) (*Session[C, I, O], error) {
	s := &Session[C, I, O]{
		id:      uuid.New(),
		cfg:     DefaultConfig(),
		log:     slog.Default(),
		cv:      cv,
		policy:  supervisor.StopAll(),
		onClose: func(C, *I) {},
		events:  make(chan any, mailboxSize),
		drainCh: make(chan struct{}, 1),
		done:    make(chan struct{}),
		state:   StateStarting,
	}
	for _, opt := range opts {
		opt(s)
	}

	switch {
	case s.decode == nil:
		return nil, ErrNilDecoder
	case s.handler == nil:
		return nil, ErrNilHandler
	case s.encode == nil:
		return nil, ErrNilEncoder
	}

	s.cfg = s.cfg.withDefaults()
	s.log = s.log.With(slog.String("session_id", s.id.String()))
	s.queue = outqueue.New[[]byte](s.cfg.QueueCapacity)
	s.asm = wsframe.NewAssembler(
		wsframe.WithTimeout(s.cfg.StrictTimeout),
		wsframe.WithMaxMessageSize(s.cfg.MaxMessageSize),
	)
	return s, nil
}

// ID returns the session's identifier, as used in log attributes.
func (s *Session[C, I, O]) ID() uuid.UUID {
	return s.id
}

// Context returns the opaque context value supplied at creation.
func (s *Session[C, I, O]) Context() C {
	return s.cv
}

// Config returns the session's effective configuration, with defaults
// applied. Transport bindings use it to align wire-level limits.
func (s *Session[C, I, O]) Config() Config {
	return s.cfg
}

// State returns the current lifecycle state.
func (s *Session[C, I, O]) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

func (s *Session[C, I, O]) setState(st State) {
	s.stateMu.Lock()
	s.state = st
	s.stateMu.Unlock()
}

// Done is closed once the session reaches its terminal state.
func (s *Session[C, I, O]) Done() <-chan struct{} {
	return s.done
}

// Err returns the terminal cause after Done is closed: the fatal Failure for
// policy-stopped or transport failures, nil for explicit close and link
// termination. Before the session closes it returns nil.
func (s *Session[C, I, O]) Err() error {
	select {
	case <-s.done:
		return s.terminalErr
	default:
		return nil
	}
}

// Start launches the control loop in the Starting state.
// Cancelling ctx tears the session down as if explicitly closed.
func (s *Session[C, I, O]) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	go s.run(ctx)
	return nil
}

// Connect binds the outbound sink and moves the session to Open: the sink's
// termination signal is watched from here on and an initial drain request is
// issued. Connecting an already-closed session returns ErrSessionClosed.
func (s *Session[C, I, O]) Connect(sink OutboundSink) error {
	if sink == nil {
		return ErrNilSink
	}
	if !s.started.Load() {
		return ErrNotStarted
	}
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	select {
	case s.events <- evConnect{sink: sink}:
		return nil
	case <-s.done:
		return ErrSessionClosed
	}
}

// Close requests explicit session termination. It is safe to call from any
// goroutine, including handlers, and is idempotent.
func (s *Session[C, I, O]) Close() {
	select {
	case s.events <- evClose{}:
	case <-s.done:
	}
}

// Deliver feeds one raw inbound unit through reassembly and decode, then
// hands the typed input to the control loop. It runs on the caller's
// goroutine so per-connection arrival order is preserved; it blocks while a
// fragmented unit completes, bounded by the strict timeout.
//
// Decode errors and panics never propagate: they are normalized into decode
// failures and routed through the supervision policy. Deliver returns
// ErrSessionClosed once the session is terminal so read loops know to stop.
func (s *Session[C, I, O]) Deliver(ctx context.Context, unit wsframe.Unit) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}

	in, err := s.decodeUnit(ctx, unit)
	if err != nil {
		s.fail(&Failure{Kind: FailureDecode, Cause: err})
		return nil
	}

	select {
	case s.events <- evInput[I]{in: in}:
		return nil
	case <-s.done:
		return ErrSessionClosed
	}
}

// decodeUnit reassembles and decodes one unit, converting panics into errors
// so a misbehaving decoder cannot crash the inbound pipeline.
func (s *Session[C, I, O]) decodeUnit(ctx context.Context, unit wsframe.Unit) (in I, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in decoder: %v", r)
		}
	}()

	payload, err := s.asm.Strict(ctx, unit)
	if err != nil {
		return in, err
	}
	return s.decode(ctx, s.cv, payload)
}

// fail routes a failure record into the control loop.
func (s *Session[C, I, O]) fail(f *Failure) {
	select {
	case s.events <- evFailure{failure: f}:
	case <-s.done:
	}
}

// run is the control loop: the one goroutine allowed to mutate session
// state. Every path out of the loop goes through shutdown.
func (s *Session[C, I, O]) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.shutdown(nil)
			return
		case <-s.sinkDone:
			// Link termination: the outbound side is the authority for
			// "this connection is gone".
			s.log.Debug("outbound link terminated")
			s.shutdown(nil)
			return
		case <-s.drainCh:
			if s.State() == StateOpen && !s.drainQueue() {
				return
			}
		case ev := <-s.events:
			if !s.handleEvent(ctx, ev) {
				return
			}
		}
	}
}

// handleEvent processes one transition; it returns false when the session
// reached its terminal state and the loop must exit.
func (s *Session[C, I, O]) handleEvent(ctx context.Context, ev any) bool {
	switch ev := ev.(type) {
	case evConnect:
		if s.State() != StateStarting {
			s.log.Debug("ignoring connect", slog.String("state", string(s.State())))
			return true
		}
		s.sink = ev.sink
		s.sinkDone = ev.sink.Done()
		s.peer = &sessionPeer[C, I, O]{session: s}
		s.setState(StateOpen)
		s.log.Debug("session open")
		s.requestDrain()
		return true

	case evInput[I]:
		if s.State() != StateOpen {
			s.log.Debug("dropping input", slog.String("state", string(s.State())))
			return true
		}
		in := ev.in
		s.lastInput.Store(&in)
		s.dispatch(ctx, in)
		return true

	case evFailure:
		return s.superviseFailure(ev.failure)

	case evClose:
		s.shutdown(nil)
		return false

	default:
		// Unknown messages (e.g. keep-alive noise surfaced by the
		// transport) are absorbed without a state change.
		s.log.Debug("absorbing unknown event", slog.Any("event", ev))
		return true
	}
}

// dispatch runs the business-logic handler concurrently so the loop keeps
// servicing drain, failure, and termination events while it works.
func (s *Session[C, I, O]) dispatch(ctx context.Context, in I) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("handler panicked", slog.Any("panic", r))
				s.fail(&Failure{Kind: FailureHandler, Cause: fmt.Errorf("panic in handler: %v", r)})
			}
		}()

		if err := s.handler(ctx, s.peer, in); err != nil {
			s.fail(&Failure{Kind: FailureHandler, Cause: err})
		}
	}()
}

// superviseFailure applies the supervision policy to a failure record.
// Transport failures bypass the policy. Returns false when the session must
// close.
func (s *Session[C, I, O]) superviseFailure(f *Failure) bool {
	if s.State() == StateStarting {
		s.log.Error("failure before connect", slog.String("error", f.Error()))
		s.shutdown(f)
		return false
	}

	if f.Kind == FailureTransport {
		s.log.Error("transport failure", slog.String("error", f.Error()))
		s.shutdown(f)
		return false
	}

	decision, ok := s.policy.Decide(f.Cause)
	if !ok {
		s.log.Error("no supervision rule for failure, stopping",
			slog.String("kind", string(f.Kind)),
			slog.String("error", f.Error()))
		s.shutdown(f)
		return false
	}

	switch decision {
	case supervisor.Resume:
		s.log.Debug("resuming after failure",
			slog.String("kind", string(f.Kind)),
			slog.String("error", f.Error()))
		return true
	case supervisor.Restart:
		s.log.Warn("restart not supported, resuming",
			slog.String("kind", string(f.Kind)),
			slog.String("error", f.Error()))
		return true
	default: // supervisor.Stop
		s.log.Error("stopping session on failure",
			slog.String("kind", string(f.Kind)),
			slog.String("error", f.Error()))
		s.shutdown(f)
		return false
	}
}

// drainQueue pops and sends until the queue is empty; each synchronous Send
// return acknowledges the previous unit and gates the next pop. An empty
// queue schedules a single retry instead of busy-spinning. Returns false on
// transport failure, which closes the session.
func (s *Session[C, I, O]) drainQueue() bool {
	for {
		payload, ok := s.queue.TryDequeue()
		if !ok {
			s.scheduleDrainRetry()
			return true
		}
		if err := s.sink.Send(payload); err != nil {
			s.log.Error("outbound send failed", slog.String("error", err.Error()))
			s.shutdown(&Failure{Kind: FailureTransport, Cause: err})
			return false
		}
	}
}

// requestDrain nudges the drain loop; the cap-1 channel coalesces requests.
func (s *Session[C, I, O]) requestDrain() {
	select {
	case s.drainCh <- struct{}{}:
	default:
	}
}

// scheduleDrainRetry arms a single retry timer for the configured interval.
// The previous timer has always fired or been stopped by the time the loop
// gets here, so plain replacement is safe.
func (s *Session[C, I, O]) scheduleDrainRetry() {
	s.retryTimer = time.AfterFunc(s.cfg.DrainInterval, func() {
		s.requestDrain()
	})
}

// shutdown moves the session to Closed exactly once: the outbound queue is
// released, the close callback fires with the last decoded input, and the
// transport side is told to go away. Teardown failures are logged and never
// prevent the session from reaching its terminal state.
func (s *Session[C, I, O]) shutdown(cause error) {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.setState(StateClosed)
	s.terminalErr = cause

	if s.retryTimer != nil {
		s.retryTimer.Stop()
	}
	s.queue.Close()

	func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("close callback panicked", slog.Any("panic", r))
			}
		}()
		s.onClose(s.cv, s.lastInput.Load())
	}()

	if s.sink != nil {
		if err := s.sink.Close(); err != nil {
			s.log.Debug("closing outbound sink", slog.String("error", err.Error()))
		}
	}

	s.log.Debug("session closed")
	close(s.done)
}
