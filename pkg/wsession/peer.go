package wsession

import "log/slog"

// Peer is the session surface handed to business-logic handlers.
// It is safe for concurrent use by any number of handler goroutines.
type Peer[C, I, O any] interface {
	// Send encodes out and enqueues it for delivery. It never blocks the
	// caller: it returns false when the outbound queue is at capacity, when
	// encoding fails, or when the session is closed. Accepted messages are
	// delivered in accept order.
	Send(out O) bool

	// Close requests explicit session termination.
	Close()

	// Context returns the opaque value supplied at session creation.
	Context() C

	// LastInput returns the most recently decoded inbound message.
	// The second return value is false if nothing was decoded yet.
	LastInput() (I, bool)
}

type sessionPeer[C, I, O any] struct {
	session *Session[C, I, O]
}

func (p *sessionPeer[C, I, O]) Send(out O) bool {
	s := p.session
	if s.closed.Load() {
		return false
	}

	payload, err := s.encode(out)
	if err != nil {
		s.log.Warn("failed to encode outbound message", slog.String("error", err.Error()))
		return false
	}

	if !s.queue.Enqueue(payload) {
		s.log.Warn("outbound queue full, message rejected", slog.Int("capacity", s.queue.Cap()))
		return false
	}
	return true
}

func (p *sessionPeer[C, I, O]) Close() {
	p.session.Close()
}

func (p *sessionPeer[C, I, O]) Context() C {
	return p.session.cv
}

func (p *sessionPeer[C, I, O]) LastInput() (I, bool) {
	if ptr := p.session.lastInput.Load(); ptr != nil {
		return *ptr, true
	}
	var zero I
	return zero, false
}
