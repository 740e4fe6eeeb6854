package wsession

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/wsession/pkg/supervisor"
)

// Option is a functional option for configuring a Session.
type Option[C, I, O any] func(*Session[C, I, O])

// WithDecoder sets the inbound decoder. Required.
func WithDecoder[C, I, O any](decode DecodeFunc[C, I]) Option[C, I, O] {
	return func(s *Session[C, I, O]) {
		s.decode = decode
	}
}

// WithHandler sets the business-logic callback. Required.
func WithHandler[C, I, O any](handler HandlerFunc[C, I, O]) Option[C, I, O] {
	return func(s *Session[C, I, O]) {
		s.handler = handler
	}
}

// WithEncoder sets the outbound encoder. Required.
func WithEncoder[C, I, O any](encode EncodeFunc[O]) Option[C, I, O] {
	return func(s *Session[C, I, O]) {
		s.encode = encode
	}
}

// WithPolicy sets the error supervision policy.
// The default maps every failure to Stop.
func WithPolicy[C, I, O any](policy supervisor.Policy) Option[C, I, O] {
	return func(s *Session[C, I, O]) {
		if policy != nil {
			s.policy = policy
		}
	}
}

// WithCloseCallback sets the function fired exactly once on teardown.
func WithCloseCallback[C, I, O any](fn CloseFunc[C, I]) Option[C, I, O] {
	return func(s *Session[C, I, O]) {
		if fn != nil {
			s.onClose = fn
		}
	}
}

// WithLogger sets the structured logger; slog.Default is used otherwise.
func WithLogger[C, I, O any](log *slog.Logger) Option[C, I, O] {
	return func(s *Session[C, I, O]) {
		if log != nil {
			s.log = log
		}
	}
}

// WithConfig replaces the whole configuration.
func WithConfig[C, I, O any](cfg Config) Option[C, I, O] {
	return func(s *Session[C, I, O]) {
		s.cfg = cfg
	}
}

// WithQueueCapacity sets the outbound queue capacity.
func WithQueueCapacity[C, I, O any](capacity int) Option[C, I, O] {
	return func(s *Session[C, I, O]) {
		s.cfg.QueueCapacity = capacity
	}
}

// WithDrainInterval sets the empty-queue drain retry interval.
func WithDrainInterval[C, I, O any](d time.Duration) Option[C, I, O] {
	return func(s *Session[C, I, O]) {
		s.cfg.DrainInterval = d
	}
}

// WithStrictTimeout sets the fragment-reassembly timeout.
func WithStrictTimeout[C, I, O any](d time.Duration) Option[C, I, O] {
	return func(s *Session[C, I, O]) {
		s.cfg.StrictTimeout = d
	}
}
