package wsession

import "errors"

var (
	// ErrNilDecoder is returned by New when no decoder is configured.
	ErrNilDecoder = errors.New("wsession: decoder is required")

	// ErrNilHandler is returned by New when no handler is configured.
	ErrNilHandler = errors.New("wsession: handler is required")

	// ErrNilEncoder is returned by New when no encoder is configured.
	ErrNilEncoder = errors.New("wsession: encoder is required")

	// ErrAlreadyStarted is returned by Start when the control loop is
	// already running.
	ErrAlreadyStarted = errors.New("wsession: session already started")

	// ErrNotStarted is returned by methods that need a running control loop.
	ErrNotStarted = errors.New("wsession: session not started")

	// ErrSessionClosed is returned when the session has reached its
	// terminal state and can no longer accept work.
	ErrSessionClosed = errors.New("wsession: session closed")

	// ErrNilSink is returned by Connect when the outbound sink is nil.
	ErrNilSink = errors.New("wsession: outbound sink is required")
)
