package wsession

import "fmt"

// FailureKind classifies where a session failure originated.
type FailureKind string

const (
	// FailureDecode covers malformed or un-decodable inbound content,
	// including fragment-reassembly timeouts.
	FailureDecode FailureKind = "decode"

	// FailureHandler covers errors and panics raised by business logic
	// while processing a decoded input.
	FailureHandler FailureKind = "handler"

	// FailureTransport covers errors reported by the underlying stream.
	// Transport failures bypass the supervision policy and always close
	// the session.
	FailureTransport FailureKind = "transport"
)

// Failure is a tagged session error carrying its originating cause.
// Decode and handler failures are routed through the supervision policy;
// the policy decides on the Cause, so wrapped sentinels keep matching.
type Failure struct {
	Kind  FailureKind
	Cause error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("wsession: %s failure: %v", f.Kind, f.Cause)
}

func (f *Failure) Unwrap() error {
	return f.Cause
}
