package wsframe

import "io"

// Kind identifies the wire-level type of an inbound data unit.
type Kind int

const (
	// Text is a UTF-8 text data message.
	Text Kind = iota + 1
	// Binary is a binary data message; decoded as UTF-8 text downstream.
	Binary
)

// String returns a human-readable kind name for log attributes.
func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// Unit is one logical inbound data message.
//
// Exactly one of Payload or Reader is set. A complete unit carries its full
// payload; a streamed unit exposes a Reader that yields the payload as
// remaining fragments arrive on the wire.
type Unit struct {
	Kind    Kind
	Payload []byte
	Reader  io.Reader
}

// Complete builds a unit whose payload is fully available.
func Complete(kind Kind, payload []byte) Unit {
	return Unit{Kind: kind, Payload: payload}
}

// Streamed builds a unit whose payload arrives through r as fragments land.
func Streamed(kind Kind, r io.Reader) Unit {
	return Unit{Kind: kind, Reader: r}
}

// IsStreamed reports whether the unit still needs reassembly.
func (u Unit) IsStreamed() bool {
	return u.Reader != nil && u.Payload == nil
}
