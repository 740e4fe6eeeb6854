package wsframe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"
)

const (
	// DefaultTimeout bounds how long the assembler waits for the remaining
	// fragments of a streamed unit.
	DefaultTimeout = 15 * time.Second

	// DefaultMaxMessageSize caps the reassembled payload size.
	DefaultMaxMessageSize = 1 << 20 // 1 MiB
)

// Assembler turns inbound units into complete payloads, waiting for
// fragmented units up to a bounded timeout. The zero value is not usable;
// construct with NewAssembler. An Assembler is safe for concurrent use.
type Assembler struct {
	timeout time.Duration
	maxSize int64
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithTimeout sets the reassembly timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) AssemblerOption {
	return func(a *Assembler) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithMaxMessageSize sets the payload size cap. Non-positive values are ignored.
func WithMaxMessageSize(n int64) AssemblerOption {
	return func(a *Assembler) {
		if n > 0 {
			a.maxSize = n
		}
	}
}

// NewAssembler creates an assembler with the default timeout and size cap.
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		timeout: DefaultTimeout,
		maxSize: DefaultMaxMessageSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Strict returns the complete payload of u.
//
// Complete units return immediately after a size check. Streamed units are
// read to EOF on a separate goroutine while Strict waits, bounded by the
// assembler timeout and by ctx. Exceeding the timeout yields
// ErrReassemblyTimeout; the abandoned read goroutine ends on its own when
// the transport closes the underlying reader.
func (a *Assembler) Strict(ctx context.Context, u Unit) ([]byte, error) {
	if u.Payload != nil {
		if int64(len(u.Payload)) > a.maxSize {
			return nil, fmt.Errorf("%w: %d bytes", ErrMessageTooLarge, len(u.Payload))
		}
		return u.Payload, nil
	}
	if u.Reader == nil {
		return nil, ErrEmptyUnit
	}

	type result struct {
		payload []byte
		err     error
	}

	done := make(chan result, 1)
	go func() {
		var buf bytes.Buffer
		// Read one byte past the cap to distinguish "exactly at cap" from
		// "over cap" without consuming the whole oversized message.
		n, err := io.Copy(&buf, io.LimitReader(u.Reader, a.maxSize+1))
		switch {
		case err != nil:
			done <- result{err: fmt.Errorf("wsframe: reading fragments: %w", err)}
		case n > a.maxSize:
			done <- result{err: fmt.Errorf("%w: over %d bytes", ErrMessageTooLarge, a.maxSize)}
		default:
			done <- result{payload: buf.Bytes()}
		}
	}()

	timer := time.NewTimer(a.timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		return res.payload, res.err
	case <-timer.C:
		return nil, ErrReassemblyTimeout
	case <-ctx.Done():
		return nil, fmt.Errorf("wsframe: reassembly canceled: %w", ctx.Err())
	}
}

// Timeout returns the configured reassembly timeout.
func (a *Assembler) Timeout() time.Duration {
	return a.timeout
}
