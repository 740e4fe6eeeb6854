package wsframe

import "errors"

var (
	// ErrReassemblyTimeout indicates a fragmented unit did not complete
	// within the assembler's timeout.
	ErrReassemblyTimeout = errors.New("wsframe: fragment reassembly timed out")

	// ErrMessageTooLarge indicates a unit exceeded the assembler's size cap.
	ErrMessageTooLarge = errors.New("wsframe: message exceeds size limit")

	// ErrEmptyUnit indicates a unit with neither payload nor reader.
	ErrEmptyUnit = errors.New("wsframe: unit has no payload and no reader")
)
