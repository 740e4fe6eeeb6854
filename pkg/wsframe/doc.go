// Package wsframe models raw inbound WebSocket units and reassembles
// fragmented ones into complete payloads under a bounded wait.
//
// A Unit is one logical data message as surfaced by the transport: either
// already complete (Payload set) or still streaming off the wire (Reader
// set, fragments pending). Binary units take the same path as text; their
// payload is handed to the decoder as UTF-8 bytes.
//
// The Assembler turns any Unit into a complete payload:
//
//	asm := wsframe.NewAssembler()
//	payload, err := asm.Strict(ctx, unit)
//	if errors.Is(err, wsframe.ErrReassemblyTimeout) {
//		// fragments did not complete within the bound; surface as a failure
//	}
//
// Reassembly never hangs: it is bounded by the assembler's timeout (15s by
// default) and by a maximum message size.
package wsframe
