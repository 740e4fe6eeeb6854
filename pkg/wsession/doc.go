// Package wsession manages one stateful session per WebSocket connection:
// it decodes inbound frames into typed application messages, dispatches them
// to business logic without blocking the connection, and drains typed
// outbound messages back onto the wire under explicit backpressure, with a
// pluggable policy for recovering from or terminating on error.
//
// Each session is a small finite-state machine (Starting -> Open -> Closed)
// driven by a single control goroutine, so session state needs no internal
// locking. Two kinds of work run outside that loop: inbound decoding, which
// may suspend, and the business-logic handler, which is dispatched on its
// own goroutine per input so a slow handler never stalls delivery of
// subsequent messages.
//
// Basic usage:
//
//	sess, err := wsession.New[AuthInfo, Command, Reply](auth,
//		wsession.WithDecoder[AuthInfo, Command, Reply](decodeCommand),
//		wsession.WithHandler[AuthInfo, Command, Reply](handleCommand),
//		wsession.WithEncoder[AuthInfo, Command, Reply](encodeReply),
//		wsession.WithPolicy[AuthInfo, Command, Reply](policy),
//	)
//	if err != nil {
//		return err
//	}
//	if err := sess.Start(ctx); err != nil {
//		return err
//	}
//	if err := sess.Connect(sink); err != nil {
//		return err
//	}
//
// The transport side feeds frames through Deliver and is torn down when
// Done() is closed. See pkg/gorillaws for a ready-made transport binding.
//
// Outbound messages flow through a bounded FIFO queue (pkg/outqueue); the
// drain loop feeds the transport one message at a time and only pops the
// next after the previous write returned, or after the drain retry timer
// fires when the queue was empty. Decode and handler errors are routed
// through the supervision policy (pkg/supervisor); transport errors and
// link termination close the session unconditionally.
package wsession
