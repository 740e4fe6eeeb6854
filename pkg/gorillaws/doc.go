// Package gorillaws binds wsession sessions to gorilla/websocket
// connections: it is the lifecycle glue wiring the transport's inbound
// stream, the outbound sink, and the session together, and tearing all of it
// down when either side terminates.
//
// Typical wiring on an HTTP router:
//
//	upgrader := gorillaws.DefaultUpgrader()
//	mux.Handle("/ws", gorillaws.Handler(upgrader,
//		func(r *http.Request) (*wsession.Session[AuthInfo, Command, Reply], error) {
//			auth := authFromRequest(r)
//			return wsession.New[AuthInfo, Command, Reply](auth, opts...)
//		}))
//
// The inbound and outbound paths are coupled: a read error, a peer close,
// or session teardown each close the other side, so no half-open session
// survives. Ping and pong control frames are absorbed by gorilla's default
// handlers and never reach the session.
//
// Fragmented messages are delivered to the session as streamed units; the
// remaining fragments are read under a read deadline derived from the
// session's strict timeout, so a stalled fragment train surfaces as a decode
// failure (its cause matches os.ErrDeadlineExceeded) instead of hanging the
// read loop.
package gorillaws
