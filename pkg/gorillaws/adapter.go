package gorillaws

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/wsession/pkg/wsession"
	"github.com/dmitrymomot/wsession/pkg/wsframe"
)

const (
	defaultReadBufferSize  = 4096
	defaultWriteBufferSize = 4096

	// closeGracePeriod bounds how long Close waits to hand the peer a
	// close frame before dropping the connection.
	closeGracePeriod = time.Second
)

// DefaultUpgrader returns an upgrader with sane buffer defaults.
// Integrators that need origin checks or subprotocol negotiation configure
// the returned value before use.
func DefaultUpgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  defaultReadBufferSize,
		WriteBufferSize: defaultWriteBufferSize,
	}
}

// connSink adapts a gorilla connection to wsession.OutboundSink.
// Send is synchronous: its return acknowledges the write and gates the
// session's next pop from the outbound queue.
type connSink struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
	done    chan struct{}
	once    sync.Once
}

func newConnSink(conn *websocket.Conn) *connSink {
	return &connSink{
		conn: conn,
		done: make(chan struct{}),
	}
}

func (s *connSink) Send(payload []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

func (s *connSink) Done() <-chan struct{} { return s.done }

// Close writes a close frame on a best-effort basis, drops the connection,
// and signals termination to whoever watches Done. Idempotent.
func (s *connSink) Close() error {
	var err error
	s.once.Do(func() {
		s.writeMu.Lock()
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeGracePeriod))
		s.writeMu.Unlock()

		err = s.conn.Close()
		close(s.done)
	})
	return err
}

// Serve runs one session over one connection and blocks until either side
// terminates. It starts the session if needed, binds the outbound sink, and
// feeds inbound data messages through the session's decode path in arrival
// order. Serve returns nil for a clean teardown (peer close, explicit
// session close, policy stop) and the read error otherwise.
func Serve[C, I, O any](ctx context.Context, conn *websocket.Conn, sess *wsession.Session[C, I, O]) error {
	cfg := sess.Config()
	conn.SetReadLimit(cfg.MaxMessageSize)

	if err := sess.Start(ctx); err != nil && !errors.Is(err, wsession.ErrAlreadyStarted) {
		return err
	}

	sink := newConnSink(conn)
	if err := sess.Connect(sink); err != nil {
		_ = sink.Close()
		return err
	}

	// Session teardown must unblock NextReader below, so the conn dies with
	// the session. The sink's Done channel doubles as the session's link
	// termination signal.
	go func() {
		<-sess.Done()
		_ = sink.Close()
	}()

	for {
		mt, r, err := conn.NextReader()
		if err != nil {
			sess.Close()
			<-sess.Done()
			if isExpectedClose(err) {
				return nil
			}
			return err
		}

		var kind wsframe.Kind
		switch mt {
		case websocket.TextMessage:
			kind = wsframe.Text
		case websocket.BinaryMessage:
			kind = wsframe.Binary
		default:
			continue
		}

		// The first frame of the message has arrived; bound the wait for
		// the remaining fragments so a stalled train cannot hang the loop.
		_ = conn.SetReadDeadline(time.Now().Add(cfg.StrictTimeout))
		err = sess.Deliver(ctx, wsframe.Streamed(kind, r))
		_ = conn.SetReadDeadline(time.Time{})

		if err != nil {
			// Session reached its terminal state; conn teardown is already
			// in flight via the Done watcher.
			return nil
		}
	}
}

// Handler returns an http.Handler that upgrades each request and serves a
// fresh session over the resulting connection. newSession typically
// extracts authentication material from the request and bakes it into the
// session's context value.
func Handler[C, I, O any](upgrader *websocket.Upgrader, newSession func(r *http.Request) (*wsession.Session[C, I, O], error)) http.Handler {
	if upgrader == nil {
		upgrader = DefaultUpgrader()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := newSession(r)
		if err != nil {
			http.Error(w, "failed to create session", http.StatusInternalServerError)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error response.
			return
		}

		_ = Serve(r.Context(), conn, sess)
	})
}

// isExpectedClose reports whether a read error is part of normal teardown
// rather than a transport fault.
func isExpectedClose(err error) bool {
	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived) {
		return true
	}
	// Our own teardown path closes the conn underneath the reader.
	return errors.Is(err, net.ErrClosed)
}
