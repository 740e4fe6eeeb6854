package gorillaws_test

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/wsession/pkg/gorillaws"
	"github.com/dmitrymomot/wsession/pkg/supervisor"
	"github.com/dmitrymomot/wsession/pkg/wsession"
)

type visitor struct {
	IP string
}

type chatMessage struct {
	Text string `json:"text"`
}

// Example shows mounting a websocket session endpoint on a chi router.
func Example() {
	decode := func(_ context.Context, _ visitor, payload []byte) (chatMessage, error) {
		var msg chatMessage
		err := json.Unmarshal(payload, &msg)
		return msg, err
	}
	encode := func(msg chatMessage) ([]byte, error) {
		return json.Marshal(msg)
	}
	handle := func(_ context.Context, p wsession.Peer[visitor, chatMessage, chatMessage], msg chatMessage) error {
		p.Send(chatMessage{Text: "ack: " + msg.Text})
		return nil
	}

	newSession := func(r *http.Request) (*wsession.Session[visitor, chatMessage, chatMessage], error) {
		return wsession.New[visitor, chatMessage, chatMessage](visitor{IP: r.RemoteAddr},
			wsession.WithDecoder[visitor, chatMessage, chatMessage](decode),
			wsession.WithEncoder[visitor, chatMessage, chatMessage](encode),
			wsession.WithHandler[visitor, chatMessage, chatMessage](handle),
			wsession.WithPolicy[visitor, chatMessage, chatMessage](supervisor.StopAll()),
		)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/ws", gorillaws.Handler(gorillaws.DefaultUpgrader(), newSession))

	_ = http.ListenAndServe // start the server with r as usual
	_ = r
}
