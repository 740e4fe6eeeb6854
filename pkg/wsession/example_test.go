package wsession_test

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrymomot/wsession/pkg/supervisor"
	"github.com/dmitrymomot/wsession/pkg/wsession"
	"github.com/dmitrymomot/wsession/pkg/wsframe"
)

type userInfo struct {
	UserID string
}

type command struct {
	Op   string `json:"op"`
	Body string `json:"body"`
}

type reply struct {
	Echo string `json:"echo"`
}

// collectSink implements wsession.OutboundSink over a channel, standing in
// for a real transport binding such as pkg/gorillaws.
type collectSink struct {
	out  chan []byte
	done chan struct{}
}

func (s *collectSink) Send(payload []byte) error {
	s.out <- payload
	return nil
}

func (s *collectSink) Done() <-chan struct{} { return s.done }
func (s *collectSink) Close() error         { return nil }

func Example() {
	decode := func(_ context.Context, _ userInfo, payload []byte) (command, error) {
		var cmd command
		if err := json.Unmarshal(payload, &cmd); err != nil {
			return command{}, err
		}
		return cmd, nil
	}
	encode := func(r reply) ([]byte, error) {
		return json.Marshal(r)
	}
	handle := func(_ context.Context, p wsession.Peer[userInfo, command, reply], cmd command) error {
		p.Send(reply{Echo: cmd.Body})
		return nil
	}

	sess, err := wsession.New[userInfo, command, reply](userInfo{UserID: "u-1"},
		wsession.WithDecoder[userInfo, command, reply](decode),
		wsession.WithEncoder[userInfo, command, reply](encode),
		wsession.WithHandler[userInfo, command, reply](handle),
		wsession.WithPolicy[userInfo, command, reply](supervisor.StopAll()),
		wsession.WithDrainInterval[userInfo, command, reply](5*time.Millisecond),
	)
	if err != nil {
		panic(err)
	}

	sink := &collectSink{out: make(chan []byte, 1), done: make(chan struct{})}

	ctx := context.Background()
	if err := sess.Start(ctx); err != nil {
		panic(err)
	}
	if err := sess.Connect(sink); err != nil {
		panic(err)
	}
	defer sess.Close()

	unit := wsframe.Complete(wsframe.Text, []byte(`{"op":"echo","body":"hello"}`))
	if err := sess.Deliver(ctx, unit); err != nil {
		panic(err)
	}

	fmt.Println(string(<-sink.out))
	// Output: {"echo":"hello"}
}
