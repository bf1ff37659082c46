package central_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/evcon/evcon/internal/central"
)

func newSocketServer(t *testing.T, frames []string) *httptest.Server {
	upgrader := websocket.Upgrader{}
	var once sync.Once
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		once.Do(func() {
			for _, f := range frames {
				_ = conn.WriteMessage(websocket.TextMessage, []byte(f))
			}
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestNotifierDispatch(t *testing.T) {
	srv := newSocketServer(t, []string{
		`{"entity":"cars","action":"update","data":{"id":"c1"}}`,
		`not json`,
		`{"entity":"assets","action":"delete","data":{"id":"a1"}}`,
	})

	n := central.NewNotifier("ws"+strings.TrimPrefix(srv.URL, "http"), "secret", zap.NewNop())
	assets, unsubscribe := n.Subscribe("assets")
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- n.Run(ctx) }()

	select {
	case nt := <-assets:
		assert.Equal(t, central.Notification{Entity: "assets", Action: "delete", ID: "a1"}, nt)
	case <-time.After(2 * time.Second):
		t.Fatal("no notification received")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestNotifierUnsubscribe(t *testing.T) {
	n := central.NewNotifier("ws://127.0.0.1:0", "", zap.NewNop())
	c, unsubscribe := n.Subscribe("assets")
	unsubscribe()
	unsubscribe()

	_, ok := <-c
	assert.False(t, ok)
}

func TestNotifierRetryStopsOnCancel(t *testing.T) {
	n := central.NewNotifier("ws://127.0.0.1:1", "", zap.NewNop())
	n.SetRetryDelay(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	assert.NoError(t, n.Run(ctx))
}
