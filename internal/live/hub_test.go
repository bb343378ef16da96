package live

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()

	hub := NewHub(zerolog.Nop(), []string{"http://allowed.example"})
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, strings.TrimPrefix(r.URL.Path, "/"))
	}))

	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, room string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/" + room
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// The subscription is confirmed once the hub has registered us.
	ev := readEvent(t, conn)
	require.Equal(t, EventSubscribed, ev.Type)
	require.Equal(t, room, ev.Room)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestHub_PublishReachesRoom(t *testing.T) {
	hub, srv := startHub(t)

	first := dial(t, srv, "t1")
	second := dial(t, srv, "t1")
	other := dial(t, srv, "t2")

	hub.Publish(context.Background(), Event{Type: EventBracketUpdated, Room: "t1", Payload: map[string]int{"version": 3}})
	hub.Publish(context.Background(), Event{Type: EventCompleted, Room: "t2"})

	for _, conn := range []*websocket.Conn{first, second} {
		ev := readEvent(t, conn)
		assert.Equal(t, EventBracketUpdated, ev.Type)
		assert.Equal(t, map[string]any{"version": float64(3)}, ev.Payload)
	}

	ev := readEvent(t, other)
	assert.Equal(t, EventCompleted, ev.Type, "t2 only sees its own events")
}

func TestHub_RejectsForeignOrigin(t *testing.T) {
	_, srv := startHub(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/t1"
	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHub_PublishAfterStop(t *testing.T) {
	hub := NewHub(zerolog.Nop(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	// Fill the buffer, then make sure Publish does not block forever.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(context.Background(), Event{Type: EventBracketUpdated, Room: "t1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked after the hub stopped")
	}
}
