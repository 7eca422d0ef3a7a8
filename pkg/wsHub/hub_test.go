package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Temutjin2k/delivery-fare/pkg/logger"
	"github.com/Temutjin2k/delivery-fare/pkg/uuid"
)

func newHubServer(t *testing.T, hub *ConnectionHub) (*httptest.Server, chan uuid.UUID) {
	t.Helper()

	added := make(chan uuid.UUID, 4)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		id, _ := uuid.New()
		conn := NewConn(context.Background(), id, raw)
		_ = hub.Add(conn)
		added <- id

		_ = conn.Listen(func(map[string]any) error { return nil })
		_ = hub.Delete(id)
	}))
	t.Cleanup(srv.Close)

	return srv, added
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	hub := NewConnHub(logger.NewNop())
	var live atomic.Int64
	hub.OnChange = func(n int) { live.Store(int64(n)) }

	srv, added := newHubServer(t, hub)
	c1 := dial(t, srv)
	c2 := dial(t, srv)
	<-added
	<-added
	assert.Equal(t, 2, hub.Len())
	assert.Equal(t, int64(2), live.Load())

	n := hub.Broadcast(context.Background(), map[string]any{"type": "fare.calculated", "total": 4600})
	assert.Equal(t, 2, n)

	for _, c := range []*websocket.Conn{c1, c2} {
		require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
		var got map[string]any
		require.NoError(t, c.ReadJSON(&got))
		assert.Equal(t, "fare.calculated", got["type"])
		assert.EqualValues(t, 4600, got["total"])
	}
}

func TestHub_SendToUnknown(t *testing.T) {
	hub := NewConnHub(logger.NewNop())
	id, err := uuid.New()
	require.NoError(t, err)

	assert.ErrorIs(t, hub.SendTo(id, "x"), ErrConnIsNotFound)
	assert.ErrorIs(t, hub.Delete(id), ErrConnIsNotFound)
	assert.ErrorIs(t, hub.Add(nil), ErrEmptyConn)
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := NewConnHub(logger.NewNop())
	srv, added := newHubServer(t, hub)
	c := dial(t, srv)
	<-added

	hub.Close()
	assert.Equal(t, 0, hub.Len())

	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := c.ReadMessage()
	assert.Error(t, err)
}
