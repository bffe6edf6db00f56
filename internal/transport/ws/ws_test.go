package ws_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/leadroute/internal/domain/event"
	"github.com/alanyang/leadroute/internal/transport/ws"
)

func init() { gin.SetMode(gin.TestMode) }

// newServer mounts the hub behind a stub auth middleware that reads the owner
// ID from a header, mirroring what transport/auth.Required does after token
// verification.
func newServer(t *testing.T, hub *ws.Hub) *httptest.Server {
	t.Helper()
	r := gin.New()
	r.Use(func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader("X-Owner"))
		require.NoError(t, err)
		c.Set("ownerID", id)
	})
	hub.Register(r.Group("/ws"))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, ownerID uuid.UUID) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"X-Owner": {ownerID.String()}})
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBroadcastReachesOwnersClients(t *testing.T) {
	hub := ws.NewHub()
	srv := newServer(t, hub)
	ownerID := uuid.New()

	first := dial(t, srv, ownerID)
	second := dial(t, srv, ownerID)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	sent := event.New(event.TypeDistributionComplete, ownerID, ownerID)
	hub.Broadcast(sent)

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var got event.Event
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, event.TypeDistributionComplete, got.Type)
		assert.Equal(t, ownerID, got.OwnerID)
	}
}

func TestBroadcastDoesNotCrossOwners(t *testing.T) {
	hub := ws.NewHub()
	srv := newServer(t, hub)
	ownerA := uuid.New()
	ownerB := uuid.New()

	connA := dial(t, srv, ownerA)
	connB := dial(t, srv, ownerB)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.Broadcast(event.New(event.TypeAgentCreated, ownerA, uuid.New()))

	// A receives its own event.
	require.NoError(t, connA.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := connA.ReadMessage()
	require.NoError(t, err)
	var got event.Event
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, ownerA, got.OwnerID)

	// B's connection stays silent: the read must time out with nothing queued.
	require.NoError(t, connB.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err = connB.ReadMessage()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "timeout") || websocket.IsUnexpectedCloseError(err),
		"expected a read timeout, got: %v", err)
}
