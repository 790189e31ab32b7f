package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHub_BroadcastsPublishedEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zap.NewNop())
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/ws", func(c *gin.Context) { ServeWs(hub, c) })
	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish("deposit_request.created", map[string]string{"id": "r1"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var got Event
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "deposit_request.created", got.Event)
	assert.Equal(t, map[string]interface{}{"id": "r1"}, got.Data)
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	hub := NewHub(zap.NewNop())

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastQueue+10; i++ {
			hub.Publish("tick", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked without a running hub")
	}
}

func TestHub_StoppedHubDoesNotBlockClients(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, cancel := context.WithCancel(context.Background())

	hub := NewHub(zap.NewNop())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	router := gin.New()
	router.GET("/ws", func(c *gin.Context) { ServeWs(hub, c) })
	srv := httptest.NewServer(router)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	live, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer live.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-stopped

	// the client of the stopped hub is closed and its read loop can leave
	require.NoError(t, live.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := live.ReadMessage(); err != nil {
			break
		}
	}

	done := make(chan struct{})
	go func() {
		hub.detach(&Client{Hub: hub})
		assert.False(t, hub.attach(&Client{Hub: hub}))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("register/unregister blocked after the hub stopped")
	}

	late, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer late.Close()
	require.NoError(t, late.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = late.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}
