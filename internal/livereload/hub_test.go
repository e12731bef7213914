package livereload

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, err := websocket.Dial(url, "", srv.URL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	require.Eventually(t, func() bool { return hub.Len() == 1 },
		time.Second, 10*time.Millisecond)

	hub.Broadcast(MsgReloadPage)

	var msg string
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	require.NoError(t, websocket.Message.Receive(conn, &msg))
	assert.Equal(t, MsgReloadPage, msg)
}

func TestHubBroadcastWithoutClients(t *testing.T) {
	hub := NewHub()
	hub.Broadcast(MsgHotReload)
	assert.Equal(t, 0, hub.Len())
}

func TestHubDisconnectPrunesClient(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	require.Eventually(t, func() bool { return hub.Len() == 1 },
		time.Second, 10*time.Millisecond)
	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Len() == 0 },
		time.Second, 10*time.Millisecond)
}

func TestBroadcastDuringDisconnects(t *testing.T) {
	hub := NewHub()
	const n = 1000

	hub.mu.Lock()
	for i := 0; i < n; i++ {
		// Odd clients have no buffer so the broadcast takes the drop path.
		buf := 4
		if i%2 == 1 {
			buf = 0
		}
		hub.clients[i] = &lrClient{id: i, ch: make(chan string, buf), done: make(chan struct{})}
	}
	hub.nextID = n
	hub.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			hub.removeClient(i)
		}
	}()
	go func() {
		defer wg.Done()
		hub.Broadcast(MsgReloadPage)
	}()
	wg.Wait()

	assert.Equal(t, 0, hub.Len())
}

func TestHubShutdown(t *testing.T) {
	hub := NewHub()
	dialHub(t, hub)

	require.Eventually(t, func() bool { return hub.Len() == 1 },
		time.Second, 10*time.Millisecond)

	hub.Shutdown()
	assert.Equal(t, 0, hub.Len())

	// Idempotent, and broadcasts after shutdown are dropped.
	hub.Shutdown()
	hub.Broadcast(MsgReloadPage)
}
