package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tiledrop/internal/games/tiledrop"
	tdcore "github.com/vovakirdan/tiledrop/internal/games/tiledrop/core"
)

var _ tiledrop.EventSink = (*Sink)(nil)

func startHub(t *testing.T) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(NewServer(hub))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var m Message
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func waitSpectators(t *testing.T, hub *Hub, id string, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		info, _, ok := hub.Session(id)
		return ok && info.Spectators == n
	}, 2*time.Second, 5*time.Millisecond)
}

func snapshot(score int) tdcore.Snapshot {
	return tdcore.Snapshot{
		Phase:   tdcore.PhaseRunning,
		Rows:    10,
		Columns: 6,
		Score:   score,
		Level:   1,
		Tiles:   []tdcore.TileView{{ID: 1, Value: 8, Pos: tdcore.C(0, 0)}},
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := NewHub(nil)
	sink := hub.Open("tiledrop", "ana")

	client := &Client{hub: hub, sessionID: sink.ID(), send: make(chan []byte, 1)}
	hub.registerClient(client)
	assert.True(t, hub.clients[sink.ID()][client])

	info, _, _ := hub.Session(sink.ID())
	assert.Equal(t, 1, info.Spectators)

	hub.unregisterClient(client)
	_, exists := hub.clients[sink.ID()]
	assert.False(t, exists, "empty spectator set removed")

	_, open := <-client.send
	assert.False(t, open, "send channel closed")

	// A second unregister is a no-op.
	hub.unregisterClient(client)
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(nil)
	sink := hub.Open("tiledrop", "ana")

	client := &Client{hub: hub, sessionID: sink.ID(), send: make(chan []byte)}
	hub.registerClient(client)

	hub.broadcastMessage(&Message{Type: TypeEvents, SessionID: sink.ID()})
	assert.Empty(t, hub.clients[sink.ID()])
}

func TestOpenAndList(t *testing.T) {
	hub := NewHub(nil)
	a := hub.Open("tiledrop", "ana")
	b := hub.Open("tiledrop_hard", "bo")
	assert.NotEqual(t, a.ID(), b.ID())

	sessions := hub.Sessions()
	require.Len(t, sessions, 2)
	ids := []string{sessions[0].ID, sessions[1].ID}
	assert.ElementsMatch(t, []string{a.ID(), b.ID()}, ids)

	b.Close()
	sessions = hub.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, "ana", sessions[0].Player)
}

func TestPublishUpdatesSession(t *testing.T) {
	hub := NewHub(nil)
	sink := hub.Open("tiledrop", "ana")

	snap := snapshot(48)
	snap.GameOver = true
	sink.Publish(snap, []tdcore.Event{{Kind: tdcore.EventGameOver}})

	info, last, ok := hub.Session(sink.ID())
	require.True(t, ok)
	require.NotNil(t, last)
	assert.Equal(t, 48, info.Score)
	assert.True(t, info.GameOver)
	assert.Equal(t, 48, last.Score)
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub(nil) // Run is not started, so nothing drains the inbox
	sink := hub.Open("tiledrop", "ana")

	done := make(chan struct{})
	go func() {
		for i := 0; i < broadcastBuffer+10; i++ {
			sink.Publish(snapshot(i), nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full queue")
	}
}

func TestWebSocketStream(t *testing.T) {
	hub, srv := startHub(t)
	sink := hub.Open("tiledrop", "ana")
	sink.Publish(snapshot(4), nil)

	conn := dial(t, srv, sink.ID())

	first := readMessage(t, conn)
	assert.Equal(t, TypeSnapshot, first.Type)
	assert.Equal(t, sink.ID(), first.SessionID)
	require.NotNil(t, first.Snapshot)
	assert.Equal(t, 4, first.Snapshot.Score)

	waitSpectators(t, hub, sink.ID(), 1)

	sink.Publish(snapshot(12), []tdcore.Event{
		{Kind: tdcore.EventMerged, Tile: &tdcore.TileView{ID: 3, Value: 8}, Score: 12},
	})
	update := readMessage(t, conn)
	assert.Equal(t, TypeEvents, update.Type)
	require.Len(t, update.Events, 1)
	assert.Equal(t, tdcore.EventMerged, update.Events[0].Kind)
	assert.Equal(t, 12, update.Snapshot.Score)

	sink.Close()
	closed := readMessage(t, conn)
	assert.Equal(t, TypeClosed, closed.Type)
}

func TestWebSocketUnknownSession(t *testing.T) {
	_, srv := startHub(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/nope/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTPSessions(t *testing.T) {
	hub, srv := startHub(t)
	sink := hub.Open("tiledrop", "ana")
	sink.Publish(snapshot(20), nil)

	resp, err := http.Get(srv.URL + "/sessions")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var list []SessionInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, sink.ID(), list[0].ID)
	assert.Equal(t, 20, list[0].Score)

	resp2, err := http.Get(srv.URL + "/sessions/" + sink.ID())
	require.NoError(t, err)
	defer resp2.Body.Close()

	var one struct {
		ID       string           `json:"id"`
		Snapshot *tdcore.Snapshot `json:"snapshot"`
	}
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&one))
	assert.Equal(t, sink.ID(), one.ID)
	require.NotNil(t, one.Snapshot)
	assert.Len(t, one.Snapshot.Tiles, 1)

	resp3, err := http.Get(srv.URL + "/sessions/missing")
	require.NoError(t, err)
	resp3.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp3.StatusCode)
}
