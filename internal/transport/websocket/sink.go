package websocket

import (
	tdcore "github.com/vovakirdan/tiledrop/internal/games/tiledrop/core"
)

// Sink streams one game session to the hub. Publish never blocks, so it is
// safe to call from the game loop.
type Sink struct {
	hub *Hub
	id  string
}

// ID returns the session ID spectators connect to.
func (s *Sink) ID() string {
	return s.id
}

// Publish forwards one tick of events and the resulting state.
func (s *Sink) Publish(snap tdcore.Snapshot, events []tdcore.Event) {
	s.hub.publish(s.id, snap, events)
}

// Close ends the session and disconnects its spectators.
func (s *Sink) Close() {
	s.hub.close(s.id)
}
