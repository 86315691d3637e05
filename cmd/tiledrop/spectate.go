package main

import (
	"context"
	"fmt"
	"os"

	"github.com/vovakirdan/tiledrop/internal/games/tiledrop"
	"github.com/vovakirdan/tiledrop/internal/registry"
	"github.com/vovakirdan/tiledrop/internal/transport/websocket"
)

// sinkSetter is implemented by games that can stream to spectators.
type sinkSetter interface {
	SetSink(sink tiledrop.EventSink)
}

// startSpectators runs a hub and its HTTP server in the background until
// ctx is cancelled. Server errors are reported on errc.
func startSpectators(ctx context.Context, addr string) (*websocket.Hub, <-chan error) {
	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	errc := make(chan error, 1)
	go func() {
		errc <- websocket.NewServer(hub).ListenAndServe(ctx, addr)
	}()
	return hub, errc
}

// attachFunc returns a hook that opens a hub session for every game started.
func attachFunc(hub *websocket.Hub) func(g registry.Game, player string) func() {
	return func(g registry.Game, player string) func() {
		setter, ok := g.(sinkSetter)
		if !ok {
			return nil
		}
		sink := hub.Open(g.ID(), player)
		setter.SetSink(sink)
		logger.Info("spectator session opened", "session", sink.ID(), "game", g.ID(), "player", player)

		return func() {
			setter.SetSink(nil)
			sink.Close()
			logger.Info("spectator session closed", "session", sink.ID())
		}
	}
}

// localAttach binds the hook to the local player.
func localAttach(hub *websocket.Hub) func(g registry.Game) func() {
	attach := attachFunc(hub)
	player := localPlayer()
	return func(g registry.Game) func() {
		return attach(g, player)
	}
}

func localPlayer() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}

// reportSpectatorErr prints a spectator server failure without ending the game.
func reportSpectatorErr(errc <-chan error) {
	select {
	case err := <-errc:
		if err != nil {
			fmt.Fprintf(os.Stderr, "Spectator server error: %v\n", err)
		}
	default:
	}
}
