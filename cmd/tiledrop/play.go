package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tiledrop/internal/core"
	"github.com/vovakirdan/tiledrop/internal/platform/tui"
	"github.com/vovakirdan/tiledrop/internal/registry"
	"github.com/vovakirdan/tiledrop/internal/storage"
)

var flagSpectate string

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a mode",
	Long: `Start playing the specified mode (default: tiledrop).

Controls:
  Left/Right/A/D  - Move the falling tile
  1-9             - Move the tile to that column
  Space/Down/S    - Drop the tile
  P               - Pause
  R               - Restart (after game over)
  Ctrl+S          - Save a screenshot
  Q/Ctrl+C        - Quit

Difficulty options:
  easy   - Slow start, gravity speeds up with levels
  normal - Configured speed, gravity speeds up with levels
  hard   - Fast start, gravity speeds up with levels
  fixed  - No progression, stays at the configured speed

Examples:
  tiledrop play
  tiledrop play tiledrop_easy --difficulty easy
  tiledrop play --seed 42
  tiledrop play --spectate :8080
  tiledrop play --config ./my-tiledrop.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Stream the game to spectators on this HTTP address")
}

func runPlay(cmd *cobra.Command, args []string) {
	gameID := "tiledrop"
	if len(args) == 1 {
		gameID = args[0]
	}

	// Check if mode exists
	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'tiledrop list' to see available modes.")
		os.Exit(1)
	}

	// Create game instance
	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	opts := tui.Options{
		Player:     localPlayer(),
		Difficulty: string(preset),
		Logger:     logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var spectErr <-chan error
	if flagSpectate != "" {
		hub, errc := startSpectators(ctx, flagSpectate)
		opts.Attach = localAttach(hub)
		spectErr = errc
	}

	runErr := tui.Run(game, store, runtimeConfig(), opts)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}
	if spectErr != nil {
		reportSpectatorErr(spectErr)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// runtimeConfig sizes the screen to the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: tickRate(),
		Seed:     flagSeed,
	}
}
