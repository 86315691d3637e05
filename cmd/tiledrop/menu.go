package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tiledrop/internal/platform/tui"
	"github.com/vovakirdan/tiledrop/internal/registry"
	"github.com/vovakirdan/tiledrop/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start Tile Drop with a mode picker menu",
	Long: `Start Tile Drop in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a mode.
After a game ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  1-9          - Select a mode directly
  Enter/Space  - Select mode
  Tab          - Scoreboard
  Q            - Quit

Examples:
  tiledrop menu
  tiledrop menu --fps 60
  tiledrop menu --spectate :8080
  tiledrop menu --db ./scores.db`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagSpectate, "spectate", "", "Stream games to spectators on this HTTP address")
}

func runMenu(_ *cobra.Command, _ []string) {
	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}

	cfg := runtimeConfig()
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

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from scoreboard
		}

		if menuResult.GameID == "" {
			break
		}

		game, err := registry.Create(menuResult.GameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		// Fresh seed for each game unless one was given
		if flagSeed == 0 {
			cfg.Seed = time.Now().UnixNano()
		}

		if err := tui.Run(game, store, cfg, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}
	}

	// Cleanup
	if store != nil {
		store.Close()
	}
	if spectErr != nil {
		reportSpectatorErr(spectErr)
	}
}
