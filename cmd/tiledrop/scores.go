package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tiledrop/internal/registry"
	"github.com/vovakirdan/tiledrop/internal/storage"
)

var (
	flagScoresLimit  int
	flagScoresPlayer string
	flagScoresStats  bool
	flagScoresClear  bool
	flagScoresAll    bool
	flagScoresRun    string
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores",
	Long: `Display the top scores for a mode, a player's recent runs, or
per-mode statistics.

Examples:
  tiledrop scores
  tiledrop scores tiledrop_hard --limit 20
  tiledrop scores --player ana
  tiledrop scores --run 1b4e28ba-2fa1-11d2-883f-0016d3cca427
  tiledrop scores --stats`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().StringVar(&flagScoresPlayer, "player", "", "Show recent runs of this player")
	scoresCmd.Flags().BoolVar(&flagScoresStats, "stats", false, "Show statistics for every mode")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all scores of the mode")
	scoresCmd.Flags().BoolVar(&flagScoresAll, "all", false, "Show every run of the mode")
	scoresCmd.Flags().StringVar(&flagScoresRun, "run", "", "Show a single run by its ID")
}

func runScores(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagScoresRun != "":
		err = printRun(store, flagScoresRun)
	case flagScoresStats:
		err = printStats(store)
	case flagScoresPlayer != "":
		err = printPlayer(store, flagScoresPlayer)
	default:
		gameID := "tiledrop"
		if len(args) == 1 {
			gameID = args[0]
		}
		if !registry.Exists(gameID) {
			fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
			fmt.Fprintln(os.Stderr, "Run 'tiledrop list' to see available modes.")
			os.Exit(1)
		}
		if flagScoresClear {
			err = store.ClearScores(gameID)
			if err == nil {
				fmt.Printf("Cleared scores for %s.\n", gameID)
			}
			break
		}
		err = printTop(store, gameID)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}
}

func printTop(store *storage.Store, gameID string) error {
	var (
		scores []storage.Run
		err    error
	)
	if flagScoresAll {
		scores, err = store.AllScores(gameID)
	} else {
		scores, err = store.TopScores(gameID, flagScoresLimit)
	}
	if err != nil {
		return err
	}

	title := gameID
	if info, ok := registry.Info(gameID); ok {
		title = info.Title
	}
	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'tiledrop play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-8s  %-5s  %-6s  %-12s  %s\n", "Rank", "Score", "Level", "Max", "Player", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-6s  %-12s  %s\n", "----", "-----", "-----", "---", "------", "----")
	for i, r := range scores {
		fmt.Printf("  %-4d  %-8d  %-5d  %-6d  %-12s  %s\n",
			i+1, r.Score, r.Level, r.MaxTile, orDash(r.Player), r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printPlayer(store *storage.Store, player string) error {
	runs, err := store.PlayerHistory(player, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Recent runs - %s\n", player)
	fmt.Println()
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	fmt.Printf("  %-16s  %-8s  %-5s  %-6s  %-10s  %-16s  %s\n", "Mode", "Score", "Level", "Max", "Difficulty", "Date", "Run")
	for _, r := range runs {
		fmt.Printf("  %-16s  %-8d  %-5d  %-6d  %-10s  %-16s  %s\n",
			r.GameID, r.Score, r.Level, r.MaxTile, orDash(r.Difficulty), r.CreatedAt.Format("2006-01-02 15:04"), r.RunID)
	}
	return nil
}

func printRun(store *storage.Store, runID string) error {
	r, err := store.RunByID(runID)
	if err != nil {
		return err
	}
	if r == nil {
		fmt.Printf("No run with ID %s.\n", runID)
		return nil
	}

	fmt.Printf("Run %s\n", r.RunID)
	fmt.Printf("  Mode:       %s\n", r.GameID)
	fmt.Printf("  Player:     %s\n", orDash(r.Player))
	fmt.Printf("  Difficulty: %s\n", orDash(r.Difficulty))
	fmt.Printf("  Score:      %d\n", r.Score)
	fmt.Printf("  Level:      %d\n", r.Level)
	fmt.Printf("  Max tile:   %d\n", r.MaxTile)
	fmt.Printf("  Date:       %s\n", r.CreatedAt.Format("2006-01-02 15:04"))
	return nil
}

func printStats(store *storage.Store) error {
	stats, err := store.GetAllGamesStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-16s  %-6s  %-8s  %-8s  %-6s  %s\n", "Mode", "Runs", "Best", "Average", "Tile", "Level")
	for _, id := range ids {
		s := stats[id]
		fmt.Printf("  %-16s  %-6d  %-8d  %-8.0f  %-6d  %d\n",
			id, s.GamesCount, s.HighScore, s.AvgScore, s.BestTile, s.BestLevel)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
