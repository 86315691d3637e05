// tiledrop is a falling-tile merge puzzle for the terminal.
//
// Usage:
//
//	tiledrop list              - List available modes
//	tiledrop play [mode]       - Play a mode (default: tiledrop)
//	tiledrop menu              - Start menu to pick modes interactively
//	tiledrop serve             - Start SSH server for remote play
//	tiledrop scores [mode]     - Show high scores
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default from config: 30)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.tiledrop/scores.db)
//	--config <path>       - Load a custom YAML config
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tiledrop/internal/config"
	"github.com/vovakirdan/tiledrop/internal/games/tiledrop"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
)

// Resolved by the root command before any subcommand runs.
var (
	appConfig config.TileDropConfig
	preset    config.DifficultyPreset
	logger    *log.Logger
	logFile   *os.File
)

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tiledrop",
	Short: "Tile Drop - a falling-tile merge puzzle for your terminal",
	Long: `Tile Drop is a terminal puzzle: numbered tiles fall into a 6x10 well.
Equal tiles that touch vertically merge into their sum, and a row of equal
tiles clears for points.

Available commands:
  list     - Show all available modes
  play     - Play a specific mode directly
  menu     - Interactive mode picker menu
  serve    - Start SSH server for remote play
  scores   - View high scores

Examples:
  tiledrop list
  tiledrop play
  tiledrop play tiledrop_hard --difficulty fixed
  tiledrop menu --spectate :8080
  tiledrop serve --ssh :2222 --http :8080
  tiledrop scores tiledrop`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 0, "Tick rate in frames per second (0 = config tick_rate)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.tiledrop/scores.db", "Path to scores database")
	pf.StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file (interactive commands log nowhere by default)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// setup resolves logging and configuration, then registers the configured modes.
func setup(cmd *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}

	// The terminal belongs to Bubble Tea while a game runs, so only the
	// server logs to stderr unless a file is given.
	var out io.Writer = io.Discard
	if cmd == serveCmd {
		out = os.Stderr
	}
	if flagLogFile != "" {
		logFile, err = os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("cannot open log file: %w", err)
		}
		out = logFile
	}
	logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "tiledrop",
		Level:           level,
	})

	preset, err = config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}
	appConfig, err = config.Load(flagConfig, preset)
	if err != nil {
		return err
	}
	logger.Debug("config loaded", "path", flagConfig, "difficulty", preset, "modes", len(appConfig.Modes))

	tiledrop.RegisterModes(appConfig)
	return nil
}

// tickRate returns the --fps override or the configured rate.
func tickRate() int {
	if flagFPS > 0 {
		return flagFPS
	}
	return appConfig.Display.TickRate
}
