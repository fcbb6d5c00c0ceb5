// Package cli wires the command line: the TUI entry point plus scriptable
// commands over the same services.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmcdole/youhub/internal/config"
	"github.com/mmcdole/youhub/internal/domain"
	"github.com/mmcdole/youhub/internal/log"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool

	loader *config.Loader
	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "youhub [path]",
	Short: "Browse and watch videos from the terminal",
	Long: `YouHub is a terminal video browser backed by a youtubei metadata proxy.

Without arguments it opens the interactive UI on the home feeds. A path
such as /v/<id>, /search?q=<query> or /c/<channel> opens that page.`,
	Args: cobra.MaximumNArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if closer != nil {
			return closer.Close()
		}
		return nil
	},
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.config/youhub/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initConfig() error {
	loader = config.NewLoader(cfgFile)
	var err error
	cfg, err = loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}
	logger, closer, err = log.Setup(cfg.Logging, Version)
	if err != nil {
		// file logging is optional
		logger, closer = log.Null(), nil
	}
	slog.SetDefault(logger)
	return nil
}

// Execute runs the root command and returns the process exit code
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		printError(rootCmd.ErrOrStderr(), err)
		return 1
	}
	return 0
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	if hint := domain.Suggestion(err); hint != "" {
		fmt.Fprintf(w, "Hint: %s\n", hint)
	}
}

// Config returns the loaded configuration
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested
func Verbose() bool {
	return verbose
}
