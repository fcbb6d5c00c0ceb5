package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmcdole/youhub/internal/domain"
	"github.com/mmcdole/youhub/internal/player"
	"github.com/mmcdole/youhub/internal/tui"
)

var (
	watchDetach bool
	watchStart  time.Duration
	watchResume bool
)

var watchCmd = &cobra.Command{
	Use:   "watch <id|url>",
	Short: "Open a video",
	Long: `Open a video on the watch page of the interactive UI.

With --detach the video is handed to the external player and the command
returns immediately.

Examples:
  youhub watch dQw4w9WgXcQ
  youhub watch https://youtu.be/dQw4w9WgXcQ --detach --resume`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var openCmd = &cobra.Command{
	Use:   "open <path>",
	Short: "Start the interactive UI at a route",
	Long: `Start the interactive UI at a route: /, /v/<id>, /search?q=<query> or /c/<channel-id>.

Examples:
  youhub open /c/UCuAXFkgsw1L7xaCfnd5JJOw
  youhub open "/search?q=lofi beats"`,
	Args: cobra.ExactArgs(1),
	RunE: runTUI,
}

func init() {
	watchCmd.Flags().BoolVarP(&watchDetach, "detach", "d", false, "launch the external player and exit")
	watchCmd.Flags().DurationVar(&watchStart, "start", 0, "start offset for --detach (e.g. 1m30s)")
	watchCmd.Flags().BoolVar(&watchResume, "resume", false, "start --detach at the saved position")
	rootCmd.AddCommand(watchCmd, openCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	id := player.ExtractVideoID(args[0])
	if id == "" {
		return fmt.Errorf("no video id in %q", args[0])
	}
	if !watchDetach {
		return startTUI(tui.WatchRoute(id))
	}

	s, err := newServices()
	if err != nil {
		return err
	}
	defer s.Close()

	start := watchStart
	if watchResume {
		if pos, ok := s.resume.Load(cmd.Context(), id); ok {
			start = time.Duration(pos * float64(time.Second))
		}
	}
	if err := s.launcher.Launch(id, start); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNoPlayer, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Opened %s\n", player.WatchURL(id))
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	route := tui.Route{Kind: tui.RouteHome}
	if len(args) == 1 {
		route = tui.ParseRoute(args[0])
	}
	return startTUI(route)
}

func startTUI(route tui.Route) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return domain.WithSuggestion(errors.New("the interactive UI needs a terminal"),
			"Use a subcommand such as 'youhub feed' or 'youhub search' for scripted output")
	}

	s, err := newServices()
	if err != nil {
		return err
	}
	defer s.Close()

	reloads := tui.NewConfigObserver()
	loader.Watch(reloads.OnReload, func(err error) {
		logger.Warn("ignoring invalid config reload", "error", err)
	})

	model := tui.NewModel(tui.Deps{
		Videos:   s.videos,
		Prefs:    s.prefs,
		Resume:   s.resume,
		Launcher: s.launcher,
		Ladder:   s.ladder,
		Config:   cfg,
		Reloads:  reloads,
		Logger:   logger,
	}, route)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	logger.Info("starting TUI", "route", route.Path(), "config", loader.Path())
	final, err := p.Run()
	if m, ok := final.(tui.Model); ok {
		m.Shutdown()
	}
	if err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	logger.Info("shutting down", "cache", s.videos.CacheStats())
	return nil
}
