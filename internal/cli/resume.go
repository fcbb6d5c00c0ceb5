package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mmcdole/youhub/internal/format"
	"github.com/mmcdole/youhub/internal/player"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Manage saved playback positions",
}

var resumeListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List saved positions",
	Args:    cobra.NoArgs,
	RunE:    withServices(runResumeList),
}

var resumeClearCmd = &cobra.Command{
	Use:   "clear [id|url]",
	Short: "Forget one saved position, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE:  withServices(runResumeClear),
}

func init() {
	resumeCmd.AddCommand(resumeListCmd, resumeClearCmd)
	rootCmd.AddCommand(resumeCmd)
}

func runResumeList(ctx context.Context, out io.Writer, s *services, _ []string) error {
	records, err := s.resume.List(ctx)
	if err != nil {
		return fmt.Errorf("list positions: %w", err)
	}
	if JSONOutput() {
		return printJSON(out, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, "No saved positions")
		return nil
	}
	t := NewTable(out, "VIDEO", "POSITION", "URL")
	for _, r := range records {
		t.Row(r.VideoID, format.FormatTime(r.LastPositionSeconds), player.WatchURL(r.VideoID))
	}
	t.Flush()
	return nil
}

func runResumeClear(ctx context.Context, out io.Writer, s *services, args []string) error {
	if len(args) == 1 {
		id := player.ExtractVideoID(args[0])
		if err := s.resume.Clear(ctx, id); err != nil {
			return fmt.Errorf("clear position: %w", err)
		}
		fmt.Fprintf(out, "Cleared %s\n", id)
		return nil
	}
	n, err := s.resume.ClearAll(ctx)
	if err != nil {
		return fmt.Errorf("clear positions: %w", err)
	}
	fmt.Fprintf(out, "Cleared %d positions\n", n)
	return nil
}
