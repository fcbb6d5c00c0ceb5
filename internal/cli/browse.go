package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmcdole/youhub/internal/domain"
	"github.com/mmcdole/youhub/internal/feed"
	"github.com/mmcdole/youhub/internal/format"
	"github.com/mmcdole/youhub/internal/player"
	"github.com/mmcdole/youhub/internal/search"
	"github.com/mmcdole/youhub/internal/stream"
	"github.com/mmcdole/youhub/internal/vote"
)

var (
	feedRegion   string
	feedPages    int
	searchLimit  int
	commentPages int
	commentSort  string
	channelLimit int
)

var feedCmd = &cobra.Command{
	Use:   "feed [browse-id]",
	Short: "List a browse feed",
	Long: `List the videos of a browse feed. The default is FEtrending.

Examples:
  youhub feed
  youhub feed FEmusic --pages 2
  youhub feed FEtrending --region VN`,
	Args: cobra.MaximumNArgs(1),
	RunE: withServices(runFeed),
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search videos and channels",
	Args:  cobra.MinimumNArgs(1),
	RunE:  withServices(runSearch),
}

var detailsCmd = &cobra.Command{
	Use:     "details <id|url>",
	Aliases: []string{"info"},
	Short:   "Show a video's watch page data",
	Args:    cobra.ExactArgs(1),
	RunE:    withServices(runDetails),
}

var commentsCmd = &cobra.Command{
	Use:   "comments <id|url>",
	Short: "List the comments of a video",
	Args:  cobra.ExactArgs(1),
	RunE:  withServices(runComments),
}

var channelCmd = &cobra.Command{
	Use:   "channel <channel-id>",
	Short: "Show a channel profile and its videos",
	Args:  cobra.ExactArgs(1),
	RunE:  withServices(runChannel),
}

func init() {
	feedCmd.Flags().StringVar(&feedRegion, "region", "", "region (gl) for the first page")
	feedCmd.Flags().IntVar(&feedPages, "pages", 1, "number of pages to load")
	searchCmd.Flags().IntVar(&searchLimit, "limit", search.ResultLimit, "maximum results")
	commentsCmd.Flags().IntVar(&commentPages, "pages", 1, "number of pages to load")
	commentsCmd.Flags().StringVar(&commentSort, "sort", string(vote.SortPopular), "order: popular or recent")
	channelCmd.Flags().IntVar(&channelLimit, "limit", 30, "maximum videos")

	rootCmd.AddCommand(feedCmd, searchCmd, detailsCmd, commentsCmd, channelCmd)
}

// withServices opens the services for the duration of run
func withServices(run func(ctx context.Context, out io.Writer, s *services, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := newServices()
		if err != nil {
			return err
		}
		defer s.Close()
		return run(cmd.Context(), cmd.OutOrStdout(), s, args)
	}
}

// requestContext bounds a whole command by the configured timeout
func requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if cfg.API.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.API.Timeout)
}

// loadPages pulls up to n pages from p
func loadPages[T any](ctx context.Context, p *feed.Pager[T], n int) error {
	for range max(1, n) {
		if !p.HasMore() {
			break
		}
		if _, err := p.LoadMore(ctx); err != nil {
			return err
		}
	}
	return nil
}

func runFeed(ctx context.Context, out io.Writer, s *services, args []string) error {
	browseID := domain.TrendingBrowseID
	if len(args) == 1 {
		browseID = args[0]
	}
	ctx, cancel := requestContext(ctx)
	defer cancel()

	p := feed.Browse(s.videos, browseID, feedRegion)
	if err := loadPages(ctx, p, feedPages); err != nil {
		return fmt.Errorf("load feed %s: %w", browseID, err)
	}
	if JSONOutput() {
		return printJSON(out, p.Items())
	}
	printVideos(out, p.Items())
	return nil
}

func printVideos(out io.Writer, videos []domain.Video) {
	now := time.Now()
	t := NewTable(out, "ID", "TITLE", "CHANNEL", "VIEWS", "LENGTH", "AGE")
	for _, v := range videos {
		length := v.LengthText
		if v.IsLive {
			length = "LIVE"
		}
		t.Row(v.ID, cell(v.Title, 60), cell(v.ChannelName(), 24), format.ViewsLabel(v.Views), length, format.AgeLabel(v.UploadDate, now))
	}
	t.Flush()
}

func runSearch(ctx context.Context, out io.Writer, s *services, args []string) error {
	query := strings.Join(args, " ")
	ctx, cancel := requestContext(ctx)
	defer cancel()

	items, err := s.videos.Search(ctx, query, searchLimit)
	if err != nil {
		return fmt.Errorf("search %q: %w", query, err)
	}
	if JSONOutput() {
		return printJSON(out, items)
	}

	videos, channels := search.Partition(items)
	if d, ok := search.DominantChannel(videos, channels); ok {
		fmt.Fprintf(out, "Channel: %s (%s)\n\n", firstNonEmpty(d.Name, d.ID), d.ID)
	}
	if len(channels) > 0 {
		t := NewTable(out, "CHANNEL", "NAME", "SUBSCRIBERS")
		for _, c := range channels {
			t.Row(c.ID, cell(c.Title, 40), format.CountLabel(c.SubscriberCount, ""))
		}
		t.Flush()
		fmt.Fprintln(out)
	}
	plain := make([]domain.Video, len(videos))
	for i, v := range videos {
		plain[i] = v.Video
	}
	printVideos(out, plain)
	return nil
}

// detailsOutput is the JSON shape of the details command
type detailsOutput struct {
	*domain.VideoDetails
	Qualities []stream.Quality `json:"qualities,omitempty"`
}

func runDetails(ctx context.Context, out io.Writer, s *services, args []string) error {
	id := player.ExtractVideoID(args[0])
	ctx, cancel := requestContext(ctx)
	defer cancel()

	d, err := s.videos.VideoDetails(ctx, id)
	if err != nil {
		return fmt.Errorf("load video %s: %w", id, err)
	}
	qualities := s.ladder.Qualities(ctx, d)
	if JSONOutput() {
		return printJSON(out, detailsOutput{VideoDetails: d, Qualities: qualities})
	}

	views := d.Views
	if views.IsZero() {
		views = d.Stats.ViewCount
	}
	fmt.Fprintf(out, "%s\n", d.Title)
	fmt.Fprintf(out, "  id:        %s\n", d.ID)
	fmt.Fprintf(out, "  channel:   %s (%s)\n", d.ChannelName(), d.ChannelID())
	if v := format.CountLabel(views, "views"); v != "" {
		fmt.Fprintf(out, "  views:     %s\n", v)
	}
	if l := format.CountLabel(d.Likes, "likes"); l != "" {
		fmt.Fprintf(out, "  likes:     %s\n", l)
	}
	if d.DurationSeconds > 0 {
		fmt.Fprintf(out, "  duration:  %s\n", format.FormatTime(float64(d.DurationSeconds)))
	}
	if date := firstNonEmpty(d.Publish.PublishDate, d.UploadDate); date != "" {
		fmt.Fprintf(out, "  published: %s\n", date)
	}
	if len(qualities) > 0 {
		fmt.Fprintf(out, "  qualities: %s\n", strings.Join(stream.Labels(qualities), ", "))
	}
	fmt.Fprintf(out, "  related:   %d\n", len(d.Related))
	if Verbose() && d.Description != "" {
		fmt.Fprintf(out, "\n%s\n", d.Description)
	}
	return nil
}

func runComments(ctx context.Context, out io.Writer, s *services, args []string) error {
	id := player.ExtractVideoID(args[0])
	ctx, cancel := requestContext(ctx)
	defer cancel()

	p := feed.Comments(s.videos, id)
	if err := loadPages(ctx, p, commentPages); err != nil {
		return fmt.Errorf("load comments %s: %w", id, err)
	}
	comments := p.Items()
	board := vote.NewBoard(comments)
	comments = board.Sort(comments, vote.ParseSortMode(commentSort))
	if JSONOutput() {
		return printJSON(out, comments)
	}

	t := NewTable(out, "AUTHOR", "LIKES", "REPLIES", "PUBLISHED", "COMMENT")
	for _, c := range comments {
		t.Row(cell(c.Author, 24), format.CompactCount(c.Likes.Int()), fmt.Sprint(c.ReplyCount), c.Published, cell(c.Content, 80))
	}
	t.Flush()
	return nil
}

func runChannel(ctx context.Context, out io.Writer, s *services, args []string) error {
	ctx, cancel := requestContext(ctx)
	defer cancel()

	info, err := s.videos.Channel(ctx, args[0], channelLimit)
	if err != nil {
		return fmt.Errorf("load channel %s: %w", args[0], err)
	}
	if JSONOutput() {
		return printJSON(out, info)
	}

	name := info.Name
	if info.Verified != nil && *info.Verified {
		name += " ✓"
	}
	fmt.Fprintf(out, "%s (%s)\n", name, info.ID)
	for _, stat := range []string{
		format.CountLabel(info.SubscriberCount, "subscribers"),
		format.CountLabel(info.VideoCount, "videos"),
		format.CountLabel(info.ViewCount, "views"),
	} {
		if stat != "" {
			fmt.Fprintf(out, "  %s\n", stat)
		}
	}
	fmt.Fprintln(out)
	printVideos(out, info.Videos)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
