package tui

import (
	"context"
	"errors"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/youhub/internal/domain"
	"github.com/mmcdole/youhub/internal/feed"
	"github.com/mmcdole/youhub/internal/search"
	"github.com/mmcdole/youhub/internal/stream"
)

// Command factories for async operations

// ChannelPageLimit is the number of videos requested for a channel page
const ChannelPageLimit = 30

// loadPageCmd loads the next page of p. Calls made while a load is in
// flight, or after the last page, produce no message.
func loadPageCmd[T any](p *feed.Pager[T], timeout time.Duration, wrap func(added int, err error) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		added, err := p.LoadMore(ctx)
		if errors.Is(err, feed.ErrSkipped) || errors.Is(err, feed.ErrExhausted) {
			return nil
		}
		return wrap(added, err)
	}
}

// LoadFeedCmd loads the next page of a home feed
func LoadFeedCmd(p *feed.Pager[domain.Video], feedID string, timeout time.Duration) tea.Cmd {
	return loadPageCmd(p, timeout, func(added int, err error) tea.Msg {
		return FeedPageMsg{FeedID: feedID, Added: added, Err: err}
	})
}

// LoadRecommendationsCmd loads the next page of the watch sidebar
func LoadRecommendationsCmd(p *feed.Pager[domain.Video], videoID string, timeout time.Duration) tea.Cmd {
	return loadPageCmd(p, timeout, func(added int, err error) tea.Msg {
		return RecommendationsMsg{VideoID: videoID, Added: added, Err: err}
	})
}

// LoadCommentsCmd loads the next page of comments
func LoadCommentsCmd(p *feed.Pager[domain.Comment], videoID string, timeout time.Duration) tea.Cmd {
	return loadPageCmd(p, timeout, func(added int, err error) tea.Msg {
		return CommentsPageMsg{VideoID: videoID, Added: added, Err: err}
	})
}

// SearchCmd runs a query
func SearchCmd(src domain.VideoSource, query string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		items, err := src.Search(ctx, query, search.ResultLimit)
		return SearchResultsMsg{Query: query, Items: items, Err: err}
	}
}

// LoadPanelCmd fetches the channel profile shown beside search results
func LoadPanelCmd(src domain.VideoSource, query, channelID string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		info, err := src.Channel(ctx, channelID, search.PanelVideoLimit)
		return PanelLoadedMsg{Query: query, ChannelID: channelID, Info: info, Err: err}
	}
}

// LoadDetailsCmd loads the watch page payload
func LoadDetailsCmd(src domain.VideoSource, videoID string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		details, err := src.VideoDetails(ctx, videoID)
		return DetailsLoadedMsg{VideoID: videoID, Details: details, Err: err}
	}
}

// LoadQualitiesCmd builds the stream ladder for a loaded video
func LoadQualitiesCmd(ladder *stream.Ladder, details *domain.VideoDetails, timeout time.Duration) tea.Cmd {
	if ladder == nil || details == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return QualitiesMsg{VideoID: details.ID, Qualities: ladder.Qualities(ctx, details)}
	}
}

// LoadChannelCmd loads a channel page
func LoadChannelCmd(src domain.VideoSource, channelID string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		info, err := src.Channel(ctx, channelID, ChannelPageLimit)
		return ChannelLoadedMsg{ChannelID: channelID, Info: info, Err: err}
	}
}

// CopyLinkCmd writes link to the clipboard. Failures are ignored.
func CopyLinkCmd(link, confirmation string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(link); err != nil {
			return nil
		}
		return StatusMsg{Message: confirmation}
	}
}

// ClearStatusCmd clears the status line after d
func ClearStatusCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// TickCmd returns a command that sends a tick after d
func TickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}

// NavigateCmd moves to route
func NavigateCmd(route Route) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Route: route}
	}
}
