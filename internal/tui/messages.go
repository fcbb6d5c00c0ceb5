package tui

import (
	"github.com/mmcdole/youhub/internal/config"
	"github.com/mmcdole/youhub/internal/domain"
	"github.com/mmcdole/youhub/internal/stream"
)

// Message types for the TUI

// ErrMsg represents an error shown in the status line
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// NavigateMsg moves to a route, pushing the current one on the history
type NavigateMsg struct {
	Route Route
}

// NavigateBackMsg returns to the previous route
type NavigateBackMsg struct{}

// FeedPageMsg signals a home feed page finished loading
type FeedPageMsg struct {
	FeedID string
	Added  int
	Err    error
}

// RecommendationsMsg signals the trending sidebar of the watch page loaded
type RecommendationsMsg struct {
	VideoID string
	Added   int
	Err     error
}

// CommentsPageMsg signals a page of comments finished loading
type CommentsPageMsg struct {
	VideoID string
	Added   int
	Err     error
}

// SearchResultsMsg carries the results of a query
type SearchResultsMsg struct {
	Query string
	Items []domain.SearchItem
	Err   error
}

// PanelLoadedMsg carries the channel profile for the search panel
type PanelLoadedMsg struct {
	Query     string
	ChannelID string
	Info      *domain.ChannelInfo
	Err       error
}

// DetailsLoadedMsg carries the watch page payload
type DetailsLoadedMsg struct {
	VideoID string
	Details *domain.VideoDetails
	Err     error
}

// QualitiesMsg carries the stream ladder of a video
type QualitiesMsg struct {
	VideoID   string
	Qualities []stream.Quality
}

// ChannelLoadedMsg carries a channel page
type ChannelLoadedMsg struct {
	ChannelID string
	Info      *domain.ChannelInfo
	Err       error
}

// PlayerStartedMsg signals the external player is connected
type PlayerStartedMsg struct {
	VideoID string
	Session *watchSession
}

// PlayerStateMsg carries a playback snapshot from the controller
type PlayerStateMsg struct {
	State domain.PlaybackState
}

// PlayerClosedMsg signals the player window was closed
type PlayerClosedMsg struct {
	Session *watchSession
}

// ConfigChangedMsg carries a reloaded configuration
type ConfigChangedMsg struct {
	Config *config.Config
}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// TickMsg drives the loading spinner
type TickMsg struct{}
