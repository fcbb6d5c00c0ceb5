package domain

import "context"

// FeedOptions selects the page and region of a browse feed
type FeedOptions struct {
	Region       string
	Continuation string
}

// VideoSource is the metadata proxy as seen by the rest of the app.
// The HTTP client implements it; the service layer decorates it with caching.
type VideoSource interface {
	Feed(ctx context.Context, browseID string, opts FeedOptions) (*FeedPage, error)
	Search(ctx context.Context, query string, limit int) ([]SearchItem, error)
	VideoDetails(ctx context.Context, videoID string) (*VideoDetails, error)
	Comments(ctx context.Context, videoID, pageToken string) (*CommentsPage, error)
	Channel(ctx context.Context, channelID string, limit int) (*ChannelInfo, error)
}

// TrendingBrowseID is the browse id of the trending feed
const TrendingBrowseID = "FEtrending"
