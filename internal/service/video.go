// Package service exposes the proxy to views and commands with query
// deduplication and caching.
package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mmcdole/youhub/internal/domain"
	"github.com/mmcdole/youhub/internal/querycache"
)

// VideoService decorates a VideoSource with the query cache
type VideoService struct {
	source domain.VideoSource
	cache  *querycache.Cache
	logger *slog.Logger
}

var _ domain.VideoSource = (*VideoService)(nil)

// NewVideoService creates a new video service
func NewVideoService(source domain.VideoSource, cache *querycache.Cache, logger *slog.Logger) *VideoService {
	if logger == nil {
		logger = slog.Default()
	}
	if cache == nil {
		cache = querycache.New(querycache.DefaultSize, logger)
	}
	return &VideoService{source: source, cache: cache, logger: logger}
}

// Feed returns a browse feed page
func (s *VideoService) Feed(ctx context.Context, browseID string, opts domain.FeedOptions) (*domain.FeedPage, error) {
	key := feedKey(browseID, opts.Region, opts.Continuation)
	page, err := querycache.Get(ctx, s.cache, key, querycache.DefaultStaleTime,
		func(ctx context.Context) (*domain.FeedPage, error) {
			return s.source.Feed(ctx, browseID, opts)
		})
	if err != nil {
		s.logger.Error("failed to load feed", "browseId", browseID, "error", err)
		return nil, err
	}
	s.logger.Info("loaded feed", "browseId", browseID, "count", len(page.Items), "more", page.Continuation != "")
	return page, nil
}

// Trending returns the trending feed with continuation support
func (s *VideoService) Trending(ctx context.Context, continuation string) (*domain.FeedPage, error) {
	return s.Feed(ctx, domain.TrendingBrowseID, domain.FeedOptions{Continuation: continuation})
}

// Search runs a query. Blank queries return no results without a request.
func (s *VideoService) Search(ctx context.Context, query string, limit int) ([]domain.SearchItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return querycache.Get(ctx, s.cache, searchKey(query, limit), querycache.DefaultStaleTime,
		func(ctx context.Context) ([]domain.SearchItem, error) {
			return s.source.Search(ctx, query, limit)
		})
}

// VideoDetails returns the watch page payload
func (s *VideoService) VideoDetails(ctx context.Context, videoID string) (*domain.VideoDetails, error) {
	return querycache.Get(ctx, s.cache, detailsKey(videoID), querycache.DefaultStaleTime,
		func(ctx context.Context) (*domain.VideoDetails, error) {
			return s.source.VideoDetails(ctx, videoID)
		})
}

// Comments returns a page of comments
func (s *VideoService) Comments(ctx context.Context, videoID, pageToken string) (*domain.CommentsPage, error) {
	return querycache.Get(ctx, s.cache, commentsKey(videoID, pageToken), querycache.CommentsStaleTime,
		func(ctx context.Context) (*domain.CommentsPage, error) {
			return s.source.Comments(ctx, videoID, pageToken)
		})
}

// Channel returns a channel profile. Empty ids never reach the proxy.
func (s *VideoService) Channel(ctx context.Context, channelID string, limit int) (*domain.ChannelInfo, error) {
	if channelID == "" {
		return nil, domain.ErrNotFound
	}
	return querycache.Get(ctx, s.cache, channelKey(channelID, limit), querycache.ChannelStaleTime,
		func(ctx context.Context) (*domain.ChannelInfo, error) {
			return s.source.Channel(ctx, channelID, limit)
		})
}

// RefreshVideo drops cached details and comments for videoID
func (s *VideoService) RefreshVideo(videoID string) {
	n := 0
	for _, prefix := range VideoCachePrefixes(videoID) {
		n += s.cache.Invalidate(prefix)
	}
	s.logger.Debug("invalidated video cache", "video", videoID, "entries", n)
}

// CacheStats exposes the query cache counters
func (s *VideoService) CacheStats() querycache.Stats {
	return s.cache.Stats()
}
