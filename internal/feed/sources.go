package feed

import (
	"context"

	"github.com/mmcdole/youhub/internal/domain"
)

// VideoKey identifies videos for de-duplication
func VideoKey(v domain.Video) string { return v.ID }

// CommentKey identifies comments for de-duplication
func CommentKey(c domain.Comment) string { return c.ID }

// Browse pages a browse feed. The region only applies to the first page.
func Browse(src domain.VideoSource, browseID, region string) *Pager[domain.Video] {
	return New(func(ctx context.Context, token string) (Page[domain.Video], error) {
		page, err := src.Feed(ctx, browseID, domain.FeedOptions{Region: region, Continuation: token})
		if err != nil {
			return Page[domain.Video]{}, err
		}
		return Page[domain.Video]{Items: page.Items, Next: page.Continuation}, nil
	}, VideoKey)
}

// Trending pages the trending feed, used for recommendations
func Trending(src domain.VideoSource) *Pager[domain.Video] {
	return Browse(src, domain.TrendingBrowseID, "")
}

// Comments pages the comments of a video
func Comments(src domain.VideoSource, videoID string) *Pager[domain.Comment] {
	return New(func(ctx context.Context, token string) (Page[domain.Comment], error) {
		page, err := src.Comments(ctx, videoID, token)
		if err != nil {
			return Page[domain.Comment]{}, err
		}
		next := ""
		if page.HasMore {
			next = page.NextPageToken
		}
		return Page[domain.Comment]{Items: page.Comments, Next: next}, nil
	}, CommentKey)
}
