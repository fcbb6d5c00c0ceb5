package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/youhub/internal/domain"
	"github.com/mmcdole/youhub/internal/querycache"
)

type fakeSource struct {
	mu    sync.Mutex
	calls map[string]int
	err   error
}

func (f *fakeSource) hit(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[op]++
	return f.err
}

func (f *fakeSource) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeSource) Feed(_ context.Context, id string, opts domain.FeedOptions) (*domain.FeedPage, error) {
	if err := f.hit("feed"); err != nil {
		return nil, err
	}
	return &domain.FeedPage{BrowseID: id, Region: opts.Region, Items: []domain.Video{{ID: "v1"}}}, nil
}

func (f *fakeSource) Search(_ context.Context, q string, _ int) ([]domain.SearchItem, error) {
	if err := f.hit("search"); err != nil {
		return nil, err
	}
	return []domain.SearchItem{{Video: domain.Video{ID: q}, Kind: domain.KindVideo}}, nil
}

func (f *fakeSource) VideoDetails(_ context.Context, id string) (*domain.VideoDetails, error) {
	if err := f.hit("details"); err != nil {
		return nil, err
	}
	return &domain.VideoDetails{Video: domain.Video{ID: id}}, nil
}

func (f *fakeSource) Comments(_ context.Context, id, token string) (*domain.CommentsPage, error) {
	if err := f.hit("comments"); err != nil {
		return nil, err
	}
	return &domain.CommentsPage{NextPageToken: token + "+"}, nil
}

func (f *fakeSource) Channel(_ context.Context, id string, _ int) (*domain.ChannelInfo, error) {
	if err := f.hit("channel"); err != nil {
		return nil, err
	}
	return &domain.ChannelInfo{ID: id}, nil
}

func newService(src *fakeSource) *VideoService {
	return NewVideoService(src, querycache.New(16, nil), nil)
}

func TestServiceCachesByKey(t *testing.T) {
	src := &fakeSource{}
	s := newService(src)
	ctx := context.Background()

	for range 2 {
		_, err := s.Feed(ctx, "FEtrending", domain.FeedOptions{Region: "VN"})
		require.NoError(t, err)
		_, err = s.Search(ctx, " cats ", 20)
		require.NoError(t, err)
		_, err = s.Channel(ctx, "UCcat", 9)
		require.NoError(t, err)
		_, err = s.Comments(ctx, "vid", "")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, src.count("feed"))
	assert.Equal(t, 1, src.count("search"))
	assert.Equal(t, 1, src.count("channel"))
	assert.Equal(t, 1, src.count("comments"))

	// different region, different page
	_, err := s.Feed(ctx, "FEtrending", domain.FeedOptions{})
	require.NoError(t, err)
	_, err = s.Comments(ctx, "vid", "T2")
	require.NoError(t, err)
	assert.Equal(t, 2, src.count("feed"))
	assert.Equal(t, 2, src.count("comments"))

	assert.Equal(t, int64(4), s.CacheStats().Hits)
}

func TestServiceSkipsBlankInput(t *testing.T) {
	src := &fakeSource{}
	s := newService(src)
	ctx := context.Background()

	items, err := s.Search(ctx, "   ", 10)
	require.NoError(t, err)
	assert.Nil(t, items)

	_, err = s.Channel(ctx, "", 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, src.count("search"))
	assert.Zero(t, src.count("channel"))
}

func TestServiceDoesNotCacheErrors(t *testing.T) {
	src := &fakeSource{err: errors.New("offline")}
	s := newService(src)
	ctx := context.Background()

	_, err := s.VideoDetails(ctx, "abc")
	require.Error(t, err)

	src.mu.Lock()
	src.err = nil
	src.mu.Unlock()
	d, err := s.VideoDetails(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", d.ID)
	assert.Equal(t, 2, src.count("details"))
}

func TestRefreshVideo(t *testing.T) {
	src := &fakeSource{}
	s := newService(src)
	ctx := context.Background()

	_, _ = s.VideoDetails(ctx, "abc")
	_, _ = s.Comments(ctx, "abc", "")
	_, _ = s.Comments(ctx, "other", "")

	s.RefreshVideo("abc")
	_, _ = s.VideoDetails(ctx, "abc")
	_, _ = s.Comments(ctx, "other", "")
	assert.Equal(t, 2, src.count("details"))
	assert.Equal(t, 2, src.count("comments"))
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "search:cats:20", searchKey(" cats ", 20))
	assert.Equal(t, "channel:UC1:9", channelKey("UC1", 9))
	assert.Equal(t, "feed:FEtrending:VN:", feedKey("FEtrending", "VN", ""))
	assert.Equal(t, []string{"details:abc", "comments:abc:"}, VideoCachePrefixes("abc"))
}
