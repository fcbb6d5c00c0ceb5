package feed

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mmcdole/youhub/internal/domain"
)

func pages(p ...Page[string]) (FetchFunc[string], *[]string) {
	var tokens []string
	return func(_ context.Context, token string) (Page[string], error) {
		tokens = append(tokens, token)
		i := len(tokens) - 1
		if i >= len(p) {
			return Page[string]{}, fmt.Errorf("unexpected fetch %d", i)
		}
		return p[i], nil
	}, &tokens
}

func identity(s string) string { return s }

func TestLoadMoreAppendsWithoutDuplicates(t *testing.T) {
	fetch, tokens := pages(
		Page[string]{Items: []string{"a", "b", "c"}, Next: "T1"},
		Page[string]{Items: []string{"c", "d", "a", "e"}, Next: "T2"},
		Page[string]{Items: []string{"f"}},
	)
	p := New(fetch, identity)
	ctx := context.Background()

	assert.True(t, p.HasMore())
	n, err := p.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = p.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, p.Items())

	_, err = p.LoadMore(ctx)
	require.NoError(t, err)
	assert.False(t, p.HasMore())

	_, err = p.LoadMore(ctx)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, []string{"", "T1", "T2"}, *tokens)
	assert.Equal(t, 6, p.Len())
}

func TestLoadMoreWhileInFlightIsNoop(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	p := New(func(context.Context, string) (Page[string], error) {
		calls++
		close(started)
		<-release
		return Page[string]{Items: []string{"x"}, Next: "N"}, nil
	}, identity)

	done := make(chan error, 1)
	go func() {
		_, err := p.LoadMore(context.Background())
		done <- err
	}()
	<-started
	assert.True(t, p.Loading())

	_, err := p.LoadMore(context.Background())
	assert.ErrorIs(t, err, ErrSkipped)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, calls)
	assert.False(t, p.Loading())
}

func TestLoadErrorKeepsPosition(t *testing.T) {
	boom := errors.New("offline")
	fail := true
	var tokens []string
	p := New(func(_ context.Context, token string) (Page[string], error) {
		tokens = append(tokens, token)
		if fail {
			return Page[string]{}, boom
		}
		return Page[string]{Items: []string{"a"}}, nil
	}, identity)

	_, err := p.LoadMore(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, p.Err(), boom)
	assert.True(t, p.HasMore())

	fail = false
	_, err = p.LoadMore(context.Background())
	require.NoError(t, err)
	assert.NoError(t, p.Err())
	assert.Equal(t, []string{"", ""}, tokens)
}

func TestResetAbandonsInFlightLoad(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	p := New(func(context.Context, string) (Page[string], error) {
		started <- struct{}{}
		<-release
		return Page[string]{Items: []string{"stale"}}, nil
	}, identity)

	done := make(chan error, 1)
	go func() {
		_, err := p.LoadMore(context.Background())
		done <- err
	}()
	<-started
	p.Reset()
	close(release)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrSkipped)
	case <-time.After(time.Second):
		t.Fatal("load did not return")
	}
	assert.Empty(t, p.Items())
	assert.True(t, p.HasMore())
}

type stubSource struct {
	domain.VideoSource
	feeds    []domain.FeedOptions
	comments []string
}

func (s *stubSource) Feed(_ context.Context, id string, opts domain.FeedOptions) (*domain.FeedPage, error) {
	s.feeds = append(s.feeds, opts)
	if opts.Continuation == "" {
		return &domain.FeedPage{BrowseID: id, Items: []domain.Video{{ID: "v1"}, {ID: "v2"}}, Continuation: "C"}, nil
	}
	return &domain.FeedPage{BrowseID: id, Items: []domain.Video{{ID: "v2"}, {ID: "v3"}}}, nil
}

func (s *stubSource) Comments(_ context.Context, _ string, token string) (*domain.CommentsPage, error) {
	s.comments = append(s.comments, token)
	return &domain.CommentsPage{
		Comments:      []domain.Comment{{ID: "c" + token}},
		NextPageToken: "stale",
		HasMore:       false,
	}, nil
}

func TestBrowseAndComments(t *testing.T) {
	src := &stubSource{}
	ctx := context.Background()

	videos := Browse(src, "FEtrendingVN", "VN")
	_, err := videos.LoadMore(ctx)
	require.NoError(t, err)
	_, err = videos.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2", "v3"}, ids(videos.Items()))
	assert.Equal(t, "C", src.feeds[1].Continuation)

	comments := Comments(src, "vid")
	_, err = comments.LoadMore(ctx)
	require.NoError(t, err)
	assert.False(t, comments.HasMore(), "has_more false ends paging even with a token")
}

func ids(videos []domain.Video) []string {
	out := make([]string, len(videos))
	for i, v := range videos {
		out[i] = v.ID
	}
	return out
}
