package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/youhub/internal/config"
	"github.com/mmcdole/youhub/internal/domain"
	"github.com/mmcdole/youhub/internal/player"
	"github.com/mmcdole/youhub/internal/prefs"
	"github.com/mmcdole/youhub/internal/search"
	"github.com/mmcdole/youhub/internal/store"
	"github.com/mmcdole/youhub/internal/vote"
)

type fakeSource struct {
	videos   []domain.Video
	items    []domain.SearchItem
	comments []domain.Comment
	err      error
}

func (f *fakeSource) Feed(_ context.Context, id string, _ domain.FeedOptions) (*domain.FeedPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.FeedPage{BrowseID: id, Items: f.videos}, nil
}

func (f *fakeSource) Search(context.Context, string, int) ([]domain.SearchItem, error) {
	return f.items, f.err
}

func (f *fakeSource) VideoDetails(_ context.Context, id string) (*domain.VideoDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.VideoDetails{
		Video: domain.Video{ID: id, Title: "Details of " + id},
		Streaming: domain.Streaming{Formats: []domain.Format{
			{QualityLabel: "720p"}, {QualityLabel: "360p"},
		}},
	}, nil
}

func (f *fakeSource) Comments(context.Context, string, string) (*domain.CommentsPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.CommentsPage{Comments: f.comments}, nil
}

func (f *fakeSource) Channel(_ context.Context, id string, _ int) (*domain.ChannelInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ChannelInfo{ID: id, Name: "Channel " + id, Videos: f.videos}, nil
}

// setup writes a config file into a temp dir and points the proxy client
// at src. It returns the data dir.
func setup(t *testing.T, src *fakeSource) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := fmt.Sprintf(`api:
  origin: http://127.0.0.1:1
storage:
  backend: bolt
  path: %s
logging:
  file: %s
  level: debug
`, dir, filepath.Join(dir, "youhub.log"))
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	prev := newSource
	newSource = func(*config.Config, *slog.Logger) domain.VideoSource { return src }
	prevLogger := slog.Default()
	t.Cleanup(func() {
		newSource = prev
		slog.SetDefault(prevLogger)
	})

	cfgFile = path
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// flags keep their values between executions
	jsonOut, verbose = false, false
	feedRegion, feedPages = "", 1
	searchLimit = search.ResultLimit
	commentPages, commentSort = 1, string(vote.SortPopular)
	channelLimit = 30

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", cfgFile}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func videos(n int) []domain.Video {
	out := make([]domain.Video, n)
	for i := range out {
		out[i] = domain.Video{
			ID:      fmt.Sprintf("vid%08d", i),
			Title:   fmt.Sprintf("Video number %d", i),
			Views:   domain.NewCount(int64(1500 * (i + 1))),
			Channel: &domain.ChannelRef{ID: "UCfake", Name: "Fake"},
		}
	}
	return out
}

func TestVersionJSON(t *testing.T) {
	setup(t, &fakeSource{})
	out, err := run(t, "version", "--json")
	require.NoError(t, err)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, Version, info["version"])
}

func TestFeedTable(t *testing.T) {
	setup(t, &fakeSource{videos: videos(2)})
	out, err := run(t, "feed", "FEmusic")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Video number 1")
	assert.Contains(t, out, "3K Views")
}

func TestFeedErrorIsWrapped(t *testing.T) {
	setup(t, &fakeSource{err: domain.ErrServerOffline})
	_, err := run(t, "feed")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrServerOffline)
	assert.Contains(t, err.Error(), "FEtrending")

	var buf bytes.Buffer
	printError(&buf, err)
	assert.Contains(t, buf.String(), "Hint: Check api.origin")
}

func TestSearchShowsDominantChannel(t *testing.T) {
	var items []domain.SearchItem
	for _, v := range videos(4) {
		items = append(items, domain.SearchItem{Kind: domain.KindVideo, Video: v})
	}
	items = append(items, domain.SearchItem{
		Kind:            domain.KindChannel,
		Video:           domain.Video{ID: "UCfake", Title: "Fake Channel"},
		SubscriberCount: domain.ParseCount("1.2M subscribers"),
	})
	setup(t, &fakeSource{items: items})

	out, err := run(t, "search", "fake", "videos")
	require.NoError(t, err)
	assert.Contains(t, out, "Channel: Fake (UCfake)")
	assert.Contains(t, out, "1.2M subscribers")
	assert.Contains(t, out, "Video number 3")
}

func TestDetailsListsQualities(t *testing.T) {
	setup(t, &fakeSource{})
	out, err := run(t, "details", "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Contains(t, out, "Details of dQw4w9WgXcQ")
	assert.Contains(t, out, "qualities: 720p, 360p")
}

func TestCommentsSort(t *testing.T) {
	setup(t, &fakeSource{comments: []domain.Comment{
		{ID: "a", Author: "first", Likes: domain.NewCount(1)},
		{ID: "b", Author: "second", Likes: domain.NewCount(99)},
	}})

	out, err := run(t, "comments", "dQw4w9WgXcQ", "--json")
	require.NoError(t, err)
	var got []domain.Comment
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)

	out, err = run(t, "comments", "dQw4w9WgXcQ", "--json", "--sort", "recent")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "a", got[0].ID)
}

func TestSettingsPersist(t *testing.T) {
	setup(t, &fakeSource{})

	_, err := run(t, "settings", "lang", "vi")
	require.NoError(t, err)
	_, err = run(t, "settings", "safe-mode", "on")
	require.NoError(t, err)

	out, err := run(t, "settings", "show", "--json")
	require.NoError(t, err)
	var got settingsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "vi", got.Language)
	assert.True(t, got.SafeMode)
	assert.False(t, got.CookieConsent)

	_, err = run(t, "settings", "lang", "klingon")
	assert.Error(t, err)
}

func TestResumeListAndClear(t *testing.T) {
	dir := setup(t, &fakeSource{})

	kv, err := store.NewBoltStore(dir)
	require.NoError(t, err)
	rs := player.NewResumeStore(kv, nil)
	require.NoError(t, rs.Save(context.Background(), "dQw4w9WgXcQ", 93))
	require.NoError(t, rs.Save(context.Background(), "aaaaaaaaaaa", 12))
	require.NoError(t, kv.Close())

	out, err := run(t, "resume", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "1:33")
	assert.Contains(t, out, "https://www.youtube.com/watch?v=dQw4w9WgXcQ")

	out, err = run(t, "resume", "clear", "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared dQw4w9WgXcQ")

	out, err = run(t, "resume", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 1 positions")
}

func TestInvalidConfigFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: floppy\n"), 0o644))
	cfgFile = path

	_, err := run(t, "version")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidConfig))

	var buf bytes.Buffer
	printError(&buf, err)
	assert.Contains(t, buf.String(), "Hint: Run 'youhub setup'")
}

func TestSetupAnswersReachStore(t *testing.T) {
	dir := setup(t, &fakeSource{})
	c := *config.DefaultConfig()
	c.Storage = config.StorageConfig{Backend: store.BackendBolt, Path: dir}
	c.UI.Language = "fr"
	c.UI.SafeMode = true
	require.NoError(t, applyUISettings(context.Background(), c))

	out, err := run(t, "settings", "show", "--json")
	require.NoError(t, err)
	var got settingsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "fr", got.Language)
	assert.True(t, got.SafeMode)

	// auto-detect drops the stored language
	c.UI.Language = ""
	c.UI.SafeMode = false
	require.NoError(t, applyUISettings(context.Background(), c))
	kv, err := store.NewBoltStore(dir)
	require.NoError(t, err)
	defer kv.Close()
	_, ok, err := kv.Get(context.Background(), prefs.KeyLanguage)
	require.NoError(t, err)
	assert.False(t, ok)
	v, _, _ := kv.Get(context.Background(), prefs.KeySafeMode)
	assert.Equal(t, "0", v)
}
