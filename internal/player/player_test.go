package player

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/youhub/internal/store"
)

func TestResumeStore(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	r := NewResumeStore(kv, nil)

	require.NoError(t, r.Save(ctx, "a", 5))
	require.NoError(t, r.Save(ctx, "b", math.NaN()))
	_, ok, err := kv.Get(ctx, ResumeKey("a"))
	require.NoError(t, err)
	assert.False(t, ok, "positions at the threshold are not written")

	require.NoError(t, r.Save(ctx, "b", 61.5))
	require.NoError(t, r.Save(ctx, "a", 7))
	raw, ok, err := kv.Get(ctx, "cv:resume:b")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "61.5", raw)

	records, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ResumeRecord{
		{VideoID: "a", LastPositionSeconds: 7},
		{VideoID: "b", LastPositionSeconds: 61.5},
	}, records)

	require.NoError(t, kv.Set(ctx, ResumeKey("c"), "garbage"))
	_, ok = r.Load(ctx, "c")
	assert.False(t, ok)

	require.NoError(t, r.Clear(ctx, "a"))
	_, ok = r.Load(ctx, "a")
	assert.False(t, ok)

	n, err := r.ClearAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNilResumeStore(t *testing.T) {
	var r *ResumeStore
	ctx := context.Background()
	assert.NoError(t, r.Save(ctx, "a", 10))
	_, ok := r.Load(ctx, "a")
	assert.False(t, ok)
	assert.NoError(t, r.Clear(ctx, "a"))
}

func TestBar(t *testing.T) {
	b := Bar{Left: 100, Width: 200}
	assert.Equal(t, 0.0, b.Fraction(50))
	assert.Equal(t, 0.5, b.Fraction(200))
	assert.Equal(t, 1.0, b.Fraction(900))
	assert.Equal(t, 30.0, b.HoverTime(200, 60))
	assert.Equal(t, 0.0, b.HoverTime(200, 0))
	assert.Equal(t, 0.0, Bar{}.Fraction(10))
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"  dQw4w9WgXcQ  ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://youtu.be/abc", "abc"},
		{"https://www.youtube.com/watch?list=PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf&v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?feature=youtu.be&si=AbCdEfGhIjKlMn&v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://m.youtube.com/shorts/dQw4w9WgXcQ?si=AbCdEfGhIjKlMn", "dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ?si=AbCdEfGhIjKlMn", "dQw4w9WgXcQ"},
		{"look at https://www.youtube.com/watch?list=PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf&v=dQw4w9WgXcQ now", "dQw4w9WgXcQ"},
		{"id dQw4w9WgXcQ in text", "dQw4w9WgXcQ"},
		{"short", "short"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractVideoID(tt.in), tt.in)
	}
}

func TestOffsetArgs(t *testing.T) {
	assert.Nil(t, offsetArgs("--start=", 0))
	assert.Nil(t, offsetArgs("", time.Minute))
	assert.Equal(t, []string{"--start=90"}, offsetArgs("--start=", 90*time.Second))
	assert.Equal(t, []string{"-ss", "90"}, offsetArgs("-ss ", 90*time.Second))
}

func TestNewLauncherDetectsFlag(t *testing.T) {
	assert.Equal(t, "--start=", NewLauncher("/usr/local/bin/mpv", nil, "", nil).startFlag)
	assert.Equal(t, "--start-time=", NewLauncher("VLC.exe", nil, "", nil).startFlag)
	assert.Equal(t, "-x ", NewLauncher("mpv", nil, "-x ", nil).startFlag)
	assert.Equal(t, "", NewLauncher("unknown", nil, "", nil).startFlag)
}

func TestYtdlFormat(t *testing.T) {
	assert.Equal(t, "bestvideo[height<=720]+bestaudio/best[height<=720]", ytdlFormat("720p"))
	assert.Equal(t, "bestvideo[height<=1080]+bestaudio/best[height<=1080]", ytdlFormat("1080p60"))
	assert.Equal(t, "bestvideo+bestaudio/best", ytdlFormat("auto"))
}

func TestEngineStateString(t *testing.T) {
	assert.Equal(t, "ended", StateEnded.String())
	assert.Equal(t, "unknown", EngineState(9).String())
}
