package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantN   int64
		wantTxt string
		valid   bool
	}{
		{"number", `1234`, 1234, "", true},
		{"float number", `12.0`, 12, "", true},
		{"digits in text", `"1,234 views"`, 1234, "1,234 views", true},
		{"no digits", `"No views"`, 0, "No views", false},
		{"null", `null`, 0, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Count
			require.NoError(t, json.Unmarshal([]byte(tt.in), &c))
			assert.Equal(t, tt.valid, c.Valid)
			assert.Equal(t, tt.wantN, c.N)
			assert.Equal(t, tt.wantTxt, c.Text)
		})
	}
}

func TestCountInt(t *testing.T) {
	assert.Equal(t, int64(0), ParseCount("Live").Int())
	assert.Equal(t, int64(42), ParseCount("42 likes").Int())
	assert.True(t, Count{}.IsZero())
}

func TestChannelRefVerified(t *testing.T) {
	var nilRef *ChannelRef
	assert.False(t, nilRef.Verified())
	assert.True(t, (&ChannelRef{Badges: []string{"OFFICIAL", "VERIFIED"}}).Verified())
	assert.False(t, (&ChannelRef{Badges: []string{"verified"}}).Verified())
}

func TestPlaybackStateProgress(t *testing.T) {
	assert.Equal(t, 0.0, PlaybackState{CurrentTimeSeconds: 5}.ProgressPercent())
	assert.Equal(t, 50.0, PlaybackState{CurrentTimeSeconds: 30, DurationSeconds: 60}.ProgressPercent())
	assert.Equal(t, 100.0, PlaybackState{CurrentTimeSeconds: 90, DurationSeconds: 60}.ProgressPercent())
}

func TestSuggestion(t *testing.T) {
	assert.NotEmpty(t, Suggestion(ErrServerOffline))
	assert.Equal(t, "do this", Suggestion(WithSuggestion(ErrNotFound, "do this")))
	assert.Empty(t, Suggestion(ErrNotFound))
	assert.Nil(t, WithSuggestion(nil, "x"))
}
