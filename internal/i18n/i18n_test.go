package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	vi := New(Vietnamese)
	assert.Equal(t, "Trang chủ", vi.T("header.home"))
	// vi has no notfound.title, falls back to English
	assert.Equal(t, "404", vi.T("notfound.title"))
	assert.Equal(t, "missing.key", vi.T("missing.key"))

	de := New(German)
	assert.Equal(t, "Home", de.T("header.home"))
}

func TestParse(t *testing.T) {
	l, ok := Parse("VI")
	assert.True(t, ok)
	assert.Equal(t, Vietnamese, l)

	l, ok = Parse("xx")
	assert.False(t, ok)
	assert.Equal(t, English, l)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		locale string
		want   Lang
	}{
		{"vi_VN.UTF-8", Vietnamese},
		{"de-AT", German},
		{"fr_CA", French},
		{"es", Spanish},
		{"zh-Hans", Chinese},
		{"cn", Chinese},
		{"C", English},
		{"", English},
		{"en_US.UTF-8", English},
	}
	for _, tt := range tests {
		if got := Match(tt.locale); got != tt.want {
			t.Errorf("Match(%q) = %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestCategoryLabel(t *testing.T) {
	assert.Equal(t, "Âm nhạc", Categories[1].Label(Vietnamese))
	assert.Equal(t, "Music", Categories[1].Label(French))
	assert.Len(t, Categories, 12)
	assert.Equal(t, "VN", Feeds[1].Region)
}
