package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/youhub/internal/domain"
)

const master = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-STREAM-INF:BANDWIDTH=800000,RESOLUTION=640x360
360/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=5000000,RESOLUTION=1920x1080,FRAME-RATE=60
https://cdn.example.com/1080/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=2500000,RESOLUTION=1280x720
720/index.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=2400000,RESOLUTION=1280x720
720b/index.m3u8
`

const media = `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10
#EXTINF:10.0,
seg0.ts
#EXT-X-ENDLIST
`

func TestDecodeMaster(t *testing.T) {
	qs, err := Decode(strings.NewReader(master), "https://host/hls/master.m3u8")
	require.NoError(t, err)

	assert.Equal(t, []string{"1080p60", "720p", "360p"}, Labels(qs))
	assert.Equal(t, "https://cdn.example.com/1080/index.m3u8", qs[0].URI)
	assert.Equal(t, "https://host/hls/720/index.m3u8", qs[1].URI)
	assert.Equal(t, uint32(2500000), qs[1].Bandwidth)
	assert.Equal(t, 360, qs[2].Height)
}

func TestDecodeMedia(t *testing.T) {
	qs, err := Decode(strings.NewReader(media), "https://host/v.m3u8")
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "auto", qs[0].Label)
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(strings.NewReader("not a playlist"), "https://host/x.m3u8")
	assert.Error(t, err)
}

func TestFromFormats(t *testing.T) {
	qs := FromFormats(
		[]domain.Format{{QualityLabel: "360p"}, {QualityLabel: ""}, {QualityLabel: "720p", Height: 720}},
		[]domain.Format{{QualityLabel: "720p"}, {QualityLabel: "1080p"}},
	)
	assert.Equal(t, []string{"360p", "720p", "1080p"}, Labels(qs))
	assert.Equal(t, 720, qs[1].Height)
}

func TestQualitiesPrefersManifest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.m3u8" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(master))
	}))
	defer srv.Close()

	l := NewLadder(srv.Client(), nil)
	details := &domain.VideoDetails{
		Video: domain.Video{ID: "abc"},
		Streaming: domain.Streaming{
			HLSManifestURL: srv.URL + "/master.m3u8",
			Formats:        []domain.Format{{QualityLabel: "144p"}},
		},
	}
	assert.Equal(t, []string{"1080p60", "720p", "360p"}, Labels(l.Qualities(context.Background(), details)))

	details.Streaming.HLSManifestURL = srv.URL + "/missing.m3u8"
	assert.Equal(t, []string{"144p"}, Labels(l.Qualities(context.Background(), details)))

	_, err := l.Fetch(context.Background(), srv.URL+"/missing.m3u8")
	assert.ErrorIs(t, err, domain.ErrRequestFailed)

	assert.Nil(t, l.Qualities(context.Background(), nil))
}
