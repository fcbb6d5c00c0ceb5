// Package stream builds the quality ladder offered by the player from a
// video's HLS manifest or its format list.
package stream

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/grafov/m3u8"

	"github.com/mmcdole/youhub/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Quality is one rung of the ladder
type Quality struct {
	Label     string // "720p", "1080p60"
	Height    int
	Bandwidth uint32
	URI       string // absolute variant playlist, empty for format-derived rungs
}

// Ladder fetches and decodes HLS manifests
type Ladder struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewLadder returns a ladder using httpClient, or a client with a 10s
// timeout when nil.
func NewLadder(httpClient *http.Client, logger *slog.Logger) *Ladder {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ladder{httpClient: httpClient, logger: logger}
}

// Qualities returns the available qualities of a video. The HLS manifest
// wins when present and decodable; otherwise the format labels are used.
func (l *Ladder) Qualities(ctx context.Context, details *domain.VideoDetails) []Quality {
	if details == nil {
		return nil
	}
	if manifest := details.Streaming.HLSManifestURL; manifest != "" {
		qs, err := l.Fetch(ctx, manifest)
		if err == nil && len(qs) > 0 {
			return qs
		}
		l.logger.Debug("hls ladder unavailable, using formats", "videoID", details.ID, "error", err)
	}
	return FromFormats(details.Streaming.Formats, details.Streaming.AdaptiveFormats)
}

// Fetch downloads and decodes the manifest at manifestURL
func (l *Ladder) Fetch(ctx context.Context, manifestURL string) ([]Quality, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, manifestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create manifest request: %w", err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch manifest: %w: status %d", domain.ErrRequestFailed, resp.StatusCode)
	}
	return Decode(resp.Body, manifestURL)
}

// Decode parses an m3u8 playlist. A master playlist yields its variants by
// bandwidth, highest first. A media playlist is a single "auto" rung.
func Decode(r io.Reader, manifestURL string) ([]Quality, error) {
	playlist, listType, err := m3u8.DecodeFrom(r, true)
	if err != nil {
		return nil, fmt.Errorf("decode m3u8: %w", err)
	}

	switch listType {
	case m3u8.MASTER:
		master := playlist.(*m3u8.MasterPlaylist)
		variants := make([]*m3u8.Variant, 0, len(master.Variants))
		for _, v := range master.Variants {
			if v != nil && !v.Iframe {
				variants = append(variants, v)
			}
		}
		sort.SliceStable(variants, func(i, j int) bool {
			return variants[i].Bandwidth > variants[j].Bandwidth
		})

		out := make([]Quality, 0, len(variants))
		seen := make(map[string]bool)
		for _, v := range variants {
			height := resolutionHeight(v.Resolution)
			label := heightLabel(height, v.FrameRate)
			if label == "" || seen[label] {
				continue
			}
			seen[label] = true
			out = append(out, Quality{
				Label:     label,
				Height:    height,
				Bandwidth: v.Bandwidth,
				URI:       resolveURL(manifestURL, v.URI),
			})
		}
		return out, nil

	case m3u8.MEDIA:
		return []Quality{{Label: "auto", URI: manifestURL}}, nil
	}
	return nil, nil
}

// FromFormats returns the unique quality labels of the given format lists,
// in order of first appearance.
func FromFormats(lists ...[]domain.Format) []Quality {
	var out []Quality
	seen := make(map[string]bool)
	for _, formats := range lists {
		for _, f := range formats {
			if f.QualityLabel == "" || seen[f.QualityLabel] {
				continue
			}
			seen[f.QualityLabel] = true
			out = append(out, Quality{Label: f.QualityLabel, Height: f.Height})
		}
	}
	return out
}

// Labels returns the labels of qs
func Labels(qs []Quality) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Label
	}
	return out
}

func resolutionHeight(res string) int {
	_, h, ok := strings.Cut(res, "x")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(h)
	if err != nil {
		return 0
	}
	return n
}

func heightLabel(height int, fps float64) string {
	if height <= 0 {
		return ""
	}
	label := strconv.Itoa(height) + "p"
	if fps > 30 {
		label += strconv.Itoa(int(fps + 0.5))
	}
	return label
}

func resolveURL(base, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if u.IsAbs() {
		return ref
	}
	baseU, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return baseU.ResolveReference(u).String()
}
