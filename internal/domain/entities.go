package domain

import (
	"bytes"
	"encoding/json"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Thumbnail is a single image rendition
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Count is an upstream counter that may arrive as a number or as display
// text ("1,234 views", "1.2M subscribers").
type Count struct {
	N     int64  // numeric value when Valid
	Text  string // raw text when the value arrived as a string
	Valid bool
}

// NewCount returns a numeric count
func NewCount(n int64) Count {
	return Count{N: n, Valid: true}
}

// ParseCount keeps numbers, extracts digits from text and falls back to the
// raw text when there are none.
func ParseCount(s string) Count {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return Count{Text: s}
	}
	n, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return Count{Text: s}
	}
	return Count{N: n, Text: s, Valid: true}
}

// IsZero reports whether the count carries no information at all
func (c Count) IsZero() bool {
	return !c.Valid && c.Text == ""
}

// Int returns the numeric value, 0 for textual or missing counts
func (c Count) Int() int64 {
	if c.Valid {
		return c.N
	}
	return 0
}

// String returns the raw text when present, otherwise the number
func (c Count) String() string {
	if c.Text != "" {
		return c.Text
	}
	if c.Valid {
		return strconv.FormatInt(c.N, 10)
	}
	return ""
}

// UnmarshalJSON accepts a JSON number, a string or null
func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = Count{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = ParseCount(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*c = NewCount(int64(f))
	return nil
}

// MarshalJSON writes numbers as numbers and text as strings
func (c Count) MarshalJSON() ([]byte, error) {
	switch {
	case c.Valid:
		return []byte(strconv.FormatInt(c.N, 10)), nil
	case c.Text != "":
		return json.Marshal(c.Text)
	default:
		return []byte("null"), nil
	}
}

// ChannelRef is the channel attribution attached to a video
type ChannelRef struct {
	ID        string   `json:"id,omitempty"`
	Name      string   `json:"name,omitempty"`
	Thumbnail string   `json:"thumbnail,omitempty"`
	Badges    []string `json:"badges,omitempty"`
}

// Verified reports whether the channel carries the VERIFIED badge
func (c *ChannelRef) Verified() bool {
	if c == nil {
		return false
	}
	return slices.Contains(c.Badges, "VERIFIED")
}

// Video is a video summary as shown in grids and lists
type Video struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description,omitempty"`
	Thumbnail     string      `json:"thumbnail"`
	Thumbnails    []Thumbnail `json:"thumbnails,omitempty"`
	UploadDate    string      `json:"upload_date,omitempty"`
	Views         Count       `json:"view_count"`
	Likes         Count       `json:"like_count"`
	LengthText    string      `json:"length_text,omitempty"`
	LengthSeconds int         `json:"length_seconds,omitempty"`
	IsLive        bool        `json:"is_live"`
	Badges        []string    `json:"badges,omitempty"`
	Channel       *ChannelRef `json:"channel,omitempty"`
}

// ChannelID returns the attributed channel id or ""
func (v Video) ChannelID() string {
	if v.Channel == nil {
		return ""
	}
	return v.Channel.ID
}

// ChannelName returns the attributed channel name or ""
func (v Video) ChannelName() string {
	if v.Channel == nil {
		return ""
	}
	return v.Channel.Name
}

// SearchKind distinguishes search result types
type SearchKind string

const (
	KindVideo    SearchKind = "video"
	KindChannel  SearchKind = "channel"
	KindPlaylist SearchKind = "playlist"
)

// SearchItem is a single search result. Channel results reuse the Video
// fields for id, title and thumbnail.
type SearchItem struct {
	Video
	Kind               SearchKind `json:"kind"`
	SubscriberCount    Count      `json:"subscriber_count"`
	ChannelDescription string     `json:"channel_description,omitempty"`
}

// Caption is an available caption track
type Caption struct {
	LanguageCode   string `json:"languageCode"`
	Name           string `json:"name"`
	URL            string `json:"url"`
	Kind           string `json:"kind,omitempty"`
	IsTranslatable bool   `json:"isTranslatable,omitempty"`
}

// VideoStats holds the player statistics block
type VideoStats struct {
	ViewCount     Count   `json:"viewCount"`
	AverageRating float64 `json:"averageRating,omitempty"`
}

// Publish holds publication metadata
type Publish struct {
	UploadDate  string `json:"uploadDate,omitempty"`
	PublishDate string `json:"publishDate,omitempty"`
	Category    string `json:"category,omitempty"`
}

// Format is a single stream rendition
type Format struct {
	Itag         int    `json:"itag,omitempty"`
	URL          string `json:"url,omitempty"`
	MimeType     string `json:"mimeType,omitempty"`
	QualityLabel string `json:"qualityLabel,omitempty"`
	Bitrate      int64  `json:"bitrate,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
}

// Streaming describes how a video can be played
type Streaming struct {
	Formats         []Format `json:"formats,omitempty"`
	AdaptiveFormats []Format `json:"adaptiveFormats,omitempty"`
	DashManifestURL string   `json:"dashManifestUrl,omitempty"`
	HLSManifestURL  string   `json:"hlsManifestUrl,omitempty"`
}

// VideoDetails is the full watch-page payload
type VideoDetails struct {
	Video
	Keywords        []string   `json:"keywords,omitempty"`
	DurationSeconds int        `json:"duration_seconds,omitempty"`
	Captions        []Caption  `json:"captions,omitempty"`
	Stats           VideoStats `json:"stats"`
	Publish         Publish    `json:"publish"`
	Streaming       Streaming  `json:"streaming"`
	Related         []Video    `json:"related,omitempty"`
	CommentsToken   string     `json:"commentsToken,omitempty"`
}

// Comment is a top-level comment
type Comment struct {
	ID              string `json:"id"`
	Author          string `json:"author"`
	AuthorThumbnail string `json:"author_thumbnail,omitempty"`
	Content         string `json:"content"`
	Published       string `json:"published"`
	Likes           Count  `json:"likes"`
	ReplyCount      int    `json:"reply_count,omitempty"`
	RepliesToken    string `json:"repliesToken,omitempty"`
}

// CommentsPage is one page of comments
type CommentsPage struct {
	Comments      []Comment `json:"comments"`
	NextPageToken string    `json:"nextPageToken,omitempty"`
	HasMore       bool      `json:"has_more"`
}

// FeedPage is one page of a browse feed
type FeedPage struct {
	BrowseID     string    `json:"browseId"`
	Title        string    `json:"title,omitempty"`
	Items        []Video   `json:"items"`
	Continuation string    `json:"continuation,omitempty"`
	Region       string    `json:"region,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// ChannelInfo is a channel profile with a sample of its videos
type ChannelInfo struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Thumbnail       string  `json:"thumbnail,omitempty"`
	Banner          string  `json:"banner,omitempty"`
	SubscriberCount Count   `json:"subscriber_count"`
	VideoCount      Count   `json:"video_count"`
	ViewCount       Count   `json:"view_count"`
	Verified        *bool   `json:"verified,omitempty"`
	Videos          []Video `json:"videos,omitempty"`
}
