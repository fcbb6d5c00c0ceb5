package api

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/mmcdole/youhub/internal/domain"
)

// The proxy trims upstream payloads but is loose about shapes: thumbnails
// may be a string, an object or a list, numbers may arrive as strings and
// authors may be plain names. The types below decode all of those without
// failing the whole response.

// Thumbnails decodes a string, a {url|src, width, height} object or a list
// of either
type Thumbnails []domain.Thumbnail

func (t *Thumbnails) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*t = nil
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '[':
		var entries []json.RawMessage
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil
		}
		for _, e := range entries {
			if th, ok := decodeThumb(e); ok {
				*t = append(*t, th)
			}
		}
	default:
		if th, ok := decodeThumb(data); ok {
			*t = Thumbnails{th}
		}
	}
	return nil
}

type thumbObject struct {
	URL    json.RawMessage `json:"url"`
	Src    json.RawMessage `json:"src"`
	Width  flexInt         `json:"width"`
	Height flexInt         `json:"height"`
}

func decodeThumb(data []byte) (domain.Thumbnail, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return domain.Thumbnail{}, false
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil || s == "" {
			return domain.Thumbnail{}, false
		}
		return domain.Thumbnail{URL: s}, true
	case '{':
		var obj thumbObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return domain.Thumbnail{}, false
		}
		u := rawString(obj.URL)
		if u == "" {
			u = rawString(obj.Src)
		}
		if u == "" {
			return domain.Thumbnail{}, false
		}
		return domain.Thumbnail{URL: u, Width: int(obj.Width), Height: int(obj.Height)}, true
	}
	return domain.Thumbnail{}, false
}

// Best returns the URL of the widest thumbnail, or ""
func (t Thumbnails) Best() string {
	best := -1
	for i, th := range t {
		if best < 0 || th.Width > t[best].Width {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return t[best].URL
}

func firstThumbs(options ...Thumbnails) Thumbnails {
	for _, o := range options {
		if len(o) > 0 {
			return o
		}
	}
	return nil
}

// flexInt decodes a number or a numeric string; anything else is 0
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	*f = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			*f = flexInt(v)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*f = flexInt(v)
	}
	return nil
}

func rawString(data json.RawMessage) string {
	var s string
	if len(data) == 0 || json.Unmarshal(data, &s) != nil {
		return ""
	}
	return s
}

// rawChannel is a channel attribution under any of its field spellings.
// Non-object values decode as present but empty.
type rawChannel struct {
	ID          string       `json:"id"`
	ChannelID   string       `json:"channelId"`
	BrowseID    string       `json:"browseId"`
	Name        string       `json:"name"`
	Title       string       `json:"title"`
	DisplayName string       `json:"displayName"`
	Badges      []string     `json:"badges"`
	Thumbnails  Thumbnails   `json:"thumbnails"`
	Avatar      Thumbnails   `json:"avatar"`
	Subscribers domain.Count `json:"subscribers"`
}

func (c *rawChannel) UnmarshalJSON(data []byte) error {
	type plain rawChannel
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		*c = rawChannel{}
		return nil
	}
	*c = rawChannel(p)
	return nil
}

func (c *rawChannel) id() string {
	return firstString(c.ID, c.ChannelID, c.BrowseID)
}

func (c *rawChannel) name() string {
	return firstString(c.Name, c.Title, c.DisplayName)
}

type rawStats struct {
	Views              domain.Count `json:"views"`
	ShortViewCountText domain.Count `json:"shortViewCountText"`
	Likes              domain.Count `json:"likes"`
	LikeCount          domain.Count `json:"likeCount"`
	PublishedTime      string       `json:"publishedTime"`
	LengthText         string       `json:"lengthText"`
	LengthSeconds      flexInt      `json:"lengthSeconds"`
}

// rawVideo is a trimmed video or search result
type rawVideo struct {
	ID                 string       `json:"id"`
	ChannelID          string       `json:"channelId"`
	Type               string       `json:"type"`
	Title              string       `json:"title"`
	Name               string       `json:"name"`
	Description        string       `json:"description"`
	DescriptionSnippet string       `json:"descriptionSnippet"`
	Thumbnails         Thumbnails   `json:"thumbnails"`
	Thumbnail          Thumbnails   `json:"thumbnail"`
	Avatar             Thumbnails   `json:"avatar"`
	Channel            *rawChannel  `json:"channel"`
	Owner              *rawChannel  `json:"owner"`
	Uploader           *rawChannel  `json:"uploader"`
	Author             *rawChannel  `json:"author"`
	Stats              rawStats     `json:"stats"`
	LengthText         string       `json:"lengthText"`
	Badges             []string     `json:"badges"`
	IsLive             bool         `json:"isLive"`
	SubscriberCount    domain.Count `json:"subscriberCount"`
	SubscriberText     domain.Count `json:"subscriberText"`
}

type browseResponse struct {
	BrowseID     string     `json:"browseId"`
	Title        string     `json:"title"`
	Items        []rawVideo `json:"items"`
	Continuation string     `json:"continuation"`
}

type searchResponse struct {
	Query        string     `json:"query"`
	Results      []rawVideo `json:"results"`
	Continuation string     `json:"continuation"`
}

type rawFormat struct {
	Itag         flexInt `json:"itag"`
	URL          string  `json:"url"`
	MimeType     string  `json:"mimeType"`
	QualityLabel string  `json:"qualityLabel"`
	Bitrate      flexInt `json:"bitrate"`
	Width        flexInt `json:"width"`
	Height       flexInt `json:"height"`
}

type playerResponse struct {
	Video *struct {
		ID              string     `json:"id"`
		Title           string     `json:"title"`
		Description     string     `json:"description"`
		Keywords        []string   `json:"keywords"`
		Thumbnails      Thumbnails `json:"thumbnails"`
		DurationSeconds flexInt    `json:"durationSeconds"`
		IsLive          bool       `json:"isLive"`
		Channel         *struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"channel"`
	} `json:"video"`
	Stats *struct {
		ViewCount     domain.Count `json:"viewCount"`
		AverageRating float64      `json:"averageRating"`
	} `json:"stats"`
	Publish   *domain.Publish `json:"publish"`
	Streaming *struct {
		Formats         []rawFormat `json:"formats"`
		AdaptiveFormats []rawFormat `json:"adaptiveFormats"`
		DashManifestURL string      `json:"dashManifestUrl"`
		HLSManifestURL  string      `json:"hlsManifestUrl"`
	} `json:"streaming"`
	Captions []domain.Caption `json:"captions"`
}

type nextResponse struct {
	Metadata struct {
		Title       string       `json:"title"`
		ViewCount   domain.Count `json:"viewCount"`
		PublishDate string       `json:"publishDate"`
		LikeCount   domain.Count `json:"likeCount"`
	} `json:"metadata"`
	Channel       *rawChannel `json:"channel"`
	RelatedVideos struct {
		Items        []rawVideo `json:"items"`
		Continuation string     `json:"continuation"`
	} `json:"relatedVideos"`
	Comments struct {
		Continuation string `json:"continuation"`
	} `json:"comments"`
}

// rawAuthor is either a plain name or {name, avatar}
type rawAuthor struct {
	Name   string
	Avatar Thumbnails
}

func (a *rawAuthor) UnmarshalJSON(data []byte) error {
	*a = rawAuthor{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	if data[0] == '"' {
		_ = json.Unmarshal(data, &a.Name)
		return nil
	}
	var obj struct {
		Name   string     `json:"name"`
		Avatar Thumbnails `json:"avatar"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		a.Name, a.Avatar = obj.Name, obj.Avatar
	}
	return nil
}

type rawComment struct {
	ID            string       `json:"id"`
	Author        rawAuthor    `json:"author"`
	Content       string       `json:"content"`
	PublishedTime string       `json:"publishedTime"`
	LikeCount     domain.Count `json:"likeCount"`
	LikeCountText domain.Count `json:"likeCountText"`
	ReplyCount    flexInt      `json:"replyCount"`
	RepliesToken  string       `json:"repliesToken"`
}

type commentsResponse struct {
	Comments     []rawComment `json:"comments"`
	Continuation string       `json:"continuation"`
}

type channelResponse struct {
	Channel struct {
		ID              string       `json:"id"`
		Title           string       `json:"title"`
		Description     string       `json:"description"`
		SubscriberCount domain.Count `json:"subscriberCount"`
		Avatar          Thumbnails   `json:"avatar"`
		Banners         Thumbnails   `json:"banners"`
		Verified        *bool        `json:"verified"`
		ViewCount       domain.Count `json:"viewCount"`
		VideoCount      domain.Count `json:"videoCount"`
	} `json:"channel"`
	Tabs []struct {
		Title string     `json:"title"`
		Items []rawVideo `json:"items"`
	} `json:"tabs"`
}
