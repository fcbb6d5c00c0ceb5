package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/youhub/internal/domain"
)

type recordedCall struct {
	Op    string
	Query string
	Body  map[string]any
}

// fakeProxy answers /youtubei/v1/{op} from a handler keyed by op
type fakeProxy struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (p *fakeProxy) record(r *http.Request) map[string]any {
	raw, _ := io.ReadAll(r.Body)
	body := map[string]any{}
	_ = json.Unmarshal(raw, &body)
	p.mu.Lock()
	p.calls = append(p.calls, recordedCall{Op: chi.URLParam(r, "op"), Query: r.URL.RawQuery, Body: body})
	p.mu.Unlock()
	return body
}

func (p *fakeProxy) callsFor(op string) []recordedCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []recordedCall
	for _, c := range p.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func newTestClient(t *testing.T, handle func(op string, body map[string]any) (int, string)) (*Client, *fakeProxy) {
	t.Helper()
	proxy := &fakeProxy{}
	r := chi.NewRouter()
	r.Post("/youtubei/v1/{op}", func(w http.ResponseWriter, r *http.Request) {
		body := proxy.record(r)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		status, resp := handle(chi.URLParam(r, "op"), body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, resp)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return NewClient(Config{Origin: srv.URL + "///", Timeout: 5 * time.Second}, nil), proxy
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "http://x/youtubei/v1/", BaseURL("http://x/", ""))
	assert.Equal(t, "http://x/api/yt/", BaseURL("http://x", "/api/yt/"))
}

func TestPreview(t *testing.T) {
	short := strings.Repeat("a", 500)
	assert.Equal(t, short, preview([]byte(short)))

	long := strings.Repeat("b", 501)
	got := preview([]byte(long))
	assert.Len(t, got, 500)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestFeed(t *testing.T) {
	c, proxy := newTestClient(t, func(op string, body map[string]any) (int, string) {
		if body["continuation"] != nil {
			return 200, `{"browseId":"FEtrending","items":[{"id":"v3","title":"Three"}]}`
		}
		return 200, `{
			"browseId": "FEtrending",
			"title": "Trending",
			"continuation": "CONT1",
			"items": [
				{"id": "v1", "title": "One", "thumbnails": [{"url": "s", "width": 120}, {"url": "l", "width": 640}],
				 "stats": {"views": "1,234 views", "publishedTime": "2 days ago", "lengthText": "3:21"},
				 "owner": {"channelId": "UC1", "title": "Chan", "avatar": "a.jpg", "badges": ["VERIFIED"]}},
				{"title": "no id"},
				{"id": "v2", "thumbnail": {"src": "t.jpg"}, "stats": {"shortViewCountText": 99}}
			]
		}`
	})
	ctx := context.Background()

	page, err := c.Feed(ctx, "FEtrending", domain.FeedOptions{Region: "VN"})
	require.NoError(t, err)
	assert.Equal(t, "Trending", page.Title)
	assert.Equal(t, "CONT1", page.Continuation)
	assert.Equal(t, "VN", page.Region)
	assert.False(t, page.Timestamp.IsZero())
	require.Len(t, page.Items, 2)

	v1 := page.Items[0]
	assert.Equal(t, "l", v1.Thumbnail)
	assert.Equal(t, int64(1234), v1.Views.Int())
	assert.Equal(t, "2 days ago", v1.UploadDate)
	assert.Equal(t, "3:21", v1.LengthText)
	require.NotNil(t, v1.Channel)
	assert.Equal(t, "UC1", v1.Channel.ID)
	assert.Equal(t, "Chan", v1.Channel.Name)
	assert.Equal(t, "a.jpg", v1.Channel.Thumbnail)
	assert.True(t, v1.Channel.Verified())

	assert.Equal(t, "t.jpg", page.Items[1].Thumbnail)
	assert.Equal(t, int64(99), page.Items[1].Views.Int())
	assert.Nil(t, page.Items[1].Channel)

	_, err = c.Feed(ctx, "FEtrending", domain.FeedOptions{Region: "VN", Continuation: "CONT1"})
	require.NoError(t, err)

	calls := proxy.callsFor("browse")
	require.Len(t, calls, 2)
	assert.Equal(t, map[string]any{"browseId": "FEtrending"}, calls[0].Body)
	assert.Equal(t, "gl=VN", calls[0].Query)
	assert.Equal(t, map[string]any{"continuation": "CONT1"}, calls[1].Body)
	assert.Empty(t, calls[1].Query, "region is only sent on the first page")
}

func TestSearch(t *testing.T) {
	c, proxy := newTestClient(t, func(op string, body map[string]any) (int, string) {
		return 200, `{"query":"cats","results":[
			{"id":"v1","title":"Cat video","channel":{"id":"UCcat","name":"Cats"}},
			{"type":"channel","channelId":"UCcat","name":"Cats","avatar":[{"url":"c.jpg","width":88}],
			 "subscriberText":"1.2M subscribers","descriptionSnippet":"All cats","badges":["VERIFIED"]},
			{"type":"channel","title":"nameless"},
			{"type":"playlist","id":"PL1","title":"Mix"}
		]}`
	})

	items, err := c.Search(context.Background(), "cats", 20)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, domain.KindVideo, items[0].Kind)
	assert.Equal(t, "UCcat", items[0].ChannelID())

	ch := items[1]
	assert.Equal(t, domain.KindChannel, ch.Kind)
	assert.Equal(t, "UCcat", ch.ID)
	assert.Equal(t, "Cats", ch.Title)
	assert.Equal(t, "c.jpg", ch.Thumbnail)
	assert.Equal(t, "All cats", ch.ChannelDescription)
	assert.Equal(t, int64(12), ch.SubscriberCount.Int())
	assert.Equal(t, "1.2M subscribers", ch.SubscriberCount.String())
	assert.True(t, ch.Channel.Verified())

	calls := proxy.callsFor("search")
	require.Len(t, calls, 1)
	assert.Equal(t, "cats", calls[0].Body["query"])
	assert.EqualValues(t, 20, calls[0].Body["limit"])
}

func TestSearchOmitsZeroLimit(t *testing.T) {
	c, proxy := newTestClient(t, func(string, map[string]any) (int, string) {
		return 200, `{"results":null}`
	})
	items, err := c.Search(context.Background(), "x", 0)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotContains(t, proxy.callsFor("search")[0].Body, "limit")
}

func TestVideoDetails(t *testing.T) {
	c, proxy := newTestClient(t, func(op string, body map[string]any) (int, string) {
		switch op {
		case "player":
			return 200, `{
				"video": {"id": "dQw4w9WgXcQ", "title": "", "description": "desc", "keywords": ["a"],
				          "thumbnails": [{"url": "v.jpg", "width": 1280}], "durationSeconds": "213",
				          "channel": {"id": "UCr", "name": "Rick"}},
				"stats": {"viewCount": "1500000000"},
				"publish": {"uploadDate": "2009-10-25"},
				"streaming": {"hlsManifestUrl": "https://m/h.m3u8", "formats": [{"itag": 18, "qualityLabel": "360p", "bitrate": "500000"}]},
				"captions": [{"languageCode": "en", "name": "English", "url": "c"}]
			}`
		default:
			return 200, `{
				"metadata": {"title": "Never Gonna", "viewCount": 10, "publishDate": "2009", "likeCount": "18M"},
				"channel": {"id": "UCr", "name": "Rick", "thumbnails": [{"url": "r.jpg", "width": 88}]},
				"relatedVideos": {"items": [{"id": "rel1", "title": "Related"}, {"title": "x"}]},
				"comments": {"continuation": "CTOKEN"}
			}`
		}
	})

	d, err := c.VideoDetails(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "Never Gonna", d.Title, "title falls back to next metadata")
	assert.Equal(t, "desc", d.Description)
	assert.Equal(t, "v.jpg", d.Thumbnail)
	assert.Equal(t, 213, d.DurationSeconds)
	assert.Equal(t, int64(1_500_000_000), d.Views.Int())
	assert.Equal(t, "2009-10-25", d.UploadDate)
	require.NotNil(t, d.Channel)
	assert.Equal(t, "r.jpg", d.Channel.Thumbnail)
	assert.Equal(t, "https://m/h.m3u8", d.Streaming.HLSManifestURL)
	require.Len(t, d.Streaming.Formats, 1)
	assert.Equal(t, int64(500000), d.Streaming.Formats[0].Bitrate)
	assert.Len(t, d.Captions, 1)
	require.Len(t, d.Related, 1)
	assert.Equal(t, "rel1", d.Related[0].ID)
	assert.Equal(t, "CTOKEN", d.CommentsToken)

	player := proxy.callsFor("player")
	require.Len(t, player, 1)
	assert.Equal(t, true, player[0].Body["contentCheckOk"])
	assert.Equal(t, true, player[0].Body["racyCheckOk"])
	assert.Len(t, proxy.callsFor("next"), 1)
}

func TestVideoDetailsFailure(t *testing.T) {
	c, _ := newTestClient(t, func(op string, _ map[string]any) (int, string) {
		if op == "next" {
			return 502, "upstream down"
		}
		return 200, `{}`
	})
	_, err := c.VideoDetails(context.Background(), "abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRequestFailed)
	assert.Equal(t, "Request failed 502: upstream down", err.Error())
	assert.True(t, IsStatus(err, 502))
}

func TestComments(t *testing.T) {
	c, proxy := newTestClient(t, func(op string, body map[string]any) (int, string) {
		if body["videoId"] != nil {
			return 200, `{"comments":{"continuation":"BOOT"}}`
		}
		if body["continuation"] == "BOOT" {
			return 200, `{"continuation":"PAGE2","comments":[
				{"id":"c1","author":{"name":"Ann","avatar":[{"url":"s","width":1},{"url":"b","width":48}]},
				 "content":"hi","publishedTime":"1 day ago","likeCountText":"1.2K","replyCount":3,"repliesToken":"R1"},
				{"id":"c2","author":"Bob","content":"yo","likeCount":7},
				{"content":"no id"}
			]}`
		}
		return 200, `{"comments":[{"id":"c3","author":"Cy"}]}`
	})
	ctx := context.Background()

	first, err := c.Comments(ctx, "vid", "")
	require.NoError(t, err)
	assert.True(t, first.HasMore)
	assert.Equal(t, "PAGE2", first.NextPageToken)
	require.Len(t, first.Comments, 2)
	assert.Equal(t, "Ann", first.Comments[0].Author)
	assert.Equal(t, "b", first.Comments[0].AuthorThumbnail)
	assert.Equal(t, "1.2K", first.Comments[0].Likes.String())
	assert.Equal(t, 3, first.Comments[0].ReplyCount)
	assert.Equal(t, "Bob", first.Comments[1].Author)
	assert.Equal(t, int64(7), first.Comments[1].Likes.Int())

	second, err := c.Comments(ctx, "vid", "PAGE2")
	require.NoError(t, err)
	assert.False(t, second.HasMore)
	assert.Len(t, second.Comments, 1)

	next := proxy.callsFor("next")
	require.Len(t, next, 3)
	assert.Equal(t, map[string]any{"videoId": "vid"}, next[0].Body)
	assert.Equal(t, map[string]any{"continuation": "BOOT"}, next[1].Body)
	assert.Equal(t, map[string]any{"continuation": "PAGE2"}, next[2].Body)
}

func TestCommentsWithoutContinuation(t *testing.T) {
	c, proxy := newTestClient(t, func(string, map[string]any) (int, string) {
		return 200, `{}`
	})
	page, err := c.Comments(context.Background(), "vid", "")
	require.NoError(t, err)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.Comments)
	assert.Len(t, proxy.callsFor("next"), 1)
}

func TestChannel(t *testing.T) {
	c, _ := newTestClient(t, func(string, map[string]any) (int, string) {
		return 200, `{
			"channel": {"title": "Cats", "description": "meow", "subscriberCount": "1.2M subscribers",
			            "avatar": [{"url": "a1", "width": 48}, {"url": "a2", "width": 176}],
			            "banners": [{"url": "b1", "width": 1060}], "verified": true, "videoCount": 321},
			"tabs": [
				{"title": "Home"},
				{"title": "Videos", "items": [
					{"id": "v1", "title": "One", "stats": {"publishedTime": "1 week ago"}},
					{"title": "dropped"},
					{"id": "v3", "title": "Three"}
				]}
			]
		}`
	})

	info, err := c.Channel(context.Background(), "UCcat", 2)
	require.NoError(t, err)
	assert.Equal(t, "UCcat", info.ID)
	assert.Equal(t, "Cats", info.Name)
	assert.Equal(t, "a2", info.Thumbnail)
	assert.Equal(t, "b1", info.Banner)
	require.NotNil(t, info.Verified)
	assert.True(t, *info.Verified)
	assert.Equal(t, int64(321), info.VideoCount.Int())
	require.Len(t, info.Videos, 1, "the limit applies before items without an id are dropped")
	assert.Equal(t, "1 week ago", info.Videos[0].UploadDate)
}

func TestServerOffline(t *testing.T) {
	c := NewClient(Config{Origin: "http://127.0.0.1:1", Timeout: time.Second}, nil)
	_, err := c.Search(context.Background(), "x", 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrServerOffline))
}

func TestThumbnailsDecoding(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Thumbnails
	}{
		{"string", `"a.jpg"`, Thumbnails{{URL: "a.jpg"}}},
		{"object src", `{"src":"b.jpg","width":"64","height":36}`, Thumbnails{{URL: "b.jpg", Width: 64, Height: 36}}},
		{"list", `["a", {"url":"b","width":2}, null, {"foo":1}]`, Thumbnails{{URL: "a"}, {URL: "b", Width: 2}}},
		{"null", `null`, nil},
		{"number", `5`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Thumbnails
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "", Thumbnails(nil).Best())
}
