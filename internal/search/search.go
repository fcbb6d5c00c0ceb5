// Package search analyses search results for the results page: result
// partitioning, the dominant channel panel and the visible window.
package search

import (
	"github.com/mmcdole/youhub/internal/domain"
)

const (
	// ResultLimit is the number of results requested per query
	ResultLimit = 15

	// InitialVisible is the number of results shown before scrolling
	InitialVisible = 15

	// VisibleStep is how many more results each scroll reveals
	VisibleStep = 5

	// DominantSample is how many leading videos vote for the channel panel
	DominantSample = 15

	// PanelVideoLimit caps the videos shown in the channel panel
	PanelVideoLimit = 9
)

// Partition splits results into videos and channels, keeping order
func Partition(items []domain.SearchItem) (videos, channels []domain.SearchItem) {
	for _, it := range items {
		switch it.Kind {
		case domain.KindVideo:
			videos = append(videos, it)
		case domain.KindChannel:
			channels = append(channels, it)
		}
	}
	return videos, channels
}

// Dominant is the channel chosen for the panel
type Dominant struct {
	ID    string
	Name  string
	Count int
}

// DominantChannel picks the channel that owns more than half of the
// leading videos. Without one it falls back to the first channel result.
// There is no panel when no leading video names a channel.
func DominantChannel(videos, channels []domain.SearchItem) (Dominant, bool) {
	top := videos
	if len(top) > DominantSample {
		top = top[:DominantSample]
	}

	counts := make(map[string]*Dominant)
	var order []string
	for _, v := range top {
		id := v.ChannelID()
		if id == "" {
			continue
		}
		d, ok := counts[id]
		if !ok {
			d = &Dominant{ID: id, Name: v.ChannelName()}
			counts[id] = d
			order = append(order, id)
		}
		d.Count++
	}

	var best *Dominant
	for _, id := range order {
		if d := counts[id]; best == nil || d.Count > best.Count {
			best = d
		}
	}
	if best == nil {
		return Dominant{}, false
	}
	if float64(best.Count)/float64(len(top)) > 0.5 {
		return *best, true
	}

	if len(channels) > 0 {
		primary := channels[0]
		return Dominant{
			ID:    firstNonEmpty(primary.ChannelID(), primary.ID),
			Name:  firstNonEmpty(primary.ChannelName(), primary.Title),
			Count: 1,
		}, true
	}
	return Dominant{}, false
}

// Window is the number of revealed results for the current query
type Window struct {
	query   string
	visible int
}

// Reset starts a new query and reveals the initial results
func (w *Window) Reset(query string) {
	w.query = query
	w.visible = InitialVisible
}

// Sync resets the window when query differs from the current one
func (w *Window) Sync(query string) {
	if w.visible == 0 || query != w.query {
		w.Reset(query)
	}
}

// Grow reveals the next step, capped at total. It reports whether more
// results became visible.
func (w *Window) Grow(total int) bool {
	before := w.Visible(total)
	next := w.visible + VisibleStep
	if total > 0 && next > total {
		next = total
	}
	if total > 0 {
		w.visible = next
	}
	return w.Visible(total) > before
}

// Visible returns how many of total results are revealed
func (w *Window) Visible(total int) int {
	v := w.visible
	if v == 0 {
		v = InitialVisible
	}
	if v > total {
		return total
	}
	return v
}

// Panel is the channel card shown beside the results
type Panel struct {
	ID          string
	Name        string
	Description string
	Thumbnail   string
	Banner      string
	Subscribers domain.Count
	VideoCount  domain.Count
	ViewCount   domain.Count
	Verified    bool
	Videos      []domain.Video
}

// MergePanel combines the fetched channel profile with the primary channel
// search result. Either may be nil; with both nil there is no panel.
func MergePanel(info *domain.ChannelInfo, primary *domain.SearchItem) (Panel, bool) {
	if info == nil && primary == nil {
		return Panel{}, false
	}
	if info == nil {
		info = &domain.ChannelInfo{}
	}

	var fb struct {
		id, name, desc, thumb string
		subs                  domain.Count
		verified              bool
	}
	if primary != nil {
		fb.id = firstNonEmpty(primary.ChannelID(), primary.ID)
		fb.name = firstNonEmpty(primary.ChannelName(), primary.Title)
		fb.desc = primary.ChannelDescription
		fb.thumb = primary.Thumbnail
		fb.subs = primary.SubscriberCount
		fb.verified = primary.Channel.Verified()
	}

	p := Panel{
		ID:          firstNonEmpty(info.ID, fb.id),
		Name:        firstNonEmpty(info.Name, fb.name),
		Description: firstNonEmpty(info.Description, fb.desc),
		Thumbnail:   firstNonEmpty(info.Thumbnail, fb.thumb),
		Banner:      info.Banner,
		Subscribers: info.SubscriberCount,
		VideoCount:  info.VideoCount,
		ViewCount:   info.ViewCount,
		Verified:    fb.verified,
	}
	if p.Subscribers.IsZero() {
		p.Subscribers = fb.subs
	}
	if info.Verified != nil {
		p.Verified = *info.Verified
	}
	for _, v := range info.Videos {
		if v.ID == "" {
			continue
		}
		p.Videos = append(p.Videos, v)
		if len(p.Videos) == PanelVideoLimit {
			break
		}
	}
	return p, true
}

// Primary returns the first channel result, or nil
func Primary(channels []domain.SearchItem) *domain.SearchItem {
	if len(channels) == 0 {
		return nil
	}
	return &channels[0]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
