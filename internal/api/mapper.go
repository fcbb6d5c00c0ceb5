package api

import (
	"github.com/mmcdole/youhub/internal/domain"
)

// mapVideo converts a trimmed video; items without an id are rejected
func mapVideo(v rawVideo) (domain.Video, bool) {
	if v.ID == "" {
		return domain.Video{}, false
	}
	thumbs := firstThumbs(v.Thumbnails, v.Thumbnail)

	video := domain.Video{
		ID:            v.ID,
		Title:         v.Title,
		Description:   firstString(v.Description, v.DescriptionSnippet),
		Thumbnail:     thumbs.Best(),
		Thumbnails:    []domain.Thumbnail(thumbs),
		UploadDate:    v.Stats.PublishedTime,
		Views:         firstCount(v.Stats.Views, v.Stats.ShortViewCountText),
		Likes:         firstCount(v.Stats.Likes, v.Stats.LikeCount),
		LengthText:    firstString(v.Stats.LengthText, v.LengthText),
		LengthSeconds: int(v.Stats.LengthSeconds),
		IsLive:        v.IsLive,
		Badges:        v.Badges,
	}

	if src := channelSource(v); src != nil {
		video.Channel = &domain.ChannelRef{
			ID:        src.id(),
			Name:      src.name(),
			Thumbnail: firstThumbs(src.Thumbnails, src.Avatar).Best(),
			Badges:    src.Badges,
		}
	}
	return video, true
}

func channelSource(v rawVideo) *rawChannel {
	for _, c := range []*rawChannel{v.Channel, v.Owner, v.Uploader, v.Author} {
		if c != nil {
			return c
		}
	}
	return nil
}

func mapVideos(raw []rawVideo) []domain.Video {
	videos := make([]domain.Video, 0, len(raw))
	for _, r := range raw {
		if v, ok := mapVideo(r); ok {
			videos = append(videos, v)
		}
	}
	return videos
}

// mapSearchItems keeps videos and channels. Channel results need an id
// and reuse the video fields for title and avatar.
func mapSearchItems(raw []rawVideo) []domain.SearchItem {
	items := make([]domain.SearchItem, 0, len(raw))
	for _, r := range raw {
		kind := domain.SearchKind(r.Type)
		if kind == "" {
			kind = domain.KindVideo
		}
		switch kind {
		case domain.KindPlaylist:
			continue
		case domain.KindChannel:
			id := firstString(r.ID, r.ChannelID)
			if id == "" {
				continue
			}
			title := firstString(r.Title, r.Name)
			thumbs := firstThumbs(r.Thumbnails, r.Avatar)
			desc := firstString(r.Description, r.DescriptionSnippet)
			items = append(items, domain.SearchItem{
				Video: domain.Video{
					ID:          id,
					Title:       title,
					Description: desc,
					Thumbnail:   thumbs.Best(),
					Thumbnails:  []domain.Thumbnail(thumbs),
					Channel: &domain.ChannelRef{
						ID:        id,
						Name:      title,
						Thumbnail: thumbs.Best(),
						Badges:    r.Badges,
					},
				},
				Kind:               kind,
				SubscriberCount:    firstCount(r.SubscriberCount, r.SubscriberText),
				ChannelDescription: desc,
			})
		default:
			v, ok := mapVideo(r)
			if !ok {
				continue
			}
			items = append(items, domain.SearchItem{Video: v, Kind: kind})
		}
	}
	return items
}

// mapDetails merges the player and next payloads. Player fields win; next
// fills the gaps.
func mapDetails(videoID string, player *playerResponse, next *nextResponse) *domain.VideoDetails {
	d := &domain.VideoDetails{}
	d.ID = videoID
	d.Title = next.Metadata.Title
	d.Views = next.Metadata.ViewCount
	d.Likes = next.Metadata.LikeCount
	d.UploadDate = next.Metadata.PublishDate

	if pv := player.Video; pv != nil {
		d.ID = firstString(pv.ID, videoID)
		d.Title = firstString(pv.Title, next.Metadata.Title)
		d.Description = pv.Description
		d.Thumbnails = []domain.Thumbnail(pv.Thumbnails)
		d.Thumbnail = pv.Thumbnails.Best()
		d.IsLive = pv.IsLive
		d.Keywords = pv.Keywords
		d.DurationSeconds = int(pv.DurationSeconds)
		if pc := pv.Channel; pc != nil {
			var channelThumbs Thumbnails
			if next.Channel != nil {
				channelThumbs = next.Channel.Thumbnails
			}
			d.Channel = &domain.ChannelRef{
				ID:        pc.ID,
				Name:      pc.Name,
				Thumbnail: firstThumbs(channelThumbs, pv.Thumbnails).Best(),
			}
		}
	}
	if s := player.Stats; s != nil {
		d.Stats = domain.VideoStats{ViewCount: s.ViewCount, AverageRating: s.AverageRating}
		d.Views = firstCount(s.ViewCount, next.Metadata.ViewCount)
	}
	if p := player.Publish; p != nil {
		d.Publish = *p
		d.UploadDate = firstString(p.UploadDate, next.Metadata.PublishDate)
	}
	if s := player.Streaming; s != nil {
		d.Streaming = domain.Streaming{
			Formats:         mapFormats(s.Formats),
			AdaptiveFormats: mapFormats(s.AdaptiveFormats),
			DashManifestURL: s.DashManifestURL,
			HLSManifestURL:  s.HLSManifestURL,
		}
	}
	d.Captions = player.Captions
	d.Related = mapVideos(next.RelatedVideos.Items)
	d.CommentsToken = next.Comments.Continuation
	return d
}

func mapFormats(raw []rawFormat) []domain.Format {
	if len(raw) == 0 {
		return nil
	}
	formats := make([]domain.Format, 0, len(raw))
	for _, f := range raw {
		formats = append(formats, domain.Format{
			Itag:         int(f.Itag),
			URL:          f.URL,
			MimeType:     f.MimeType,
			QualityLabel: f.QualityLabel,
			Bitrate:      int64(f.Bitrate),
			Width:        int(f.Width),
			Height:       int(f.Height),
		})
	}
	return formats
}

func mapComments(raw []rawComment) []domain.Comment {
	comments := make([]domain.Comment, 0, len(raw))
	for _, c := range raw {
		if c.ID == "" {
			continue
		}
		comments = append(comments, domain.Comment{
			ID:              c.ID,
			Author:          c.Author.Name,
			AuthorThumbnail: c.Author.Avatar.Best(),
			Content:         c.Content,
			Published:       c.PublishedTime,
			Likes:           firstCount(c.LikeCount, c.LikeCountText),
			ReplyCount:      int(c.ReplyCount),
			RepliesToken:    c.RepliesToken,
		})
	}
	return comments
}

func mapChannel(channelID string, limit int, res channelResponse) *domain.ChannelInfo {
	ch := res.Channel
	info := &domain.ChannelInfo{
		ID:              firstString(ch.ID, channelID),
		Name:            ch.Title,
		Description:     ch.Description,
		Thumbnail:       ch.Avatar.Best(),
		Banner:          ch.Banners.Best(),
		SubscriberCount: ch.SubscriberCount,
		VideoCount:      ch.VideoCount,
		ViewCount:       ch.ViewCount,
		Verified:        ch.Verified,
	}

	var source []rawVideo
	for _, tab := range res.Tabs {
		if len(tab.Items) > 0 {
			source = tab.Items
			break
		}
	}
	if limit > 0 && limit < len(source) {
		source = source[:limit]
	}
	info.Videos = make([]domain.Video, 0, len(source))
	for _, r := range source {
		v, ok := mapVideo(r)
		if !ok {
			continue
		}
		info.Videos = append(info.Videos, domain.Video{
			ID:          v.ID,
			Title:       v.Title,
			Description: v.Description,
			Thumbnail:   v.Thumbnail,
			UploadDate:  v.UploadDate,
		})
	}
	return info
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstCount(values ...domain.Count) domain.Count {
	for _, v := range values {
		if !v.IsZero() {
			return v
		}
	}
	return domain.Count{}
}
