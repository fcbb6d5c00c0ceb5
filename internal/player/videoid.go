package player

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	videoIDPattern = regexp.MustCompile(`[A-Za-z0-9_-]{11}`)
	exactIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
)

// ExtractVideoID returns the 11-character video id found in a raw id,
// a watch URL or a youtu.be link. Input without one is returned trimmed.
func ExtractVideoID(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}
	// links are read by structure so other query values never win
	for _, field := range strings.Fields(s) {
		if id, ok := idFromURL(field); ok {
			return id
		}
	}
	if m := videoIDPattern.FindString(s); m != "" {
		return m
	}
	return s
}

func idFromURL(s string) (string, bool) {
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	switch {
	case host == "youtu.be":
		if segments[0] != "" {
			return segments[0], true
		}
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		if v := u.Query().Get("v"); v != "" {
			return v, true
		}
		// /embed/<id>, /shorts/<id>, /live/<id>
		if len(segments) >= 2 && exactIDPattern.MatchString(segments[1]) {
			switch segments[0] {
			case "embed", "shorts", "live", "v":
				return segments[1], true
			}
		}
	}
	return "", false
}

// WatchURL is the page URL handed to the playback engine
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID)
}
