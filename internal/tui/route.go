package tui

import (
	"net/url"
	"strings"

	"github.com/mmcdole/youhub/internal/player"
)

// RouteKind identifies a page
type RouteKind int

const (
	RouteHome RouteKind = iota
	RouteWatch
	RouteSearch
	RouteChannel
	RouteNotFound
)

// Route is a parsed location
type Route struct {
	Kind  RouteKind
	ID    string // video id for watch, channel id for channel
	Query string // search query
	Raw   string
}

// ParseRoute resolves "/", "/v/:id", "/search?q=" and "/c/:id". Anything
// else is not found.
func ParseRoute(path string) Route {
	raw := strings.TrimSpace(path)
	u, err := url.Parse(raw)
	if err != nil {
		return Route{Kind: RouteNotFound, Raw: raw}
	}

	p := strings.TrimSuffix(u.Path, "/")
	switch {
	case p == "":
		return Route{Kind: RouteHome, Raw: raw}
	case p == "/search":
		return Route{Kind: RouteSearch, Query: strings.TrimSpace(u.Query().Get("q")), Raw: raw}
	}

	segs := strings.Split(strings.TrimPrefix(p, "/"), "/")
	if len(segs) != 2 || segs[1] == "" {
		return Route{Kind: RouteNotFound, Raw: raw}
	}
	switch segs[0] {
	case "v":
		return Route{Kind: RouteWatch, ID: player.ExtractVideoID(segs[1]), Raw: raw}
	case "c":
		return Route{Kind: RouteChannel, ID: segs[1], Raw: raw}
	}
	return Route{Kind: RouteNotFound, Raw: raw}
}

// Path renders the route back to a location
func (r Route) Path() string {
	switch r.Kind {
	case RouteHome:
		return "/"
	case RouteWatch:
		return "/v/" + url.PathEscape(r.ID)
	case RouteSearch:
		return "/search?q=" + url.QueryEscape(r.Query)
	case RouteChannel:
		return "/c/" + url.PathEscape(r.ID)
	}
	if r.Raw != "" {
		return r.Raw
	}
	return "/404"
}

// WatchRoute returns the watch route for a video id
func WatchRoute(id string) Route { return Route{Kind: RouteWatch, ID: id} }

// SearchRoute returns the results route for query
func SearchRoute(q string) Route { return Route{Kind: RouteSearch, Query: strings.TrimSpace(q)} }

// ChannelRoute returns the channel route for id
func ChannelRoute(id string) Route { return Route{Kind: RouteChannel, ID: id} }
