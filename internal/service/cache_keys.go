package service

import (
	"fmt"
	"strings"
)

// Cache key prefixes for proxy queries
const (
	// PrefixFeed is the prefix for browse feed pages (feed:{browseID}:{region}:{continuation})
	PrefixFeed = "feed:"

	// PrefixSearch is the prefix for search results (search:{query}:{limit})
	PrefixSearch = "search:"

	// PrefixDetails is the prefix for watch page payloads (details:{videoID})
	PrefixDetails = "details:"

	// PrefixComments is the prefix for comment pages (comments:{videoID}:{token})
	PrefixComments = "comments:"

	// PrefixChannel is the prefix for channel panels (channel:{channelID}:{limit})
	PrefixChannel = "channel:"
)

func feedKey(browseID, region, continuation string) string {
	return PrefixFeed + browseID + ":" + region + ":" + continuation
}

func searchKey(query string, limit int) string {
	return fmt.Sprintf("%s%s:%d", PrefixSearch, strings.TrimSpace(query), limit)
}

func detailsKey(videoID string) string {
	return PrefixDetails + videoID
}

func commentsKey(videoID, token string) string {
	return PrefixComments + videoID + ":" + token
}

func channelKey(channelID string, limit int) string {
	return fmt.Sprintf("%s%s:%d", PrefixChannel, channelID, limit)
}

// VideoCachePrefixes returns the prefixes that hold data for videoID and
// should be dropped when the user refreshes a watch page
func VideoCachePrefixes(videoID string) []string {
	return []string{detailsKey(videoID), PrefixComments + videoID + ":"}
}
