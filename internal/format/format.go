// Package format renders counts, durations and ages for display.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/mmcdole/youhub/internal/domain"
)

type unit struct {
	div    int64
	suffix string
}

var units = []unit{
	{1_000, "K"},
	{1_000_000, "M"},
	{1_000_000_000, "B"},
}

// CompactCount abbreviates large counts: 950 -> "950", 1500 -> "1.5K",
// 2300000 -> "2.3M". Exact multiples drop the decimal except for billions.
func CompactCount(n int64) string {
	if n < 0 {
		if n == math.MinInt64 {
			// -n overflows; the dropped unit is below display precision
			n++
		}
		return "-" + CompactCount(-n)
	}
	if n < units[0].div {
		return strconv.FormatInt(n, 10)
	}

	i := 0
	for i < len(units)-1 && n >= units[i+1].div {
		i++
	}
	for {
		u := units[i]
		decimals := 1
		if i < len(units)-1 && n%u.div == 0 {
			decimals = 0
		}
		s := strconv.FormatFloat(float64(n)/float64(u.div), 'f', decimals, 64)
		// 999_990 rounds to "1000.0K"; promote it.
		if i < len(units)-1 && strings.HasPrefix(s, "1000") {
			i++
			continue
		}
		return s + u.suffix
	}
}

// ViewsLabel renders "{compact} Views", or "" for an empty count
func ViewsLabel(c domain.Count) string {
	n := c.Int()
	if n <= 0 {
		return ""
	}
	return CompactCount(n) + " Views"
}

// FormatTime renders seconds as m:ss or h:mm:ss
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}
	total := int64(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// TimeAgo renders the distance between t and now as "3 weeks ago"
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}
	sec := int64(diff / time.Second)
	minutes := sec / 60
	hours := minutes / 60
	days := hours / 24

	switch {
	case days/365 > 0:
		return plural(days/365, "year")
	case days/30 > 0:
		return plural(days/30, "month")
	case days/7 > 0:
		return plural(days/7, "week")
	case days > 0:
		return plural(days, "day")
	case hours > 0:
		return plural(hours, "hour")
	case minutes > 0:
		return plural(minutes, "minute")
	}
	return "just now"
}

func plural(n int64, word string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss ago", n, word)
	}
	return fmt.Sprintf("%d %s ago", n, word)
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// AgeLabel turns an upload date into a relative label. Values that are
// already relative ("2 days ago") pass through untouched.
func AgeLabel(s string, now time.Time) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeAgo(t, now)
		}
	}
	return s
}

// Grouped renders n with thousands separators
func Grouped(n int64) string {
	return humanize.Comma(n)
}

// CountLabel renders a count with an optional unit. Text that already
// carries words ("1.2M subscribers") is returned as is.
func CountLabel(c domain.Count, unit string) string {
	if c.IsZero() {
		return ""
	}
	if c.Text != "" && strings.IndexFunc(c.Text, unicode.IsLetter) >= 0 {
		return c.Text
	}
	var formatted string
	switch {
	case c.Valid:
		formatted = Grouped(c.N)
	default:
		formatted = strings.TrimSpace(c.Text)
	}
	if formatted == "" {
		return ""
	}
	if unit == "" {
		return formatted
	}
	return formatted + " " + unit
}

// Truncate shortens s to max runes, adding an ellipsis when cut
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}
