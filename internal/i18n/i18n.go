// Package i18n provides the UI dictionaries and language selection.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Lang is a supported UI language code
type Lang string

const (
	English    Lang = "en"
	Vietnamese Lang = "vi"
	German     Lang = "de"
	French     Lang = "fr"
	Spanish    Lang = "es"
	Chinese    Lang = "cn"
)

// Default is used when nothing else matches
const Default = English

// Supported lists languages in picker order
var Supported = []Lang{English, Vietnamese, German, French, Spanish, Chinese}

// Names are the display names used by the language picker
var Names = map[Lang]string{
	English:    "English",
	Vietnamese: "Tiếng Việt",
	German:     "Deutsch",
	French:     "Français",
	Spanish:    "Español",
	Chinese:    "中文",
}

// Parse validates a stored language code
func Parse(s string) (Lang, bool) {
	l := Lang(strings.ToLower(strings.TrimSpace(s)))
	for _, sup := range Supported {
		if l == sup {
			return l, true
		}
	}
	return Default, false
}

var (
	tags = []language.Tag{
		language.English,
		language.Vietnamese,
		language.German,
		language.French,
		language.Spanish,
		language.Chinese,
	}
	matcher = language.NewMatcher(tags)
)

// Match maps a locale such as "vi_VN.UTF-8" or "zh-Hans" to a supported
// language.
func Match(locale string) Lang {
	locale = strings.TrimSpace(locale)
	if i := strings.IndexAny(locale, ".@"); i >= 0 {
		locale = locale[:i]
	}
	locale = strings.ReplaceAll(locale, "_", "-")
	if locale == "" || locale == "C" || locale == "POSIX" {
		return Default
	}
	if l, ok := Parse(locale); ok {
		return l
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return Default
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Default
	}
	return Supported[idx]
}

// Translator resolves dotted keys for one language
type Translator struct {
	lang Lang
}

// New returns a translator for lang
func New(lang Lang) Translator {
	return Translator{lang: lang}
}

// Lang returns the translator's language
func (t Translator) Lang() Lang {
	return t.lang
}

// T looks up key in the current language, then English, then returns the
// key itself.
func (t Translator) T(key string) string {
	if v, ok := dictionaries[t.lang][key]; ok {
		return v
	}
	if v, ok := dictionaries[English][key]; ok {
		return v
	}
	return key
}
