// Package prefs holds the persisted UI settings and the session flags.
package prefs

import (
	"context"
	"log/slog"

	"github.com/mmcdole/youhub/internal/domain"
	"github.com/mmcdole/youhub/internal/i18n"
)

// Persisted keys
const (
	KeyLanguage      = "ui-lang"
	KeySafeMode      = "safe-mode"
	KeyCookieConsent = "cookies-consent"

	// KeyWarningShown lives in session storage only
	KeyWarningShown = "warning-modal-shown"

	consentAccepted = "accepted"
)

// Settings is an immutable view of the user preferences
type Settings struct {
	Language      i18n.Lang
	SafeMode      bool
	CookieConsent bool
}

// Defaults returns the settings of a fresh install
func Defaults() Settings {
	return Settings{Language: i18n.Default}
}

// WithLanguage returns a copy using lang
func (s Settings) WithLanguage(lang i18n.Lang) Settings {
	s.Language = lang
	return s
}

// WithSafeMode returns a copy with safe mode set to on
func (s Settings) WithSafeMode(on bool) Settings {
	s.SafeMode = on
	return s
}

// WithCookieConsent returns a copy with consent given
func (s Settings) WithCookieConsent() Settings {
	s.CookieConsent = true
	return s
}

// Store loads and saves settings. Storage failures are logged and the
// in-memory value stands.
type Store struct {
	kv      domain.KV
	session domain.KV
	seed    Settings // first-run values for keys not stored yet
	logger  *slog.Logger
}

// NewStore creates a settings store. session holds the per-process flags
// and is typically a memory KV.
func NewStore(kv, session domain.KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, session: session, seed: Defaults(), logger: logger}
}

// SeedLocale makes the language matching locale (a $LANG value) the
// first-run language
func (s *Store) SeedLocale(locale string) {
	s.seed.Language = i18n.Match(locale)
}

// Seed sets the first-run values from the configuration. An empty or
// unknown language keeps the current seed.
func (s *Store) Seed(language string, safeMode bool) {
	if lang, ok := i18n.Parse(language); ok {
		s.seed.Language = lang
	}
	s.seed.SafeMode = safeMode
}

// Load reads the settings, falling back to the seed. A missing language
// follows the seed; a missing safe-mode key is initialized from it.
func (s *Store) Load(ctx context.Context) Settings {
	out := Defaults()
	out.Language = s.seed.Language

	if v, ok := s.get(ctx, s.kv, KeyLanguage); ok {
		if lang, valid := i18n.Parse(v); valid {
			out.Language = lang
		}
	}

	if v, ok := s.get(ctx, s.kv, KeySafeMode); ok {
		out.SafeMode = v == "1"
	} else {
		out.SafeMode = s.seed.SafeMode
		s.set(ctx, s.kv, KeySafeMode, flag(out.SafeMode))
	}

	if v, ok := s.get(ctx, s.kv, KeyCookieConsent); ok {
		out.CookieConsent = v == consentAccepted
	}
	return out
}

// SetLanguage persists lang and returns the updated settings
func (s *Store) SetLanguage(ctx context.Context, cur Settings, lang i18n.Lang) Settings {
	s.set(ctx, s.kv, KeyLanguage, string(lang))
	return cur.WithLanguage(lang)
}

// SetSafeMode persists the safe mode flag
func (s *Store) SetSafeMode(ctx context.Context, cur Settings, on bool) Settings {
	s.set(ctx, s.kv, KeySafeMode, flag(on))
	return cur.WithSafeMode(on)
}

// ResetLanguage forgets the chosen language so the seed applies again
func (s *Store) ResetLanguage(ctx context.Context, cur Settings) Settings {
	if s.kv != nil {
		if err := s.kv.Delete(ctx, KeyLanguage); err != nil {
			s.logger.Warn("failed to reset preference", "key", KeyLanguage, "error", err)
		}
	}
	return cur.WithLanguage(s.seed.Language)
}

func flag(on bool) string {
	if on {
		return "1"
	}
	return "0"
}

// AcceptCookies records consent
func (s *Store) AcceptCookies(ctx context.Context, cur Settings) Settings {
	s.set(ctx, s.kv, KeyCookieConsent, consentAccepted)
	return cur.WithCookieConsent()
}

// WarningShown reports whether the warning modal was acknowledged in this
// session.
func (s *Store) WarningShown(ctx context.Context) bool {
	v, ok := s.get(ctx, s.session, KeyWarningShown)
	return ok && v == "1"
}

// AcknowledgeWarning hides the warning modal for the rest of the session
func (s *Store) AcknowledgeWarning(ctx context.Context) {
	s.set(ctx, s.session, KeyWarningShown, "1")
}

func (s *Store) get(ctx context.Context, kv domain.KV, key string) (string, bool) {
	if kv == nil {
		return "", false
	}
	v, ok, err := kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("failed to read preference", "key", key, "error", err)
		return "", false
	}
	return v, ok
}

func (s *Store) set(ctx context.Context, kv domain.KV, key, value string) {
	if kv == nil {
		return
	}
	if err := kv.Set(ctx, key, value); err != nil {
		s.logger.Warn("failed to save preference", "key", key, "error", err)
	}
}
