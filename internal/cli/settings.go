package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mmcdole/youhub/internal/i18n"
	"github.com/mmcdole/youhub/internal/prefs"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change stored preferences",
	Long: `Preferences live in the local store, next to resume positions.

Examples:
  youhub settings show
  youhub settings lang vi
  youhub settings safe-mode on`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show stored preferences",
	Args:  cobra.NoArgs,
	RunE:  withServices(runSettingsShow),
}

var settingsLangCmd = &cobra.Command{
	Use:       "lang <code>",
	Short:     "Set the interface language",
	Args:      cobra.ExactArgs(1),
	ValidArgs: langArgs(),
	RunE:      withServices(runSettingsLang),
}

var settingsSafeModeCmd = &cobra.Command{
	Use:       "safe-mode <on|off>",
	Short:     "Hide thumbnails",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      withServices(runSettingsSafeMode),
}

var settingsConsentCmd = &cobra.Command{
	Use:   "consent",
	Short: "Accept the cookie notice",
	Args:  cobra.NoArgs,
	RunE:  withServices(runSettingsConsent),
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsLangCmd, settingsSafeModeCmd, settingsConsentCmd)
	rootCmd.AddCommand(settingsCmd)
}

func langArgs() []string {
	out := make([]string, len(i18n.Supported))
	for i, l := range i18n.Supported {
		out[i] = string(l)
	}
	return out
}

type settingsOutput struct {
	Language      string `json:"language"`
	SafeMode      bool   `json:"safe_mode"`
	CookieConsent bool   `json:"cookie_consent"`
}

func printSettings(out io.Writer, s prefs.Settings) error {
	if JSONOutput() {
		return printJSON(out, settingsOutput{
			Language:      string(s.Language),
			SafeMode:      s.SafeMode,
			CookieConsent: s.CookieConsent,
		})
	}
	t := NewTable(out)
	t.Row("language", fmt.Sprintf("%s (%s)", s.Language, i18n.Names[s.Language]))
	t.Row("safe-mode", onOff(s.SafeMode))
	t.Row("cookie-consent", strconv.FormatBool(s.CookieConsent))
	t.Flush()
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func runSettingsShow(ctx context.Context, out io.Writer, s *services, _ []string) error {
	return printSettings(out, s.prefs.Load(ctx))
}

func runSettingsLang(ctx context.Context, out io.Writer, s *services, args []string) error {
	lang, ok := i18n.Parse(args[0])
	if !ok {
		return fmt.Errorf("unsupported language %q (supported: %v)", args[0], langArgs())
	}
	return printSettings(out, s.prefs.SetLanguage(ctx, s.prefs.Load(ctx), lang))
}

func runSettingsSafeMode(ctx context.Context, out io.Writer, s *services, args []string) error {
	var on bool
	switch args[0] {
	case "on", "true", "1":
		on = true
	case "off", "false", "0":
	default:
		return fmt.Errorf("expected on or off, got %q", args[0])
	}
	return printSettings(out, s.prefs.SetSafeMode(ctx, s.prefs.Load(ctx), on))
}

func runSettingsConsent(ctx context.Context, out io.Writer, s *services, _ []string) error {
	return printSettings(out, s.prefs.AcceptCookies(ctx, s.prefs.Load(ctx)))
}
