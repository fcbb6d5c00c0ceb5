package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mmcdole/youhub/internal/config"
	"github.com/mmcdole/youhub/internal/i18n"
	"github.com/mmcdole/youhub/internal/store"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create or edit the config file interactively",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	next := *cfg

	var langOptions []huh.Option[string]
	langOptions = append(langOptions, huh.NewOption("Auto-detect", ""))
	for _, l := range i18n.Supported {
		langOptions = append(langOptions, huh.NewOption(i18n.Names[l], string(l)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Metadata proxy origin").
				Description("Base URL of the youtubei proxy").
				Value(&next.API.Origin).
				Validate(func(s string) error {
					api := next.API
					api.Origin = strings.TrimSpace(s)
					return api.Validate()
				}),
			huh.NewInput().
				Title("Player command").
				Description("Must speak mpv IPC for in-app controls").
				Value(&next.Player.Command),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Interface language").
				Options(langOptions...).
				Value(&next.UI.Language),
			huh.NewConfirm().
				Title("Safe mode").
				Description("Hide thumbnails").
				Value(&next.UI.SafeMode),
			huh.NewSelect[string]().
				Title("Storage backend").
				Options(
					huh.NewOption("BoltDB", store.BackendBolt),
					huh.NewOption("SQLite", store.BackendSqlite),
					huh.NewOption("In memory (nothing persists)", store.BackendMemory),
				).
				Value(&next.Storage.Backend),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	next.API.Origin = strings.TrimSpace(next.API.Origin)
	if err := next.Validate(); err != nil {
		return err
	}
	if err := loader.Save(&next); err != nil {
		return err
	}
	if err := applyUISettings(cmd.Context(), next); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration saved to %s\n", loader.Path())
	return nil
}

// applyUISettings writes the language and safe mode answers to the
// preference store. Auto-detect forgets a previously chosen language.
func applyUISettings(ctx context.Context, c config.Config) error {
	kv, err := openStore(c.Storage)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer kv.Close()

	p := seededPrefs(kv, nil, c.UI)
	cur := p.Load(ctx)
	if lang, ok := i18n.Parse(c.UI.Language); ok {
		cur = p.SetLanguage(ctx, cur, lang)
	} else {
		cur = p.ResetLanguage(ctx, cur)
	}
	p.SetSafeMode(ctx, cur, c.UI.SafeMode)
	return nil
}
