package cli

import (
	"errors"
	"log/slog"
	"os"

	"github.com/mmcdole/youhub/internal/api"
	"github.com/mmcdole/youhub/internal/config"
	"github.com/mmcdole/youhub/internal/domain"
	"github.com/mmcdole/youhub/internal/player"
	"github.com/mmcdole/youhub/internal/prefs"
	"github.com/mmcdole/youhub/internal/querycache"
	"github.com/mmcdole/youhub/internal/service"
	"github.com/mmcdole/youhub/internal/store"
	"github.com/mmcdole/youhub/internal/stream"
)

// newSource builds the proxy client. Tests swap it for a fake.
var newSource = func(c *config.Config, logger *slog.Logger) domain.VideoSource {
	return api.NewClient(api.Config{
		Origin:   c.API.Origin,
		BasePath: c.API.BasePath,
		Timeout:  c.API.Timeout,
		Language: c.API.HL,
		Region:   c.API.GL,
	}, logger)
}

// openStore opens the persistent key/value store
var openStore = func(c config.StorageConfig) (domain.KV, error) {
	return store.NewStore(c.Backend, c.Path)
}

// services are shared by the commands of one invocation
type services struct {
	videos   *service.VideoService
	kv       domain.KV
	session  domain.KV
	prefs    *prefs.Store
	resume   *player.ResumeStore
	launcher *player.Launcher
	ladder   *stream.Ladder
}

func newServices() (*services, error) {
	kv, err := openStore(cfg.Storage)
	if err != nil {
		return nil, err
	}
	session := store.NewMemoryStore()
	cache := querycache.New(querycache.DefaultSize, logger)
	settings := seededPrefs(kv, session, cfg.UI)

	return &services{
		videos:   service.NewVideoService(newSource(cfg, logger), cache, logger),
		kv:       kv,
		session:  session,
		prefs:    settings,
		resume:   player.NewResumeStore(kv, logger),
		launcher: player.NewLauncher(cfg.Player.Command, cfg.Player.Args, cfg.Player.StartFlag, logger),
		ladder:   stream.NewLadder(nil, logger),
	}, nil
}

// seededPrefs returns a settings store whose first-run values come from
// the config and then $LANG
func seededPrefs(kv, session domain.KV, ui config.UIConfig) *prefs.Store {
	p := prefs.NewStore(kv, session, logger)
	p.SeedLocale(os.Getenv("LANG"))
	p.Seed(ui.Language, ui.SafeMode)
	return p
}

// Close releases the stores
func (s *services) Close() error {
	return errors.Join(s.kv.Close(), s.session.Close())
}
