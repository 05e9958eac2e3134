package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kcherif/maitre/internal/api"
	"github.com/kcherif/maitre/internal/config"
	"github.com/kcherif/maitre/internal/media"
	"github.com/kcherif/maitre/internal/orders"
	"github.com/kcherif/maitre/internal/prefs"
	"github.com/kcherif/maitre/internal/session"
	"github.com/kcherif/maitre/internal/ui"
)

// Options configure the maitre application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/maitre/prefs.toml
	PollEvery  int    // seconds between order refreshes; zero uses default
}

const defaultPollInterval = 5 * time.Second

// Run boots the admin console and blocks until the context is cancelled or
// the operator quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		// Preferences are a convenience; a broken file falls back to defaults.
		userPrefs = prefs.Prefs{}
	}

	sess, err := session.Load(cfg.TokenFile)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	client, err := api.NewClient(cfg.APIBaseURL, sess)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	pageSize := cfg.PageSize
	if userPrefs.PageSize > 0 {
		pageSize = userPrefs.PageSize
	}

	uiOpts := ui.Options{
		Context: ctx,
		Client:  client,
		Session: sess,
		Machine: orders.NewMachine(client),
		ImageOptions: media.Options{
			MaxWidth: cfg.ImageMaxWidth,
			Quality:  cfg.ImageQuality,
		},
		PageSize:  pageSize,
		PollTick:  interval,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}
