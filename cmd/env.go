package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/poi-cli/internal/annotate"
	"github.com/sells-group/poi-cli/internal/geo"
	"github.com/sells-group/poi-cli/internal/notify"
	"github.com/sells-group/poi-cli/internal/store"
	"github.com/sells-group/poi-cli/pkg/maps"
	"github.com/sells-group/poi-cli/pkg/slack"
)

// appEnv holds the initialized layout, annotator, store and notifier needed
// by the annotate/run/serve commands.
type appEnv struct {
	Layout    *geo.Layout
	Annotator *annotate.Annotator
	Store     store.Store      // nil unless requested
	Notifier  *notify.Notifier // nil when Slack is not configured
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv validates config for mode and builds the environment. The store is
// opened and migrated only when withStore is set.
func initEnv(ctx context.Context, mode string, withStore bool) (*appEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	layout, err := loadLayout()
	if err != nil {
		return nil, err
	}

	env := &appEnv{
		Layout:    layout,
		Annotator: annotate.New(annotate.ConfigFromLayout(layout, cfg.Office.Address), initMaps()),
		Notifier:  initNotifier(),
	}

	if withStore {
		st, err := initStore(ctx)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, eris.Wrap(err, "migrate store")
		}
		env.Store = st
	}

	return env, nil
}

// loadLayout reads the YAML layout and appends any shapefile boxes after the
// YAML ones.
func loadLayout() (*geo.Layout, error) {
	layout := &geo.Layout{}
	if cfg.Layout.Path != "" {
		l, err := geo.LoadLayout(cfg.Layout.Path)
		if err != nil {
			return nil, eris.Wrap(err, "load layout")
		}
		layout = l
	}

	if cfg.Layout.Shapefile != "" {
		boxes, err := geo.BoxesFromShapefile(cfg.Layout.Shapefile, cfg.Layout.ShapefileNameField)
		if err != nil {
			return nil, eris.Wrap(err, "load shapefile boxes")
		}
		layout.Boxes = append(layout.Boxes, boxes...)
	}

	zap.L().Debug("layout loaded",
		zap.Int("boxes", len(layout.Boxes)),
		zap.Int("networks", len(layout.Networks)),
		zap.Int("neighborhoods", len(layout.Neighborhoods)),
	)
	return layout, nil
}

// initMaps returns the Google Maps provider, or nil when no key is configured
// so every lookup falls back to its sentinel value.
func initMaps() annotate.Provider {
	if cfg.Maps.Key == "" {
		zap.L().Warn("maps.key not set; travel times and addresses will use fallback values")
		return nil
	}
	return maps.NewClient(cfg.Maps.Key,
		maps.WithBaseURL(cfg.Maps.BaseURL),
		maps.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Maps.TimeoutSecs) * time.Second}),
	)
}

func initNotifier() *notify.Notifier {
	if cfg.Slack.Token == "" {
		return nil
	}
	return notify.New(
		slack.NewClient(cfg.Slack.Token, slack.WithBaseURL(cfg.Slack.BaseURL)),
		notify.Config{
			Channel:   cfg.Slack.Channel,
			Username:  cfg.Slack.Username,
			IconEmoji: cfg.Slack.IconEmoji,
		},
	)
}

func initStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL, &store.PoolConfig{
		MaxConns: cfg.Store.MaxConns,
		MinConns: cfg.Store.MinConns,
	})
}
