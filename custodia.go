// Package custodia tracks the custody of physical clinical history
// folders: direct loans, guest loan requests with admin approval,
// two-phase returns, and inter-service transfers. The presentation
// layer embeds this package; there is no network surface.
package custodia

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hcquillabamba/custodia/config"
	"github.com/hcquillabamba/custodia/pkg/logger"
	"github.com/hcquillabamba/custodia/pkg/metrics"
	"github.com/hcquillabamba/custodia/query"
	"github.com/hcquillabamba/custodia/session"
	"github.com/hcquillabamba/custodia/state"
	"github.com/hcquillabamba/custodia/store"
	"github.com/hcquillabamba/custodia/workflow"
)

// App wires the snapshot store, state aggregate, workflow engine and
// derived views together.
type App struct {
	Workflow *workflow.Service
	Views    *query.Views

	kv store.KV
}

// Open loads state from the configured store and returns a ready App.
// Metrics register against the given registerer; pass nil for the
// default one.
func Open(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*App, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	log := logger.New(&logger.Config{Level: logger.ParseLevel(cfg.Log.Level)})

	kv, err := store.Open(store.Options{
		Driver:        cfg.Store.Driver,
		DSN:           cfg.Store.DSN,
		RedisAddr:     cfg.Store.RedisAddr,
		RedisPassword: cfg.Store.RedisPassword,
		RedisDB:       cfg.Store.RedisDB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}

	m := metrics.New("custodia", reg)
	st := state.Load(ctx, kv, log, m, state.AdminSeed{
		Username: cfg.DefaultAdmin.Username,
		Password: cfg.DefaultAdmin.Password,
	})
	sessions := session.New(cfg.SessionTTL)

	return &App{
		Workflow: workflow.NewService(st, sessions, m, log),
		Views:    query.NewViews(st),
		kv:       kv,
	}, nil
}

// Close releases the snapshot store.
func (a *App) Close() error {
	return a.kv.Close()
}
