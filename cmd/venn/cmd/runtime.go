package cmd

import (
	"fmt"
	"time"

	"github.com/msto63/venn/internal/venn/exercise"
	"github.com/msto63/venn/internal/venn/service"
	"github.com/msto63/venn/internal/venn/store"
	"github.com/msto63/venn/pkg/core/config"
)

// appRuntime bundles the in-process evaluation stack
type appRuntime struct {
	registry *exercise.Registry
	loader   *exercise.Loader
	service  *service.Service
}

// openRuntime loads the exercises and builds the service. The history
// store is opened only when withHistory is set and history is enabled.
func openRuntime(cfg *config.Config, withHistory bool) (*appRuntime, error) {
	registry := exercise.NewRegistry()
	loader := exercise.NewLoader(cfg.Exercises.Dir, registry)
	if _, err := loader.LoadAll(); err != nil {
		return nil, err
	}

	var history store.HistoryStore
	if withHistory && cfg.History.Enabled {
		h, err := store.NewSQLiteHistoryStore(store.Config{Path: cfg.History.Path})
		if err != nil {
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		history = h
	}

	svc, err := service.NewService(serviceConfig(cfg), registry, history)
	if err != nil {
		if history != nil {
			history.Close()
		}
		return nil, err
	}
	loader.SetOnChange(svc.InvalidateExercise)

	return &appRuntime{registry: registry, loader: loader, service: svc}, nil
}

// Close releases the service and its history store
func (r *appRuntime) Close() error {
	return r.service.Close()
}

func serviceConfig(cfg *config.Config) service.Config {
	sc := service.DefaultConfig()
	sc.DefaultExercise = cfg.Exercises.DefaultExercise
	sc.Cache.MaxItems = cfg.Cache.MaxItems
	sc.Cache.TTL = cfg.Cache.TTL.Duration
	sc.Retention = time.Duration(cfg.History.RetentionDays) * 24 * time.Hour
	return sc
}
