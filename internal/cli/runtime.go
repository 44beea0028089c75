// Copyright (c) 2024-2025 Longopass / Longo AI
// SPDX-License-Identifier: AGPL-3.0-or-later

// runtime.go - Shared wiring for CLI command handlers.
//
// Every command that talks to the backend needs the same chain: load the
// config, apply environment overrides, build the API client, the identity
// resolver, the local history cache and the conversation controller.
// Runtime builds that chain once and hands the pieces to the handler.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/longopass/longo-tui/internal/api"
	"github.com/longopass/longo-tui/internal/config"
	"github.com/longopass/longo-tui/internal/history"
	"github.com/longopass/longo-tui/internal/identity"
	"github.com/longopass/longo-tui/internal/model"
	"github.com/longopass/longo-tui/internal/session"
	"github.com/longopass/longo-tui/internal/ui/styles"
)

// Runtime bundles the wired components a command handler works with.
type Runtime struct {
	Config     *config.Config
	Client     *api.Client
	Resolver   *identity.Resolver
	Cache      *history.Cache
	Controller *session.Controller
	Plan       model.Plan
}

// NewRuntime loads configuration and wires the full component chain.
// The caller owns the runtime and must Close it.
func NewRuntime(args Args) (*Runtime, error) {
	// Load already applies env overrides and validates.
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewRuntimeWithConfig(cfg)
}

// NewRuntimeWithConfig wires the component chain from an already loaded and
// validated configuration.
func NewRuntimeWithConfig(cfg *config.Config) (*Runtime, error) {
	client := api.NewClient(&api.ClientConfig{
		BaseURL:  cfg.API.BaseURL,
		Username: cfg.API.Username,
		Password: cfg.API.Password,
		Timeout:  time.Duration(cfg.API.TimeoutSecs) * time.Second,
	})

	configDir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	stateDir, err := config.StateDir()
	if err != nil {
		return nil, err
	}

	resolver := identity.NewResolver(cfg.User.Level,
		identity.WithConfigUserID(cfg.User.ID),
		identity.WithStore(identity.NewStore(stateDir, configDir)),
	)

	plan := model.PlanFromLevel(cfg.User.Level)

	var cache *history.Cache
	if cfg.History.Enabled {
		cache, err = history.Open(&history.Config{
			DatabasePath: filepath.Join(stateDir, "history.db"),
			MaxEntries:   cfg.History.MaxEntries,
			Plan:         plan,
		})
		if err != nil {
			// A broken local cache must not block chatting; continue
			// without one.
			fmt.Fprintln(os.Stderr, styles.RenderWarning("Yerel geçmiş açılamadı, bu oturumda devre dışı."))
			cache = nil
		}
	}

	return &Runtime{
		Config:     cfg,
		Client:     client,
		Resolver:   resolver,
		Cache:      cache,
		Controller: session.NewController(client, resolver, cache),
		Plan:       plan,
	}, nil
}

// Close releases the runtime's resources.
func (r *Runtime) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
