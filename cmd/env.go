package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/devndesk/DevReady/internal/api"
	"github.com/devndesk/DevReady/internal/config"
	"github.com/devndesk/DevReady/internal/llm"
	"github.com/devndesk/DevReady/internal/logging"
	"github.com/devndesk/DevReady/internal/quizgen"
	"github.com/devndesk/DevReady/internal/reconcile"
	"github.com/devndesk/DevReady/internal/services"
	"github.com/devndesk/DevReady/internal/store"
)

// appEnv is everything a command needs, opened from configuration.
type appEnv struct {
	cfg    *config.Config
	log    *zap.Logger
	store  *store.Store
	client *api.Client
	engine *reconcile.Engine
}

// openEnv loads configuration and opens the store, logger, API client and
// reconcile engine. Callers must Close it.
func openEnv(cmd *cobra.Command) (*appEnv, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{File: file, Flags: cmd.Flags()})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := store.EnsureDir(cfg.DBPath); err != nil {
		return nil, fmt.Errorf("prepare database directory: %w", err)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}

	client := api.New(cfg.API.BaseURL, cfg.API.Timeout, api.WithLogger(log.Named("api")))
	engine := reconcile.NewEngine(client, st.ProfileCache(), log.Named("reconcile"))

	log.Debug("environment ready",
		zap.String("db", cfg.DBPath),
		zap.String("api", cfg.API.BaseURL),
		zap.String("config", cfg.File))

	return &appEnv{cfg: cfg, log: log, store: st, client: client, engine: engine}, nil
}

// Close releases the store and flushes logs.
func (e *appEnv) Close() {
	_ = e.store.Close()
	_ = e.log.Sync()
}

// generator builds the quiz generator, or returns nil when no provider
// key is configured.
func (e *appEnv) generator(ctx context.Context) quizgen.Generator {
	if !e.cfg.LLMConfigured {
		e.log.Info("no LLM provider configured; quizzes disabled")
		return nil
	}
	provider, err := llm.NewProvider(ctx, e.cfg.LLM, e.store.EventRepo(), e.log.Named("llm"))
	if err != nil {
		e.log.Warn("LLM provider unavailable; quizzes disabled", zap.Error(err))
		return nil
	}
	return quizgen.New(provider, quizgen.DefaultConfig())
}

// services bundles the environment for the TUI screens.
func (e *appEnv) services(ctx context.Context) *services.Services {
	timeout := e.cfg.API.Timeout
	if e.cfg.LLM.Timeout > timeout {
		timeout = e.cfg.LLM.Timeout
	}
	return &services.Services{
		Engine:            e.engine,
		Cards:             e.client,
		Generator:         e.generator(ctx),
		Log:               e.log,
		RefreshInterval:   e.cfg.League.RefreshInterval,
		CountdownInterval: e.cfg.League.CountdownInterval,
		RequestTimeout:    timeout,
	}
}

// requireProfile restores the cached profile or explains how to sign in.
func (e *appEnv) requireProfile(ctx context.Context) error {
	if _, err := e.engine.Restore(ctx); err != nil {
		if errors.Is(err, reconcile.ErrNoIdentity) {
			return fmt.Errorf("not signed in; run `devready login --email you@example.com` first")
		}
		return err
	}
	return nil
}
