// Package modules bundles the framework's standard registrations. Each
// module is a grouping of container Add* calls applied once by AddModule;
// applications list the modules they want at bootstrap and add their own
// alongside.
package modules

import (
	"log/slog"
	"os"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/routing"
)

// ── ConfigModule ──────────────────────────────────────────────────────────────

// ConfigModule loads the application configuration from .env and registers
// it as a borrowed singleton *config.Config.
type ConfigModule struct {
	EnvFiles []string
}

func (m ConfigModule) Register(c *container.Container) error {
	return container.AddSingleton(c, config.Load(m.EnvFiles...))
}

// ── LoggerModule ──────────────────────────────────────────────────────────────

// LoggerModule registers a *slog.Logger singleton whose level follows the
// configured LOG_LEVEL. It expects ConfigModule to have been applied first;
// without a registered config it falls back to info on stderr.
type LoggerModule struct{}

func (m LoggerModule) Register(c *container.Container) error {
	return container.AddFactory(c, container.Singleton, func() *slog.Logger {
		level := slog.LevelInfo
		if cfg, ok := container.TryResolve[*config.Config](c); ok {
			level = cfg.Log.SlogLevel()
		}
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	})
}

// ── RouterModule ──────────────────────────────────────────────────────────────

// RouterModule registers the HTTP router as a singleton.
type RouterModule struct{}

func (m RouterModule) Register(c *container.Container) error {
	return container.AddFactory(c, container.Singleton, func() *routing.Router {
		return routing.New()
	})
}
