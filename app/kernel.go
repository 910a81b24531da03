// Package app bootstraps the framework: a configured container with the
// standard modules applied and an HTTP server on top.
package app

import (
	"log/slog"
	"net/http"

	"github.com/km-arc/go-container/framework/config"
	"github.com/km-arc/go-container/framework/container"
	"github.com/km-arc/go-container/framework/modules"
	"github.com/km-arc/go-container/routing"
)

// Application is the top-level application object. It embeds the container
// so user code can register and resolve services directly on it.
type Application struct {
	*container.Container
}

// New creates and bootstraps the application: a fresh container with the
// config, logger and router modules applied in that order.
func New(envFiles ...string) (*Application, error) {
	c := container.New()
	err := c.AddModule(
		modules.ConfigModule{EnvFiles: envFiles},
		modules.LoggerModule{},
		modules.RouterModule{},
	)
	if err != nil {
		c.Clear()
		return nil, err
	}
	return &Application{Container: c}, nil
}

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container)
}

// Logger resolves the application *slog.Logger.
func (a *Application) Logger() *slog.Logger {
	return container.MustResolve[*slog.Logger](a.Container)
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container)
}

// Run starts the HTTP server on the configured port, blocking until the
// server stops.
func (a *Application) Run() error {
	cfg := a.Config()
	addr := ":" + cfg.App.Port
	a.Logger().Info("server starting",
		"app", cfg.App.Name, "env", cfg.App.Env, "addr", addr)
	return http.ListenAndServe(addr, a.Router())
}

// Environment returns the APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
