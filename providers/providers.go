// Package providers holds the framework-level service providers an
// application registers at bootstrap: configuration, logging, and the HTTP
// router.
package providers

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/km-arc/go-container"
	"github.com/km-arc/go-container/config"
	"github.com/km-arc/go-container/logging"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// binds it into the container as "config".
//
// Bound abstracts:
//   - "config"         → *config.Config
//   - "configuration"  → alias
//   - type key of *config.Config → alias, for autowired constructors
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->singleton('config', fn() => new Repository($items));
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	envFiles := p.EnvFiles
	app.Singleton("config", func(container.Resolver) (any, error) {
		return config.Load(envFiles...), nil
	})
	app.Alias("config", "configuration")
	app.Alias("config", container.TypeKeyFor[*config.Config]())
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider builds the application's zap logger from the loaded
// configuration.
//
// Bound abstracts:
//   - "log"     → *zap.Logger
//   - "logger"  → alias
//   - type key of *zap.Logger → alias, for autowired constructors
//
// Laravel equivalent:
//
//	// Illuminate\Log\LogServiceProvider
//	$app->singleton('log', fn($app) => new LogManager($app));
type LogServiceProvider struct {
	container.BaseProvider
}

func (p *LogServiceProvider) Register(app *container.Container) {
	app.Singleton("log", func(r container.Resolver) (any, error) {
		cfg, err := container.Resolve[*config.Config](r, "config")
		if err != nil {
			return nil, err
		}
		return logging.New(logging.Options{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
		}), nil
	})
	app.Alias("log", "logger")
	app.Alias("log", container.TypeKeyFor[*zap.Logger]())
}

// ── RouterServiceProvider ─────────────────────────────────────────────────────

// RouterServiceProvider registers the HTTP router: a chi mux with request-ID,
// real-IP and panic-recovery middleware installed.
//
// Bound abstracts:
//   - "router" → *chi.Mux
//   - type key of *chi.Mux → alias, for autowired constructors
//
// Laravel equivalent:
//
//	// Illuminate\Routing\RoutingServiceProvider
//	$app->singleton('router', fn($app) => new Router($app['events'], $app));
type RouterServiceProvider struct {
	container.BaseProvider
}

func (p *RouterServiceProvider) Register(app *container.Container) {
	app.Singleton("router", func(container.Resolver) (any, error) {
		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(middleware.Recoverer)
		return r, nil
	})
	app.Alias("router", container.TypeKeyFor[*chi.Mux]())
}
