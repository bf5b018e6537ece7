// Package kernel assembles a ready-to-boot application: an IoC container
// with the framework core providers registered in the right order.
package kernel

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/km-arc/go-container"
	"github.com/km-arc/go-container/config"
	"github.com/km-arc/go-container/providers"
)

// Application is the top-level application shell.
// It embeds the IoC Container and ProviderRegistry so user code can
// call app.Bind(), app.Singleton(), app.Register() directly —
// exactly like $app in Laravel's bootstrap/app.php.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry
}

// New creates the application and registers the framework core providers.
// Nothing is resolved yet; call Boot once the application's own providers
// are registered.
func New(envFiles ...string) *Application {
	c := container.New()
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
	}

	// Same order as Laravel: configuration first, then logging, then routing.
	registry.Register(&providers.ConfigServiceProvider{EnvFiles: envFiles})
	registry.Register(&providers.LogServiceProvider{})
	registry.Register(&providers.RouterServiceProvider{})

	return app
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) {
	a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() { a.Providers.Boot() }

// Booted reports whether Boot has run.
func (a *Application) Booted() bool { return a.Providers.Booted() }

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, "config")
}

// Log resolves the application logger.
func (a *Application) Log() *zap.Logger {
	return container.MustResolve[*zap.Logger](a.Container, "log")
}

// Router resolves the HTTP router.
func (a *Application) Router() *chi.Mux {
	return container.MustResolve[*chi.Mux](a.Container, "router")
}

// Environment returns the APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }
func (a *Application) Version() string     { return "0.1.0" }
