package main

import (
	"github.com/go-chi/chi/v5"

	"github.com/km-arc/go-container"
	"github.com/km-arc/go-container/kernel"
)

// BookingServiceProvider wires the booking domain into the container. The
// store and notifier are bound under their interface type keys, so the
// service constructor is plain Go and the container fills it in.
type BookingServiceProvider struct {
	container.BaseProvider
}

func (p *BookingServiceProvider) Register(app *container.Container) {
	app.Singleton(container.TypeKeyFor[BookingStore](), func(container.Resolver) (any, error) {
		return NewMemoryBookingStore(), nil
	})
	app.MustAutowire(container.TypeKeyFor[Notifier](), NewEmailNotifier, container.Singleton)
	app.MustAutowire(container.TypeKeyFor[*BookingService](), NewBookingService, container.Singleton)
}

func (p *BookingServiceProvider) Boot(app *container.Container) {
	router := container.MustResolve[*chi.Mux](app, "router")
	svc := container.MustResolve[*BookingService](app, container.TypeKeyFor[*BookingService]())
	mountRoutes(router, svc)
}

// buildApp assembles and boots the full application.
func buildApp(envFiles ...string) *kernel.Application {
	app := kernel.New(envFiles...)
	app.Register(&BookingServiceProvider{})
	app.Boot()
	return app
}
