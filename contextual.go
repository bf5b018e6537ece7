package container

// ── Contextual binding ────────────────────────────────────────────────────────

// When begins a contextual binding declaration: while concrete is being
// built, the abstract named by Needs resolves through the factory given to
// Give instead of the global binding. Overrides build per resolution and
// skip the global binding's lifetime and extenders.
//
//	// Laravel: $app->when(PhotoController::class)->needs(Filesystem::class)->give(...)
//	c.When("controller.photo").Needs("filesystem").Give(func(r container.Resolver) (any, error) {
//	    return filesystem.NewS3(), nil
//	})
func (c *Container) When(concrete string) *ContextualBuilder {
	return &ContextualBuilder{container: c, concrete: concrete}
}

// ContextualBuilder implements the fluent contextual binding API.
type ContextualBuilder struct {
	container *Container
	concrete  string
	needs     string
}

// Needs specifies which abstract the concrete type depends on.
func (b *ContextualBuilder) Needs(abstract string) *ContextualBuilder {
	b.needs = abstract
	return b
}

// Give provides the factory used when the concrete type resolves the
// specified abstract. Both names are stored canonically, so contextual
// bindings and resolution agree in the presence of aliases.
func (b *ContextualBuilder) Give(factory Factory) {
	b.container.mu.Lock()
	defer b.container.mu.Unlock()

	concrete := b.container.canonicalLocked(b.concrete)
	needs := b.container.canonicalLocked(b.needs)
	if _, ok := b.container.contextual[concrete]; !ok {
		b.container.contextual[concrete] = make(map[string]Factory)
	}
	b.container.contextual[concrete][needs] = factory
}

// GiveValue is a shorthand for Give when the value is a simple scalar or
// pre-built instance (no factory logic needed).
//
//	// Laravel: ->give('/tmp/photos')
//	c.When("controller.photo").Needs("storagePath").GiveValue("/tmp/photos")
func (b *ContextualBuilder) GiveValue(value any) {
	b.Give(func(Resolver) (any, error) { return value, nil })
}
