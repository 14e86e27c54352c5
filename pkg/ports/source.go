package ports

import "context"

// CatalogSource retrieves one raw catalog document.
// The returned value is decoded JSON or YAML: a list of entries or an object wrapping one.
// The engine never trusts its shape; see catalog.Entries.
type CatalogSource interface {
	Load(ctx context.Context) (any, error)
}

// CatalogSourceFunc adapts a function to CatalogSource.
type CatalogSourceFunc func(ctx context.Context) (any, error)

// Load calls f(ctx).
func (f CatalogSourceFunc) Load(ctx context.Context) (any, error) {
	return f(ctx)
}

// Watchable defines an interface for sources that can notify about backend changes.
// This is typically used for hot-reload in long-running servers.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying catalog changes.
	// It signals only that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
