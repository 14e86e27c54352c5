package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/tds/pkg/domain"
)

// Combine merges hook sets so that each event is delivered to every set, in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range sets {
		if h.OnCatalogLoad != nil {
			prev, next := out.OnCatalogLoad, h.OnCatalogLoad
			out.OnCatalogLoad = func(ctx context.Context, e *domain.CatalogEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnEvaluate != nil {
			prev, next := out.OnEvaluate, h.OnEvaluate
			out.OnEvaluate = func(ctx context.Context, e *domain.EvaluateEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnRejected != nil {
			prev, next := out.OnRejected, h.OnRejected
			out.OnRejected = func(ctx context.Context, e *domain.RejectedEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
	}
	return out
}

// LogHooks logs every lifecycle event to logger.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCatalogLoad: func(ctx context.Context, e *domain.CatalogEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "catalog_load",
					"catalog", e.Catalog,
					"duration", e.Duration,
					"err", e.Err,
				)
				return
			}
			logger.DebugContext(ctx, "catalog_load",
				"catalog", e.Catalog,
				"entries", e.Entries,
				"dropped", e.Dropped,
				"duration", e.Duration,
			)
		},
		OnEvaluate: func(ctx context.Context, e *domain.EvaluateEvent) {
			logger.InfoContext(ctx, "evaluate",
				"zone", e.Zone,
				"s", e.S,
				"r", e.R,
				"focus", e.Focus,
			)
		},
		OnRejected: func(ctx context.Context, e *domain.RejectedEvent) {
			logger.InfoContext(ctx, "rejected", "missing", e.Missing)
		},
	}
}
