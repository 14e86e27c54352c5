package observability_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aretw0/tds/pkg/domain"
	"github.com/aretw0/tds/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	hooks := m.Hooks()
	ctx := context.Background()

	hooks.OnEvaluate(ctx, &domain.EvaluateEvent{Zone: "B3", S: 1.5, R: 2.5})
	hooks.OnEvaluate(ctx, &domain.EvaluateEvent{Zone: "B3", S: 1.0, R: 2.0})
	hooks.OnRejected(ctx, &domain.RejectedEvent{Missing: []string{"q1"}})
	hooks.OnCatalogLoad(ctx, &domain.CatalogEvent{Catalog: "zones", Duration: time.Millisecond})
	hooks.OnCatalogLoad(ctx, &domain.CatalogEvent{Catalog: "personas", Err: errors.New("boom")})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("B3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Rejections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogLoads.WithLabelValues("zones", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogLoads.WithLabelValues("personas", "error")))
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics()
	m.Hooks().OnEvaluate(context.Background(), &domain.EvaluateEvent{Zone: "A1"})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `tds_evaluations_total{zone="A1"} 1`)
	assert.Contains(t, w.Body.String(), "tds_score_bucket")
}

func TestCombine(t *testing.T) {
	var order []string
	a := domain.LifecycleHooks{
		OnEvaluate: func(context.Context, *domain.EvaluateEvent) { order = append(order, "a") },
	}
	b := domain.LifecycleHooks{
		OnEvaluate: func(context.Context, *domain.EvaluateEvent) { order = append(order, "b") },
		OnRejected: func(context.Context, *domain.RejectedEvent) { order = append(order, "b-rejected") },
	}

	hooks := observability.Combine(a, domain.LifecycleHooks{}, b)
	hooks.OnEvaluate(context.Background(), &domain.EvaluateEvent{})
	hooks.OnRejected(context.Background(), &domain.RejectedEvent{})

	assert.Equal(t, []string{"a", "b", "b-rejected"}, order)
	assert.Nil(t, hooks.OnCatalogLoad)
}
