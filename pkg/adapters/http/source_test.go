package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tdshttp "github.com/aretw0/tds/pkg/adapters/http"
	"github.com/aretw0/tds/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_CacheBustAndNoStore(t *testing.T) {
	var gotQuery, gotCache string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get(tdshttp.CacheBustParam)
		gotCache = r.Header.Get("Cache-Control")
		assert.Equal(t, "v2", r.URL.Query().Get("rev"), "existing query must be preserved")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"zones":[{"code":"B3","title":"Remote"}]}`))
	}))
	defer srv.Close()

	src := tdshttp.NewSource(srv.URL+"/traits.json?rev=v2", srv.Client())
	src.Now = func() time.Time { return time.UnixMilli(1700000000123) }

	doc, err := src.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "1700000000123", gotQuery)
	assert.Equal(t, "no-store", gotCache)

	zones := catalog.ResolveZones(catalog.Entries(doc, catalog.ZonesKey))
	assert.Equal(t, "Remote", zones.Lookup("B3").Title)
}

func TestSource_YAML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte("- id: coach\n  name: Coach\n"))
	}))
	defer srv.Close()

	doc, err := tdshttp.NewSource(srv.URL, srv.Client()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Coach", catalog.NewPersonas(catalog.Entries(doc, catalog.PersonasKey)).Select("coach").Name)
}

func TestSource_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := tdshttp.NewSource(srv.URL, srv.Client()).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestSource_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"zones": [`))
	}))
	defer srv.Close()

	_, err := tdshttp.NewSource(srv.URL, srv.Client()).Load(context.Background())
	assert.Error(t, err)
}
