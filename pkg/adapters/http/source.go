package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// CacheBustParam is the query parameter appended to every catalog request.
const CacheBustParam = "__t"

// maxCatalogBytes bounds the size of a fetched catalog document.
const maxCatalogBytes = 4 << 20

// Source implements ports.CatalogSource by fetching a JSON or YAML document over HTTP.
// Every request carries a cache-busting timestamp and Cache-Control: no-store so that
// edits to a hosted catalog are visible immediately.
type Source struct {
	URL    string
	Client *http.Client
	Now    func() time.Time
}

// NewSource creates a Source for rawURL. A nil client uses a client with a 10s timeout.
func NewSource(rawURL string, client *http.Client) *Source {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Source{URL: rawURL, Client: client, Now: time.Now}
}

// Load fetches and decodes the catalog. Non-2xx responses are errors.
func (s *Source) Load(ctx context.Context) (any, error) {
	u, err := url.Parse(s.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog url: %w", err)
	}
	q := u.Query()
	q.Set(CacheBustParam, strconv.FormatInt(s.Now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("catalog fetch %s: unexpected status %d", s.URL, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog body: %w", err)
	}

	var doc any
	if isYAML(resp.Header.Get("Content-Type"), u.Path) {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse yaml catalog: %w", err)
		}
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse json catalog: %w", err)
	}
	return doc, nil
}

func isYAML(contentType, urlPath string) bool {
	if strings.Contains(strings.ToLower(contentType), "yaml") {
		return true
	}
	ext := strings.ToLower(path.Ext(urlPath))
	return ext == ".yaml" || ext == ".yml"
}
