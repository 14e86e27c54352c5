package loam

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
)

// Kind selects which catalog a Source produces.
type Kind string

const (
	KindZones    Kind = "zones"
	KindPersonas Kind = "personas"
)

// Source adapts a Loam repository to ports.CatalogSource.
//
// Each document is one catalog entry. The file name (without extension) stands in for
// a missing code (zones) or id (personas), and a Markdown body stands in for a missing
// prompt (zones) or description (personas).
type Source struct {
	Repo *loam.TypedRepository[EntryMetadata]
	Kind Kind
}

// New creates a new Loam catalog source.
func New(repo *loam.TypedRepository[EntryMetadata], kind Kind) *Source {
	return &Source{
		Repo: repo,
		Kind: kind,
	}
}

// Open initializes a strict, read-only Loam repository at dir and wraps it.
func Open(dir string, kind Kind) (*Source, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to init loam at %s: %w", absPath, err)
	}
	return New(loam.NewTypedRepository[EntryMetadata](repo), kind), nil
}

// Load lists every document and returns them as raw catalog entries ordered by ID.
// List carries metadata only, so each document is fetched for its body.
func (s *Source) Load(ctx context.Context) (any, error) {
	docs, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	type keyed struct {
		id    string
		entry map[string]any
	}
	items := make([]keyed, 0, len(docs))
	for _, listed := range docs {
		doc, err := s.Repo.Get(ctx, listed.ID)
		if err != nil {
			return nil, fmt.Errorf("loam get failed for %s: %w", listed.ID, err)
		}
		items = append(items, keyed{id: listed.ID, entry: s.entry(listed.ID, doc.Data, doc.Content)})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].id < items[j].id })

	entries := make([]any, len(items))
	for i, it := range items {
		entries[i] = it.entry
	}
	return entries, nil
}

func (s *Source) entry(docID string, meta EntryMetadata, content string) map[string]any {
	name := baseName(docID)
	body := strings.TrimSpace(content)

	if s.Kind == KindPersonas {
		id := meta.ID
		if id == "" {
			id = name
		}
		desc := firstNonEmpty(meta.Desc, meta.Description, body)
		return map[string]any{
			"id":     id,
			"name":   meta.Name,
			"desc":   desc,
			"suffix": firstNonEmpty(meta.Suffix, meta.PromptHint),
			"traits": meta.Traits,
		}
	}

	code := firstNonEmpty(meta.Code, meta.ID, meta.Zone, name)
	return map[string]any{
		"code":          code,
		"title":         meta.Title,
		"style":         meta.Style,
		"voice":         meta.Voice,
		"summary":       meta.Summary,
		"collaboration": meta.Collaboration,
		"prompt":        firstNonEmpty(meta.Prompt, body),
		"badge":         meta.Badge,
		"traits":        meta.Traits,
	}
}

// Watch implements ports.Watchable.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := s.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()
	return ch, nil
}

func baseName(id string) string {
	base := path.Base(filepath.ToSlash(id))
	return strings.TrimSuffix(base, path.Ext(base))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
