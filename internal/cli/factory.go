package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/tds"
	"github.com/aretw0/tds/data"
	"github.com/aretw0/tds/internal/adapters/file"
	"github.com/aretw0/tds/internal/adapters/redis"
	"github.com/aretw0/tds/internal/config"
	tdshttp "github.com/aretw0/tds/pkg/adapters/http"
	"github.com/aretw0/tds/pkg/adapters/loam"
	"github.com/aretw0/tds/pkg/adapters/memory"
	"github.com/aretw0/tds/pkg/catalog"
	"github.com/aretw0/tds/pkg/domain"
	"github.com/aretw0/tds/pkg/observability"
	"github.com/aretw0/tds/pkg/ports"
	"github.com/mitchellh/mapstructure"
)

// NewEngine builds an engine from cfg. The returned cleanup releases store
// connections and must be called once the engine is no longer used.
func NewEngine(cfg config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*tds.Engine, func() error, error) {
	zones, err := NewCatalogSource(cfg.Zones, loam.KindZones, data.ZoneSource())
	if err != nil {
		return nil, nil, fmt.Errorf("zone catalog: %w", err)
	}
	personas, err := NewCatalogSource(cfg.Personas, loam.KindPersonas, data.PersonaSource())
	if err != nil {
		return nil, nil, fmt.Errorf("persona catalog: %w", err)
	}
	store, cleanup, err := NewStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts := []tds.Option{
		tds.WithLogger(logger),
		tds.WithZoneSource(zones),
		tds.WithPersonaSource(personas),
		tds.WithResultStore(store),
	}
	if len(hooks) > 0 {
		opts = append(opts, tds.WithLifecycleHooks(observability.Combine(hooks...)))
	}
	if cfg.QuestionsFile != "" {
		questions, err := LoadQuestions(cfg.QuestionsFile)
		if err != nil {
			_ = cleanup()
			return nil, nil, err
		}
		opts = append(opts, tds.WithQuestions(questions))
	}

	engine, err := tds.New(opts...)
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, cleanup, nil
}

// NewCatalogSource resolves a catalog location: empty selects fallback, an http(s)
// URL is fetched, a directory is opened as a Loam repository and anything else is
// read as a JSON or YAML file.
func NewCatalogSource(location string, kind loam.Kind, fallback ports.CatalogSource) (ports.CatalogSource, error) {
	switch {
	case location == "":
		return fallback, nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return tdshttp.NewSource(location, nil), nil
	}

	info, err := os.Stat(location)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		src, err := loam.Open(location, kind)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	return file.NewSource(location), nil
}

// NewStore creates the result and answer store selected by cfg.Store.
func NewStore(cfg config.Config) (ports.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Store {
	case config.StoreMemory, "":
		return memory.NewStore(), noop, nil
	case config.StoreFile:
		return file.New(cfg.StorePath), noop, nil
	case config.StoreRedis:
		var opts []redis.Option
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		return store, store.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
}

// NewLocker returns a distributed locker for stores shared between replicas, or nil
// when cfg.Store is local to one process.
func NewLocker(cfg config.Config) (ports.DistributedLocker, func() error) {
	if cfg.Store != config.StoreRedis {
		return nil, func() error { return nil }
	}
	var opts []redis.Option
	if cfg.Redis.Prefix != "" {
		opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
	}
	store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
	return store.Locker(), store.Close
}

// LoadQuestions reads a questionnaire from a JSON or YAML file holding either a
// list of questions or an object with a "questions" list.
func LoadQuestions(path string) ([]domain.Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read questions: %w", err)
	}
	doc, err := file.Decode(path, raw)
	if err != nil {
		return nil, err
	}
	entries := catalog.Entries(doc, "questions")
	if entries == nil {
		return nil, fmt.Errorf("%s: no question list found", path)
	}

	var questions []domain.Question
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &questions,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(entries); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := domain.ValidateQuestions(questions); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return questions, nil
}
