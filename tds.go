package tds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/tds/data"
	"github.com/aretw0/tds/pkg/adapters/memory"
	"github.com/aretw0/tds/pkg/catalog"
	"github.com/aretw0/tds/pkg/deeplink"
	"github.com/aretw0/tds/pkg/domain"
	"github.com/aretw0/tds/pkg/ports"
	"github.com/aretw0/tds/pkg/prompt"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Catalog names reported in load events.
const (
	CatalogZones    = "zones"
	CatalogPersonas = "personas"
)

// Engine is the high-level entry point for the tds library.
// It holds the loaded catalogs and runs the scoring pipeline. Safe for concurrent use.
type Engine struct {
	zoneSource    ports.CatalogSource
	personaSource ports.CatalogSource
	questions     []domain.Question
	results       ports.ResultStore
	answers       ports.AnswerStore
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
	now           func() time.Time
	newID         func() string

	mu       sync.RWMutex
	zones    *catalog.Zones
	personas *catalog.Personas
	loaded   bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithQuestions replaces the built-in questionnaire. An empty list is rejected by New.
func WithQuestions(questions []domain.Question) Option {
	return func(e *Engine) {
		e.questions = make([]domain.Question, len(questions))
		copy(e.questions, questions)
	}
}

// WithZoneSource sets where the zone catalog is loaded from (default: embedded catalog).
func WithZoneSource(src ports.CatalogSource) Option {
	return func(e *Engine) {
		e.zoneSource = src
	}
}

// WithPersonaSource sets where the focus persona catalog is loaded from (default: embedded catalog).
func WithPersonaSource(src ports.CatalogSource) Option {
	return func(e *Engine) {
		e.personaSource = src
	}
}

// WithResultStore sets where saved results go (default: in memory).
// If the store also implements ports.AnswerStore it is used for answers too,
// unless WithAnswerStore is given.
func WithResultStore(store ports.ResultStore) Option {
	return func(e *Engine) {
		e.results = store
	}
}

// WithAnswerStore sets where in-progress answers are kept.
func WithAnswerStore(store ports.AnswerStore) Option {
	return func(e *Engine) {
		e.answers = store
	}
}

// WithClock overrides the time source used to stamp saved results.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator overrides how saved result IDs are generated (default: UUIDv4).
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

// New initializes a new Engine and performs the initial catalog load.
// Catalog failures do not fail New: the affected catalog degrades to empty.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.questions == nil {
		eng.questions = domain.DefaultQuestions()
	}
	if err := domain.ValidateQuestions(eng.questions); err != nil {
		return nil, fmt.Errorf("invalid questionnaire: %w", err)
	}
	if eng.zoneSource == nil {
		eng.zoneSource = data.ZoneSource()
	}
	if eng.personaSource == nil {
		eng.personaSource = data.PersonaSource()
	}
	if eng.results == nil {
		eng.results = memory.NewStore()
	}
	if eng.answers == nil {
		if as, ok := eng.results.(ports.AnswerStore); ok {
			eng.answers = as
		} else {
			eng.answers = memory.NewStore()
		}
	}
	if eng.now == nil {
		eng.now = time.Now
	}
	if eng.newID == nil {
		eng.newID = uuid.NewString
	}

	if err := eng.Load(context.Background()); err != nil {
		return nil, err
	}
	return eng, nil
}

// Load fetches both catalogs concurrently and swaps them in atomically.
//
// A failing source is logged at WARN. On the first load the affected catalog degrades
// to empty; on later loads the previously loaded catalog is kept. Load only returns an
// error when ctx is done.
func (e *Engine) Load(ctx context.Context) error {
	var (
		zones       *catalog.Zones
		personas    *catalog.Personas
		zoneErr     error
		personasErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		var entries []any
		entries, zoneErr = e.fetch(gctx, e.zoneSource, catalog.ZonesKey)
		zones = catalog.ResolveZones(entries)
		e.reportLoad(gctx, CatalogZones, zones.Provided(), zones.Dropped(), time.Since(start), zoneErr)
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		var entries []any
		entries, personasErr = e.fetch(gctx, e.personaSource, catalog.PersonasKey)
		personas = catalog.NewPersonas(entries)
		e.reportLoad(gctx, CatalogPersonas, personas.Len(), personas.Dropped(), time.Since(start), personasErr)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if zoneErr == nil || !e.loaded {
		e.zones = zones
	}
	if personasErr == nil || !e.loaded {
		e.personas = personas
	}
	e.loaded = true
	return nil
}

func (e *Engine) fetch(ctx context.Context, src ports.CatalogSource, key string) ([]any, error) {
	doc, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	entries := catalog.Entries(doc, key)
	if entries == nil && doc != nil {
		e.logger.Debug("catalog document has no entry list", "key", key, "type", fmt.Sprintf("%T", doc))
	}
	return entries, nil
}

func (e *Engine) reportLoad(ctx context.Context, name string, entries, dropped int, d time.Duration, err error) {
	if err != nil {
		e.logger.Warn("catalog load failed, using defaults", "catalog", name, "err", err)
	} else {
		e.logger.Debug("catalog loaded", "catalog", name, "entries", entries, "dropped", dropped, "duration", d)
	}
	if e.hooks.OnCatalogLoad != nil {
		e.hooks.OnCatalogLoad(ctx, &domain.CatalogEvent{
			EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventCatalogLoad},
			Catalog:   name,
			Entries:   entries,
			Dropped:   dropped,
			Duration:  d,
			Err:       err,
		})
	}
}

func (e *Engine) catalogs() (*catalog.Zones, *catalog.Personas) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.zones, e.personas
}

// Evaluate runs the full pipeline: validate, aggregate, classify, look up the zone,
// select the persona and build the prompt.
// It returns a *domain.IncompleteAnswersError (matching domain.ErrIncompleteAnswers)
// when any configured question has no answer.
func (e *Engine) Evaluate(ctx context.Context, answers domain.Answers, focus string) (*domain.Result, error) {
	if err := answers.Validate(e.questions); err != nil {
		var missing []string
		var incomplete *domain.IncompleteAnswersError
		if errors.As(err, &incomplete) {
			missing = incomplete.Missing
		}
		e.logger.Debug("answers rejected", "missing", missing)
		if e.hooks.OnRejected != nil {
			e.hooks.OnRejected(ctx, &domain.RejectedEvent{
				EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventRejected},
				Missing:   missing,
			})
		}
		return nil, err
	}

	coord := domain.Aggregate(e.questions, answers)
	result := e.compose(coord.Zone(), coord.S, coord.R, focus)

	e.logger.Debug("evaluated", "zone", result.Zone.Code, "s", result.S, "r", result.R, "focus", result.Focus.ID)
	if e.hooks.OnEvaluate != nil {
		e.hooks.OnEvaluate(ctx, &domain.EvaluateEvent{
			EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventEvaluate},
			Zone:      result.Zone.Code,
			S:         result.S,
			R:         result.R,
			Focus:     result.Focus.Value(),
		})
	}
	return result, nil
}

func (e *Engine) compose(code domain.ZoneCode, s, r float64, focus string) *domain.Result {
	zones, personas := e.catalogs()
	zone := zones.Lookup(code)
	persona := personas.Select(focus)
	return &domain.Result{
		Zone:   zone,
		S:      s,
		R:      r,
		Focus:  persona,
		Prompt: prompt.Build(zone, persona),
	}
}

// Hydrate rebuilds a result from a deep link payload without re-scoring.
// It reports false when the payload carries no usable state.
func (e *Engine) Hydrate(payload string, focus string) (*domain.Result, bool) {
	link, ok := deeplink.Decode(payload)
	if !ok {
		return nil, false
	}
	return e.compose(link.Zone, link.S, link.R, focus), true
}

// Zone returns the record for one of the sixteen canonical codes.
func (e *Engine) Zone(code domain.ZoneCode) (domain.ZoneRecord, error) {
	if !code.Valid() {
		return domain.ZoneRecord{}, fmt.Errorf("%w: %q", domain.ErrUnknownZone, code)
	}
	zones, _ := e.catalogs()
	return zones.Lookup(code), nil
}

// Zones returns all sixteen records in canonical order.
func (e *Engine) Zones() []domain.ZoneRecord {
	zones, _ := e.catalogs()
	return zones.All()
}

// Persona resolves a selector the same way Evaluate does.
func (e *Engine) Persona(selector string) domain.FocusPersona {
	_, personas := e.catalogs()
	return personas.Select(selector)
}

// Personas returns the selectable personas.
func (e *Engine) Personas() []domain.FocusPersona {
	_, personas := e.catalogs()
	return personas.List()
}

// PersonaOptions returns picker entries for the selectable personas.
func (e *Engine) PersonaOptions() []catalog.Option {
	_, personas := e.catalogs()
	return personas.Options()
}

// Questions returns the configured questionnaire.
func (e *Engine) Questions() []domain.Question {
	return append([]domain.Question(nil), e.questions...)
}

// Save stamps the result with a new ID and the current time and persists it.
func (e *Engine) Save(ctx context.Context, result *domain.Result) (*domain.Snapshot, error) {
	snap := domain.NewSnapshot(e.newID(), e.now(), *result)
	if err := e.results.Save(ctx, snap); err != nil {
		return nil, fmt.Errorf("failed to save result: %w", err)
	}
	return snap, nil
}

// Latest returns the most recently saved result.
func (e *Engine) Latest(ctx context.Context) (*domain.Snapshot, error) {
	return e.results.Latest(ctx)
}

// Result returns a saved result by ID.
func (e *Engine) Result(ctx context.Context, id string) (*domain.Snapshot, error) {
	return e.results.Load(ctx, id)
}

// Results lists the IDs of saved results.
func (e *Engine) Results(ctx context.Context) ([]string, error) {
	return e.results.List(ctx)
}

// SaveAnswers stores an in-progress answer set under key.
func (e *Engine) SaveAnswers(ctx context.Context, key string, answers domain.Answers) error {
	return e.answers.SaveAnswers(ctx, key, answers)
}

// LoadAnswers returns the answer set saved under key.
func (e *Engine) LoadAnswers(ctx context.Context, key string) (domain.Answers, error) {
	return e.answers.LoadAnswers(ctx, key)
}

// ClearAnswers removes the answer set saved under key.
func (e *Engine) ClearAnswers(ctx context.Context, key string) error {
	return e.answers.ClearAnswers(ctx, key)
}

// Watch returns a channel that signals when any catalog source changes.
// It returns a nil channel when no source supports watching.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	var inputs []<-chan struct{}
	for _, src := range []ports.CatalogSource{e.zoneSource, e.personaSource} {
		w, ok := src.(ports.Watchable)
		if !ok {
			continue
		}
		ch, err := w.Watch(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to watch catalog: %w", err)
		}
		inputs = append(inputs, ch)
	}
	if len(inputs) == 0 {
		return nil, nil
	}

	out := make(chan struct{}, 1)
	var wg sync.WaitGroup
	for _, in := range inputs {
		wg.Add(1)
		go func(in <-chan struct{}) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case _, ok := <-in:
					if !ok {
						return
					}
					select {
					case out <- struct{}{}:
					default:
					}
				}
			}
		}(in)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out, nil
}

// AutoReload reloads the catalogs whenever a source signals a change, until ctx is done.
// It returns immediately when no source supports watching.
func (e *Engine) AutoReload(ctx context.Context) error {
	changes, err := e.Watch(ctx)
	if err != nil || changes == nil {
		return err
	}
	for range changes {
		e.logger.Info("catalog changed, reloading")
		if err := e.Load(ctx); err != nil {
			return err
		}
	}
	return ctx.Err()
}
