package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/SteamAutoCracks/Steam-auto-crack/internal/fetcher"
	"github.com/SteamAutoCracks/Steam-auto-crack/internal/readiness"
	"github.com/SteamAutoCracks/Steam-auto-crack/internal/search"
	"github.com/SteamAutoCracks/Steam-auto-crack/internal/steamapp"
	"github.com/SteamAutoCracks/Steam-auto-crack/internal/store"
	"github.com/SteamAutoCracks/Steam-auto-crack/internal/telemetry"
)

// DefaultDBName is the catalog file name inside the cache directory.
const DefaultDBName = "SteamAppList.db"

// ErrCatalogUnusable is returned by WaitForReady and the lookups when the
// catalog is disposed or was never opened.
var ErrCatalogUnusable = readiness.ErrUnusable

// Fetcher retrieves the complete remote listing.
// Implemented by *fetcher.Client.
type Fetcher interface {
	FetchAll(ctx context.Context, start uint32) ([]steamapp.App, error)
}

// State is a snapshot of the catalog lifecycle flags.
type State struct {
	Initialized bool
	Disposed    bool
	Refreshing  bool
	// Count is the number of entries seen at the end of the last completed run.
	Count int
}

// Catalog is the local Steam app catalog.
//
// Thread-safety: all methods are safe for concurrent use. Initialize runs are
// serialized; lookups never block on a refresh.
type Catalog struct {
	dir        string
	dbName     string
	fetcher    Fetcher
	clock      Clock
	policy     Policy
	logger     *slog.Logger
	metrics    *telemetry.Metrics
	runIDs     RunIDGenerator
	searchOpts []search.Option

	// runMu serializes Initialize bodies.
	runMu sync.Mutex

	mu          sync.Mutex
	store       *store.Store
	engine      *search.Engine
	gate        *readiness.Gate
	initialized bool
	disposed    bool
	count       int
	running     bool
	cancelRun   context.CancelFunc
	generation  uint64
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) { c.logger = l }
}

// WithClock sets the clock used by the staleness policy.
func WithClock(clock Clock) Option {
	return func(c *Catalog) { c.clock = clock }
}

// WithPolicy sets the staleness policy.
func WithPolicy(p Policy) Option {
	return func(c *Catalog) { c.policy = p }
}

// WithMetrics records refresh outcomes on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(c *Catalog) { c.metrics = m }
}

// WithRunIDGenerator sets the generator used to label Initialize runs.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(c *Catalog) { c.runIDs = g }
}

// WithSearchOptions passes options through to the search engine.
func WithSearchOptions(opts ...search.Option) Option {
	return func(c *Catalog) { c.searchOpts = append(c.searchOpts, opts...) }
}

// WithDBName overrides the catalog file name.
func WithDBName(name string) Option {
	return func(c *Catalog) { c.dbName = name }
}

// New creates a Catalog stored under dir. Nothing is opened until Initialize.
func New(dir string, f Fetcher, opts ...Option) *Catalog {
	c := &Catalog{
		dir:     dir,
		dbName:  DefaultDBName,
		fetcher: f,
		clock:   SystemClock{},
		logger:  slog.Default(),
		runIDs:  UUIDv7Generator{},
		gate:    readiness.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns the catalog file path.
func (c *Catalog) Path() string {
	return filepath.Join(c.dir, c.dbName)
}

// Initialize brings the catalog to a usable state, refreshing it from the
// remote listing when the staleness policy says so or forceUpdate is set.
//
// Failures are reported through State, WaitForReady and the log rather than
// returned. A non-forced call while another run is in flight returns
// immediately; a forced call cancels that run and starts once it has unwound.
func (c *Catalog) Initialize(ctx context.Context, forceUpdate bool) {
	c.mu.Lock()
	if c.running {
		if !forceUpdate {
			c.mu.Unlock()
			c.logger.Debug("catalog refresh already in progress")
			return
		}
		c.cancelRun()
	}
	c.generation++
	gen := c.generation
	runCtx, cancel := context.WithCancel(ctx)
	c.cancelRun = cancel
	c.running = true
	c.mu.Unlock()
	defer cancel()

	c.runMu.Lock()
	defer c.runMu.Unlock()

	if c.isCurrent(gen) {
		c.run(runCtx, gen, forceUpdate)
	}

	c.mu.Lock()
	if c.generation == gen {
		c.running = false
		c.cancelRun = nil
	}
	c.mu.Unlock()
}

func (c *Catalog) run(ctx context.Context, gen uint64, force bool) {
	log := c.logger.With("run", c.runIDs.Generate())
	log.Debug("initializing steam app catalog")

	st, err := c.openStore(ctx)
	if err != nil {
		log.Error("failed to open catalog store", "path", c.Path(), "error", err)
		c.fail(gen)
		return
	}
	count, err := st.Count(ctx)
	if err != nil {
		log.Error("failed to count catalog entries", "error", err)
		c.fail(gen)
		return
	}
	mod, err := st.ModTime()
	if err != nil {
		log.Error("failed to stat catalog file", "error", err)
		c.fail(gen)
		return
	}
	age := c.clock.Now().Sub(mod)
	due := c.policy.Due(count, age, force)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	if c.initialized && !due {
		c.mu.Unlock()
		log.Debug("catalog already initialized", "count", count)
		c.metrics.RefreshDone(telemetry.ResultNotDue)
		return
	}
	gate := readiness.New()
	c.gate.Supersede()
	c.gate = gate
	c.initialized = false
	c.disposed = false
	hadData := count > 0
	if hadData {
		c.initialized = true
		c.count = count
		gate.Signal(true)
	}
	c.mu.Unlock()

	if hadData {
		log.Debug("catalog has entries, marking ready", "count", count)
		c.metrics.SetReady(true)
	}

	result := telemetry.ResultNotDue
	if due {
		result = c.refresh(ctx, gen, st, hadData, log)
		if result == telemetry.ResultSuperseded {
			log.Debug("catalog refresh superseded")
			c.metrics.RefreshDone(result)
			return
		}
	} else {
		log.Info("app list is up to date", "age", age.Round(time.Second))
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	if !hadData && !c.disposed {
		c.initialized = true
		gate.Signal(true)
	}
	disposed := c.disposed
	c.mu.Unlock()

	if disposed {
		c.metrics.SetReady(false)
		c.metrics.RefreshDone(result)
		return
	}

	total, err := st.Count(ctx)
	if err != nil {
		log.Warn("failed to count catalog entries", "error", err)
		total = count
	}
	c.mu.Lock()
	if gen == c.generation {
		c.count = total
	}
	c.mu.Unlock()

	log.Info("initialized steam app catalog", "count", total)
	c.metrics.SetReady(true)
	c.metrics.SetCatalogSize(total)
	c.metrics.RefreshDone(result)
}

// refresh fetches the full listing and commits it. It returns the telemetry
// result of the attempt.
func (c *Catalog) refresh(ctx context.Context, gen uint64, st *store.Store, hadData bool, log *slog.Logger) string {
	log.Info("updating steam app list")
	start := c.clock.Now()

	apps, err := c.fetcher.FetchAll(ctx, 0)
	if err != nil {
		if !c.isCurrent(gen) {
			return telemetry.ResultSuperseded
		}
		result := telemetry.ResultFailed
		switch {
		case errors.Is(err, fetcher.ErrMissingAPIKey):
			log.Warn("steam web api key is not set, set it to update the app list")
			result = telemetry.ResultSkipped
		case ctx.Err() != nil:
			log.Info("steam app list update cancelled")
		default:
			log.Error("failed to update steam app list", "error", err)
		}
		if !hadData {
			c.fail(gen)
		}
		return result
	}

	if len(apps) == 0 {
		log.Info("no apps fetched from steam app list")
		return telemetry.ResultSuccess
	}

	inserted, err := st.UpsertAll(ctx, apps)
	if err != nil {
		if !c.isCurrent(gen) {
			return telemetry.ResultSuperseded
		}
		log.Error("failed to store steam app list", "error", err)
		if !hadData {
			c.fail(gen)
		}
		return telemetry.ResultFailed
	}
	if err := st.Touch(ctx, c.clock.Now()); err != nil {
		log.Warn("failed to update catalog timestamp", "error", err)
	}

	log.Info("updated steam app list",
		"fetched", len(apps),
		"inserted", inserted,
		"elapsed", c.clock.Now().Sub(start).Round(time.Millisecond))
	return telemetry.ResultSuccess
}

// openStore opens the store on first use and re-ensures the schema afterwards.
// Only called with runMu held.
func (c *Catalog) openStore(ctx context.Context) (*store.Store, error) {
	c.mu.Lock()
	st := c.store
	c.mu.Unlock()

	if st != nil {
		if err := st.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return st, nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	st, err := store.Open(c.Path())
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.store = st
	c.engine = search.New(st, c.searchOpts...)
	c.mu.Unlock()
	return st, nil
}

// fail disposes the catalog and settles the current gate as unusable, unless
// the run has been superseded.
func (c *Catalog) fail(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return
	}
	c.disposed = true
	c.initialized = false
	if !c.gate.Signal(false) {
		// Gate already settled ready by an earlier run.
		g := readiness.New()
		g.Signal(false)
		c.gate = g
	}
}

func (c *Catalog) isCurrent(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.generation
}

// WaitForReady blocks until the catalog is usable.
//
// Returns nil once ready, ErrCatalogUnusable when the catalog is disposed, or
// the context error. A gate replaced by a newer run is followed to its successor.
func (c *Catalog) WaitForReady(ctx context.Context) error {
	for {
		c.mu.Lock()
		g := c.gate
		disposed := c.disposed
		c.mu.Unlock()

		if disposed {
			c.logger.Error("steam app catalog is not initialized")
			return ErrCatalogUnusable
		}

		c.logger.Debug("waiting for steam app catalog")
		err := g.Wait(ctx)
		if errors.Is(err, readiness.ErrSuperseded) {
			continue
		}
		return err
	}
}

// State returns a snapshot of the lifecycle flags.
func (c *Catalog) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Initialized: c.initialized,
		Disposed:    c.disposed,
		Refreshing:  c.running,
		Count:       c.count,
	}
}

func (c *Catalog) handles() (*store.Store, *search.Engine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		return nil, nil, ErrCatalogUnusable
	}
	return c.store, c.engine, nil
}

// GetByAppID looks up id. Unknown ids yield an unnamed entry, never an error.
func (c *Catalog) GetByAppID(ctx context.Context, id uint32) (steamapp.App, error) {
	st, _, err := c.handles()
	if err != nil {
		return steamapp.App{}, err
	}
	c.logger.Debug("getting app by appid", "appid", id)
	return st.GetByAppID(ctx, id)
}

// GetByName returns the first entry whose name equals name ignoring case, or
// nil when there is none.
func (c *Catalog) GetByName(ctx context.Context, name string) (*steamapp.App, error) {
	st, engine, err := c.handles()
	if err != nil {
		return nil, err
	}
	c.logger.Debug("getting app by name", "name", name)
	app, err := st.GetByName(ctx, name)
	if err != nil || app != nil {
		return app, err
	}
	// The index only folds ASCII.
	return engine.ExactByName(ctx, name)
}

// SearchByName returns entries whose name contains every whitespace token of query.
func (c *Catalog) SearchByName(ctx context.Context, query string) ([]steamapp.App, error) {
	_, engine, err := c.handles()
	if err != nil {
		return nil, err
	}
	c.logger.Debug("searching apps by name", "query", query)
	return engine.ByName(ctx, query)
}

// SearchByNameFuzzy returns the best fuzzy matches for query, best first.
func (c *Catalog) SearchByNameFuzzy(ctx context.Context, query string) ([]steamapp.App, error) {
	_, engine, err := c.handles()
	if err != nil {
		return nil, err
	}
	c.logger.Debug("fuzzy searching apps by name", "query", query)
	return engine.ByNameFuzzy(ctx, query)
}

// Close cancels any in-flight run and closes the store.
func (c *Catalog) Close() error {
	c.mu.Lock()
	if c.cancelRun != nil {
		c.cancelRun()
	}
	c.mu.Unlock()

	c.runMu.Lock()
	defer c.runMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	c.engine = nil
	return err
}
