package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/SteamAutoCracks/Steam-auto-crack/internal/steamapp"
)

const (
	// DefaultCutoff is the minimum fuzzy score kept.
	DefaultCutoff = 80

	// DefaultLimit caps fuzzy results.
	DefaultLimit = 80
)

// Source is the catalog view the engine searches.
type Source interface {
	AllApps(ctx context.Context) ([]steamapp.App, error)
	GetByAppID(ctx context.Context, id uint32) (steamapp.App, error)
}

// Engine runs the search strategies over a Source.
type Engine struct {
	src    Source
	scorer Scorer
	cutoff int
	limit  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithScorer replaces the fuzzy scorer.
func WithScorer(s Scorer) Option {
	return func(e *Engine) { e.scorer = s }
}

// WithCutoff sets the minimum fuzzy score.
func WithCutoff(cutoff int) Option {
	return func(e *Engine) { e.cutoff = cutoff }
}

// WithLimit caps fuzzy results. Zero or less means no cap.
func WithLimit(limit int) Option {
	return func(e *Engine) { e.limit = limit }
}

// New creates an Engine over src.
func New(src Source, opts ...Option) *Engine {
	e := &Engine{
		src:    src,
		scorer: WeightedRatio{},
		cutoff: DefaultCutoff,
		limit:  DefaultLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// folder case-folds and normalizes names. A cases.Caser is stateful, so each
// search call builds its own.
type folder struct {
	caser cases.Caser
}

func newFolder() *folder {
	return &folder{caser: cases.Fold()}
}

func (f *folder) fold(s string) string {
	return f.caser.String(norm.NFKC.String(s))
}

// ExactByName returns the first entry whose name equals name after case folding.
func (e *Engine) ExactByName(ctx context.Context, name string) (*steamapp.App, error) {
	apps, err := e.src.AllApps(ctx)
	if err != nil {
		return nil, fmt.Errorf("exact search: %w", err)
	}

	f := newFolder()
	want := f.fold(name)
	for _, app := range apps {
		if app.Name != nil && f.fold(*app.Name) == want {
			found := app
			return &found, nil
		}
	}
	return nil, nil
}

// ByName returns entries whose name contains every query token, in store order.
// A blank query matches nothing unless it is numeric.
func (e *Engine) ByName(ctx context.Context, query string) ([]steamapp.App, error) {
	f := newFolder()
	tokens := strings.Fields(f.fold(query))

	matches := []steamapp.App{}
	if len(tokens) > 0 {
		apps, err := e.src.AllApps(ctx)
		if err != nil {
			return nil, fmt.Errorf("token search: %w", err)
		}
		for _, app := range apps {
			if app.Name != nil && containsAll(f.fold(*app.Name), tokens) {
				matches = append(matches, app)
			}
		}
	}

	return e.preferAppID(ctx, query, matches)
}

func containsAll(name string, tokens []string) bool {
	for _, t := range tokens {
		if !strings.Contains(name, t) {
			return false
		}
	}
	return true
}

type scored struct {
	app   steamapp.App
	score int
}

// ByNameFuzzy returns entries scoring at least the cutoff against query, best first.
func (e *Engine) ByNameFuzzy(ctx context.Context, query string) ([]steamapp.App, error) {
	apps, err := e.src.AllApps(ctx)
	if err != nil {
		return nil, fmt.Errorf("fuzzy search: %w", err)
	}

	f := newFolder()
	q := f.fold(query)

	var hits []scored
	for _, app := range apps {
		if app.Name == nil {
			continue
		}
		if s := e.scorer.Score(q, f.fold(*app.Name)); s >= e.cutoff {
			hits = append(hits, scored{app: app, score: s})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})
	if e.limit > 0 && len(hits) > e.limit {
		hits = hits[:e.limit]
	}

	matches := make([]steamapp.App, len(hits))
	for i, h := range hits {
		matches[i] = h.app
	}

	return e.preferAppID(ctx, query, matches)
}

// preferAppID puts the entry for a numeric query first, exactly once.
func (e *Engine) preferAppID(ctx context.Context, query string, matches []steamapp.App) ([]steamapp.App, error) {
	id, ok := steamapp.ParseAppID(query)
	if !ok {
		return matches, nil
	}

	app, err := e.src.GetByAppID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve app id %d: %w", id, err)
	}

	out := make([]steamapp.App, 0, len(matches)+1)
	out = append(out, app)
	for _, m := range matches {
		if m.AppID != id {
			out = append(out, m)
		}
	}
	return out, nil
}
