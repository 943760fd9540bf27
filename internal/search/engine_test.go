package search

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/SteamAutoCracks/Steam-auto-crack/internal/steamapp"
)

// memSource is an in-memory Source that keeps the given order as store order.
type memSource struct {
	apps []steamapp.App
	err  error
}

func (m *memSource) AllApps(ctx context.Context) ([]steamapp.App, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.apps, nil
}

func (m *memSource) GetByAppID(ctx context.Context, id uint32) (steamapp.App, error) {
	if m.err != nil {
		return steamapp.App{}, m.err
	}
	for _, a := range m.apps {
		if a.AppID == id {
			return a, nil
		}
	}
	return steamapp.Unnamed(id), nil
}

func ids(apps []steamapp.App) []uint32 {
	out := make([]uint32, len(apps))
	for i, a := range apps {
		out[i] = a.AppID
	}
	return out
}

func catalog() *memSource {
	return &memSource{apps: []steamapp.App{
		steamapp.New(70, "Half-Life"),
		steamapp.New(220, "Half-Life 2"),
		steamapp.New(400, "Portal"),
		steamapp.Unnamed(500),
		steamapp.New(1070, "Route 70"),
	}}
}

func TestExactByName(t *testing.T) {
	e := New(catalog())
	ctx := context.Background()

	app, err := e.ExactByName(ctx, "half-life")
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, uint32(70), app.AppID)

	app, err = e.ExactByName(ctx, "HALF-LIFE 2")
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, uint32(220), app.AppID)

	app, err = e.ExactByName(ctx, "Half")
	require.NoError(t, err)
	assert.Nil(t, app)
}

func TestExactByName_FirstMatchWins(t *testing.T) {
	e := New(&memSource{apps: []steamapp.App{
		steamapp.New(900, "Soundtrack"),
		steamapp.New(300, "SOUNDTRACK"),
	}})

	app, err := e.ExactByName(context.Background(), "soundtrack")
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, uint32(900), app.AppID)
}

func TestExactByName_UnicodeFolding(t *testing.T) {
	e := New(&memSource{apps: []steamapp.App{steamapp.New(1, "Straße")}})

	app, err := e.ExactByName(context.Background(), "STRASSE")
	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, uint32(1), app.AppID)
}

func TestByName(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []uint32
	}{
		{"both tokens as substrings", "half life", []uint32{70, 220}},
		{"token order irrelevant", "life HALF", []uint32{70, 220}},
		{"narrowing token", "half life 2", []uint32{220}},
		{"no match", "halo", []uint32{}},
		{"blank", "   ", []uint32{}},
		{"extra whitespace", "  portal  ", []uint32{400}},
	}

	e := New(catalog())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.ByName(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestByName_SingleEntry(t *testing.T) {
	e := New(&memSource{apps: []steamapp.App{steamapp.New(70, "Half-Life")}})

	got, err := e.ByName(context.Background(), "half life")
	require.NoError(t, err)
	assert.Equal(t, []uint32{70}, ids(got))

	got, err = e.ByName(context.Background(), "halo")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestByName_NumericShortCircuit(t *testing.T) {
	e := New(&memSource{apps: []steamapp.App{
		steamapp.New(70, "Half-Life"),
		steamapp.New(1070, "Route 70"),
		steamapp.New(7000, "70 Days"),
	}})

	got, err := e.ByName(context.Background(), "70")
	require.NoError(t, err)
	assert.Equal(t, []uint32{70, 1070, 7000}, ids(got))
	assert.Equal(t, "Half-Life", got[0].NameOr(""))
}

func TestByName_NumericDeduplicates(t *testing.T) {
	e := New(&memSource{apps: []steamapp.App{
		steamapp.New(5, "Route 70"),
		steamapp.New(70, "Area 70"),
	}})

	got, err := e.ByName(context.Background(), "70")
	require.NoError(t, err)
	assert.Equal(t, []uint32{70, 5}, ids(got), "the id's own entry moves to the front once")
}

func TestByName_NumericAbsentIsSynthesized(t *testing.T) {
	e := New(catalog())

	got, err := e.ByName(context.Background(), "999")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, steamapp.Unnamed(999), got[0])
}

func TestByNameFuzzy_Typo(t *testing.T) {
	e := New(&memSource{apps: []steamapp.App{steamapp.New(70, "Half-Life")}})

	got, err := e.ByNameFuzzy(context.Background(), "Half Lfe")
	require.NoError(t, err)
	assert.Equal(t, []uint32{70}, ids(got))
}

func TestByNameFuzzy_Unrelated(t *testing.T) {
	e := New(&memSource{apps: []steamapp.App{steamapp.New(400, "Portal")}})

	got, err := e.ByNameFuzzy(context.Background(), "Half Lfe")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestByNameFuzzy_OrderedByScore(t *testing.T) {
	// store order is deliberately the reverse of score order
	e := New(&memSource{apps: []steamapp.App{
		steamapp.New(999, "Portal 2 Soundtrack"),
		steamapp.New(620, "Portal 2"),
		steamapp.New(400, "Portal"),
		steamapp.New(70, "Half-Life"),
	}})

	got, err := e.ByNameFuzzy(context.Background(), "portal")
	require.NoError(t, err)
	assert.Equal(t, []uint32{400, 620, 999}, ids(got))
}

func TestByNameFuzzy_TiesKeepStoreOrder(t *testing.T) {
	e := New(&memSource{apps: []steamapp.App{
		steamapp.New(500, "Portal"),
		steamapp.New(400, "Portal"),
	}})

	got, err := e.ByNameFuzzy(context.Background(), "portal")
	require.NoError(t, err)
	assert.Equal(t, []uint32{500, 400}, ids(got))
}

func TestByNameFuzzy_Limit(t *testing.T) {
	e := New(&memSource{apps: []steamapp.App{
		steamapp.New(620, "Portal 2"),
		steamapp.New(400, "Portal"),
	}}, WithLimit(1))

	got, err := e.ByNameFuzzy(context.Background(), "portal")
	require.NoError(t, err)
	assert.Equal(t, []uint32{400}, ids(got))
}

func TestByNameFuzzy_CustomScorerAndCutoff(t *testing.T) {
	lengthScorer := ScorerFunc(func(a, b string) int {
		if len(b) > 8 {
			return 50
		}
		return 60
	})
	e := New(catalog(), WithScorer(lengthScorer), WithCutoff(60))

	got, err := e.ByNameFuzzy(context.Background(), "anything")
	require.NoError(t, err)
	// unnamed entries are never scored
	assert.Equal(t, []uint32{400, 1070}, ids(got))
}

func TestByNameFuzzy_NumericShortCircuit(t *testing.T) {
	e := New(&memSource{apps: []steamapp.App{
		steamapp.New(70, "Half-Life"),
		steamapp.New(1070, "Route 70"),
	}})

	got, err := e.ByNameFuzzy(context.Background(), "70")
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, uint32(70), got[0].AppID)
	assert.Equal(t, "Half-Life", got[0].NameOr(""))
	assert.Equal(t, []uint32{70, 1070}, ids(got))
}

func TestSearch_SourceErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	e := New(&memSource{err: boom})
	ctx := context.Background()

	_, err := e.ExactByName(ctx, "x")
	assert.ErrorIs(t, err, boom)
	_, err = e.ByName(ctx, "x")
	assert.ErrorIs(t, err, boom)
	_, err = e.ByNameFuzzy(ctx, "x")
	assert.ErrorIs(t, err, boom)
}

// Property: a numeric query always yields that id first and exactly once.
func TestNumericQueryProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(rt, "n")
		apps := make([]steamapp.App, 0, n)
		seen := map[uint32]bool{}
		for i := 0; i < n; i++ {
			id := rapid.Uint32Range(0, 200).Draw(rt, "id")
			if seen[id] {
				continue
			}
			seen[id] = true
			apps = append(apps, steamapp.New(id, rapid.StringMatching(`[a-z0-9 ]{0,12}`).Draw(rt, "name")))
		}
		e := New(&memSource{apps: apps})
		id := rapid.Uint32Range(0, 200).Draw(rt, "query")
		query := strconv.FormatUint(uint64(id), 10)

		for _, search := range []func(context.Context, string) ([]steamapp.App, error){e.ByName, e.ByNameFuzzy} {
			got, err := search(context.Background(), query)
			require.NoError(rt, err)
			require.NotEmpty(rt, got)
			assert.Equal(rt, id, got[0].AppID)

			count := 0
			for _, a := range got {
				if a.AppID == id {
					count++
				}
			}
			assert.Equal(rt, 1, count)
		}
	})
}
