package testutil

// FixedRunIDGenerator returns the same run ID every time.
//
// Run IDs only label log lines, so a constant keeps captured logs comparable
// across test runs.
//
// Thread-safety: FixedRunIDGenerator is stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a generator. An empty id becomes "test-run".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed ID.
//
// Implements catalog.RunIDGenerator.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}
