package store

import (
	"path/filepath"
	"testing"

	"github.com/SteamAutoCracks/Steam-auto-crack/internal/steamapp"
)

// createTestStore creates a new temp-dir store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// testApps returns a small fixed catalog.
func testApps() []steamapp.App {
	return []steamapp.App{
		steamapp.New(70, "Half-Life"),
		steamapp.New(220, "Half-Life 2"),
		steamapp.New(400, "Portal"),
		steamapp.Unnamed(500),
	}
}
