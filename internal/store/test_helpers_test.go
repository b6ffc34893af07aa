package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/pngcard/internal/capsule"
	"github.com/roach88/pngcard/internal/payload"
	"github.com/roach88/pngcard/internal/testutil"
)

// createTestStore creates a new store with deterministic ids and clock.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path,
		WithIDGenerator(testutil.NewFixedIDGenerator("card")),
		WithClock(testutil.NewDeterministicClock().Now),
	)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestResult builds an import result without going through PNG
// encoding; image is stored as given.
func createTestResult(t *testing.T, kind payload.Kind, card payload.Record, image []byte) *capsule.Result {
	t.Helper()
	p, err := payload.New(kind, time.Date(2025, 3, 4, 5, 6, 7, 8_000_000, time.UTC), card, nil, nil)
	if err != nil {
		t.Fatalf("payload.New() failed: %v", err)
	}
	return &capsule.Result{Payload: p, Image: image}
}
