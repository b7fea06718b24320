package record

import (
	"sync"
	"testing"
	"time"

	"github.com/Artimuz/nightreign-seed-finder-go/internal/catalog"
	"github.com/Artimuz/nightreign-seed-finder-go/internal/journal"
	"github.com/Artimuz/nightreign-seed-finder-go/internal/resolve"
	"github.com/Artimuz/nightreign-seed-finder-go/internal/store"
)

type fakeStore struct {
	mu    sync.Mutex
	saved []*store.Resolution
}

func (f *fakeStore) SaveResolution(r *store.Resolution) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, r)
	return nil
}

func (f *fakeStore) CountForSession(sessionID, entryID string, since time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.saved {
		if r.SessionID == sessionID && r.EntryID == entryID && !r.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type fakeJournal struct {
	mu      sync.Mutex
	entries []journal.Entry
}

func (f *fakeJournal) Append(e journal.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
	return nil
}

func testConvergence() resolve.Convergence {
	return resolve.Convergence{
		EntryID: "seed_007",
		Entry:   &catalog.Entry{ID: "seed_007", MapType: catalog.MapTypeCrater},
		FactPath: []resolve.Fact{
			{Kind: resolve.FactMapType, MapType: "crater"},
			{Kind: resolve.FactSlot, Slot: "10", Building: catalog.BuildingSorcerersRise},
		},
		Duration: 9 * time.Second,
	}
}

func TestRecorderFansOut(t *testing.T) {
	st := &fakeStore{}
	jw := &fakeJournal{}
	rec := New(st, jw, time.Minute)

	rec.Record("sess1", testConvergence())
	rec.Flush()

	if len(st.saved) != 1 {
		t.Fatalf("Expected 1 stored resolution, got %d", len(st.saved))
	}
	got := st.saved[0]
	if got.SessionID != "sess1" || got.EntryID != "seed_007" {
		t.Errorf("Stored wrong identity: %q/%q", got.SessionID, got.EntryID)
	}
	if got.MapType != "crater" {
		t.Errorf("Expected map type crater, got %q", got.MapType)
	}
	if got.FactPath != "m:crater,s:10=sorcerers_rise" {
		t.Errorf("Unexpected fact path %q", got.FactPath)
	}
	if got.FactCount != 2 || got.DurationSeconds != 9 {
		t.Errorf("Unexpected counters: %d / %v", got.FactCount, got.DurationSeconds)
	}

	if len(jw.entries) != 1 {
		t.Fatalf("Expected 1 journal entry, got %d", len(jw.entries))
	}
	if jw.entries[0].FactPath != got.FactPath {
		t.Errorf("Journal fact path %q diverges from store %q", jw.entries[0].FactPath, got.FactPath)
	}
}

func TestRecorderCooldownDedup(t *testing.T) {
	st := &fakeStore{}
	rec := New(st, nil, time.Minute)

	clock := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	rec.now = func() time.Time { return clock }

	rec.Record("sess1", testConvergence())
	rec.Flush()
	rec.Record("sess1", testConvergence())
	rec.Flush()

	if len(st.saved) != 1 {
		t.Fatalf("Expected repeat within cooldown to be dropped, got %d rows", len(st.saved))
	}

	// Same seed from another session is a distinct resolution.
	rec.Record("sess2", testConvergence())
	rec.Flush()
	if len(st.saved) != 2 {
		t.Fatalf("Expected distinct session to record, got %d rows", len(st.saved))
	}

	// After the cooldown the same session records again.
	clock = clock.Add(2 * time.Minute)
	rec.Record("sess1", testConvergence())
	rec.Flush()
	if len(st.saved) != 3 {
		t.Fatalf("Expected record after cooldown, got %d rows", len(st.saved))
	}
}

func TestRecorderZeroCooldownRecordsRepeats(t *testing.T) {
	st := &fakeStore{}
	rec := New(st, nil, 0)

	rec.Record("sess1", testConvergence())
	rec.Record("sess1", testConvergence())
	rec.Flush()

	if len(st.saved) != 2 {
		t.Fatalf("Expected both convergences recorded, got %d", len(st.saved))
	}
}
