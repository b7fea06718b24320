package store

import (
	"testing"
	"time"
)

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()

	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func TestSaveAndGetResolution(t *testing.T) {
	db := newTestDB(t)

	r := &Resolution{
		SessionID:       "sess1",
		EntryID:         "seed_042",
		MapType:         "noklateo",
		FactPath:        "m:noklateo,s:07=great_church",
		FactCount:       2,
		DurationSeconds: 12.5,
	}
	if err := db.SaveResolution(r); err != nil {
		t.Fatalf("Failed to save resolution: %v", err)
	}
	if r.ID == "" {
		t.Fatal("Expected SaveResolution to assign an ID")
	}
	if r.CreatedAt.IsZero() {
		t.Fatal("Expected SaveResolution to assign CreatedAt")
	}

	got, err := db.GetResolution(r.ID)
	if err != nil {
		t.Fatalf("Failed to get resolution: %v", err)
	}
	if got.SessionID != "sess1" || got.EntryID != "seed_042" {
		t.Errorf("Round trip mismatch: got %q/%q", got.SessionID, got.EntryID)
	}
	if got.MapType != "noklateo" {
		t.Errorf("Expected map type noklateo, got %q", got.MapType)
	}
	if got.FactPath != r.FactPath {
		t.Errorf("Fact path mismatch: got %q", got.FactPath)
	}
	if got.FactCount != 2 || got.DurationSeconds != 12.5 {
		t.Errorf("Unexpected counters: %d / %v", got.FactCount, got.DurationSeconds)
	}
}

func TestGetResolutionNotFound(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.GetResolution("no-such-id"); err == nil {
		t.Fatal("Expected error for missing resolution")
	}
}

func TestListResolutions(t *testing.T) {
	db := newTestDB(t)

	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	seed := []*Resolution{
		{ID: "r1", SessionID: "s1", EntryID: "seed_001", MapType: "normal", CreatedAt: base},
		{ID: "r2", SessionID: "s1", EntryID: "seed_002", MapType: "crater", CreatedAt: base.Add(1 * time.Minute)},
		{ID: "r3", SessionID: "s2", EntryID: "seed_001", MapType: "normal", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range seed {
		if err := db.SaveResolution(r); err != nil {
			t.Fatalf("Failed to save resolution %s: %v", r.ID, err)
		}
	}

	t.Run("all resolutions newest first", func(t *testing.T) {
		list, err := db.ListResolutions(ResolutionsQuery{Page: 1, PerPage: 10})
		if err != nil {
			t.Fatalf("Failed to list resolutions: %v", err)
		}
		if list.TotalCount != 3 || len(list.Resolutions) != 3 {
			t.Fatalf("Expected 3 resolutions, got total=%d len=%d", list.TotalCount, len(list.Resolutions))
		}
		if list.Resolutions[0].ID != "r3" || list.Resolutions[2].ID != "r1" {
			t.Errorf("Wrong order: %s, %s, %s",
				list.Resolutions[0].ID, list.Resolutions[1].ID, list.Resolutions[2].ID)
		}
	})

	t.Run("filter by map type", func(t *testing.T) {
		list, err := db.ListResolutions(ResolutionsQuery{MapType: "normal", Page: 1, PerPage: 10})
		if err != nil {
			t.Fatalf("Failed to list resolutions: %v", err)
		}
		if list.TotalCount != 2 {
			t.Fatalf("Expected 2 normal resolutions, got %d", list.TotalCount)
		}
		for _, r := range list.Resolutions {
			if r.MapType != "normal" {
				t.Errorf("Unexpected map type %q in filtered list", r.MapType)
			}
		}
	})

	t.Run("pagination", func(t *testing.T) {
		list, err := db.ListResolutions(ResolutionsQuery{Page: 2, PerPage: 2})
		if err != nil {
			t.Fatalf("Failed to list resolutions: %v", err)
		}
		if list.TotalPages != 2 {
			t.Errorf("Expected 2 total pages, got %d", list.TotalPages)
		}
		if len(list.Resolutions) != 1 || list.Resolutions[0].ID != "r1" {
			t.Errorf("Expected page 2 to hold r1, got %+v", list.Resolutions)
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		list, err := db.ListResolutions(ResolutionsQuery{})
		if err != nil {
			t.Fatalf("Failed to list resolutions: %v", err)
		}
		if list.Page != 1 || list.PerPage != 50 {
			t.Errorf("Expected default page 1/50, got %d/%d", list.Page, list.PerPage)
		}
	})
}

func TestTopEntries(t *testing.T) {
	db := newTestDB(t)

	for i, entry := range []string{"seed_001", "seed_002", "seed_001", "seed_003", "seed_001", "seed_002"} {
		r := &Resolution{
			SessionID: "s1",
			EntryID:   entry,
			MapType:   "normal",
			CreatedAt: time.Date(2026, 8, 28, 12, i, 0, 0, time.UTC),
		}
		if err := db.SaveResolution(r); err != nil {
			t.Fatalf("Failed to save resolution: %v", err)
		}
	}

	top, err := db.TopEntries(2)
	if err != nil {
		t.Fatalf("Failed to query top entries: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(top))
	}
	if top[0].EntryID != "seed_001" || top[0].Count != 3 {
		t.Errorf("Expected seed_001 x3 first, got %s x%d", top[0].EntryID, top[0].Count)
	}
	if top[1].EntryID != "seed_002" || top[1].Count != 2 {
		t.Errorf("Expected seed_002 x2 second, got %s x%d", top[1].EntryID, top[1].Count)
	}
}

func TestCountForSession(t *testing.T) {
	db := newTestDB(t)

	base := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		r := &Resolution{
			SessionID: "s1",
			EntryID:   "seed_010",
			MapType:   "crater",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := db.SaveResolution(r); err != nil {
			t.Fatalf("Failed to save resolution: %v", err)
		}
	}

	n, err := db.CountForSession("s1", "seed_010", base)
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected 3 resolutions since base, got %d", n)
	}

	n, err = db.CountForSession("s1", "seed_010", base.Add(90*time.Second))
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 resolution after cutoff, got %d", n)
	}

	n, err = db.CountForSession("s2", "seed_010", base)
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected 0 resolutions for other session, got %d", n)
	}
}
