package resolve

import (
	"testing"

	"github.com/Artimuz/nightreign-seed-finder-go/internal/catalog"
)

func TestMatchMapTypePartition(t *testing.T) {
	cat := testCatalog()

	tests := []struct {
		label string
		want  []string
	}{
		{"normal", []string{"n1", "n2", "n3", "n4"}},
		{"Default", []string{"n1", "n2", "n3", "n4"}},
		{"The Crater", []string{"c1", "c2"}},
		{"Noklateo, the Shrouded City", []string{"k1"}},
		{"atlantis", nil},
		{"", nil},
	}
	for _, tt := range tests {
		fs := NewFactSet()
		fs.MapType = catalog.MapType(tt.label)
		got := entryIDs(Match(cat, fs))
		if !sameIDs(got, tt.want) {
			t.Errorf("Match(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestMatchSlotFactsNarrow(t *testing.T) {
	cat := testCatalog()

	fs := normalFacts(map[catalog.SlotID]catalog.Building{"01": catalog.BuildingChurch})
	if got := entryIDs(Match(cat, fs)); !sameIDs(got, []string{"n1", "n2", "n4"}) {
		t.Fatalf("church at 01: got %v", got)
	}

	fs.Slots["02"] = catalog.BuildingCamp
	if got := entryIDs(Match(cat, fs)); !sameIDs(got, []string{"n1", "n2"}) {
		t.Fatalf("camp at 02: got %v", got)
	}

	fs.Slots["03"] = catalog.BuildingFort
	if got := entryIDs(Match(cat, fs)); !sameIDs(got, []string{"n1"}) {
		t.Fatalf("fort at 03: got %v", got)
	}
}

func TestMatchBossFact(t *testing.T) {
	cat := testCatalog()

	fs := normalFacts(nil)
	fs.Boss = catalog.BossGladius
	if got := entryIDs(Match(cat, fs)); !sameIDs(got, []string{"n1", "n3"}) {
		t.Fatalf("boss gladius: got %v", got)
	}

	// BossEmpty means "confirmed none observed"; like slot emptiness it is a
	// weak fact and imposes no filter.
	fs.Boss = catalog.BossEmpty
	if got := Match(cat, fs); len(got) != 4 {
		t.Fatalf("boss empty filtered to %d entries, want 4", len(got))
	}
}

func TestMatchSpawnPredicate(t *testing.T) {
	cat := testCatalog()

	fs := normalFacts(nil)
	fs.Spawn = "01"
	if got := entryIDs(Match(cat, fs)); !sameIDs(got, []string{"n1"}) {
		t.Fatalf("spawn at 01: got %v", got)
	}

	// Layered on top of slot predicates, not replacing them.
	fs.Spawn = "02"
	fs.Slots["02"] = catalog.BuildingRuins
	if got := entryIDs(Match(cat, fs)); !sameIDs(got, []string{"n4"}) {
		t.Fatalf("spawn at 02 + ruins at 02: got %v", got)
	}
}

// Asserting a slot empty yields a superset of asserting any specific
// building there, for the same otherwise-identical fact set.
func TestEmptyIsWeak(t *testing.T) {
	cat := testCatalog()

	base := normalFacts(map[catalog.SlotID]catalog.Building{"01": catalog.BuildingChurch})

	empty := base.Clone()
	empty.Slots["03"] = catalog.BuildingEmpty
	emptySet := map[string]struct{}{}
	for _, id := range entryIDs(Match(cat, empty)) {
		emptySet[id] = struct{}{}
	}
	if len(emptySet) != 3 {
		t.Fatalf("empty at 03 filtered entries: got %d, want 3", len(emptySet))
	}

	for _, b := range catalog.Buildings {
		if b == catalog.BuildingEmpty {
			continue
		}
		strong := base.Clone()
		strong.Slots["03"] = b
		for _, id := range entryIDs(Match(cat, strong)) {
			if _, ok := emptySet[id]; !ok {
				t.Errorf("asserting 03=%s matched %s, which empty-at-03 excluded", b, id)
			}
		}
	}
}

// Adding a non-empty fact never increases the consistent set.
func TestMonotonicity(t *testing.T) {
	cat := testCatalog()

	for _, e := range cat.Entries() {
		fs := NewFactSet()
		fs.MapType = e.MapType
		prev := len(Match(cat, fs))
		for _, slot := range catalog.SlotIDs() {
			v := e.Slot(slot)
			if v.Building == catalog.BuildingEmpty {
				continue
			}
			fs.Slots[slot] = v.Building
			n := len(Match(cat, fs))
			if n > prev {
				t.Fatalf("entry %s: |set| grew %d -> %d after %s=%s", e.ID, prev, n, slot, v.Building)
			}
			prev = n
		}
		if e.Boss != "" {
			fs.Boss = e.Boss
			if n := len(Match(cat, fs)); n > prev {
				t.Fatalf("entry %s: |set| grew %d -> %d after boss=%s", e.ID, prev, n, e.Boss)
			}
		}
	}
}

func TestMatchIdempotent(t *testing.T) {
	cat := testCatalog()

	fs := normalFacts(map[catalog.SlotID]catalog.Building{
		"01": catalog.BuildingChurch,
		"02": catalog.BuildingCamp,
	})
	first := entryIDs(Match(cat, fs))
	second := entryIDs(Match(cat, fs))
	if !sameIDs(first, second) {
		t.Fatalf("repeated match diverged: %v vs %v", first, second)
	}
}
