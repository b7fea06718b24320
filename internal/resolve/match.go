package resolve

import "github.com/Artimuz/nightreign-seed-finder-go/internal/catalog"

// Match returns every catalog entry consistent with the fact set, in catalog
// order. The cost is one linear scan per call; the catalog is small and
// fixed, so results are recomputed on every fact change and never cached.
//
// The critical matching policy: an asserted BuildingEmpty is a weak
// constraint. It records what the user believes but must not reject entries
// with a non-empty value in that slot: a later-revealed building in a slot
// the user currently thinks is empty is exactly the ambiguity the tool
// resolves. Only non-empty slot and boss facts exclude entries.
func Match(cat *catalog.Catalog, fs FactSet) []*catalog.Entry {
	mt := catalog.Normalize(string(fs.MapType))
	if mt == "" {
		return nil
	}

	var out []*catalog.Entry
	for _, e := range cat.Entries() {
		if matches(e, mt, fs) {
			out = append(out, e)
		}
	}
	return out
}

// MatchCount returns the size of the consistent set without retaining it.
func MatchCount(cat *catalog.Catalog, fs FactSet) int {
	mt := catalog.Normalize(string(fs.MapType))
	if mt == "" {
		return 0
	}
	n := 0
	for _, e := range cat.Entries() {
		if matches(e, mt, fs) {
			n++
		}
	}
	return n
}

func matches(e *catalog.Entry, mt catalog.MapType, fs FactSet) bool {
	if e.MapType != mt {
		return false
	}
	if fs.Boss != "" && fs.Boss != catalog.BossEmpty && e.Boss != fs.Boss {
		return false
	}
	for slot, b := range fs.Slots {
		if b == "" || b == catalog.BuildingEmpty {
			continue
		}
		if e.Slot(slot).Building != b {
			return false
		}
	}
	// The spawn observation is a predicate layered on top of the ordinary
	// constraints: the entry's value at that slot must carry the spawn marker.
	if fs.Spawn != "" && !e.Slot(fs.Spawn).Spawn {
		return false
	}
	return true
}
