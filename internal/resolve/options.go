package resolve

import "github.com/Artimuz/nightreign-seed-finder-go/internal/catalog"

// SlotOptions returns the buildings that remain possible for a slot, in
// vocabulary order. The slot's own fact is removed before matching so the
// dimension does not constrain itself. BuildingEmpty is always present: it
// is both a real catalog possibility and the always-available "clear this
// selection" choice.
func SlotOptions(cat *catalog.Catalog, fs FactSet, slot catalog.SlotID) []catalog.Building {
	probe := fs.Clone()
	delete(probe.Slots, slot)

	present := map[catalog.Building]struct{}{catalog.BuildingEmpty: {}}
	for _, e := range Match(cat, probe) {
		present[e.Slot(slot).Building] = struct{}{}
	}
	return orderedBuildings(present)
}

// BossOptions returns the boss identities that remain possible, in
// vocabulary order, with the empty sentinel always included.
func BossOptions(cat *catalog.Catalog, fs FactSet) []catalog.Boss {
	probe := fs.Clone()
	probe.Boss = ""

	present := map[catalog.Boss]struct{}{catalog.BossEmpty: {}}
	for _, e := range Match(cat, probe) {
		if e.Boss != "" {
			present[e.Boss] = struct{}{}
		}
	}
	out := make([]catalog.Boss, 0, len(present))
	for _, b := range catalog.Bosses {
		if _, ok := present[b]; ok {
			out = append(out, b)
		}
	}
	return out
}

// SlotGhost reports the single non-empty building still possible for an
// unasserted slot. A slot with exactly one non-empty possibility while still
// unknown is effectively determined and the UI surfaces it distinctly
// (pre-highlighted); the session auto-commits it only when the remaining
// entries are unanimous, see Session.ghostFill.
func SlotGhost(cat *catalog.Catalog, fs FactSet, slot catalog.SlotID) (catalog.Building, bool) {
	if _, asserted := fs.Slots[slot]; asserted {
		return "", false
	}
	var ghost catalog.Building
	for _, b := range SlotOptions(cat, fs, slot) {
		if b == catalog.BuildingEmpty {
			continue
		}
		if ghost != "" {
			return "", false
		}
		ghost = b
	}
	return ghost, ghost != ""
}

// BossGhost is SlotGhost for the boss dimension.
func BossGhost(cat *catalog.Catalog, fs FactSet) (catalog.Boss, bool) {
	if fs.Boss != "" {
		return "", false
	}
	var ghost catalog.Boss
	for _, b := range BossOptions(cat, fs) {
		if b == catalog.BossEmpty {
			continue
		}
		if ghost != "" {
			return "", false
		}
		ghost = b
	}
	return ghost, ghost != ""
}

func orderedBuildings(present map[catalog.Building]struct{}) []catalog.Building {
	out := make([]catalog.Building, 0, len(present))
	for _, b := range catalog.Buildings {
		if _, ok := present[b]; ok {
			out = append(out, b)
		}
	}
	return out
}
