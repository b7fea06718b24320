package resolve

import "github.com/Artimuz/nightreign-seed-finder-go/internal/catalog"

// SpawnReport summarizes where the hidden spawn marker could be, given the
// current non-spawn facts.
type SpawnReport struct {
	// Candidates tallies, per slot, how many still-consistent entries put
	// their spawn marker there. Slots with a zero tally are omitted.
	Candidates map[catalog.SlotID]int `json:"candidates,omitempty"`
	// MatchCount is the size of the consistent set the tallies are drawn from.
	MatchCount int `json:"match_count"`
	// BestSlot is the most popular candidate (lowest slot id on ties).
	BestSlot catalog.SlotID `json:"best_slot,omitempty"`
	// Confidence is the fraction of consistent entries that agree on
	// BestSlot, in [0,1]. Exactly 1 when the remaining entries are unanimous.
	Confidence float64 `json:"confidence"`
}

// AnalyzeSpawns tallies spawn-marker locations across the entries consistent
// with the current map type, slot and boss facts. The spawn fact itself is
// excluded so the analysis enumerates candidates rather than confirming the
// user's own assertion. A zero-valued report means nothing matches.
func AnalyzeSpawns(cat *catalog.Catalog, fs FactSet) SpawnReport {
	probe := fs.Clone()
	probe.Spawn = ""

	matched := Match(cat, probe)
	if len(matched) == 0 {
		return SpawnReport{}
	}

	report := SpawnReport{
		Candidates: make(map[catalog.SlotID]int),
		MatchCount: len(matched),
	}
	for _, e := range matched {
		report.Candidates[e.SpawnSlot()]++
	}

	best := 0
	for _, id := range catalog.SlotIDs() {
		if n := report.Candidates[id]; n > best {
			best = n
			report.BestSlot = id
		}
	}
	report.Confidence = float64(best) / float64(report.MatchCount)
	return report
}
