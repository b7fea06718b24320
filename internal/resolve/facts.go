// Package resolve implements the constraint-based seed resolution engine:
// an incremental filter that narrows the seed catalog down to the single
// layout consistent with a growing set of user-observed facts.
package resolve

import "github.com/Artimuz/nightreign-seed-finder-go/internal/catalog"

// FactKind discriminates the four kinds of user-asserted observation.
type FactKind string

const (
	FactMapType FactKind = "map_type"
	FactSlot    FactKind = "slot"
	FactBoss    FactKind = "boss"
	FactSpawn   FactKind = "spawn"
)

// Fact is a single asserted observation. Exactly the fields implied by Kind
// are meaningful. Auto marks facts committed by ghost auto-fill or stale-fact
// retraction rather than by the user directly.
type Fact struct {
	Kind     FactKind         `json:"kind"`
	MapType  string           `json:"map_type,omitempty"`
	Slot     catalog.SlotID   `json:"slot,omitempty"`
	Building catalog.Building `json:"building,omitempty"`
	Boss     catalog.Boss     `json:"boss,omitempty"`
	Auto     bool             `json:"auto,omitempty"`
}

// FactSet is the state the user builds up over one resolution run.
//
// A slot absent from Slots is unknown; catalog.BuildingEmpty is a real
// asserted value meaning "confirmed nothing here". The same distinction
// applies to Boss, where the zero value is unknown. Spawn holds at most one
// slot id; the zero value means no spawn observation.
type FactSet struct {
	MapType catalog.MapType                     `json:"map_type,omitempty"`
	Slots   map[catalog.SlotID]catalog.Building `json:"slots,omitempty"`
	Boss    catalog.Boss                        `json:"boss,omitempty"`
	Spawn   catalog.SlotID                      `json:"spawn,omitempty"`
}

// NewFactSet returns an empty fact set.
func NewFactSet() FactSet {
	return FactSet{Slots: make(map[catalog.SlotID]catalog.Building)}
}

// Clone deep-copies the fact set. History snapshots rely on this: the state
// is a few dozen key/value pairs, so full copies are cheaper than a diff
// scheme and make undo trivially correct.
func (fs FactSet) Clone() FactSet {
	out := fs
	out.Slots = make(map[catalog.SlotID]catalog.Building, len(fs.Slots))
	for k, v := range fs.Slots {
		out.Slots[k] = v
	}
	return out
}

// SlotFact returns the asserted building for a slot and whether the slot has
// been asserted at all.
func (fs FactSet) SlotFact(id catalog.SlotID) (catalog.Building, bool) {
	b, ok := fs.Slots[id]
	return b, ok
}
