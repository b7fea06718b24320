package resolve

import (
	"encoding/json"
	"log"
	"time"

	"github.com/Artimuz/nightreign-seed-finder-go/internal/catalog"
)

// State is the resolution state machine's position.
type State string

const (
	// StateSelection: no map type chosen yet.
	StateSelection State = "selection"
	// StateBuilding: map type chosen, facts accumulating, consistent set
	// size is 0 or more than 1.
	StateBuilding State = "building"
	// StateComplete: exactly one entry remains.
	StateComplete State = "complete"
)

// Convergence is the completion signal fired exactly once per transition
// into a single-entry consistent set.
type Convergence struct {
	EntryID  string         `json:"entry_id"`
	Entry    *catalog.Entry `json:"-"`
	FactPath []Fact         `json:"fact_path"`
	Duration time.Duration  `json:"-"`
}

// MarshalJSON renders the duration in seconds; time.Duration's native
// nanosecond integer is an implementation detail that must not leak to
// clients.
func (c Convergence) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		EntryID         string  `json:"entry_id"`
		FactPath        []Fact  `json:"fact_path"`
		DurationSeconds float64 `json:"duration_seconds"`
	}{
		EntryID:         c.EntryID,
		FactPath:        c.FactPath,
		DurationSeconds: c.Duration.Seconds(),
	})
}

// Update is returned by every assertion so the caller can re-render
// immediately without a second query round-trip.
type Update struct {
	State     State        `json:"state"`
	Facts     FactSet      `json:"facts"`
	Remaining int          `json:"remaining"`
	AutoFacts []Fact       `json:"auto_facts,omitempty"`
	Converged *Convergence `json:"converged,omitempty"`
}

// snapshot is one step of the edit history: the full fact set after an
// assertion, plus the assertion that produced it. Full snapshots keep undo
// trivially correct at the cost of a few dozen copied pairs per step.
type snapshot struct {
	facts FactSet
	fact  Fact
}

// Session owns one resolution run: the fact set, its history, and the
// convergence marker. It is an explicit handle, never a package global, so
// independent sessions cannot cross-contaminate. Calls must be serialized by
// the owner; the session itself does no locking.
type Session struct {
	cat        *catalog.Catalog
	facts      FactSet
	history    []snapshot
	state      State
	fired      bool
	firedEntry string

	startedAt time.Time
	now       func() time.Time

	onConverged func(Convergence)
	logger      *log.Logger
}

// NewSession starts an empty resolution run against the given catalog.
func NewSession(cat *catalog.Catalog) *Session {
	s := &Session{
		cat:   cat,
		facts: NewFactSet(),
		state: StateSelection,
		now:   time.Now,
	}
	s.startedAt = s.now()
	return s
}

// OnConverged registers the completion subscriber. The engine performs no
// navigation or I/O itself; external collaborators subscribe here. The call
// is fire-and-forget: a panicking or failing subscriber never rolls back the
// state transition that already happened.
func (s *Session) OnConverged(fn func(Convergence)) {
	s.onConverged = fn
}

// SetLogger attaches a diagnostic logger for dropped out-of-order calls and
// swallowed subscriber failures. Nil (the default) is silent.
func (s *Session) SetLogger(l *log.Logger) {
	s.logger = l
}

// AssertMapType chooses the catalog partition to search. Any previously
// asserted slot, boss and spawn facts belong to the old partition's
// vocabulary and are cleared.
func (s *Session) AssertMapType(raw string) Update {
	mt := catalog.Normalize(raw)
	label := string(mt)
	if label == "" {
		// Unrecognized label: keep its folded form. It still matches
		// nothing, which the UI surfaces as zero remaining seeds, and the
		// folded form is free of the separators the token syntax uses, so
		// the fact path stays encodable.
		label = catalog.Fold(raw)
	}
	if label == "" {
		s.drop("blank map type label %q", raw)
		return s.update(nil)
	}

	s.facts = NewFactSet()
	s.facts.MapType = catalog.MapType(label)
	s.push(Fact{Kind: FactMapType, MapType: label})
	return s.settle()
}

// AssertSlot records an observed building. Called before a map type is
// chosen it is a dropped no-op, as is an id or tag outside the closed
// vocabularies: there is nothing to match against, and out-of-order calls
// from the UI are expected, not errors.
func (s *Session) AssertSlot(slot catalog.SlotID, b catalog.Building) Update {
	if s.facts.MapType == "" {
		s.drop("slot fact before map type: %s=%s", slot, b)
		return s.update(nil)
	}
	if !catalog.ValidSlotID(slot) || !catalog.ValidBuilding(b) {
		s.drop("slot fact outside vocabulary: %s=%s", slot, b)
		return s.update(nil)
	}
	s.facts.Slots[slot] = b
	s.push(Fact{Kind: FactSlot, Slot: slot, Building: b})
	return s.settle()
}

// AssertBoss records the revealed boss identity.
func (s *Session) AssertBoss(b catalog.Boss) Update {
	if s.facts.MapType == "" {
		s.drop("boss fact before map type: %s", b)
		return s.update(nil)
	}
	if !catalog.ValidBoss(b) {
		s.drop("boss fact outside vocabulary: %s", b)
		return s.update(nil)
	}
	s.facts.Boss = b
	s.push(Fact{Kind: FactBoss, Boss: b})
	return s.settle()
}

// AssertSpawn records the observed spawn slot. At most one spawn fact exists
// at a time; a new assertion replaces the old one, and the zero SlotID
// clears it.
func (s *Session) AssertSpawn(slot catalog.SlotID) Update {
	if s.facts.MapType == "" {
		s.drop("spawn fact before map type: %s", slot)
		return s.update(nil)
	}
	if slot != "" && !catalog.ValidSlotID(slot) {
		s.drop("spawn fact outside vocabulary: %s", slot)
		return s.update(nil)
	}
	s.facts.Spawn = slot
	s.push(Fact{Kind: FactSpawn, Slot: slot})
	return s.settle()
}

// Retract weakens a slot fact to "confirmed empty". This removes the prior
// stronger constraint but keeps the slot's interacted-with status: once a
// slot has been touched, it is never silently back to unknown.
func (s *Session) Retract(slot catalog.SlotID) Update {
	return s.AssertSlot(slot, catalog.BuildingEmpty)
}

// Undo steps back one user-meaningful action. Auto-committed facts that
// followed the last user assertion (ghost fills, stale-fact retractions)
// are popped together with it, so undo never exposes the intermediate
// auto-filled states.
func (s *Session) Undo() Update {
	if len(s.history) == 0 {
		return s.update(nil)
	}
	i := len(s.history) - 1
	for i > 0 && s.history[i].fact.Auto {
		i--
	}
	s.history = s.history[:i]

	if len(s.history) == 0 {
		s.facts = NewFactSet()
	} else {
		s.facts = s.history[len(s.history)-1].facts.Clone()
	}
	s.refreshState()
	return s.update(nil)
}

// Restart clears the run back to the selection state.
func (s *Session) Restart() Update {
	s.facts = NewFactSet()
	s.history = nil
	s.state = StateSelection
	s.fired = false
	s.startedAt = s.now()
	return s.update(nil)
}

// Facts returns a copy of the current fact set.
func (s *Session) Facts() FactSet {
	return s.facts.Clone()
}

// State returns the state machine's position.
func (s *Session) State() State {
	return s.state
}

// Remaining returns the consistent set for the current facts. Before a map
// type is chosen nothing has been filtered yet, so the whole catalog
// remains; an unrecognized map-type label, by contrast, has been asserted
// and matches nothing.
func (s *Session) Remaining() []*catalog.Entry {
	if s.facts.MapType == "" {
		return s.cat.Entries()
	}
	return Match(s.cat, s.facts)
}

// RemainingCount returns the consistent set's size.
func (s *Session) RemainingCount() int {
	if s.facts.MapType == "" {
		return s.cat.Len()
	}
	return MatchCount(s.cat, s.facts)
}

// Resolved returns the single remaining entry once the run is complete.
func (s *Session) Resolved() (*catalog.Entry, bool) {
	if s.state != StateComplete {
		return nil, false
	}
	m := s.Remaining()
	if len(m) != 1 {
		return nil, false
	}
	return m[0], true
}

// FactPath returns the assertion sequence so far, auto facts included.
func (s *Session) FactPath() []Fact {
	out := make([]Fact, len(s.history))
	for i, snap := range s.history {
		out[i] = snap.fact
	}
	return out
}

// SlotOptions enumerates the still-possible buildings for a slot.
func (s *Session) SlotOptions(slot catalog.SlotID) []catalog.Building {
	return SlotOptions(s.cat, s.facts, slot)
}

// BossOptions enumerates the still-possible boss identities.
func (s *Session) BossOptions() []catalog.Boss {
	return BossOptions(s.cat, s.facts)
}

// AnalyzeSpawns reports spawn-slot candidates for the current facts.
func (s *Session) AnalyzeSpawns() SpawnReport {
	return AnalyzeSpawns(s.cat, s.facts)
}

// push appends a history snapshot for an assertion that was accepted.
func (s *Session) push(fact Fact) {
	s.history = append(s.history, snapshot{facts: s.facts.Clone(), fact: fact})
}

// settle runs the post-assertion pipeline: retract facts the rest of the set
// has made impossible, auto-commit dimensions with a single possibility
// left, then check for convergence.
func (s *Session) settle() Update {
	auto := s.reconcile()
	auto = append(auto, s.ghostFill()...)
	return s.update(auto)
}

// reconcile retracts stale facts. If a slot or boss is asserted to a
// non-empty value that no longer appears among its own options, the value
// contradicts the rest of the fact set and is set back to empty. Retraction
// only weakens constraints, so one pass cannot create new stale facts.
func (s *Session) reconcile() []Fact {
	var auto []Fact
	for _, slot := range catalog.SlotIDs() {
		b, ok := s.facts.Slots[slot]
		if !ok || b == catalog.BuildingEmpty {
			continue
		}
		if !containsBuilding(SlotOptions(s.cat, s.facts, slot), b) {
			s.facts.Slots[slot] = catalog.BuildingEmpty
			fact := Fact{Kind: FactSlot, Slot: slot, Building: catalog.BuildingEmpty, Auto: true}
			s.push(fact)
			auto = append(auto, fact)
		}
	}
	if b := s.facts.Boss; b != "" && b != catalog.BossEmpty {
		if !containsBoss(BossOptions(s.cat, s.facts), b) {
			s.facts.Boss = catalog.BossEmpty
			fact := Fact{Kind: FactBoss, Boss: catalog.BossEmpty, Auto: true}
			s.push(fact)
			auto = append(auto, fact)
		}
	}
	return auto
}

// ghostFill auto-commits every still-unknown dimension whose value is
// unanimous across the remaining entries. Such a commit never narrows the
// consistent set, so convergence still happens exactly at the fact that
// disambiguates the final candidates, never earlier. Dimensions with a
// single non-empty possibility that would narrow the set (some remaining
// entries are empty there) are only surfaced via SlotGhost/BossGhost for the
// UI to preselect.
func (s *Session) ghostFill() []Fact {
	// No partition chosen means nothing is determined yet, however uniform
	// the catalog happens to be.
	if s.facts.MapType == "" {
		return nil
	}

	remaining := s.Remaining()
	// Nothing to disambiguate at size 1 (the convergence is the answer),
	// and blanket-committing the resolved entry's values would keep
	// filtering after a later retract weakens the user's own facts.
	if len(remaining) <= 1 {
		return nil
	}

	var auto []Fact
	for _, slot := range catalog.SlotIDs() {
		if _, asserted := s.facts.Slots[slot]; asserted {
			continue
		}
		unanimous := remaining[0].Slot(slot).Building
		for _, e := range remaining[1:] {
			if e.Slot(slot).Building != unanimous {
				unanimous = ""
				break
			}
		}
		if unanimous == "" || unanimous == catalog.BuildingEmpty {
			continue
		}
		s.facts.Slots[slot] = unanimous
		fact := Fact{Kind: FactSlot, Slot: slot, Building: unanimous, Auto: true}
		s.push(fact)
		auto = append(auto, fact)
	}

	if s.facts.Boss == "" {
		unanimous := remaining[0].Boss
		for _, e := range remaining[1:] {
			if e.Boss != unanimous {
				unanimous = ""
				break
			}
		}
		if unanimous != "" {
			s.facts.Boss = unanimous
			fact := Fact{Kind: FactBoss, Boss: unanimous, Auto: true}
			s.push(fact)
			auto = append(auto, fact)
		}
	}
	return auto
}

// update recomputes the machine state, fires the one-shot convergence signal
// on a fresh transition into a single-entry set, and packages the result.
func (s *Session) update(auto []Fact) Update {
	conv := s.refreshState()
	return Update{
		State:     s.state,
		Facts:     s.facts.Clone(),
		Remaining: s.RemainingCount(),
		AutoFacts: auto,
		Converged: conv,
	}
}

// refreshState moves the state machine and handles the single-fire marker.
// Returning to a set size other than one re-arms the marker so a future
// convergence fires again; recomputing an already-complete state does not.
func (s *Session) refreshState() *Convergence {
	if s.facts.MapType == "" {
		s.state = StateSelection
		s.fired = false
		return nil
	}

	n := s.RemainingCount()
	if n != 1 {
		s.state = StateBuilding
		s.fired = false
		return nil
	}

	s.state = StateComplete
	entry := Match(s.cat, s.facts)[0]
	// Re-fire only on a fresh transition into a single-entry set, or when
	// one settle pass swapped the resolved entry for another without the
	// size ever being observed away from 1.
	if s.fired && s.firedEntry == entry.ID {
		return nil
	}
	s.fired = true
	s.firedEntry = entry.ID
	conv := Convergence{
		EntryID:  entry.ID,
		Entry:    entry,
		FactPath: s.FactPath(),
		Duration: s.now().Sub(s.startedAt),
	}
	s.emit(conv)
	return &conv
}

// emit delivers the convergence signal, swallowing subscriber panics: the
// session's own state is authoritative regardless of what the side effect
// does.
func (s *Session) emit(conv Convergence) {
	if s.onConverged == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.drop("convergence subscriber panic: %v", r)
		}
	}()
	s.onConverged(conv)
}

func (s *Session) drop(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf("dropped: "+format, args...)
	}
}

func containsBuilding(opts []catalog.Building, b catalog.Building) bool {
	for _, o := range opts {
		if o == b {
			return true
		}
	}
	return false
}

func containsBoss(opts []catalog.Boss, b catalog.Boss) bool {
	for _, o := range opts {
		if o == b {
			return true
		}
	}
	return false
}
