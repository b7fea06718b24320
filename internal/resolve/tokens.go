package resolve

import (
	"fmt"
	"strings"

	"github.com/Artimuz/nightreign-seed-finder-go/internal/catalog"
)

// The share-token format is a comma-joined action sequence, one token per
// user action:
//
//	m:<map type label>   choose a map type
//	s:<slot>=<building>  assert a slot observation ("empty" retracts)
//	b:<boss>             assert the boss identity
//	p:<slot>             assert the spawn slot ("p:" clears it)
//	u                    undo
//
// Auto-committed facts are never encoded: they re-derive deterministically
// on replay, so the same token string always reproduces the same consistent
// set and the same completion behavior.

// Action is one replayable step of a resolution run.
type Action struct {
	Undo bool
	Fact Fact
}

// Token serializes the session's surviving user actions. Undone actions are
// already gone from history, so the encoding is the canonical shortest
// replay of the current state.
func (s *Session) Token() string {
	var toks []string
	for _, f := range s.FactPath() {
		if f.Auto {
			continue
		}
		toks = append(toks, encodeFact(f))
	}
	return strings.Join(toks, ",")
}

// EncodePath renders a fact path in token syntax, auto facts included.
// Unlike Token it is a faithful transcript of the path, not a replayable
// shortest form.
func EncodePath(path []Fact) string {
	toks := make([]string, 0, len(path))
	for _, f := range path {
		toks = append(toks, encodeFact(f))
	}
	return strings.Join(toks, ",")
}

func encodeFact(f Fact) string {
	switch f.Kind {
	case FactMapType:
		return "m:" + f.MapType
	case FactSlot:
		return fmt.Sprintf("s:%s=%s", f.Slot, f.Building)
	case FactBoss:
		return "b:" + string(f.Boss)
	case FactSpawn:
		return "p:" + string(f.Slot)
	}
	return ""
}

// DecodeActions parses a share token into its action sequence.
func DecodeActions(encoded string) ([]Action, error) {
	if strings.TrimSpace(encoded) == "" {
		return nil, nil
	}

	var actions []Action
	for i, tok := range strings.Split(encoded, ",") {
		tok = strings.TrimSpace(tok)
		a, err := decodeToken(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: token %d (%q)", ErrBadToken, i, tok)
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func decodeToken(tok string) (Action, error) {
	if tok == "u" {
		return Action{Undo: true}, nil
	}
	if len(tok) < 2 || tok[1] != ':' {
		return Action{}, fmt.Errorf("missing kind prefix")
	}
	body := tok[2:]
	switch tok[0] {
	case 'm':
		if body == "" {
			return Action{}, fmt.Errorf("empty map type")
		}
		return Action{Fact: Fact{Kind: FactMapType, MapType: body}}, nil
	case 's':
		slot, building, ok := strings.Cut(body, "=")
		if !ok || slot == "" || building == "" {
			return Action{}, fmt.Errorf("want s:<slot>=<building>")
		}
		return Action{Fact: Fact{
			Kind:     FactSlot,
			Slot:     catalog.SlotID(slot),
			Building: catalog.Building(building),
		}}, nil
	case 'b':
		if body == "" {
			return Action{}, fmt.Errorf("empty boss")
		}
		return Action{Fact: Fact{Kind: FactBoss, Boss: catalog.Boss(body)}}, nil
	case 'p':
		return Action{Fact: Fact{Kind: FactSpawn, Slot: catalog.SlotID(body)}}, nil
	}
	return Action{}, fmt.Errorf("unknown kind %q", tok[0])
}

// Apply replays one decoded action through the session's ordinary assertion
// path, so replayed runs converge (and fire) exactly like live ones.
func (s *Session) Apply(a Action) Update {
	if a.Undo {
		return s.Undo()
	}
	switch a.Fact.Kind {
	case FactMapType:
		return s.AssertMapType(a.Fact.MapType)
	case FactSlot:
		return s.AssertSlot(a.Fact.Slot, a.Fact.Building)
	case FactBoss:
		return s.AssertBoss(a.Fact.Boss)
	case FactSpawn:
		return s.AssertSpawn(a.Fact.Slot)
	}
	return s.update(nil)
}

// Replay reconstructs a session from a share token. The returned session has
// replayed convergence detection: if the token narrows the catalog to one
// entry, the convergence signal has already fired on any subscriber
// registered via the configure callback.
func Replay(cat *catalog.Catalog, encoded string, configure func(*Session)) (*Session, error) {
	actions, err := DecodeActions(encoded)
	if err != nil {
		return nil, err
	}
	s := NewSession(cat)
	if configure != nil {
		configure(s)
	}
	for _, a := range actions {
		s.Apply(a)
	}
	return s, nil
}
