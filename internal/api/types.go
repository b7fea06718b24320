package api

import (
	"github.com/Artimuz/nightreign-seed-finder-go/internal/catalog"
	"github.com/Artimuz/nightreign-seed-finder-go/internal/resolve"
)

// EngineError represents a structured error response
type EngineError struct {
	Type      string                 `json:"type"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp,omitempty"`
}

// Error implements the error interface
func (e EngineError) Error() string {
	return e.Message
}

// Error type constants
const (
	// Validation errors
	ErrTypeValidation  = "validation_error"
	ErrTypeInvalidFact = "invalid_fact"
	ErrTypeBadToken    = "bad_token"

	// Lookup errors
	ErrTypeSessionNotFound = "session_not_found"
	ErrTypeEntryNotFound   = "entry_not_found"

	// System errors
	ErrTypeTimeout            = "timeout"
	ErrTypeInternal           = "internal_error"
	ErrTypeServiceUnavailable = "service_unavailable"
)

// FactRequest is the body of a fact assertion. Kind selects which of the
// remaining fields are read.
type FactRequest struct {
	Kind     string `json:"kind"`
	MapType  string `json:"map_type,omitempty"`
	Slot     string `json:"slot,omitempty"`
	Building string `json:"building,omitempty"`
	Boss     string `json:"boss,omitempty"`
}

// RetractRequest clears one slot observation.
type RetractRequest struct {
	Slot string `json:"slot"`
}

// SessionResponse is the envelope every session mutation returns: the fresh
// engine update plus the share token for the surviving action sequence.
type SessionResponse struct {
	SessionID string         `json:"session_id"`
	Update    resolve.Update `json:"update"`
	Token     string         `json:"token"`
}

// OptionsResponse enumerates the assertable values for one dimension.
type OptionsResponse struct {
	Dimension string   `json:"dimension"`
	Slot      string   `json:"slot,omitempty"`
	Options   []string `json:"options"`
	Ghost     string   `json:"ghost,omitempty"`
}

// TokenResponse carries a session's share token.
type TokenResponse struct {
	Token string `json:"token"`
}

// ReplayRequest replays a share token against a fresh session.
type ReplayRequest struct {
	Token string `json:"token"`
}

// ReplayResponse is the state the token replays to. Entry is set only when
// the replay converged.
type ReplayResponse struct {
	State     string        `json:"state"`
	Remaining int           `json:"remaining"`
	Token     string        `json:"token"`
	Entry     *EntryPayload `json:"entry,omitempty"`
}

// EntryPayload is the wire shape of one catalog entry. Slots carry the
// building tag, with the spawn marker folded in as a "+spawn" suffix the
// same way the data file writes it; empty slots are omitted.
type EntryPayload struct {
	ID        string            `json:"id"`
	MapType   string            `json:"map_type"`
	Boss      string            `json:"boss,omitempty"`
	Event     string            `json:"event,omitempty"`
	Slots     map[string]string `json:"slots"`
	SpawnSlot string            `json:"spawn_slot"`
}

func entryPayload(e *catalog.Entry) *EntryPayload {
	slots := make(map[string]string, len(e.Slots))
	for id, v := range e.Slots {
		s := string(v.Building)
		if v.Spawn {
			s += "+spawn"
		}
		slots[string(id)] = s
	}
	out := &EntryPayload{
		ID:        e.ID,
		MapType:   string(e.MapType),
		Slots:     slots,
		SpawnSlot: string(e.SpawnSlot()),
	}
	if e.Boss != catalog.BossEmpty {
		out.Boss = string(e.Boss)
	}
	if e.Event != "" {
		out.Event = string(e.Event)
	}
	return out
}

// MapTypeInfo is one row of the map-type listing.
type MapTypeInfo struct {
	Name    string `json:"name"`
	Entries int    `json:"entries"`
}

// MapTypesResponse lists the canonical map types with their entry counts.
type MapTypesResponse struct {
	MapTypes []MapTypeInfo `json:"map_types"`
}

// VersionInfo represents version details
type VersionInfo struct {
	EngineVersion string `json:"engine_version"`
	GitCommit     string `json:"git_commit"`
	BuildTime     string `json:"build_time"`
}
