package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/multierr"
)

//go:embed data/catalog.json
var rawCatalog []byte

//go:embed data/catalog.schema.json
var rawSchema []byte

// spawnSuffix marks the slot value that doubles as the seed's spawn point,
// e.g. "camp+spawn". The suffix is data-file syntax only; it is parsed into
// SlotValue.Spawn at load time.
const spawnSuffix = "+spawn"

type rawEntry struct {
	ID      string            `json:"id"`
	MapType string            `json:"map_type"`
	Boss    string            `json:"boss,omitempty"`
	Event   string            `json:"event,omitempty"`
	Slots   map[string]string `json:"slots"`
}

type rawDocument struct {
	Version int        `json:"version"`
	Entries []rawEntry `json:"entries"`
}

// Load parses and validates the embedded seed catalog. A malformed catalog
// is a programmer error and fails fast at startup; all entry-level faults
// are aggregated so the full damage is visible in one pass.
func Load() (*Catalog, error) {
	return Parse(rawCatalog)
}

// Parse builds a catalog from a raw JSON document. Split out from Load so
// tests can feed fixture documents through the same validation path.
func Parse(data []byte) (*Catalog, error) {
	if err := validateSchema(data); err != nil {
		return nil, fmt.Errorf("catalog schema: %w", err)
	}

	var doc rawDocument
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("catalog decode: %w", err)
	}
	if doc.Version != 1 {
		return nil, fmt.Errorf("unsupported catalog version: %d", doc.Version)
	}

	var errs error
	seen := make(map[string]struct{}, len(doc.Entries))
	entries := make([]*Entry, 0, len(doc.Entries))
	for i, re := range doc.Entries {
		entry, err := buildEntry(re)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("entry %d (%q): %w", i, re.ID, err))
			continue
		}
		if _, dup := seen[entry.ID]; dup {
			errs = multierr.Append(errs, fmt.Errorf("entry %d: duplicate id %q", i, entry.ID))
			continue
		}
		seen[entry.ID] = struct{}{}
		entries = append(entries, entry)
	}
	if errs != nil {
		return nil, errs
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	return New(entries), nil
}

func validateSchema(data []byte) error {
	schema, err := jsonschema.CompileString("catalog.schema.json", string(rawSchema))
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return schema.Validate(doc)
}

func buildEntry(re rawEntry) (*Entry, error) {
	var errs error

	if re.ID == "" {
		errs = multierr.Append(errs, fmt.Errorf("missing id"))
	}
	mt := MapType(re.MapType)
	if Normalize(re.MapType) != mt || mt == "" {
		errs = multierr.Append(errs, fmt.Errorf("unknown map type %q", re.MapType))
	}
	boss := Boss(re.Boss)
	if re.Boss != "" && !ValidBoss(boss) {
		errs = multierr.Append(errs, fmt.Errorf("unknown boss %q", re.Boss))
	}
	event := EventTag(re.Event)
	if !ValidEvent(event) {
		errs = multierr.Append(errs, fmt.Errorf("unknown event %q", re.Event))
	}

	slots := make(map[SlotID]SlotValue, len(re.Slots))
	spawns := 0
	for key, val := range re.Slots {
		id := SlotID(key)
		if !ValidSlotID(id) {
			errs = multierr.Append(errs, fmt.Errorf("unknown slot id %q", key))
			continue
		}
		sv := SlotValue{}
		if strings.HasSuffix(val, spawnSuffix) {
			sv.Spawn = true
			spawns++
			val = strings.TrimSuffix(val, spawnSuffix)
		}
		sv.Building = Building(val)
		if !ValidBuilding(sv.Building) {
			errs = multierr.Append(errs, fmt.Errorf("slot %s: unknown building %q", key, val))
			continue
		}
		if sv.Building == BuildingEmpty && sv.Spawn {
			errs = multierr.Append(errs, fmt.Errorf("slot %s: spawn marker on empty slot", key))
			continue
		}
		slots[id] = sv
	}
	if spawns != 1 {
		errs = multierr.Append(errs, fmt.Errorf("expected exactly 1 spawn slot, found %d", spawns))
	}
	if errs != nil {
		return nil, errs
	}

	return &Entry{
		ID:      re.ID,
		MapType: mt,
		Boss:    boss,
		Event:   event,
		Slots:   slots,
	}, nil
}
