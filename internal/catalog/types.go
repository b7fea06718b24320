package catalog

// MapType identifies which shifting-earth variant a seed belongs to. The
// zero value means "no canonical type" and matches nothing.
type MapType string

const (
	MapTypeNormal      MapType = "normal"
	MapTypeCrater      MapType = "crater"
	MapTypeMountaintop MapType = "mountaintop"
	MapTypeRottedWoods MapType = "rotted_woods"
	MapTypeNoklateo    MapType = "noklateo"
	MapTypeGreatHollow MapType = "great_hollow"
)

// MapTypes lists every canonical map type in display order.
var MapTypes = []MapType{
	MapTypeNormal,
	MapTypeCrater,
	MapTypeMountaintop,
	MapTypeRottedWoods,
	MapTypeNoklateo,
	MapTypeGreatHollow,
}

// SlotID is one of the fixed positional locations that can hold a building.
// IDs are two-digit strings "01".."27".
type SlotID string

// SlotCount is the number of positional slots on every map layout.
const SlotCount = 27

// SlotIDs returns the full slot vocabulary in positional order.
func SlotIDs() []SlotID {
	ids := make([]SlotID, 0, SlotCount)
	for i := 1; i <= SlotCount; i++ {
		ids = append(ids, SlotID(twoDigit(i)))
	}
	return ids
}

func twoDigit(i int) string {
	return string([]byte{byte('0' + i/10), byte('0' + i%10)})
}

// ValidSlotID reports whether id belongs to the slot vocabulary.
func ValidSlotID(id SlotID) bool {
	if len(id) != 2 {
		return false
	}
	n := int(id[0]-'0')*10 + int(id[1]-'0')
	return id[0] >= '0' && id[0] <= '9' && id[1] >= '0' && id[1] <= '9' &&
		n >= 1 && n <= SlotCount
}

// Building is a tag from the closed building vocabulary. BuildingEmpty is a
// real value, not an absence marker: it means "confirmed nothing here".
type Building string

const (
	BuildingEmpty         Building = "empty"
	BuildingChurch        Building = "church"
	BuildingGreatChurch   Building = "great_church"
	BuildingFort          Building = "fort"
	BuildingSorcerersRise Building = "sorcerers_rise"
	BuildingCamp          Building = "camp"
	BuildingRuins         Building = "ruins"
	BuildingTownship      Building = "township"
	BuildingTunnel        Building = "tunnel_entrance"
)

// Buildings lists every building tag, including the empty sentinel.
var Buildings = []Building{
	BuildingEmpty,
	BuildingChurch,
	BuildingGreatChurch,
	BuildingFort,
	BuildingSorcerersRise,
	BuildingCamp,
	BuildingRuins,
	BuildingTownship,
	BuildingTunnel,
}

var buildingSet = func() map[Building]struct{} {
	m := make(map[Building]struct{}, len(Buildings))
	for _, b := range Buildings {
		m[b] = struct{}{}
	}
	return m
}()

// ValidBuilding reports whether b belongs to the building vocabulary.
func ValidBuilding(b Building) bool {
	_, ok := buildingSet[b]
	return ok
}

// Boss identifies the nightlord variant governing a layout. The zero value
// means "unknown / not yet revealed"; BossEmpty means "confirmed none".
type Boss string

const (
	BossEmpty    Boss = "empty"
	BossGladius  Boss = "gladius"
	BossAdel     Boss = "adel"
	BossGnoster  Boss = "gnoster"
	BossMaris    Boss = "maris"
	BossLibra    Boss = "libra"
	BossFulghor  Boss = "fulghor"
	BossCaligo   Boss = "caligo"
	BossHeolstor Boss = "heolstor"
)

// Bosses lists every boss tag, including the empty sentinel.
var Bosses = []Boss{
	BossEmpty,
	BossGladius,
	BossAdel,
	BossGnoster,
	BossMaris,
	BossLibra,
	BossFulghor,
	BossCaligo,
	BossHeolstor,
}

var bossSet = func() map[Boss]struct{} {
	m := make(map[Boss]struct{}, len(Bosses))
	for _, b := range Bosses {
		m[b] = struct{}{}
	}
	return m
}()

// ValidBoss reports whether b belongs to the boss vocabulary.
func ValidBoss(b Boss) bool {
	_, ok := bossSet[b]
	return ok
}

// EventTag marks a one-off world event overlay on a seed. Empty string means
// no event.
type EventTag string

const (
	EventNone        EventTag = ""
	EventMeteor      EventTag = "meteor_strike"
	EventNightRot    EventTag = "night_rot"
	EventFrenzyTower EventTag = "frenzy_tower"
	EventGateOfNight EventTag = "gate_of_night"
)

var eventSet = map[EventTag]struct{}{
	EventNone:        {},
	EventMeteor:      {},
	EventNightRot:    {},
	EventFrenzyTower: {},
	EventGateOfNight: {},
}

// ValidEvent reports whether e belongs to the event vocabulary.
func ValidEvent(e EventTag) bool {
	_, ok := eventSet[e]
	return ok
}

// SlotValue is the content of one slot in one catalog entry: the building
// tag plus whether this slot is the hidden spawn marker for the seed.
type SlotValue struct {
	Building Building
	Spawn    bool
}

// Entry is one precomputed, fully specified map layout. Entries are loaded
// once at startup and never mutated; they are shared by reference.
type Entry struct {
	ID      string
	MapType MapType
	Boss    Boss
	Event   EventTag
	Slots   map[SlotID]SlotValue
}

// Slot returns the value stored at id. Slots absent from the data file are
// empty, not unknown: every entry is fully specified.
func (e *Entry) Slot(id SlotID) SlotValue {
	if v, ok := e.Slots[id]; ok {
		return v
	}
	return SlotValue{Building: BuildingEmpty}
}

// SpawnSlot returns the entry's spawn marker slot. Every valid entry carries
// exactly one; this is enforced at load time.
func (e *Entry) SpawnSlot() SlotID {
	for id, v := range e.Slots {
		if v.Spawn {
			return id
		}
	}
	return ""
}
