package resolve

import (
	"github.com/Artimuz/nightreign-seed-finder-go/internal/catalog"
)

// testCatalog builds a small hand-written catalog with known discrimination
// structure:
//
//	n1 normal  gladius  01=church 02=camp 03=fort      spawn 01
//	n2 normal  adel     01=church 02=camp              spawn 02
//	n3 normal  gladius  01=fort   05=ruins             spawn 05
//	n4 normal  maris    01=church 02=ruins 04=township spawn 02
//	c1 crater  fulghor  01=camp                        spawn 01
//	c2 crater  caligo   10=sorcerers_rise 11=church    spawn 11
//	k1 noklateo heolstor 07=great_church               spawn 07
//
// n1 and n2 are closest neighbors: they disagree only at slot 03 (fort vs
// empty), the boss, and the spawn slot.
func testCatalog() *catalog.Catalog {
	return catalog.New([]*catalog.Entry{
		fixtureEntry("n1", catalog.MapTypeNormal, catalog.BossGladius, "01", map[catalog.SlotID]catalog.Building{
			"01": catalog.BuildingChurch, "02": catalog.BuildingCamp, "03": catalog.BuildingFort,
		}),
		fixtureEntry("n2", catalog.MapTypeNormal, catalog.BossAdel, "02", map[catalog.SlotID]catalog.Building{
			"01": catalog.BuildingChurch, "02": catalog.BuildingCamp,
		}),
		fixtureEntry("n3", catalog.MapTypeNormal, catalog.BossGladius, "05", map[catalog.SlotID]catalog.Building{
			"01": catalog.BuildingFort, "05": catalog.BuildingRuins,
		}),
		fixtureEntry("n4", catalog.MapTypeNormal, catalog.BossMaris, "02", map[catalog.SlotID]catalog.Building{
			"01": catalog.BuildingChurch, "02": catalog.BuildingRuins, "04": catalog.BuildingTownship,
		}),
		fixtureEntry("c1", catalog.MapTypeCrater, catalog.BossFulghor, "01", map[catalog.SlotID]catalog.Building{
			"01": catalog.BuildingCamp,
		}),
		fixtureEntry("c2", catalog.MapTypeCrater, catalog.BossCaligo, "11", map[catalog.SlotID]catalog.Building{
			"10": catalog.BuildingSorcerersRise, "11": catalog.BuildingChurch,
		}),
		fixtureEntry("k1", catalog.MapTypeNoklateo, catalog.BossHeolstor, "07", map[catalog.SlotID]catalog.Building{
			"07": catalog.BuildingGreatChurch,
		}),
	})
}

func fixtureEntry(id string, mt catalog.MapType, boss catalog.Boss, spawn catalog.SlotID, slots map[catalog.SlotID]catalog.Building) *catalog.Entry {
	sv := make(map[catalog.SlotID]catalog.SlotValue, len(slots))
	for k, b := range slots {
		sv[k] = catalog.SlotValue{Building: b, Spawn: k == spawn}
	}
	return &catalog.Entry{ID: id, MapType: mt, Boss: boss, Slots: sv}
}

// normalFacts returns a fact set with the map type chosen and the given slot
// facts asserted.
func normalFacts(slots map[catalog.SlotID]catalog.Building) FactSet {
	fs := NewFactSet()
	fs.MapType = catalog.MapTypeNormal
	for k, v := range slots {
		fs.Slots[k] = v
	}
	return fs
}

func entryIDs(entries []*catalog.Entry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
