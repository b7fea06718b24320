// Package catalog holds the static collection of precomputed map layouts
// ("seeds") and the closed vocabularies they are written in. The catalog is
// loaded once at startup, validated, and never mutated afterwards.
package catalog

// Catalog is the immutable seed collection shared by every resolver.
type Catalog struct {
	entries []*Entry
	byID    map[string]*Entry
	byType  map[MapType]int
}

// New builds a catalog from already-validated entries. Entries keep their
// given order; Match results follow it.
func New(entries []*Entry) *Catalog {
	c := &Catalog{
		entries: entries,
		byID:    make(map[string]*Entry, len(entries)),
		byType:  make(map[MapType]int),
	}
	for _, e := range entries {
		c.byID[e.ID] = e
		c.byType[e.MapType]++
	}
	return c
}

// Entries returns the backing slice. Callers must not mutate it.
func (c *Catalog) Entries() []*Entry {
	return c.entries
}

// Len returns the number of seeds in the catalog.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// ByID looks up a seed by its stable identifier.
func (c *Catalog) ByID(id string) (*Entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// TypeCount returns how many seeds the given map-type partition holds.
func (c *Catalog) TypeCount(mt MapType) int {
	return c.byType[mt]
}
