package catalog

import "strings"

// mapTypeVariants maps each canonical type to the accepted label spellings,
// pre-folded. UI labels vary in punctuation and articles ("The Crater",
// "Noklateo, the Shrouded City"), so matching is substring containment in
// either direction over the folded forms.
var mapTypeVariants = map[MapType][]string{
	MapTypeNormal:      {"normal", "default"},
	MapTypeCrater:      {"crater", "thecrater"},
	MapTypeMountaintop: {"mountaintop", "themountaintop"},
	MapTypeRottedWoods: {"rottedwoods", "therottedwoods"},
	MapTypeNoklateo:    {"noklateo", "noklateotheshroudedcity"},
	MapTypeGreatHollow: {"greathollow", "thegreathollow"},
}

// Fold lower-cases a label and strips whitespace, commas, apostrophes and
// underscores so spelling variants collapse to one comparable form. The
// folded form is also what unrecognized labels reduce to wherever they are
// stored or re-encoded: it contains no separator characters.
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch r {
		case ' ', '\t', '\n', ',', '\'', '_', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Normalize resolves a user-facing map-type label to its canonical type.
// Unrecognized labels return the zero MapType, which matches no catalog
// entry; callers treat that as "filters to nothing", never as an error.
func Normalize(raw string) MapType {
	folded := Fold(raw)
	if folded == "" {
		return ""
	}
	for _, mt := range MapTypes {
		for _, variant := range mapTypeVariants[mt] {
			if strings.Contains(folded, variant) || strings.Contains(variant, folded) {
				return mt
			}
		}
	}
	return ""
}
