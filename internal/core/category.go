package core

import "strings"

// Canonical category keys used by snapshots.
const (
	CategoryFoodDining     = "Food & Dining"
	CategoryTransportation = "Transportation"
	CategoryEntertainment  = "Entertainment"
	CategoryShopping       = "Shopping"
	CategoryHousing        = "Housing"
	CategoryHealthcare     = "Healthcare"
	CategoryEducation      = "Education"
	CategoryBillsUtilities = "Bills & Utilities"
)

// categoryAliases maps lowercased free-text synonyms to canonical keys.
var categoryAliases = map[string]string{
	"food":            CategoryFoodDining,
	"food and dining": CategoryFoodDining,
	"transportation":  CategoryTransportation,
	"entertainment":   CategoryEntertainment,
	"shopping":        CategoryShopping,
	"housing":         CategoryHousing,
	"healthcare":      CategoryHealthcare,
	"education":       CategoryEducation,
	"bills":           CategoryBillsUtilities,
	"utilities":       CategoryBillsUtilities,
}

// CategoryAlias resolves a synonym to its canonical key.
func CategoryAlias(raw string) (string, bool) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(raw))]
	return c, ok
}

// CanonicalCategory resolves raw text to one of the snapshot's canonical
// keys: first through the alias table, then by case-insensitive comparison
// with the snapshot's own names.
func (s Snapshot) CanonicalCategory(raw string) (string, bool) {
	if c, ok := CategoryAlias(raw); ok {
		if _, present := s.index[c]; present {
			return c, true
		}
		return "", false
	}
	raw = strings.TrimSpace(raw)
	for _, c := range s.data.Categories {
		if strings.EqualFold(c.Name, raw) {
			return c.Name, true
		}
	}
	return "", false
}
