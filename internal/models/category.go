package models

// Category is one of the six fixed knowledge-entry categories
type Category string

const (
	CategoryAssets      Category = "assets"
	CategoryLiabilities Category = "liabilities"
	CategoryInsurance   Category = "insurance"
	CategoryContacts    Category = "contacts"
	CategoryEmergency   Category = "emergency"
	CategoryNotes       Category = "notes"
)

// AllCategories lists every category in canonical order
var AllCategories = []Category{
	CategoryAssets,
	CategoryLiabilities,
	CategoryInsurance,
	CategoryContacts,
	CategoryEmergency,
	CategoryNotes,
}

// ParseCategory validates a raw category string
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	for _, known := range AllCategories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// PermissionSet carries one flag per category. The shape is fixed so that
// "all six categories present" holds by construction; there is no partial
// merge - callers always supply the full set.
type PermissionSet struct {
	Assets      bool `json:"assets"`
	Liabilities bool `json:"liabilities"`
	Insurance   bool `json:"insurance"`
	Contacts    bool `json:"contacts"`
	Emergency   bool `json:"emergency"`
	Notes       bool `json:"notes"`
}

// Allows reports whether the given category flag is set
func (p PermissionSet) Allows(c Category) bool {
	switch c {
	case CategoryAssets:
		return p.Assets
	case CategoryLiabilities:
		return p.Liabilities
	case CategoryInsurance:
		return p.Insurance
	case CategoryContacts:
		return p.Contacts
	case CategoryEmergency:
		return p.Emergency
	case CategoryNotes:
		return p.Notes
	}
	return false
}

// Permitted returns the categories whose flag is set, in canonical order
func (p PermissionSet) Permitted() []Category {
	var out []Category
	for _, c := range AllCategories {
		if p.Allows(c) {
			out = append(out, c)
		}
	}
	return out
}
