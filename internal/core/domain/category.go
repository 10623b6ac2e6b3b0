package domain

import "strings"

// TopLevelCategory is one of the seven billable service categories a SOAP
// note can support. The set is closed: values outside it are never valid
// and must be rejected at the decoding boundary.
type TopLevelCategory string

const (
	CategoryOfficeVisits   TopLevelCategory = "Office and Patient Visits"
	CategoryProcedures     TopLevelCategory = "Procedures"
	CategoryLabTests       TopLevelCategory = "Laboratory and Diagnostic Tests"
	CategoryVaccines       TopLevelCategory = "Vaccines and Immunizations"
	CategoryNutrition      TopLevelCategory = "Nutrition and Counseling"
	CategoryMedications    TopLevelCategory = "Medications and Injectable Drugs"
	CategoryAdministrative TopLevelCategory = "Administrative and Billing"
)

// AllCategories returns the full enumeration in its canonical order.
func AllCategories() []TopLevelCategory {
	return []TopLevelCategory{
		CategoryOfficeVisits,
		CategoryProcedures,
		CategoryLabTests,
		CategoryVaccines,
		CategoryNutrition,
		CategoryMedications,
		CategoryAdministrative,
	}
}

// Key returns the normalized form used for mapping lookups.
func (c TopLevelCategory) Key() string {
	return strings.ToLower(strings.TrimSpace(string(c)))
}

// ParseCategory resolves a string to a member of the enumeration,
// ignoring case and surrounding whitespace. Unknown values report ok=false.
func ParseCategory(s string) (TopLevelCategory, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, c := range AllCategories() {
		if c.Key() == key {
			return c, true
		}
	}
	return "", false
}

// CPTCandidate is one allowed code with its display description.
type CPTCandidate struct {
	Code        string `json:"cpt"`
	Description string `json:"description"`
}

// CategoryCodes is the allowed-code list for a single category, in the
// order the reference mapping lists them.
type CategoryCodes struct {
	Category TopLevelCategory
	Codes    []CPTCandidate
}
