package catalog

import (
	"strings"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
)

// AllOption is the facet value the dashboard sends for "no constraint"
const AllOption = "all"

// Filter holds the three dashboard predicates; they are combined with AND
type Filter struct {
	Search   string `json:"search"`
	Industry string `json:"industry"`
	Location string `json:"location"`
}

// Matches reports whether a lead satisfies every predicate of the filter
func (f Filter) Matches(lead models.Lead) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(lead.CompanyName), term) &&
			!strings.Contains(strings.ToLower(lead.ContactName), term) {
			return false
		}
	}
	if facetSet(f.Industry) && lead.Industry != f.Industry {
		return false
	}
	if facetSet(f.Location) && lead.Location != f.Location {
		return false
	}
	return true
}

func facetSet(v string) bool {
	return v != "" && v != AllOption
}

// Apply returns the leads matching f, keeping their load order
func Apply(leads []models.Lead, f Filter) []models.Lead {
	out := make([]models.Lead, 0, len(leads))
	for _, l := range leads {
		if f.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}

// Facets returns the distinct non-empty industries and locations observed in
// leads, in first-seen order
func Facets(leads []models.Lead) (industries, locations []string) {
	industries = []string{}
	locations = []string{}
	seenIndustry := make(map[string]bool)
	seenLocation := make(map[string]bool)
	for _, l := range leads {
		if l.Industry != "" && !seenIndustry[l.Industry] {
			seenIndustry[l.Industry] = true
			industries = append(industries, l.Industry)
		}
		if l.Location != "" && !seenLocation[l.Location] {
			seenLocation[l.Location] = true
			locations = append(locations, l.Location)
		}
	}
	return industries, locations
}

// LeadIDs projects leads onto their business keys
func LeadIDs(leads []models.Lead) []string {
	ids := make([]string, len(leads))
	for i, l := range leads {
		ids[i] = l.LeadID
	}
	return ids
}
