package service

import (
	"context"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/catalog"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
)

// CatalogLead is a catalog row flagged with whether the caller already owns it
type CatalogLead struct {
	models.Lead
	Downloaded bool `json:"downloaded"`
}

// CatalogView is what the lead browser renders
type CatalogView struct {
	Leads      []CatalogLead `json:"leads"`
	Industries []string      `json:"industries"`
	Locations  []string      `json:"locations"`
	Downloaded []string      `json:"downloaded"`
	Total      int           `json:"total"`
}

// Catalog returns the available leads matching f. Facet values come from
// every available lead so the dropdowns do not shrink as filters narrow.
func (s *Service) Catalog(ctx context.Context, userID string, f catalog.Filter) (*CatalogView, error) {
	leads, err := s.repo.ListLeads(ctx, models.LeadStatusAvailable)
	if err != nil {
		return nil, err
	}
	downloadedIDs, err := s.repo.DownloadedLeadIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	downloaded := toSet(downloadedIDs)

	industries, locations := catalog.Facets(leads)
	view := &CatalogView{
		Leads:      []CatalogLead{},
		Industries: industries,
		Locations:  locations,
		Downloaded: downloadedIDs,
		Total:      len(leads),
	}
	for _, l := range catalog.Apply(leads, f) {
		view.Leads = append(view.Leads, CatalogLead{Lead: l, Downloaded: downloaded[l.LeadID]})
	}
	return view, nil
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
