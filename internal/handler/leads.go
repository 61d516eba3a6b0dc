package handler

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/catalog"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/leadcsv"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/middleware"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/service"
)

type selectionRequest struct {
	LeadIDs []string `json:"lead_ids"`
	Format  string   `json:"format"`
}

// ListLeads returns the filtered catalog
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		h.writeError(w, service.ErrUnauthenticated)
		return
	}
	q := r.URL.Query()
	view, err := h.svc.Catalog(r.Context(), profile.ID, catalog.Filter{
		Search:   q.Get("search"),
		Industry: q.Get("industry"),
		Location: q.Get("location"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Quote prices a selection
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		h.writeError(w, service.ErrUnauthenticated)
		return
	}
	var req selectionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	quote, err := h.svc.Quote(r.Context(), profile.ID, req.LeadIDs)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// Download charges for a selection and streams it back as an attachment
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		h.writeError(w, service.ErrUnauthenticated)
		return
	}
	var req selectionRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	format := strings.ToLower(req.Format)
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xml" {
		h.writeError(w, &service.ValidationError{Field: "format", Message: "format must be csv or xml"})
		return
	}

	res, err := h.svc.Download(r.Context(), profile.ID, req.LeadIDs)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var buf bytes.Buffer
	contentType := "text/csv"
	if format == "xml" {
		contentType = "application/xml"
		err = leadcsv.WriteXML(&buf, res.Leads)
	} else {
		err = leadcsv.Write(&buf, res.Leads)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+leadcsv.FileName(res.DownloadedAt, format)+`"`)
	w.Header().Set("X-Leads-Downloaded", strconv.Itoa(len(res.Leads)))
	w.Header().Set("X-Credits-Deducted", strconv.Itoa(res.Cost))
	w.Header().Set("X-Credits-Balance", strconv.Itoa(res.Balance))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
