package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/middleware"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/service"
	"github.com/gorilla/mux"
)

const maxUploadBytes = 10 << 20

// AdminOverview returns every lead, every profile and the headline stats
func (h *Handler) AdminOverview(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.AdminOverview(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// ImportLeads accepts a CSV as the raw body or as the multipart field "file"
func (h *Handler) ImportLeads(w http.ResponseWriter, r *http.Request) {
	admin, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		h.writeError(w, service.ErrUnauthenticated)
		return
	}
	text, err := readUpload(w, r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	report, err := h.svc.ImportLeads(r.Context(), admin.ID, text)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func readUpload(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", &service.ValidationError{Field: "file", Message: "a CSV file is required"}
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return "", &service.ValidationError{Field: "file", Message: "failed to read upload"}
		}
		return string(data), nil
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", &service.ValidationError{Field: "file", Message: "failed to read upload"}
	}
	return string(data), nil
}

// amountText accepts the grant amount as a JSON string or number
type amountText string

func (a *amountText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = amountText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*a = amountText(n)
	return nil
}

type grantRequest struct {
	Amount amountText `json:"amount"`
}

// GrantCredits adds credits to a user's balance
func (h *Handler) GrantCredits(w http.ResponseWriter, r *http.Request) {
	admin, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		h.writeError(w, service.ErrUnauthenticated)
		return
	}
	var req grantRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	profile, err := h.svc.GrantCredits(r.Context(), admin, mux.Vars(r)["id"], string(req.Amount))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type statusRequest struct {
	Status string `json:"status"`
}

// SetStatus suspends or reactivates an account
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	admin, ok := middleware.ProfileFromContext(r.Context())
	if !ok {
		h.writeError(w, service.ErrUnauthenticated)
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	id := mux.Vars(r)["id"]
	if err := h.svc.SetProfileStatus(r.Context(), admin.ID, id, req.Status); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}
