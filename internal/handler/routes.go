package handler

import (
	"net/http"

	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/middleware"
	"github.com/ShakilAhmedRego/verifiedmeasure-Daas/internal/models"
	"github.com/gorilla/mux"
)

// Routes builds the API router. Admins pass the client gate too.
func (h *Handler) Routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logging(h.log), middleware.Recoverer(h.log))

	// Public routes
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/signup", h.SignUp).Methods(http.MethodPost)
	r.HandleFunc("/signin", h.SignIn).Methods(http.MethodPost)
	r.HandleFunc("/signout", h.SignOut).Methods(http.MethodPost)

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.Session(h.svc, h.log))
	authRouter.HandleFunc("/session", h.Session).Methods(http.MethodGet)

	clientRouter := authRouter.PathPrefix("/leads").Subrouter()
	clientRouter.Use(middleware.RequireRole(models.RoleClient, models.RoleAdmin))
	clientRouter.HandleFunc("", h.ListLeads).Methods(http.MethodGet)
	clientRouter.HandleFunc("/quote", h.Quote).Methods(http.MethodPost)
	clientRouter.HandleFunc("/download", h.Download).Methods(http.MethodPost)

	adminRouter := authRouter.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.RequireRole(models.RoleAdmin))
	adminRouter.HandleFunc("/overview", h.AdminOverview).Methods(http.MethodGet)
	adminRouter.HandleFunc("/leads/import", h.ImportLeads).Methods(http.MethodPost)
	adminRouter.HandleFunc("/users/{id}/credits", h.GrantCredits).Methods(http.MethodPost)
	adminRouter.HandleFunc("/users/{id}/status", h.SetStatus).Methods(http.MethodPatch)

	return r
}
