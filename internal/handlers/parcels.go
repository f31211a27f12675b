package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/parcelhub/parcelhub/internal/auth"
	"github.com/parcelhub/parcelhub/internal/middleware"
	"github.com/parcelhub/parcelhub/internal/models"
	"github.com/parcelhub/parcelhub/internal/service"
)

// ParcelsHandler exposes parcel registration and ownership endpoints.
type ParcelsHandler struct {
	parcels  *service.ParcelService
	jwt      *auth.JWTManager
	validate *validator.Validate
}

// NewParcelsHandler creates a new ParcelsHandler.
func NewParcelsHandler(parcels *service.ParcelService, jwt *auth.JWTManager, validate *validator.Validate) *ParcelsHandler {
	return &ParcelsHandler{parcels: parcels, jwt: jwt, validate: validate}
}

// Routes declares the parcel routes with their required roles.
func (h *ParcelsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireAuth(h.jwt))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleParcelOwner))

		r.Get("/", h.listParcels)
		r.Get("/{id}", h.getParcel)
		r.Get("/{id}/owners", h.getParcelOwners)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(models.RoleAdmin))

		r.Post("/", h.createParcel)
		r.Post("/{id}/owners/{userID}", h.addParcelOwner)
	})

	return r
}

func (h *ParcelsHandler) listParcels(w http.ResponseWriter, r *http.Request) {
	parcels, err := h.parcels.ListParcels(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, parcels)
}

func (h *ParcelsHandler) getParcel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	parcel, err := h.parcels.FindParcelByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if parcel == nil {
		writeError(w, service.ErrNotFound)
		return
	}

	writeJSON(w, http.StatusOK, parcel)
}

func (h *ParcelsHandler) getParcelOwners(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	owners, err := h.parcels.FindParcelOwners(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, owners)
}

func (h *ParcelsHandler) createParcel(w http.ResponseWriter, r *http.Request) {
	req := &service.CreateParcelRequest{}
	if err := decodeJSON(r, h.validate, req); err != nil {
		writeError(w, err)
		return
	}

	parcel, err := h.parcels.CreateParcel(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, parcel)
}

func (h *ParcelsHandler) addParcelOwner(w http.ResponseWriter, r *http.Request) {
	parcelID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.parcels.AddParcelOwner(r.Context(), parcelID, userID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
