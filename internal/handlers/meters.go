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

// MetersHandler exposes meter and reading endpoints. Readings are
// append-only: there is no update or delete route.
type MetersHandler struct {
	meters   *service.MeterService
	jwt      *auth.JWTManager
	validate *validator.Validate
}

// NewMetersHandler creates a new MetersHandler.
func NewMetersHandler(meters *service.MeterService, jwt *auth.JWTManager, validate *validator.Validate) *MetersHandler {
	return &MetersHandler{meters: meters, jwt: jwt, validate: validate}
}

// Routes declares the meter routes with their required roles.
func (h *MetersHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireAuth(h.jwt))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleParcelOwner))

		r.Get("/parcel/{parcelID}", h.getMetersByParcel)
		r.Get("/{id}/readings", h.getReadings)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(models.RoleAdmin))

		r.Post("/", h.createMeter)
		r.Post("/{id}/readings", h.addReading)
	})

	return r
}

func (h *MetersHandler) createMeter(w http.ResponseWriter, r *http.Request) {
	req := &service.CreateMeterRequest{}
	if err := decodeJSON(r, h.validate, req); err != nil {
		writeError(w, err)
		return
	}

	meter, err := h.meters.CreateMeter(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, meter)
}

// getMetersByParcel returns a parcel's meters with readings attached.
func (h *MetersHandler) getMetersByParcel(w http.ResponseWriter, r *http.Request) {
	parcelID, err := pathID(r, "parcelID")
	if err != nil {
		writeError(w, err)
		return
	}

	meters, err := h.meters.FindMetersByParcel(r.Context(), parcelID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, meters)
}

func (h *MetersHandler) addReading(w http.ResponseWriter, r *http.Request) {
	meterID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	req := &service.CreateReadingRequest{}
	if err := decodeJSON(r, h.validate, req); err != nil {
		writeError(w, err)
		return
	}

	reading, err := h.meters.AddReading(r.Context(), meterID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, reading)
}

func (h *MetersHandler) getReadings(w http.ResponseWriter, r *http.Request) {
	meterID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	readings, err := h.meters.FindReadings(r.Context(), meterID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, readings)
}
