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

// InvoicesHandler exposes invoice endpoints.
type InvoicesHandler struct {
	invoices *service.InvoiceService
	jwt      *auth.JWTManager
	validate *validator.Validate
}

// NewInvoicesHandler creates a new InvoicesHandler.
func NewInvoicesHandler(invoices *service.InvoiceService, jwt *auth.JWTManager, validate *validator.Validate) *InvoicesHandler {
	return &InvoicesHandler{invoices: invoices, jwt: jwt, validate: validate}
}

// Routes declares the invoice routes with their required roles.
func (h *InvoicesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequireAuth(h.jwt))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleParcelOwner))

		r.Get("/{id}", h.getInvoice)
		r.Get("/parcel/{parcelID}", h.getInvoicesByParcel)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRoles(models.RoleAdmin))

		r.Post("/", h.createInvoice)
	})

	return r
}

func (h *InvoicesHandler) createInvoice(w http.ResponseWriter, r *http.Request) {
	req := &service.CreateInvoiceRequest{}
	if err := decodeJSON(r, h.validate, req); err != nil {
		writeError(w, err)
		return
	}

	invoice, err := h.invoices.CreateInvoice(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, invoice)
}

func (h *InvoicesHandler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	invoice, err := h.invoices.FindInvoiceByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if invoice == nil {
		writeError(w, service.ErrNotFound)
		return
	}

	writeJSON(w, http.StatusOK, invoice)
}

func (h *InvoicesHandler) getInvoicesByParcel(w http.ResponseWriter, r *http.Request) {
	parcelID, err := pathID(r, "parcelID")
	if err != nil {
		writeError(w, err)
		return
	}

	invoices, err := h.invoices.FindInvoicesByParcel(r.Context(), parcelID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, invoices)
}
