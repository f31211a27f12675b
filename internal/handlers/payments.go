package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/parcelhub/parcelhub/internal/auth"
	"github.com/parcelhub/parcelhub/internal/middleware"
	"github.com/parcelhub/parcelhub/internal/models"
	"github.com/parcelhub/parcelhub/internal/service"
)

// PaymentsHandler exposes the payment endpoints. Ownership rules:
// by-user and by-invoice listings run the access policy; fetching a
// single payment by id does not.
type PaymentsHandler struct {
	payments *service.PaymentService
	invoices *service.InvoiceService
	parcels  *service.ParcelService
	jwt      *auth.JWTManager
	validate *validator.Validate
}

// NewPaymentsHandler creates a new PaymentsHandler.
func NewPaymentsHandler(
	payments *service.PaymentService,
	invoices *service.InvoiceService,
	parcels *service.ParcelService,
	jwt *auth.JWTManager,
	validate *validator.Validate,
) *PaymentsHandler {
	return &PaymentsHandler{
		payments: payments,
		invoices: invoices,
		parcels:  parcels,
		jwt:      jwt,
		validate: validate,
	}
}

// Routes declares the payment routes with their required roles. The
// commit callback is public: Transbank invokes it directly, so the only
// protection is the secrecy of the return URL.
func (h *PaymentsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/webpay/commit-trx", h.commitTransaction)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwt))
		r.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleParcelOwner))

		r.Post("/webpay/start-trx", h.startTransaction)
		r.Get("/{id}", h.getPaymentByID)
		r.Get("/user/{userID}", h.getPaymentsByUser)
		r.Get("/invoice/{invoiceID}", h.getPaymentsByInvoice)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwt))
		r.Use(middleware.RequireRoles(models.RoleAdmin))

		r.Post("/manual", h.createManualPayment)
		r.Get("/", h.getAllPayments)
	})

	return r
}

// startTransaction initiates a webpay transaction for the authenticated
// principal and returns the gateway token and redirect URL.
func (h *PaymentsHandler) startTransaction(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	req := &service.CreatePaymentRequest{}
	if err := decodeJSON(r, h.validate, req); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.payments.StartWebpayPayment(r.Context(), req, principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// commitTransaction finalizes a webpay transaction from the gateway
// callback. Gateway failures propagate unchanged.
func (h *PaymentsHandler) commitTransaction(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token_ws")

	payment, err := h.payments.CommitWebpayPayment(r.Context(), token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payment)
}

// createManualPayment registers a payment made outside the gateway
// (cash or bank transfer). Admin only.
func (h *PaymentsHandler) createManualPayment(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	req := &service.CreatePaymentRequest{}
	if err := decodeJSON(r, h.validate, req); err != nil {
		writeError(w, err)
		return
	}

	payment, err := h.payments.CreateManualPayment(r.Context(), req, principal.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, payment)
}

// getAllPayments returns every payment record. Admin only.
func (h *PaymentsHandler) getAllPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.payments.FindAllPayments(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payments)
}

// getPaymentByID returns a payment, or JSON null when it does not exist.
// Any authenticated admin or parcel owner may fetch any payment here; no
// ownership check is applied on this endpoint, unlike the by-user and
// by-invoice listings.
func (h *PaymentsHandler) getPaymentByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	payment, err := h.payments.FindPaymentByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payment)
}

// getPaymentsByUser lists a user's payments. A non-admin principal may
// only list their own.
func (h *PaymentsHandler) getPaymentsByUser(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	userID, err := pathID(r, "userID")
	if err != nil {
		writeError(w, err)
		return
	}

	if !auth.CanViewPayment(principal, []int64{userID}) {
		writeError(w, fmt.Errorf("%w: you do not have permission to view these payments", service.ErrUnauthorized))
		return
	}

	payments, err := h.payments.FindPaymentsByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payments)
}

// getPaymentsByInvoice lists the payments settling an invoice. The
// invoice's parcel owners are resolved first: a missing invoice or
// parcel is 404 before any payment lookup, and the access policy runs
// only when the owner set is non-empty.
func (h *PaymentsHandler) getPaymentsByInvoice(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	invoiceID, err := pathID(r, "invoiceID")
	if err != nil {
		writeError(w, err)
		return
	}

	invoice, err := h.invoices.FindInvoiceByID(r.Context(), invoiceID)
	if err != nil {
		writeError(w, err)
		return
	}
	if invoice == nil {
		writeError(w, fmt.Errorf("%w: invoice", service.ErrNotFound))
		return
	}

	parcel, err := h.parcels.FindParcelByID(r.Context(), invoice.ParcelID)
	if err != nil {
		writeError(w, err)
		return
	}
	if parcel == nil {
		writeError(w, fmt.Errorf("%w: parcel", service.ErrNotFound))
		return
	}

	owners, err := h.parcels.FindParcelOwners(r.Context(), parcel.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	ownerIDs := make([]int64, 0, len(owners))
	for _, owner := range owners {
		ownerIDs = append(ownerIDs, owner.ID)
	}

	if len(ownerIDs) > 0 {
		if !auth.CanViewPayment(principal, ownerIDs) {
			writeError(w, fmt.Errorf("%w: you do not have permission to view these payments", service.ErrUnauthorized))
			return
		}
	}

	payments, err := h.payments.FindPaymentsByInvoice(r.Context(), invoiceID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, payments)
}
