package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/parcelhub/parcelhub/internal/auth"
	"github.com/parcelhub/parcelhub/internal/middleware"
	"github.com/parcelhub/parcelhub/internal/service"
)

// Services bundles the collaborators the router wires into handlers.
type Services struct {
	Auth     *service.AuthService
	Payments *service.PaymentService
	Invoices *service.InvoiceService
	Parcels  *service.ParcelService
	Meters   *service.MeterService
}

// NewRouter assembles the full HTTP surface.
func NewRouter(svcs Services, jwt *auth.JWTManager) http.Handler {
	validate := validator.New()

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Metrics)

	r.Mount("/auth", NewAuthHandler(svcs.Auth, validate).Routes())
	r.Mount("/payments", NewPaymentsHandler(svcs.Payments, svcs.Invoices, svcs.Parcels, jwt, validate).Routes())
	r.Mount("/parcels", NewParcelsHandler(svcs.Parcels, jwt, validate).Routes())
	r.Mount("/meters", NewMetersHandler(svcs.Meters, jwt, validate).Routes())
	r.Mount("/invoices", NewInvoicesHandler(svcs.Invoices, jwt, validate).Routes())

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
