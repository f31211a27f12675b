package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/parcelhub/parcelhub/internal/auth"
	"github.com/parcelhub/parcelhub/internal/models"
	"github.com/parcelhub/parcelhub/internal/service"
	"github.com/parcelhub/parcelhub/internal/storage/sqlite"
	"github.com/parcelhub/parcelhub/internal/webpay"
)

// fakeTransbank emulates the gateway's create and commit endpoints.
// Tokens issued by create are accepted by commit; anything else is 422.
func fakeTransbank(t *testing.T) *httptest.Server {
	t.Helper()

	var counter atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("POST /rswebpaytransaction/api/webpay/v1.2/transactions", func(w http.ResponseWriter, r *http.Request) {
		token := fmt.Sprintf("tok-%d", counter.Add(1))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"token": token,
			"url":   "https://webpay3gint.transbank.cl/webpayserver/initTransaction",
		})
	})
	mux.HandleFunc("PUT /rswebpaytransaction/api/webpay/v1.2/transactions/{token}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":             webpay.StatusAuthorized,
			"response_code":      0,
			"authorization_code": "1213",
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "parcelhub-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	gateway := webpay.New(webpay.Config{
		BaseURL:      fakeTransbank(t).URL,
		CommerceCode: "597055555532",
		APIKey:       "test-api-key",
	})

	jwtManager := auth.NewJWTManager("test-secret-at-least-16-chars", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	router := NewRouter(Services{
		Auth:     service.NewAuthService(authenticator, jwtManager),
		Payments: service.NewPaymentService(store, gateway, "http://localhost:8080/payments/webpay/commit-trx"),
		Invoices: service.NewInvoiceService(store),
		Parcels:  service.NewParcelService(store),
		Meters:   service.NewMeterService(store),
	}, jwtManager)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

// doJSON issues a request with an optional bearer token and JSON body,
// decoding the JSON response into out when it is non-nil.
func doJSON(t *testing.T, method, url, token string, body, out any) *http.Response {
	t.Helper()

	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}

	return resp
}

// registerAndLogin creates an account and returns its id and a session token.
func registerAndLogin(t *testing.T, baseURL, rut string, role models.Role) (int64, string) {
	t.Helper()

	var user models.User
	resp := doJSON(t, http.MethodPost, baseURL+"/auth/register", "", map[string]string{
		"rut":      rut,
		"name":     "User " + rut,
		"email":    rut + "@example.com",
		"password": "hunter2hunter2",
		"role":     string(role),
	}, &user)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d", rut, resp.StatusCode)
	}

	var login service.LoginResponse
	resp = doJSON(t, http.MethodPost, baseURL+"/auth/login", "", map[string]string{
		"rut":      rut,
		"password": "hunter2hunter2",
	}, &login)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d", rut, resp.StatusCode)
	}

	return user.ID, login.Token
}

// seedInvoice creates a parcel with the given owners and one invoice.
func seedInvoice(t *testing.T, baseURL, adminToken string, ownerIDs ...int64) (parcelID, invoiceID int64) {
	t.Helper()

	var parcel models.Parcel
	resp := doJSON(t, http.MethodPost, baseURL+"/parcels", adminToken, map[string]any{
		"name":    "Parcela Test",
		"address": "Camino Interior km 3",
		"area":    5000,
	}, &parcel)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create parcel: expected 201, got %d", resp.StatusCode)
	}

	for _, ownerID := range ownerIDs {
		resp := doJSON(t, http.MethodPost,
			fmt.Sprintf("%s/parcels/%d/owners/%d", baseURL, parcel.ID, ownerID),
			adminToken, nil, nil)
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("add owner: expected 204, got %d", resp.StatusCode)
		}
	}

	var invoice models.Invoice
	resp = doJSON(t, http.MethodPost, baseURL+"/invoices", adminToken, map[string]any{
		"parcel_id": parcel.ID,
		"amount":    45000,
	}, &invoice)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create invoice: expected 201, got %d", resp.StatusCode)
	}

	return parcel.ID, invoice.ID
}

func TestWebpayFlow(t *testing.T) {
	server := newTestServer(t)
	_, adminToken := registerAndLogin(t, server.URL, "10000000-1", models.RoleAdmin)
	ownerID, ownerToken := registerAndLogin(t, server.URL, "10000000-2", models.RoleParcelOwner)
	_, invoiceID := seedInvoice(t, server.URL, adminToken, ownerID)

	var start service.StartTrxResponse
	resp := doJSON(t, http.MethodPost, server.URL+"/payments/webpay/start-trx", ownerToken, map[string]any{
		"invoice_id": invoiceID,
		"amount":     45000,
	}, &start)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("start-trx: expected 200, got %d", resp.StatusCode)
	}
	if start.Token == "" || start.URL == "" {
		t.Fatalf("expected token and url, got %+v", start)
	}

	// Commit is public: no Authorization header, as the gateway callback.
	var payment models.Payment
	resp = doJSON(t, http.MethodGet, server.URL+"/payments/webpay/commit-trx?token_ws="+start.Token, "", nil, &payment)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("commit-trx: expected 200, got %d", resp.StatusCode)
	}
	if payment.Status != models.PaymentCommitted {
		t.Errorf("status: expected %s, got %s", models.PaymentCommitted, payment.Status)
	}
	if payment.AuthorizationCode != "1213" {
		t.Errorf("authorization code: expected 1213, got %s", payment.AuthorizationCode)
	}

	t.Run("commit without token is rejected", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/payments/webpay/commit-trx", "", nil, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("start-trx requires authentication", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/payments/webpay/start-trx", "", map[string]any{
			"invoice_id": invoiceID,
			"amount":     45000,
		}, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("start-trx with unknown invoice is 404", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/payments/webpay/start-trx", ownerToken, map[string]any{
			"invoice_id": 99999,
			"amount":     45000,
		}, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})
}

func TestManualPayment(t *testing.T) {
	server := newTestServer(t)
	adminID, adminToken := registerAndLogin(t, server.URL, "10000000-1", models.RoleAdmin)
	ownerID, ownerToken := registerAndLogin(t, server.URL, "10000000-2", models.RoleParcelOwner)
	_, invoiceID := seedInvoice(t, server.URL, adminToken, ownerID)

	t.Run("admin records manual payment", func(t *testing.T) {
		var payment models.Payment
		resp := doJSON(t, http.MethodPost, server.URL+"/payments/manual", adminToken, map[string]any{
			"invoice_id": invoiceID,
			"amount":     45000,
		}, &payment)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
		if payment.Status != models.PaymentCommitted {
			t.Errorf("status: expected %s, got %s", models.PaymentCommitted, payment.Status)
		}
		if payment.Method != models.PaymentMethodManual {
			t.Errorf("method: expected %s, got %s", models.PaymentMethodManual, payment.Method)
		}
		if payment.UserID != adminID {
			t.Errorf("recorded_by: expected %d, got %d", adminID, payment.UserID)
		}
	})

	t.Run("parcel owner may not record manual payments", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/payments/manual", ownerToken, map[string]any{
			"invoice_id": invoiceID,
			"amount":     45000,
		}, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})
}

func TestGetAllPayments(t *testing.T) {
	server := newTestServer(t)
	_, adminToken := registerAndLogin(t, server.URL, "10000000-1", models.RoleAdmin)
	ownerID, ownerToken := registerAndLogin(t, server.URL, "10000000-2", models.RoleParcelOwner)
	_, invoiceID := seedInvoice(t, server.URL, adminToken, ownerID)

	doJSON(t, http.MethodPost, server.URL+"/payments/manual", adminToken, map[string]any{
		"invoice_id": invoiceID,
		"amount":     45000,
	}, nil)

	t.Run("admin lists every payment", func(t *testing.T) {
		var payments []models.Payment
		resp := doJSON(t, http.MethodGet, server.URL+"/payments/", adminToken, nil, &payments)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if len(payments) != 1 {
			t.Errorf("expected 1 payment, got %d", len(payments))
		}
	})

	t.Run("parcel owner may not list all payments", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/payments/", ownerToken, nil, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})
}

func TestGetPaymentByID(t *testing.T) {
	server := newTestServer(t)
	_, adminToken := registerAndLogin(t, server.URL, "10000000-1", models.RoleAdmin)
	ownerID, _ := registerAndLogin(t, server.URL, "10000000-2", models.RoleParcelOwner)
	_, strangerToken := registerAndLogin(t, server.URL, "10000000-3", models.RoleParcelOwner)
	_, invoiceID := seedInvoice(t, server.URL, adminToken, ownerID)

	var created models.Payment
	doJSON(t, http.MethodPost, server.URL+"/payments/manual", adminToken, map[string]any{
		"invoice_id": invoiceID,
		"amount":     45000,
	}, &created)

	t.Run("any authenticated owner fetches any payment", func(t *testing.T) {
		// No ownership check on this endpoint, unlike by-user/by-invoice.
		var payment models.Payment
		resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/payments/%d", server.URL, created.ID), strangerToken, nil, &payment)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if payment.ID != created.ID {
			t.Errorf("expected payment %d, got %d", created.ID, payment.ID)
		}
	})

	t.Run("missing payment is JSON null", func(t *testing.T) {
		var payment *models.Payment
		resp := doJSON(t, http.MethodGet, server.URL+"/payments/99999", strangerToken, nil, &payment)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if payment != nil {
			t.Errorf("expected null payment, got %+v", payment)
		}
	})

	t.Run("unauthenticated fetch is rejected", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/payments/%d", server.URL, created.ID), "", nil, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})
}

func TestGetPaymentsByUser(t *testing.T) {
	server := newTestServer(t)
	_, adminToken := registerAndLogin(t, server.URL, "10000000-1", models.RoleAdmin)
	ownerID, ownerToken := registerAndLogin(t, server.URL, "10000000-2", models.RoleParcelOwner)
	_, strangerToken := registerAndLogin(t, server.URL, "10000000-3", models.RoleParcelOwner)

	t.Run("owner lists their own payments", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/payments/user/%d", server.URL, ownerID), ownerToken, nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("owner may not list another user's payments", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/payments/user/%d", server.URL, ownerID), strangerToken, nil, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("admin lists anyone's payments", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/payments/user/%d", server.URL, ownerID), adminToken, nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})
}

func TestGetPaymentsByInvoice(t *testing.T) {
	server := newTestServer(t)
	_, adminToken := registerAndLogin(t, server.URL, "10000000-1", models.RoleAdmin)
	ownerID, ownerToken := registerAndLogin(t, server.URL, "10000000-2", models.RoleParcelOwner)
	coOwnerID, _ := registerAndLogin(t, server.URL, "10000000-3", models.RoleParcelOwner)
	_, strangerToken := registerAndLogin(t, server.URL, "10000000-4", models.RoleParcelOwner)
	_, invoiceID := seedInvoice(t, server.URL, adminToken, ownerID, coOwnerID)

	doJSON(t, http.MethodPost, server.URL+"/payments/manual", adminToken, map[string]any{
		"invoice_id": invoiceID,
		"amount":     45000,
	}, nil)

	t.Run("unknown invoice is 404 before any policy check", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/payments/invoice/99999", strangerToken, nil, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("parcel owner sees the invoice payments unmodified", func(t *testing.T) {
		var payments []models.Payment
		resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/payments/invoice/%d", server.URL, invoiceID), ownerToken, nil, &payments)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if len(payments) != 1 {
			t.Errorf("expected 1 payment, got %d", len(payments))
		}
	})

	t.Run("non-owner is denied", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/payments/invoice/%d", server.URL, invoiceID), strangerToken, nil, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("admin is always allowed", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/payments/invoice/%d", server.URL, invoiceID), adminToken, nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("invoice on ownerless parcel skips the policy", func(t *testing.T) {
		_, orphanInvoiceID := seedInvoice(t, server.URL, adminToken) // no owners
		resp := doJSON(t, http.MethodGet, fmt.Sprintf("%s/payments/invoice/%d", server.URL, orphanInvoiceID), strangerToken, nil, nil)
		if resp.StatusCode != http.StatusOK {
			t.Errorf("expected 200 when parcel has no owners, got %d", resp.StatusCode)
		}
	})
}
