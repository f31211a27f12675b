// Package webpay wraps the Transbank Webpay Plus REST API.
//
// A transaction is created with Create, which returns a token and a
// redirect URL for the payer. After the payer finishes, Transbank calls
// the merchant's return URL with the token and the transaction is
// finalized with Commit.
package webpay

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const transactionsPath = "/rswebpaytransaction/api/webpay/v1.2/transactions"

// StatusAuthorized is the commit status of an approved transaction.
const StatusAuthorized = "AUTHORIZED"

// Config carries the merchant credentials and environment endpoint.
type Config struct {
	BaseURL      string
	CommerceCode string
	APIKey       string
}

// Client is a Webpay Plus REST client.
type Client struct {
	http *resty.Client
}

// New creates a Webpay client for the given merchant credentials.
func New(cfg Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Tbk-Api-Key-Id", cfg.CommerceCode).
		SetHeader("Tbk-Api-Key-Secret", cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &Client{http: client}
}

// CreateResponse is the gateway's answer to a transaction creation.
type CreateResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

// CommitResponse is the gateway's answer to a transaction commit.
// The transaction is approved iff Status == StatusAuthorized and
// ResponseCode == 0.
type CommitResponse struct {
	VCI               string  `json:"vci"`
	Amount            float64 `json:"amount"`
	Status            string  `json:"status"`
	BuyOrder          string  `json:"buy_order"`
	SessionID         string  `json:"session_id"`
	CardNumber        string  `json:"card_detail,omitempty"`
	AccountingDate    string  `json:"accounting_date"`
	TransactionDate   string  `json:"transaction_date"`
	AuthorizationCode string  `json:"authorization_code"`
	PaymentTypeCode   string  `json:"payment_type_code"`
	ResponseCode      int     `json:"response_code"`
	InstallmentsNum   int     `json:"installments_number"`
}

// Approved reports whether the committed transaction was authorized.
func (r *CommitResponse) Approved() bool {
	return r.Status == StatusAuthorized && r.ResponseCode == 0
}

// APIError is a non-2xx answer from the gateway.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("webpay: gateway returned %d: %s", e.StatusCode, e.Body)
}

// Create initiates a transaction. The returned token identifies it for
// the rest of the flow; the payer must be redirected to URL.
func (c *Client) Create(ctx context.Context, buyOrder, sessionID string, amount float64, returnURL string) (*CreateResponse, error) {
	var result CreateResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"buy_order":  buyOrder,
			"session_id": sessionID,
			"amount":     amount,
			"return_url": returnURL,
		}).
		SetResult(&result).
		Post(transactionsPath)
	if err != nil {
		return nil, fmt.Errorf("webpay: create transaction: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	return &result, nil
}

// Commit finalizes a transaction by token. Commit succeeding does not
// mean the payment was approved; check Approved on the response.
func (c *Client) Commit(ctx context.Context, token string) (*CommitResponse, error) {
	var result CommitResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Put(fmt.Sprintf("%s/%s", transactionsPath, token))
	if err != nil {
		return nil, fmt.Errorf("webpay: commit transaction: %w", err)
	}
	if resp.IsError() {
		return nil, &APIError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	return &result, nil
}
