package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/TreasureUzoma/idolomerch/internal/domain/payment"
)

const (
	nowInvoicePath  = "/v1/invoice"
	maxResponseSize = 1 << 20
)

// flexID accepts the invoice id as a JSON string or number
type flexID = payment.FlexString

// NowPaymentsAdapter implements payment.InvoiceGateway for NOWPayments
type NowPaymentsAdapter struct {
	config     *NowPaymentsConfig
	httpClient *http.Client
}

// NewNowPaymentsAdapter creates a new NOWPayments adapter
func NewNowPaymentsAdapter(config *NowPaymentsConfig) (*NowPaymentsAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &NowPaymentsAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// CreateInvoice creates a hosted checkout invoice
func (a *NowPaymentsAdapter) CreateInvoice(ctx context.Context, req *payment.InvoiceRequest) (*payment.Invoice, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body := nowInvoiceRequest{
		PriceAmount:      req.Amount.StringFixed(2),
		PriceCurrency:    req.PriceCurrency,
		OrderID:          req.OrderID.String(),
		OrderDescription: req.Description,
		IPNCallbackURL:   req.IPNCallbackURL,
		SuccessURL:       req.SuccessURL,
		CancelURL:        req.CancelURL,
	}
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("nowpayments: failed to marshal request: %w", err)
	}

	respBody, err := a.doRequest(ctx, http.MethodPost, nowInvoicePath, bodyBytes)
	if err != nil {
		return nil, err
	}

	var parsed nowInvoiceResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayInvalidResponse, err)
	}
	if parsed.ID.String() == "" || parsed.InvoiceURL == "" {
		return nil, fmt.Errorf("%w: missing id or invoice_url", payment.ErrGatewayInvalidResponse)
	}

	return &payment.Invoice{
		ID:          parsed.ID.String(),
		InvoiceURL:  parsed.InvoiceURL,
		RawResponse: string(respBody),
	}, nil
}

func (a *NowPaymentsAdapter) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.config.APIURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("nowpayments: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", a.config.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", payment.ErrGatewayUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp nowErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Message != "" {
			return nil, fmt.Errorf("%w: HTTP %d: %s", payment.ErrGatewayRequestFailed, resp.StatusCode, errResp.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", payment.ErrGatewayRequestFailed, resp.StatusCode)
	}

	return respBody, nil
}

// Ensure NowPaymentsAdapter implements InvoiceGateway
var _ payment.InvoiceGateway = (*NowPaymentsAdapter)(nil)
