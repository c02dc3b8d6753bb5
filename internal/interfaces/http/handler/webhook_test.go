package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	paymentapp "github.com/TreasureUzoma/idolomerch/internal/application/payment"
	"github.com/TreasureUzoma/idolomerch/internal/domain/payment"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockIPNProcessor struct {
	mock.Mock
}

func (m *MockIPNProcessor) ProcessIPN(ctx context.Context, payload []byte, signature string) (*paymentapp.IPNResult, error) {
	args := m.Called(ctx, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.IPNResult), args.Error(1)
}

func postIPN(router *gin.Engine, body, sig string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/now-payment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sig != "" {
		req.Header.Set(SignatureHeader, sig)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookHandler_NowPayments(t *testing.T) {
	const body = `{"payment_id":5077125051,"payment_status":"finished","order_id":"7c9e6679-7425-40de-944b-e07fc1f90ae7","price_amount":50}`

	tests := []struct {
		name       string
		sig        string
		result     *paymentapp.IPNResult
		err        error
		wantStatus int
		wantBody   string
		wantCode   string
	}{
		{
			name:       "applied",
			sig:        "good",
			result:     &paymentapp.IPNResult{Success: true, Message: "order updated"},
			wantStatus: http.StatusOK,
			wantBody:   `{"success":true,"already_processed":false,"message":"order updated"}`,
		},
		{
			name:       "duplicate",
			sig:        "good",
			result:     &paymentapp.IPNResult{Success: true, AlreadyProcessed: true, Message: "already processed"},
			wantStatus: http.StatusOK,
			wantBody:   `{"success":true,"already_processed":true,"message":"already processed"}`,
		},
		{
			name:       "processing failure still acknowledged",
			sig:        "good",
			result:     &paymentapp.IPNResult{Success: false, Message: "processing failed"},
			wantStatus: http.StatusOK,
			wantBody:   `{"success":false,"already_processed":false,"message":"processing failed"}`,
		},
		{name: "missing signature", err: payment.ErrMissingSignature, wantStatus: http.StatusUnauthorized, wantCode: "MISSING_SIGNATURE"},
		{name: "bad signature", sig: "bad", err: payment.ErrInvalidSignature, wantStatus: http.StatusForbidden, wantCode: "INVALID_SIGNATURE"},
		{name: "malformed", sig: "good", err: fmt.Errorf("%w: unexpected EOF", payment.ErrMalformedPayload), wantStatus: http.StatusBadRequest, wantCode: "INVALID_PAYLOAD"},
		{name: "no order id", sig: "good", err: payment.ErrMissingOrderID, wantStatus: http.StatusBadRequest, wantCode: "INVALID_PAYLOAD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor := new(MockIPNProcessor)
			h := NewWebhookHandler(processor, 0)
			router := gin.New()
			router.POST("/webhooks/now-payment", h.NowPayments)

			if tt.result != nil {
				processor.On("ProcessIPN", mock.Anything, []byte(body), tt.sig).Return(tt.result, nil)
			} else {
				processor.On("ProcessIPN", mock.Anything, []byte(body), tt.sig).Return(nil, tt.err)
			}

			w := postIPN(router, body, tt.sig)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decode(t, w).Error.Code)
			}
			processor.AssertExpectations(t)
		})
	}
}

func TestWebhookHandler_BodyTooLarge(t *testing.T) {
	processor := new(MockIPNProcessor)
	h := NewWebhookHandler(processor, 128)
	router := gin.New()
	router.POST("/webhooks/now-payment", h.NowPayments)

	w := postIPN(router, `{"order_id":"`+strings.Repeat("a", 256)+`"}`, "sig")

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "REQUEST_TOO_LARGE", decode(t, w).Error.Code)
	processor.AssertNotCalled(t, "ProcessIPN")
}
