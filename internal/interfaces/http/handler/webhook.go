package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	paymentapp "github.com/TreasureUzoma/idolomerch/internal/application/payment"
	"github.com/TreasureUzoma/idolomerch/internal/domain/payment"
	"github.com/TreasureUzoma/idolomerch/internal/infrastructure/logger"
	"github.com/TreasureUzoma/idolomerch/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SignatureHeader carries the provider's HMAC of the callback body
const SignatureHeader = "x-nowpayments-sig"

// DefaultWebhookMaxBody bounds callback bodies when no limit is configured
const DefaultWebhookMaxBody int64 = 64 << 10

// IPNProcessor applies payment notifications
type IPNProcessor interface {
	ProcessIPN(ctx context.Context, payload []byte, signature string) (*paymentapp.IPNResult, error)
}

// WebhookHandler receives payment provider callbacks
type WebhookHandler struct {
	BaseHandler
	processor IPNProcessor
	maxBody   int64
}

// NewWebhookHandler creates a new WebhookHandler. maxBody <= 0 uses DefaultWebhookMaxBody.
func NewWebhookHandler(processor IPNProcessor, maxBody int64) *WebhookHandler {
	if maxBody <= 0 {
		maxBody = DefaultWebhookMaxBody
	}
	return &WebhookHandler{processor: processor, maxBody: maxBody}
}

// NowPayments godoc
// @Summary      NOWPayments IPN callback
// @Description  Verifies the HMAC-SHA512 signature over the raw body and reconciles the order.
// @Description  Verified callbacks are always answered with 200; success=false means the update was not applied and may be retried.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        x-nowpayments-sig  header  string  true  "HMAC-SHA512 of the sorted JSON body"
// @Success      200 {object} paymentapp.IPNResult
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Router       /webhooks/now-payment [post]
func (h *WebhookHandler) NowPayments(c *gin.Context) {
	// The signature covers the exact bytes, so the body is read raw
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Callback body too large")
			return
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidPayload, "Unable to read callback body")
		return
	}

	result, err := h.processor.ProcessIPN(c.Request.Context(), body, c.GetHeader(SignatureHeader))
	if err != nil {
		h.webhookError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *WebhookHandler) webhookError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, payment.ErrMissingSignature):
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeMissingSignature, "Missing signature")
	case errors.Is(err, payment.ErrInvalidSignature):
		h.Error(c, http.StatusForbidden, dto.ErrCodeInvalidSignature, "Invalid signature")
	case errors.Is(err, payment.ErrMalformedPayload), errors.Is(err, payment.ErrMissingOrderID):
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidPayload, "Invalid callback payload")
	default:
		logger.L(c.Request.Context()).Error("Webhook processing error", zap.Error(err))
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An internal error occurred")
	}
}
