package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TreasureUzoma/idolomerch/internal/domain/shared"
	"github.com/TreasureUzoma/idolomerch/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTenant = uuid.MustParse("11111111-1111-1111-1111-111111111111")

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// newRouter returns an engine with request IDs and the test tenant resolved
func newRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ResolveTenant(middleware.TenantMiddlewareConfig{DefaultTenantID: testTenant}))
	return router
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
		Details   []struct {
			Field string `json:"field"`
		} `json:"details"`
	} `json:"error"`
	Meta *struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped conflict", shared.WrapDomainError("EMAIL_TAKEN", "taken", shared.ErrAlreadyExists), http.StatusConflict, "EMAIL_TAKEN"},
		{"gateway", shared.NewDomainError("ERR_PAYMENT_GATEWAY", "down"), http.StatusBadGateway, "ERR_PAYMENT_GATEWAY"},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newRouter()
			router.GET("/x", func(c *gin.Context) {
				var h BaseHandler
				h.HandleError(c, tt.err)
			})

			w := doJSON(router, http.MethodGet, "/x", nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.wantCode, env.Error.Code)
			assert.NotEmpty(t, env.Error.RequestID)
			assert.NotContains(t, env.Error.Message, "pq:")
		})
	}
}

func TestRequireTenant_Missing(t *testing.T) {
	router := gin.New()
	router.GET("/x", func(c *gin.Context) {
		var h BaseHandler
		if _, ok := h.requireTenant(c); ok {
			c.Status(http.StatusOK)
		}
	})

	w := doJSON(router, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestParseUUIDParam(t *testing.T) {
	router := newRouter()
	router.GET("/x/:id", func(c *gin.Context) {
		var h BaseHandler
		if id, ok := h.parseUUIDParam(c, "id"); ok {
			c.String(http.StatusOK, id.String())
		}
	})

	id := uuid.New()
	w := doJSON(router, http.MethodGet, "/x/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), w.Body.String())

	w = doJSON(router, http.MethodGet, "/x/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decode(t, w).Error.Code)
}
