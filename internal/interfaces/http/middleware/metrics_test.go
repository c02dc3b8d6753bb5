package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func setupTestMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
	})
	return mp, reader
}

func findMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) *metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestHTTPMetrics_NilProvider(t *testing.T) {
	router := gin.New()
	router.Use(HTTPMetrics(nil, nil))
	router.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := serve(router, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHTTPMetricsWithMeter_RecordsRequests(t *testing.T) {
	mp, reader := setupTestMeter(t)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(TenantIDKey, "tenant-1")
		c.Next()
	})
	router.Use(HTTPMetricsWithMeter(mp.Meter("http.server"), nil))
	router.POST("/api/v1/orders", func(c *gin.Context) { c.String(http.StatusCreated, "created") })
	router.GET("/api/v1/orders/:id", func(c *gin.Context) { c.String(http.StatusNotFound, "missing") })

	serve(router, httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"products":[]}`)))
	serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/orders/1", nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/orders/2", nil))

	total := findMetric(t, reader, "http_server_request_total")
	require.NotNil(t, total)
	sum, ok := total.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	counts := map[string]int64{}
	for _, dp := range sum.DataPoints {
		route, _ := dp.Attributes.Value(attribute.Key("http.route"))
		status, _ := dp.Attributes.Value(attribute.Key("http.status_code"))
		tenant, _ := dp.Attributes.Value(attribute.Key("tenant_id"))
		assert.Equal(t, "tenant-1", tenant.AsString())
		counts[route.AsString()+" "+status.Emit()] = dp.Value
	}
	assert.Equal(t, int64(1), counts["/api/v1/orders 201"])
	assert.Equal(t, int64(2), counts["/api/v1/orders/:id 404"])

	assert.NotNil(t, findMetric(t, reader, "http_server_request_duration_seconds"))
	assert.NotNil(t, findMetric(t, reader, "http_server_request_size_bytes"))
	assert.NotNil(t, findMetric(t, reader, "http_server_response_size_bytes"))
}

func TestHTTPMetricsWithMeter_UnmatchedRoute(t *testing.T) {
	mp, reader := setupTestMeter(t)

	router := gin.New()
	router.Use(HTTPMetricsWithMeter(mp.Meter("http.server"), nil))
	serve(router, httptest.NewRequest(http.MethodGet, "/nope", nil))

	total := findMetric(t, reader, "http_server_request_total")
	require.NotNil(t, total)
	sum := total.Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	route, _ := sum.DataPoints[0].Attributes.Value(attribute.Key("http.route"))
	assert.Equal(t, "unknown", route.AsString())
}
