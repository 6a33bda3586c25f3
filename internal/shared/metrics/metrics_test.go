package metrics

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	assert.Equal(t, []uint64{1, 1}, snap.counts)
	assert.EqualValues(t, 3, snap.count)
	assert.Equal(t, float64(555), snap.sum)

	var buf bytes.Buffer
	writeHistogram(&buf, "x", "help", snap)
	assert.Contains(t, buf.String(), `x_bucket{le="10"} 1`)
	assert.Contains(t, buf.String(), `x_bucket{le="100"} 2`)
	assert.Contains(t, buf.String(), `x_bucket{le="+Inf"} 3`)
}

func TestHandlerRendersCounters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	IncGenerationStarted()
	IncUpstreamFailure("timeout")
	IncUpstreamFailure("")

	r := gin.New()
	r.GET("/metrics", Handler())
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, "# TYPE generation_started_total counter")
	assert.Contains(t, body, `upstream_failures_total{kind="timeout"}`)
	assert.Contains(t, body, `upstream_failures_total{kind="unknown"}`)
	assert.Contains(t, body, "generation_duration_ms_count")
}
