package api

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedwagon-io/eohchart/internal/chart"
	"github.com/speedwagon-io/eohchart/internal/config"
	"github.com/speedwagon-io/eohchart/internal/dataset"
	"github.com/speedwagon-io/eohchart/internal/lib/logger/handlers/slogdiscard"
	"github.com/speedwagon-io/eohchart/internal/metrics"
)

func testConfig() *config.Config {
	return &config.Config{
		Env: "test",
		HTTP: config.HTTPConfig{
			Address:      "127.0.0.1:0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			MaxBodyBytes: 1 << 16,
		},
		Fleet: config.DefaultFleet(),
		Render: config.RenderConfig{
			Backend: chart.BackendGonum,
			Width:   480,
			Height:  320,
			Timeout: 10 * time.Second,
		},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	s := NewServer(slogdiscard.NewDiscardLogger(), cfg, dataset.NewBuilder(cfg.Fleet), metrics.New())
	return s.Routes()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func threeUnitRequest() ChartRequest {
	req := ChartRequest{Mode: "manual"}
	for _, h := range []float64{5000, 6000, 7000} {
		req.Rows = append(req.Rows, dataset.RowInput{RowValues: dataset.RowValues{
			CurrentHours: h,
		}})
	}
	for i := range req.Rows {
		req.Rows[i].Thresholds.CI = 12000
		req.Rows[i].Thresholds.HGPI = 32000
		req.Rows[i].Thresholds.MI = 64000
		req.Rows[i].Thresholds.RLE = 200000
	}
	return req
}

func decodeChart(t *testing.T, rec *httptest.ResponseRecorder) ChartResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp ChartResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestChartThreeUnits(t *testing.T) {
	h := newTestServer(t, testConfig())

	resp := decodeChart(t, do(t, h, http.MethodPost, "/api/v1/chart", threeUnitRequest()))

	assert.NotEmpty(t, resp.RenderID)
	assert.Empty(t, resp.Messages)
	require.Len(t, resp.Chart.Series, 5)
	assert.Equal(t, []string{"GT1", "GT2", "GT3"}, resp.Chart.Categories)
	assert.Equal(t, []float64{5000, 6000, 7000}, resp.Chart.Series[0].X)
}

func TestChartWithExtraColumn(t *testing.T) {
	h := newTestServer(t, testConfig())
	req := threeUnitRequest()
	req.Extra = &ExtraRequest{Name: "Inspection", Values: "1000,2000,3000"}

	resp := decodeChart(t, do(t, h, http.MethodPost, "/api/v1/chart", req))

	require.Len(t, resp.Chart.Series, 6)
	last := resp.Chart.Series[5]
	assert.Equal(t, "Inspection", last.Name)
	assert.Equal(t, chart.ColorPurple, last.Style.Color)
	require.NotNil(t, resp.Dataset.Extra)
}

func TestChartRejectedExtraColumnIsAMessage(t *testing.T) {
	h := newTestServer(t, testConfig())
	base := decodeChart(t, do(t, h, http.MethodPost, "/api/v1/chart", threeUnitRequest()))

	tests := []struct {
		name  string
		extra ExtraRequest
		level string
		code  string
	}{
		{"parse", ExtraRequest{Name: "Bad", Values: "1000,x,3000"}, LevelError, "parse"},
		{"cardinality", ExtraRequest{Name: "Short", Values: "1,2"}, LevelWarning, "cardinality"},
		{"name", ExtraRequest{Values: "1,2,3"}, LevelError, "column_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := threeUnitRequest()
			req.Extra = &tt.extra

			resp := decodeChart(t, do(t, h, http.MethodPost, "/api/v1/chart", req))

			require.Len(t, resp.Messages, 1)
			assert.Equal(t, tt.level, resp.Messages[0].Level)
			assert.Equal(t, tt.code, resp.Messages[0].Code)
			assert.Nil(t, resp.Dataset.Extra)
			assert.Equal(t, base.Chart, resp.Chart)
		})
	}
}

func TestDatasetDefaults(t *testing.T) {
	h := newTestServer(t, testConfig())

	rec := do(t, h, http.MethodPost, "/api/v1/dataset", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp DatasetResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Dataset.Units, 15)
	assert.Equal(t, "GT15", resp.Dataset.Units[14].ID)
}

func TestDatasetValidation(t *testing.T) {
	h := newTestServer(t, testConfig())

	rec := do(t, h, http.MethodPost, "/api/v1/dataset", ChartRequest{Count: 21})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	req := threeUnitRequest()
	req.Rows[1].CurrentHours = -1
	rec = do(t, h, http.MethodPost, "/api/v1/dataset", req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "non-negative")

	rec = do(t, h, http.MethodPost, "/api/v1/dataset", ChartRequest{Mode: "bulk"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/dataset", map[string]any{"unknown": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRasterExport(t *testing.T) {
	h := newTestServer(t, testConfig())

	rec := do(t, h, http.MethodPost, "/api/v1/chart.png", threeUnitRequest())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="gas_turbine_eoh_chart.png"`, rec.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, rec.Header().Get("X-Render-ID"))

	_, err := png.DecodeConfig(rec.Body)
	assert.NoError(t, err)
}

func TestMarkupExport(t *testing.T) {
	h := newTestServer(t, testConfig())

	rec := do(t, h, http.MethodGet, "/api/v1/chart.html?count=4&extra_name=Inspection&extra_values=1,2,3,4", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "text/html", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="gas_turbine_eoh_chart.html"`, rec.Header().Get("Content-Disposition"))
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "<div"))
	assert.Contains(t, body, "<td>GT4</td>")
	assert.Contains(t, body, "<th>Inspection</th>")
}

func TestExportMessagesInHeaders(t *testing.T) {
	h := newTestServer(t, testConfig())

	rec := do(t, h, http.MethodGet, "/api/v1/chart.html?count=3&extra_name=Bad&extra_values=1,x,3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rec.Header().Values("X-Chart-Message"), 1)
	assert.True(t, strings.HasPrefix(rec.Header().Get("X-Chart-Message"), "error: "))
}

func TestRasterFailureDoesNotBlockMarkup(t *testing.T) {
	cfg := testConfig()
	cfg.Render.Backend = "unavailable"
	h := newTestServer(t, cfg)

	rec := do(t, h, http.MethodPost, "/api/v1/chart.png", threeUnitRequest())
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Contains(t, errResp.Error, "unknown raster backend")
	assert.NotEmpty(t, errResp.RenderID)

	rec = do(t, h, http.MethodPost, "/api/v1/chart.html", threeUnitRequest())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetQueryValidation(t *testing.T) {
	h := newTestServer(t, testConfig())

	rec := do(t, h, http.MethodGet, "/api/v1/chart.png?count=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/chart.png?count=0", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestServer(t, testConfig())
	do(t, h, http.MethodPost, "/api/v1/chart.html", threeUnitRequest())

	rec := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `eohchart_exports_total{format="html",result="ok"} 1`)
	assert.Contains(t, rec.Body.String(), `eohchart_dataset_builds_total{result="ok",strategy="manual"} 1`)
}

func TestRasterOptions(t *testing.T) {
	opts := RasterOptions(config.RenderConfig{Backend: "gochart", Width: 10, Height: 20, FontPath: "/f.ttf", Timeout: time.Second})
	assert.Equal(t, chart.RasterOptions{Backend: "gochart", Width: 10, Height: 20, FontPath: "/f.ttf", Timeout: time.Second}, opts)
}
