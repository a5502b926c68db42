package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy-inventory/internal/alerts"
	"pharmacy-inventory/internal/analytics"
	"pharmacy-inventory/internal/chatbot"
	"pharmacy-inventory/internal/common/config"
	"pharmacy-inventory/internal/common/logger"
	"pharmacy-inventory/internal/dataset"
	"pharmacy-inventory/internal/forecast"
	"pharmacy-inventory/internal/inventory"
	"pharmacy-inventory/internal/reorder"
	"pharmacy-inventory/internal/substitution"
)

var serverNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func fixedServerClock() time.Time { return serverNow }

func testDataset() *dataset.Dataset {
	day := func(s string) time.Time {
		d, _ := time.Parse("2006-01-02", s)
		return d
	}
	return &dataset.Dataset{
		Sales: []dataset.SaleRecord{
			{Date: day("2026-07-10"), DrugName: "dolo 650", QtySold: 80, UnitPrice: 3},
			{Date: day("2026-07-12"), DrugName: "pan 40", QtySold: 20, UnitPrice: 8},
			{Date: day("2026-07-15"), DrugName: "paracetamol", QtySold: 20, UnitPrice: 2},
		},
		Purchases: []dataset.PurchaseRecord{
			{DateReceived: day("2026-06-01"), DrugName: "dolo 650", QtyReceived: 200, UnitCost: 2, ExpiryDate: day("2026-08-15"), Batch: "B101"},
			{DateReceived: day("2026-05-01"), DrugName: "pan 40", QtyReceived: 50, UnitCost: 5, ExpiryDate: day("2026-07-01"), Batch: "B102"},
			{DateReceived: day("2026-06-15"), DrugName: "paracetamol", QtyReceived: 30, UnitCost: 1, ExpiryDate: day("2027-01-01"), Batch: "B103"},
		},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.App.Name = "pharmacy-inventory"
	cfg.App.Version = "test"
	cfg.Chatbot.ConfidenceThreshold = 0.35
	cfg.Alerts.LowStockThreshold = 50
	cfg.Alerts.ExpiryWindowDays = 30
	cfg.Forecast.HorizonDays = 30

	log := logger.NewNoOpLogger()
	ds := testDataset()
	snapshot := inventory.Calculate(ds)

	reorderEngine := reorder.NewEngine(50, nil, nil, log).WithClock(fixedServerClock)
	model := chatbot.Train(chatbot.TrainingData, chatbot.DefaultTrainOptions())
	router := chatbot.NewRouter(0.35, 50, reorderEngine, substitution.Suggest)
	bot := chatbot.NewBot(model, router, log, nil)

	return New(cfg, log, Deps{
		Dataset:   ds,
		Snapshot:  snapshot,
		Bot:       bot,
		Alerts:    alerts.NewEngine(50, 30).WithClock(fixedServerClock),
		Analytics: analytics.NewEngine(50, 30).WithClock(fixedServerClock),
		Forecast:  forecast.NewCachedEngine(forecast.NewEngine(30).WithClock(fixedServerClock), nil, time.Minute, log),
		Reorder:   reorderEngine,
	})
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)
}

func TestInventoryEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/inventory", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []inventory.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 3)
	assert.Equal(t, inventory.Item{Medicine: "dolo 650", Stock: 120}, items[0])
	assert.Equal(t, inventory.Item{Medicine: "pan 40", Stock: 30}, items[1])
	assert.Equal(t, inventory.Item{Medicine: "paracetamol", Stock: 10}, items[2])
}

func TestDashboardKPIsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/dashboard-kpis", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var kpis analytics.KPIs
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &kpis))
	assert.Equal(t, 3, kpis.UniqueMedicines)
	assert.Equal(t, 160, kpis.TotalUnits)
	assert.Equal(t, 2, kpis.LowStock)
	assert.Equal(t, 1, kpis.ExpiringSoon)
}

func TestLowStockAlertsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/alerts/low-stock", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out []alerts.LowStockAlert
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "pan 40", out[0].Medicine)
	assert.Equal(t, alerts.SeverityWarning, out[0].Severity)
	assert.Equal(t, "paracetamol", out[1].Medicine)
	assert.Equal(t, alerts.SeverityCritical, out[1].Severity)
}

func TestExpiryAlertsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/alerts/expiry", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out []alerts.ExpiryAlert
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "dolo 650", out[0].DrugName)
	assert.Equal(t, "B101", out[0].Batch)
	assert.Equal(t, 13, out[0].DaysToExpiry)
}

func TestWastageEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/wastage", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"wastage_cost": 250}`, w.Body.String())
}

func TestExpiryRiskEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/expiry-risk", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out analytics.ExpiryRisk
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Distribution, 3)
	// pan 40 already expired (negative days counts as high risk),
	// dolo 650 inside 30 days, paracetamol far out.
	assert.Equal(t, float64(1), out.Distribution[0].Value)
	assert.Equal(t, float64(1), out.Distribution[1].Value)
	assert.Equal(t, float64(1), out.Distribution[2].Value)
}

func TestForecastEndpoint_TooLittleHistory(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/forecast/dolo%20650", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestReorderRequestEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/reorder-request", ReorderRequest{Medicine: "pan 40"})
	require.Equal(t, http.StatusOK, w.Code)
	var res reorder.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, reorder.StatusSuccess, res.Status)
	assert.Contains(t, res.RequestID, "REQ-")

	w = doJSON(t, s, http.MethodPost, "/reorder-request", ReorderRequest{Medicine: "dolo 650"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, reorder.StatusIgnored, res.Status)

	w = doJSON(t, s, http.MethodPost, "/reorder-request", ReorderRequest{Medicine: "  "})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, reorder.StatusError, res.Status)
	assert.Equal(t, "Medicine name is required", res.Message)
}

type fakeReorderLog struct {
	requests []reorder.Request
	err      error
	limit    int
}

func (f *fakeReorderLog) Recent(_ context.Context, limit int) ([]reorder.Request, error) {
	f.limit = limit
	return f.requests, f.err
}

func TestReorderHistoryEndpoint(t *testing.T) {
	s := newTestServer(t)
	log := &fakeReorderLog{requests: []reorder.Request{
		{RequestID: "REQ-2", Medicine: "pan 40", Stock: 30, CreatedAt: serverNow},
		{RequestID: "REQ-1", Medicine: "paracetamol", Stock: 10, CreatedAt: serverNow.Add(-time.Hour)},
	}}
	s.deps.ReorderLog = log

	w := doJSON(t, s, http.MethodGet, "/reorder-requests", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var out []reorder.Request
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "REQ-2", out[0].RequestID)
	assert.Equal(t, 20, log.limit)

	w = doJSON(t, s, http.MethodGet, "/reorder-requests?limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, log.limit)
}

func TestReorderHistoryEndpoint_NoStore(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/reorder-requests", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestReorderHistoryEndpoint_StoreError(t *testing.T) {
	s := newTestServer(t)
	s.deps.ReorderLog = &fakeReorderLog{err: assert.AnError}

	w := doJSON(t, s, http.MethodGet, "/reorder-requests", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to load reorder requests")
}

func TestChatbotEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/chatbot", ChatRequest{Query: "check stock of dolo 650"})
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["response"], "120 units")
}

func TestChatbotEndpoint_Wastage(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/chatbot", ChatRequest{Query: "show wastage summary"})
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["response"], "₹250.00")
}

func TestChatbotEndpoint_InvalidPayload(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/chatbot", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request format")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/inventory", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
