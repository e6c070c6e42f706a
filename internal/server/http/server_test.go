package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfgpkg "github.com/rzbill/tixid/internal/config"
	"github.com/rzbill/tixid/internal/runtime"
	pebblestore "github.com/rzbill/tixid/internal/storage/pebble"
	logpkg "github.com/rzbill/tixid/pkg/log"
	"github.com/rzbill/tixid/pkg/snowflake"
)

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
	ErrorCode string          `json:"errorCode"`
}

type issued struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Number       string `json:"number"`
	TimestampMs  int64  `json:"timestampMs"`
	Time         string `json:"time"`
	DatacenterID uint64 `json:"datacenterId"`
	WorkerID     uint64 `json:"workerId"`
	Sequence     uint64 `json:"sequence"`
	IssuedAtMs   int64  `json:"issuedAtMs"`
	RequestID    string `json:"requestId"`
}

type manualClock struct {
	mu sync.Mutex
	ms int64
}

func (c *manualClock) NowMs() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ms
}

func (c *manualClock) set(ms int64) {
	c.mu.Lock()
	c.ms = ms
	c.mu.Unlock()
}

func newTestServer(t *testing.T, cfg cfgpkg.Config, clk snowflake.Clock) *Server {
	t.Helper()
	rt, err := runtime.Open(runtime.Options{DataDir: t.TempDir(), Fsync: pebblestore.FsyncModeAlways, Config: cfg, Clock: clk})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	logger, err := logpkg.ApplyConfig(&logpkg.Config{Level: "error", Format: "text", Outputs: []string{"null"}})
	require.NoError(t, err)
	return New(rt, logger)
}

func do(t *testing.T, s *Server, method, target string, header map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(w, req)
	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.NotEmpty(t, env.Timestamp)
	}
	return w, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t, cfgpkg.Default(), nil)
	w, env := do(t, s, http.MethodGet, "/v1/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	data := decodeData[map[string]any](t, env)
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, true, data["ledger"])
}

func TestIssueHandlers(t *testing.T) {
	clk := &manualClock{ms: snowflake.Epoch + 77_000}
	s := newTestServer(t, cfgpkg.Default(), clk)

	cases := []struct {
		path, kind, prefix string
	}{
		{"/v1/ids", "id", ""},
		{"/v1/tickets/number", "ticket", "TKT"},
		{"/v1/orders/number", "order", "ORD"},
	}
	for i, tc := range cases {
		t.Run(tc.kind, func(t *testing.T) {
			w, env := do(t, s, http.MethodPost, tc.path, nil)
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
			require.True(t, env.Success)
			got := decodeData[issued](t, env)
			assert.Equal(t, tc.kind, got.Kind)
			assert.Equal(t, tc.prefix+got.ID, got.Number)
			assert.Equal(t, snowflake.Epoch+77_000, got.TimestampMs)
			assert.Equal(t, uint64(i), got.Sequence)
			assert.Equal(t, uint64(1), got.WorkerID)
			assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		})
	}

	w, env := do(t, s, http.MethodGet, "/v1/tickets/number", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "METHOD_NOT_ALLOWED", env.ErrorCode)
}

func TestDecodeHandler(t *testing.T) {
	s := newTestServer(t, cfgpkg.Default(), nil)
	id := snowflake.Compose(snowflake.Epoch+1000, 2, 3, 4)

	w, env := do(t, s, http.MethodGet, "/v1/ids/decode?value=TKT"+id.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeData[issued](t, env)
	assert.Equal(t, id.String(), got.ID)
	assert.Equal(t, "ticket", got.Kind)
	assert.Equal(t, uint64(2), got.DatacenterID)
	assert.Equal(t, uint64(3), got.WorkerID)
	assert.Equal(t, uint64(4), got.Sequence)
	assert.Equal(t, "2021-01-01T00:00:01Z", got.Time)

	w, env = do(t, s, http.MethodGet, "/v1/ids/decode?value=XYZ1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_NUMBER", env.ErrorCode)

	w, env = do(t, s, http.MethodGet, "/v1/ids/decode", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ARGUMENT", env.ErrorCode)
}

func TestIssuancesHandlers(t *testing.T) {
	s := newTestServer(t, cfgpkg.Default(), nil)

	var numbers []string
	for i := 0; i < 3; i++ {
		_, env := do(t, s, http.MethodPost, "/v1/orders/number", map[string]string{RequestIDHeader: "req-" + string(rune('a'+i))})
		numbers = append(numbers, decodeData[issued](t, env).Number)
	}

	w, env := do(t, s, http.MethodGet, "/v1/issuances/lookup?value="+numbers[1], nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeData[issued](t, env)
	assert.Equal(t, numbers[1], got.Number)
	assert.Equal(t, "req-b", got.RequestID)
	assert.NotZero(t, got.IssuedAtMs)

	w, env = do(t, s, http.MethodGet, "/v1/issuances/lookup?value=12345", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.ErrorCode)

	type page struct {
		Items []issued `json:"items"`
		Next  string   `json:"next"`
	}
	w, env = do(t, s, http.MethodGet, "/v1/issuances?kind=order&limit=2&reverse=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := decodeData[page](t, env)
	require.Len(t, p.Items, 2)
	assert.Equal(t, numbers[2], p.Items[0].Number)
	assert.Equal(t, numbers[1], p.Items[1].Number)
	assert.NotEmpty(t, p.Next)

	w, env = do(t, s, http.MethodGet, "/v1/issuances?kind=order&start="+p.Next+"&reverse=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p = decodeData[page](t, env)
	require.Len(t, p.Items, 1)
	assert.Equal(t, numbers[0], p.Items[0].Number)
	assert.Empty(t, p.Next)

	w, env = do(t, s, http.MethodGet, "/v1/issuances?kind=order&filter=request_id%20%3D%3D%20%27req-c%27", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p = decodeData[page](t, env)
	require.Len(t, p.Items, 1)
	assert.Equal(t, numbers[2], p.Items[0].Number)

	w, env = do(t, s, http.MethodGet, "/v1/issuances?kind=order&filter=sequence%20%2B", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FILTER", env.ErrorCode)

	w, env = do(t, s, http.MethodGet, "/v1/issuances?kind=invoice", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ARGUMENT", env.ErrorCode)
}

func TestLedgerDisabledHandlers(t *testing.T) {
	cfg := cfgpkg.Default()
	cfg.Ledger.Enabled = false
	s := newTestServer(t, cfg, nil)

	w, _ := do(t, s, http.MethodPost, "/v1/ids", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := do(t, s, http.MethodGet, "/v1/issuances", nil)
	assert.Equal(t, http.StatusNotImplemented, w.Code)
	assert.Equal(t, "LEDGER_DISABLED", env.ErrorCode)
}

func TestClockRegressionHandler(t *testing.T) {
	clk := &manualClock{ms: snowflake.Epoch + 90_000}
	s := newTestServer(t, cfgpkg.Default(), clk)

	w, _ := do(t, s, http.MethodPost, "/v1/ids", nil)
	require.Equal(t, http.StatusCreated, w.Code)

	clk.set(snowflake.Epoch + 87_500)
	w, env := do(t, s, http.MethodPost, "/v1/tickets/number", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "CLOCK_REGRESSION", env.ErrorCode)
	assert.Equal(t, "3", w.Header().Get("Retry-After"))
	assert.Contains(t, env.Message, "2500 milliseconds")
}

func TestClockOutOfRangeHandler(t *testing.T) {
	clk := &manualClock{ms: snowflake.Epoch - 1}
	s := newTestServer(t, cfgpkg.Default(), clk)

	w, env := do(t, s, http.MethodPost, "/v1/orders/number", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "CLOCK_OUT_OF_RANGE", env.ErrorCode)
	assert.Empty(t, w.Header().Get("Retry-After"))
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t, cfgpkg.Default(), nil)
	w, _ := do(t, s, http.MethodGet, "/v1/healthz", map[string]string{RequestIDHeader: "fixed-id"})
	assert.Equal(t, "fixed-id", w.Header().Get(RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, cfgpkg.Default(), nil)
	do(t, s, http.MethodPost, "/v1/tickets/number", nil)

	w, _ := do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `tixid_ids_issued_total{kind="ticket"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, cfgpkg.Default(), nil)
	w, _ := do(t, s, http.MethodOptions, "/v1/ids", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
