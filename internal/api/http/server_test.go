package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apiconfig "github.com/weisyn/contract-gateway/internal/config/api"
	corelog "github.com/weisyn/contract-gateway/internal/core/infrastructure/log"
	contractiface "github.com/weisyn/contract-gateway/pkg/interfaces/contract"
	"github.com/weisyn/contract-gateway/pkg/types"
)

type stubClient struct {
	outcome contractiface.Outcome
}

func (s *stubClient) Has(name string) bool {
	return name == "getValue" || name == "setValue"
}

func (s *stubClient) Invoke(ctx context.Context, name string, params []interface{}) (contractiface.Outcome, error) {
	return s.outcome, nil
}

type stubTx struct{}

func (stubTx) Hash() common.Hash { return common.HexToHash("0x01") }

func (stubTx) Wait(ctx context.Context) (*contractiface.Receipt, error) {
	return &contractiface.Receipt{TxHash: common.HexToHash("0x01"), BlockNumber: 7}, nil
}

func newTestParams(t *testing.T, user *types.UserAPIConfig, client contractiface.Client) RouterParams {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	zl := zap.NewNop()
	return RouterParams{
		Options:    apiconfig.New(user).GetOptions(),
		Logger:     corelog.NewFromZap(zl),
		ZapLogger:  zl,
		Client:     client,
		Registerer: reg,
		Gatherer:   reg,
	}
}

func TestRouter_EndToEnd(t *testing.T) {
	router := NewRouter(newTestParams(t, nil, &stubClient{outcome: contractiface.Immediate{Value: "42"}}))

	req := httptest.NewRequest(http.MethodPost, "/contract/interact", strings.NewReader(`{"functionName":"getValue","params":[]}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"result":"42"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_RequestIDPropagated(t *testing.T) {
	router := NewRouter(newTestParams(t, nil, &stubClient{}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestRouter_Metrics(t *testing.T) {
	router := NewRouter(newTestParams(t, nil, &stubClient{outcome: contractiface.Pending{Tx: stubTx{}}}))

	req := httptest.NewRequest(http.MethodPost, "/contract/interact", strings.NewReader(`{"functionName":"setValue","params":[1]}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `gateway_http_requests_total{method="POST",route="/contract/interact",status="200"} 1`)
}

func TestRouter_NoRoute(t *testing.T) {
	router := NewRouter(newTestParams(t, nil, &stubClient{}))

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, w.Body.String())
}

func TestRouter_RateLimit(t *testing.T) {
	user := &types.UserAPIConfig{
		RateLimitRPS:   types.Float64Ptr(0.001),
		RateLimitBurst: types.IntPtr(1),
	}
	router := NewRouter(newTestParams(t, user, &stubClient{}))

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}

func TestRouter_BodyLimit(t *testing.T) {
	router := NewRouter(newTestParams(t, nil, &stubClient{}))

	huge := `{"functionName":"getValue","params":["` + strings.Repeat("a", 2<<20) + `"]}`
	req := httptest.NewRequest(http.MethodPost, "/contract/interact", strings.NewReader(huge))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Something went wrong!"}`, w.Body.String())
}

func TestServer_StartStop(t *testing.T) {
	params := newTestParams(t, &types.UserAPIConfig{
		HTTPHost: types.StringPtr("127.0.0.1"),
		HTTPPort: types.IntPtr(0),
	}, &stubClient{})
	server := newServer(params)

	require.NoError(t, server.Start())
	port := server.Port()
	require.NotZero(t, port)

	httpClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := httpClient.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	var health map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, "ok", health["status"])

	require.NoError(t, server.Stop(context.Background()))

	_, err = httpClient.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
	assert.Error(t, err, "关闭后不应再接受连接")
}

func TestServer_StartFailsOnBusyPort(t *testing.T) {
	first := newServer(newTestParams(t, &types.UserAPIConfig{
		HTTPHost: types.StringPtr("127.0.0.1"),
		HTTPPort: types.IntPtr(0),
	}, &stubClient{}))
	require.NoError(t, first.Start())
	defer first.Stop(context.Background())

	second := newServer(newTestParams(t, &types.UserAPIConfig{
		HTTPHost: types.StringPtr("127.0.0.1"),
		HTTPPort: types.IntPtr(first.Port()),
	}, &stubClient{}))
	assert.Error(t, second.Start())
}

func TestServer_StopBeforeStart(t *testing.T) {
	server := newServer(newTestParams(t, nil, &stubClient{}))
	assert.NoError(t, server.Stop(context.Background()))
}
