package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/weisyn/contract-gateway/internal/api/http/middleware"
	corelog "github.com/weisyn/contract-gateway/internal/core/infrastructure/log"
	contractiface "github.com/weisyn/contract-gateway/pkg/interfaces/contract"
)

// fakeClient 按预设返回调用结果
type fakeClient struct {
	functions map[string]bool
	outcome   contractiface.Outcome
	err       error
	panicMsg  string

	invoked    int
	lastName   string
	lastParams []interface{}
}

func (f *fakeClient) Has(name string) bool {
	return f.functions[name]
}

func (f *fakeClient) Invoke(ctx context.Context, name string, params []interface{}) (contractiface.Outcome, error) {
	f.invoked++
	f.lastName = name
	f.lastParams = params
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.outcome, nil
}

func (f *fakeClient) Functions() []contractiface.FunctionInfo {
	return []contractiface.FunctionInfo{
		{Name: "getValue", Signature: "getValue()", StateMutability: "view", Inputs: []contractiface.ParamInfo{}, Outputs: []contractiface.ParamInfo{{Type: "uint256"}}},
	}
}

// fakeTx 待确认交易
type fakeTx struct {
	hash    common.Hash
	receipt *contractiface.Receipt
	err     error
	waited  int
}

func (t *fakeTx) Hash() common.Hash {
	return t.hash
}

func (t *fakeTx) Wait(ctx context.Context) (*contractiface.Receipt, error) {
	t.waited++
	if t.err != nil {
		return nil, t.err
	}
	return t.receipt, nil
}

var testTxHash = common.HexToHash("0xabc0000000000000000000000000000000000000000000000000000000000001")

func newTestRouter(client *fakeClient) *gin.Engine {
	gin.SetMode(gin.TestMode)

	zl := zap.NewNop()
	router := gin.New()
	router.Use(middleware.Recovery(zl), middleware.ErrorHandler(zl))
	NewContractHandler(client, client, corelog.NewFromZap(zl)).RegisterRoutes(router)
	return router
}

func doInteract(t *testing.T, router http.Handler, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/contract/interact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "响应应为JSON: %s", w.Body.String())
	return w, resp
}

func TestInteract_ReadOnlyCall(t *testing.T) {
	client := &fakeClient{
		functions: map[string]bool{"getValue": true},
		outcome:   contractiface.Immediate{Value: "42"},
	}

	w, resp := doInteract(t, newTestRouter(client), `{"functionName":"getValue","params":[]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"success": true, "result": "42"}, resp)
	assert.Equal(t, "getValue", client.lastName)
	assert.Equal(t, []interface{}{}, client.lastParams)
}

func TestInteract_ReadOnlyNullResult(t *testing.T) {
	client := &fakeClient{
		functions: map[string]bool{"ping": true},
		outcome:   contractiface.Immediate{Value: nil},
	}

	w, resp := doInteract(t, newTestRouter(client), `{"functionName":"ping"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, resp, "result")
	assert.Nil(t, resp["result"])
}

func TestInteract_MutatingCallWaitsForReceipt(t *testing.T) {
	tx := &fakeTx{
		hash:    testTxHash,
		receipt: &contractiface.Receipt{TxHash: testTxHash, BlockNumber: 123},
	}
	client := &fakeClient{
		functions: map[string]bool{"setValue": true},
		outcome:   contractiface.Pending{Tx: tx},
	}

	w, resp := doInteract(t, newTestRouter(client), `{"functionName":"setValue","params":[7]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{
		"success":         true,
		"transactionHash": testTxHash.Hex(),
		"blockNumber":     float64(123),
	}, resp)
	assert.Equal(t, 1, tx.waited)
	assert.Equal(t, []interface{}{json.Number("7")}, client.lastParams)
}

func TestInteract_FunctionNotFound(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "未知函数", body: `{"functionName":"doesNotExist"}`},
		{name: "缺少函数名", body: `{"params":[1]}`},
		{name: "空请求体", body: ``},
		{name: "null请求体", body: `null`},
		{name: "函数名为数字", body: `{"functionName":5,"params":[]}`},
		{name: "函数名为对象", body: `{"functionName":{"name":"getValue"}}`},
		{name: "函数名为null", body: `{"functionName":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{functions: map[string]bool{"getValue": true}}

			w, resp := doInteract(t, newTestRouter(client), tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, map[string]interface{}{"error": "Function not found in contract"}, resp)
			assert.Zero(t, client.invoked, "不应发起合约调用")
		})
	}
}

func TestInteract_InvocationFailure(t *testing.T) {
	client := &fakeClient{
		functions: map[string]bool{"setValue": true},
		err:       errors.New("insufficient funds for intrinsic transaction cost"),
	}

	w, resp := doInteract(t, newTestRouter(client), `{"functionName":"setValue","params":[1]}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]interface{}{"error": "insufficient funds for intrinsic transaction cost"}, resp)
}

func TestInteract_WaitFailure(t *testing.T) {
	tx := &fakeTx{hash: testTxHash, err: errors.New("transaction execution reverted")}
	client := &fakeClient{
		functions: map[string]bool{"setValue": true},
		outcome:   contractiface.Pending{Tx: tx},
	}

	w, resp := doInteract(t, newTestRouter(client), `{"functionName":"setValue","params":[1]}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "transaction execution reverted", resp["error"])
	assert.NotContains(t, resp, "success")
}

func TestInteract_NotFoundFromInvoke(t *testing.T) {
	// Has 与 Invoke 之间的竞态仍然返回400
	client := &fakeClient{
		functions: map[string]bool{"getValue": true},
		err:       contractiface.ErrFunctionNotFound,
	}

	w, resp := doInteract(t, newTestRouter(client), `{"functionName":"getValue"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Function not found in contract", resp["error"])
}

func TestInteract_MissingParamsEqualsEmpty(t *testing.T) {
	withoutParams := &fakeClient{functions: map[string]bool{"getValue": true}, outcome: contractiface.Immediate{Value: "1"}}
	withEmpty := &fakeClient{functions: map[string]bool{"getValue": true}, outcome: contractiface.Immediate{Value: "1"}}

	w1, resp1 := doInteract(t, newTestRouter(withoutParams), `{"functionName":"getValue"}`)
	w2, resp2 := doInteract(t, newTestRouter(withEmpty), `{"functionName":"getValue","params":[]}`)

	assert.Equal(t, w1.Code, w2.Code)
	assert.Equal(t, resp1, resp2)
	assert.Equal(t, withoutParams.lastParams, withEmpty.lastParams)
}

func TestInteract_MalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "非法JSON", body: `{"functionName":`},
		{name: "params不是数组", body: `{"functionName":"getValue","params":{"a":1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{functions: map[string]bool{"getValue": true}}

			w, resp := doInteract(t, newTestRouter(client), tt.body)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, map[string]interface{}{"error": "Something went wrong!"}, resp)
			assert.Zero(t, client.invoked)
		})
	}
}

func TestInteract_PanicIsRecovered(t *testing.T) {
	client := &fakeClient{
		functions: map[string]bool{"getValue": true},
		panicMsg:  "boom",
	}

	w, resp := doInteract(t, newTestRouter(client), `{"functionName":"getValue"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]interface{}{"error": "Something went wrong!"}, resp)
}

func TestInteract_PreservesLargeIntegers(t *testing.T) {
	client := &fakeClient{
		functions: map[string]bool{"setValue": true},
		outcome:   contractiface.Immediate{Value: nil},
	}

	doInteract(t, newTestRouter(client), `{"functionName":"setValue","params":[115792089237316195423570985008687907853269984665640564039457584007913129639935]}`)

	require.Len(t, client.lastParams, 1)
	assert.Equal(t, json.Number("115792089237316195423570985008687907853269984665640564039457584007913129639935"), client.lastParams[0])
}

func TestFunctions(t *testing.T) {
	router := newTestRouter(&fakeClient{})

	req := httptest.NewRequest(http.MethodGet, "/contract/functions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Functions []contractiface.FunctionInfo `json:"functions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Functions, 1)
	assert.Equal(t, "getValue()", resp.Functions[0].Signature)
}

func TestFunctions_WithoutIntrospector(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewContractHandler(&fakeClient{}, nil, corelog.NewFromZap(zap.NewNop())).RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/contract/functions", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"functions":[]}`, w.Body.String())
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHealthHandler().RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}
