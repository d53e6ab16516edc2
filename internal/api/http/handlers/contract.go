// Package handlers 提供HTTP API处理器
//
// contract.go 实现合约调用端点：
//   - POST /contract/interact 按函数名调用合约
//   - GET  /contract/functions 列出绑定ABI中的函数
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/weisyn/contract-gateway/internal/api/http/middleware"
	contractiface "github.com/weisyn/contract-gateway/pkg/interfaces/contract"
	"github.com/weisyn/contract-gateway/pkg/interfaces/infrastructure/log"
)

// InteractRequest 合约调用请求
type InteractRequest struct {
	FunctionName string        `json:"functionName"`
	Params       []interface{} `json:"params"`
}

// ReadResponse 只读调用响应
type ReadResponse struct {
	Success bool        `json:"success"`
	Result  interface{} `json:"result"`
}

// TransactionResponse 交易确认响应
type TransactionResponse struct {
	Success         bool   `json:"success"`
	TransactionHash string `json:"transactionHash"`
	BlockNumber     uint64 `json:"blockNumber"`
}

// ContractHandler 合约调用处理器
type ContractHandler struct {
	client       contractiface.Client
	introspector contractiface.Introspector
	logger       log.Logger
}

// NewContractHandler 创建合约调用处理器
// introspector 可以为nil，此时函数列表端点返回空列表
func NewContractHandler(client contractiface.Client, introspector contractiface.Introspector, logger log.Logger) *ContractHandler {
	return &ContractHandler{
		client:       client,
		introspector: introspector,
		logger:       logger,
	}
}

// RegisterRoutes 注册合约路由
func (h *ContractHandler) RegisterRoutes(r gin.IRouter) {
	group := r.Group("/contract")
	group.POST("/interact", h.Interact)
	group.GET("/functions", h.Functions)
}

// Interact 按函数名调用合约
//
// 处理流程：
//  1. 解析请求体，params 缺省视为空数组
//  2. 函数不存在 → 400，不发起任何合约调用
//  3. 调用函数；得到待确认交易时等待打包，返回交易哈希和区块高度
//  4. 得到立即值时直接返回
//  5. 其余任何错误 → 500，错误信息原样返回
func (h *ContractHandler) Interact(c *gin.Context) {
	req, err := decodeInteractRequest(c.Request.Body)
	if err != nil {
		// 请求体无法解析，交给兜底错误处理
		_ = c.Error(fmt.Errorf("解析请求体失败: %w", err))
		return
	}
	c.Set(middleware.FunctionNameKey, req.FunctionName)

	if !h.client.Has(req.FunctionName) {
		middleware.WriteError(c, http.StatusBadRequest, contractiface.ErrFunctionNotFound.Error())
		return
	}

	params := req.Params
	if params == nil {
		params = []interface{}{}
	}

	ctx := c.Request.Context()
	outcome, err := h.client.Invoke(ctx, req.FunctionName, params)
	if err != nil {
		h.fail(c, req.FunctionName, err)
		return
	}

	switch o := outcome.(type) {
	case contractiface.Pending:
		h.logger.Debugf("等待交易确认: function=%s tx=%s", req.FunctionName, o.Tx.Hash().Hex())
		receipt, err := o.Tx.Wait(ctx)
		if err != nil {
			h.fail(c, req.FunctionName, err)
			return
		}
		c.JSON(http.StatusOK, TransactionResponse{
			Success:         true,
			TransactionHash: receipt.TxHash.Hex(),
			BlockNumber:     receipt.BlockNumber,
		})

	case contractiface.Immediate:
		c.JSON(http.StatusOK, ReadResponse{
			Success: true,
			Result:  o.Value,
		})

	default:
		h.fail(c, req.FunctionName, fmt.Errorf("unexpected invocation outcome %T", outcome))
	}
}

// Functions 列出合约函数
func (h *ContractHandler) Functions(c *gin.Context) {
	functions := []contractiface.FunctionInfo{}
	if h.introspector != nil {
		functions = h.introspector.Functions()
	}
	c.JSON(http.StatusOK, gin.H{"functions": functions})
}

// fail 返回500，错误信息原样透出
func (h *ContractHandler) fail(c *gin.Context, function string, err error) {
	if errors.Is(err, contractiface.ErrFunctionNotFound) {
		middleware.WriteError(c, http.StatusBadRequest, contractiface.ErrFunctionNotFound.Error())
		return
	}
	h.logger.Errorf("合约调用失败: function=%s err=%v", function, err)
	middleware.WriteError(c, http.StatusInternalServerError, err.Error())
}

// interactRequestBody 请求体的原始形态，functionName 可能不是字符串
type interactRequestBody struct {
	FunctionName interface{}   `json:"functionName"`
	Params       []interface{} `json:"params"`
}

// decodeInteractRequest 解析请求体
// 数字保留为 json.Number，避免大整数在float64中丢失精度；空请求体视为空请求。
// 非字符串的 functionName 按空函数名处理，最终返回400
func decodeInteractRequest(body io.Reader) (*InteractRequest, error) {
	req := &InteractRequest{}
	if body == nil {
		return req, nil
	}

	var raw interactRequestBody
	decoder := json.NewDecoder(body)
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return req, nil
		}
		return nil, err
	}
	if name, ok := raw.FunctionName.(string); ok {
		req.FunctionName = name
	}
	req.Params = raw.Params
	return req, nil
}
