// Package contract 基于 go-ethereum 的合约客户端实现
//
// 启动时根据ABI构建函数调度表，请求到来时：
//   - view/pure 函数通过 eth_call 执行，返回 Immediate
//   - 其余函数签名并广播交易，返回 Pending，由调用方决定是否等待确认
package contract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/prometheus/client_golang/prometheus"

	corelog "github.com/weisyn/contract-gateway/internal/core/infrastructure/log"
	contractiface "github.com/weisyn/contract-gateway/pkg/interfaces/contract"
	"github.com/weisyn/contract-gateway/pkg/interfaces/infrastructure/log"
)

// ErrTransactionReverted 交易已打包但执行失败
var ErrTransactionReverted = errors.New("transaction execution reverted")

// BoundContract 合约调用与交易提交能力（*bind.BoundContract 满足该接口）
type BoundContract interface {
	Call(opts *bind.CallOpts, results *[]interface{}, method string, params ...interface{}) error
	Transact(opts *bind.TransactOpts, method string, params ...interface{}) (*types.Transaction, error)
}

// ReceiptWaiter 等待交易打包
type ReceiptWaiter interface {
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// backendWaiter 通过轮询节点回执等待打包
type backendWaiter struct {
	backend bind.DeployBackend
}

// NewBackendWaiter 基于 bind.WaitMined 的等待器
func NewBackendWaiter(backend bind.DeployBackend) ReceiptWaiter {
	return &backendWaiter{backend: backend}
}

func (w *backendWaiter) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return bind.WaitMined(ctx, w.backend, tx)
}

// ClientParams 客户端构造参数
type ClientParams struct {
	Address  common.Address
	ABI      abi.ABI
	Contract BoundContract
	Auth     *bind.TransactOpts
	Waiter   ReceiptWaiter
	Logger   log.Logger
	Registry prometheus.Registerer
}

// Client 合约客户端
// 构造后只读，可被所有请求并发使用
type Client struct {
	address   common.Address
	functions dispatchTable
	contract  BoundContract
	auth      *bind.TransactOpts
	waiter    ReceiptWaiter
	logger    log.Logger
	metrics   *clientMetrics
}

var (
	_ contractiface.Client       = (*Client)(nil)
	_ contractiface.Introspector = (*Client)(nil)
)

// NewClient 创建合约客户端
func NewClient(params ClientParams) (*Client, error) {
	if params.Contract == nil {
		return nil, fmt.Errorf("合约绑定不能为空")
	}
	if params.Auth == nil {
		return nil, fmt.Errorf("交易签名配置不能为空")
	}
	if params.Waiter == nil {
		return nil, fmt.Errorf("回执等待器不能为空")
	}

	c := &Client{
		address:   params.Address,
		functions: newDispatchTable(params.ABI),
		contract:  params.Contract,
		auth:      params.Auth,
		waiter:    params.Waiter,
		logger:    corelog.NewModuleLogger(params.Logger, "contract"),
		metrics:   newClientMetrics(params.Registry),
	}
	if c.logger != nil {
		c.logger = c.logger.With("address", params.Address.Hex())
	}
	return c, nil
}

// Address 绑定的合约地址
func (c *Client) Address() common.Address {
	return c.address
}

// Has 实现 contract.Client
func (c *Client) Has(name string) bool {
	_, ok := c.functions.lookup(name)
	return ok
}

// Functions 实现 contract.Introspector
func (c *Client) Functions() []contractiface.FunctionInfo {
	return c.functions.describe()
}

// Invoke 实现 contract.Client
func (c *Client) Invoke(ctx context.Context, name string, params []interface{}) (contractiface.Outcome, error) {
	fn, ok := c.functions.lookup(name)
	if !ok {
		return nil, contractiface.ErrFunctionNotFound
	}

	args, ov, err := coerceArguments(fn, params)
	if err != nil {
		return nil, err
	}

	if !fn.mutating {
		return c.call(ctx, fn, args)
	}
	return c.transact(ctx, fn, args, ov)
}

func (c *Client) call(ctx context.Context, fn *function, args []interface{}) (contractiface.Outcome, error) {
	start := time.Now()
	opts := &bind.CallOpts{Context: ctx, From: c.auth.From}

	var out []interface{}
	err := c.contract.Call(opts, &out, fn.method.Name, args...)
	c.metrics.observeInvocation(fn.method.Name, kindCall, start, err)
	if err != nil {
		c.debugf("调用 %s 失败: %v", fn.method.Sig, err)
		return nil, err
	}

	c.debugf("调用 %s 完成，返回 %d 个值", fn.method.Sig, len(out))
	return contractiface.Immediate{Value: decodeResults(out)}, nil
}

func (c *Client) transact(ctx context.Context, fn *function, args []interface{}, ov *overrides) (contractiface.Outcome, error) {
	start := time.Now()

	opts := *c.auth
	opts.Context = ctx
	if ov != nil {
		if ov.value != nil {
			opts.Value = ov.value
		}
		if ov.gasLimit > 0 {
			opts.GasLimit = ov.gasLimit
		}
	}

	tx, err := c.contract.Transact(&opts, fn.method.Name, args...)
	c.metrics.observeInvocation(fn.method.Name, kindTransact, start, err)
	if err != nil {
		c.warnf("提交交易 %s 失败: %v", fn.method.Sig, err)
		return nil, err
	}

	if c.logger != nil {
		c.logger.With(
			"function", fn.method.Sig,
			"tx_hash", tx.Hash().Hex(),
			"nonce", tx.Nonce(),
		).Info("交易已提交")
	}

	return contractiface.Pending{Tx: &pendingTransaction{
		tx:        tx,
		function:  fn.method.Name,
		signature: fn.method.Sig,
		waiter:    c.waiter,
		logger:    c.logger,
		metrics:   c.metrics,
		submitted: start,
	}}, nil
}

func (c *Client) debugf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debugf(format, args...)
	}
}

func (c *Client) warnf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Warnf(format, args...)
	}
}

// pendingTransaction 已广播的交易
type pendingTransaction struct {
	tx        *types.Transaction
	function  string
	signature string
	waiter    ReceiptWaiter
	logger    log.Logger
	metrics   *clientMetrics
	submitted time.Time
}

// Hash 实现 contract.PendingTransaction
func (p *pendingTransaction) Hash() common.Hash {
	return p.tx.Hash()
}

// Wait 实现 contract.PendingTransaction
// 只受 ctx 约束，不设置额外超时
func (p *pendingTransaction) Wait(ctx context.Context) (*contractiface.Receipt, error) {
	receipt, err := p.waiter.WaitMined(ctx, p.tx)
	if err != nil {
		p.metrics.observeConfirmation(p.function, resultError, p.submitted)
		return nil, err
	}

	blockNumber := uint64(0)
	if receipt.BlockNumber != nil {
		blockNumber = receipt.BlockNumber.Uint64()
	}
	txHash := receipt.TxHash
	if txHash == (common.Hash{}) {
		txHash = p.tx.Hash()
	}

	if receipt.Status == types.ReceiptStatusFailed {
		p.metrics.observeConfirmation(p.function, resultReverted, p.submitted)
		if p.logger != nil {
			p.logger.With(
				"function", p.signature,
				"tx_hash", txHash.Hex(),
				"block", blockNumber,
			).Warn("交易执行失败")
		}
		return nil, ErrTransactionReverted
	}

	p.metrics.observeConfirmation(p.function, resultOK, p.submitted)
	if p.logger != nil {
		p.logger.With(
			"function", p.signature,
			"tx_hash", txHash.Hex(),
			"block", blockNumber,
			"gas_used", receipt.GasUsed,
		).Info("交易已确认")
	}

	return &contractiface.Receipt{
		TxHash:      txHash,
		BlockNumber: blockNumber,
	}, nil
}
