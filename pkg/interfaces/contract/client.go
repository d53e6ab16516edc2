// Package contract 定义合约客户端能力接口
//
// 网关只依赖这里的三项能力：
//   - 按名称检查合约接口中是否存在某个函数
//   - 以位置参数调用该函数，得到立即值（只读调用）或待确认交易（状态变更调用）
//   - 等待待确认交易上链，得到交易哈希和所在区块高度
//
// 任何满足该能力集的实现都可以替换 internal/core/contract 中基于 go-ethereum 的实现。
package contract

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// ErrFunctionNotFound 合约接口中不存在请求的函数
var ErrFunctionNotFound = errors.New("Function not found in contract")

// Client 合约客户端
//
// 实现必须是并发安全的：同一个实例在进程生命周期内被所有请求共享，构造后只读。
type Client interface {
	// Has 检查绑定的合约接口中是否存在该函数（名称或完整签名）
	Has(name string) bool

	// Invoke 以位置参数调用函数
	// 不存在的函数返回 ErrFunctionNotFound
	Invoke(ctx context.Context, name string, params []interface{}) (Outcome, error)
}

// Outcome 调用结果，只有 Immediate 和 Pending 两种
type Outcome interface {
	isOutcome()
}

// Immediate 只读调用的返回值，已转换为可直接JSON编码的形式
type Immediate struct {
	Value interface{}
}

// Pending 已提交、等待确认的交易
type Pending struct {
	Tx PendingTransaction
}

func (Immediate) isOutcome() {}
func (Pending) isOutcome()   {}

// PendingTransaction 待确认交易句柄
type PendingTransaction interface {
	// Hash 已广播交易的哈希
	Hash() common.Hash

	// Wait 阻塞直到交易被打包确认，或 ctx 被取消
	Wait(ctx context.Context) (*Receipt, error)
}

// Receipt 已确认交易的回执摘要
type Receipt struct {
	TxHash      common.Hash
	BlockNumber uint64
}

// Introspector 合约接口自省（函数列表）
type Introspector interface {
	// Functions 返回绑定ABI中的全部函数，按签名排序
	Functions() []FunctionInfo
}

// FunctionInfo 合约函数描述
type FunctionInfo struct {
	Name            string      `json:"name"`
	Signature       string      `json:"signature"`
	StateMutability string      `json:"stateMutability"`
	Mutating        bool        `json:"mutating"`
	Inputs          []ParamInfo `json:"inputs"`
	Outputs         []ParamInfo `json:"outputs"`
}

// ParamInfo 参数描述
type ParamInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}
