package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/weisyn/contract-gateway/configs"
	contractconfig "github.com/weisyn/contract-gateway/internal/config/contract"
	contractiface "github.com/weisyn/contract-gateway/pkg/interfaces/contract"
)

// LoadABI 加载合约ABI
// 配置了 ABIPath 时从文件读取，否则使用内置的 getValue/setValue ABI
func LoadABI(opts *contractconfig.ContractOptions) (abi.ABI, error) {
	raw := configs.GetDefaultContractABI()
	source := "内置ABI"
	if opts != nil && !opts.UsesEmbeddedABI() {
		data, err := os.ReadFile(opts.ABIPath)
		if err != nil {
			return abi.ABI{}, fmt.Errorf("读取ABI文件失败: %w", err)
		}
		raw = data
		source = opts.ABIPath
	}

	parsed, err := ParseABI(raw)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("解析%s失败: %w", source, err)
	}
	return parsed, nil
}

// ParseABI 解析ABI JSON
//
// 同时接受纯ABI数组和编译产物（solc/hardhat/foundry 输出的带 "abi" 字段的对象）
func ParseABI(raw []byte) (abi.ABI, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var artifact struct {
			ABI json.RawMessage `json:"abi"`
		}
		if err := json.Unmarshal(trimmed, &artifact); err != nil {
			return abi.ABI{}, err
		}
		if len(artifact.ABI) == 0 {
			return abi.ABI{}, fmt.Errorf("编译产物中缺少abi字段")
		}
		trimmed = artifact.ABI
	}
	return abi.JSON(bytes.NewReader(trimmed))
}

// function 调度表条目
type function struct {
	method   abi.Method
	mutating bool
}

// dispatchTable 函数名/签名 → 函数
// 启动时构建一次，之后只读
type dispatchTable map[string]*function

// newDispatchTable 根据ABI构建调度表
//
// 每个方法同时以名称（setValue）和规范签名（setValue(uint256)）登记。
// 重载方法的名称由go-ethereum自动区分（foo、foo0 …），签名始终唯一。
func newDispatchTable(parsed abi.ABI) dispatchTable {
	table := make(dispatchTable, len(parsed.Methods)*2)
	for name, method := range parsed.Methods {
		fn := &function{
			method:   method,
			mutating: !method.IsConstant(),
		}
		table[name] = fn
		table[method.Sig] = fn
	}
	return table
}

// lookup 按名称或签名查找
func (t dispatchTable) lookup(name string) (*function, bool) {
	fn, ok := t[name]
	return fn, ok
}

// describe 返回去重、按签名排序的函数描述
func (t dispatchTable) describe() []contractiface.FunctionInfo {
	seen := make(map[string]bool, len(t))
	infos := make([]contractiface.FunctionInfo, 0, len(t)/2)
	for _, fn := range t {
		if seen[fn.method.Sig] {
			continue
		}
		seen[fn.method.Sig] = true
		infos = append(infos, contractiface.FunctionInfo{
			Name:            fn.method.Name,
			Signature:       fn.method.Sig,
			StateMutability: stateMutability(fn.method),
			Mutating:        fn.mutating,
			Inputs:          describeArguments(fn.method.Inputs),
			Outputs:         describeArguments(fn.method.Outputs),
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Signature < infos[j].Signature
	})
	return infos
}

// DescribeABI 列出ABI中可调用的函数，不需要连接节点
func DescribeABI(parsed abi.ABI) []contractiface.FunctionInfo {
	return newDispatchTable(parsed).describe()
}

// stateMutability 兼容旧版ABI（只有constant/payable字段）
func stateMutability(m abi.Method) string {
	if m.StateMutability != "" {
		return m.StateMutability
	}
	switch {
	case m.Constant:
		return "view"
	case m.Payable:
		return "payable"
	default:
		return "nonpayable"
	}
}

func describeArguments(args abi.Arguments) []contractiface.ParamInfo {
	params := make([]contractiface.ParamInfo, 0, len(args))
	for _, arg := range args {
		params = append(params, contractiface.ParamInfo{
			Name: arg.Name,
			Type: arg.Type.String(),
		})
	}
	return params
}
