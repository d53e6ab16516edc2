// Package types provides configuration type definitions.
package types

// AppConfig 应用程序根配置
// 只包含环境变量/JSON配置文件解析所需的结构，不包含任何内部字段
// 默认值和完整配置结构在 internal/config/*/defaults.go 和 internal/config/*/config.go 中定义
type AppConfig struct {
	// API服务配置
	API *UserAPIConfig `json:"api,omitempty"`

	// 合约客户端配置（RPC、签名私钥、合约地址、ABI）
	Contract *UserContractConfig `json:"contract,omitempty"`

	// 日志配置
	Log *UserLogConfig `json:"log,omitempty"`
}

// UserAPIConfig 用户API配置
// 只包含配置中实际出现的字段
type UserAPIConfig struct {
	HTTPHost *string `json:"http_host,omitempty"` // HTTP监听地址
	HTTPPort *int    `json:"http_port,omitempty"` // HTTP监听端口（默认3000）

	// 限流配置（0 表示关闭）
	RateLimitRPS   *float64 `json:"rate_limit_rps,omitempty"`   // 每个客户端每秒请求数
	RateLimitBurst *int     `json:"rate_limit_burst,omitempty"` // 突发令牌数
}

// UserContractConfig 用户合约客户端配置
//
// ⚠️ PrivateKey 属于敏感信息，只允许通过环境变量或交互式输入提供，
// 配置文件中出现时同样会被读取，但不建议这样做。
type UserContractConfig struct {
	RPCURL     *string `json:"rpc_url,omitempty"`     // 以太坊兼容节点的RPC地址
	PrivateKey *string `json:"private_key,omitempty"` // 签名私钥（十六进制，可带0x前缀）
	Address    *string `json:"address,omitempty"`     // 目标合约地址
	ABIPath    *string `json:"abi_path,omitempty"`    // 合约ABI文件路径（为空时使用内置ABI）
}

// UserLogConfig 用户日志配置
// 只包含配置中实际出现的字段
type UserLogConfig struct {
	Level    *string `json:"level,omitempty"`     // 日志级别：debug, info, warn, error, fatal
	FilePath *string `json:"file_path,omitempty"` // 日志文件路径
}

// 配置辅助函数
// 这些函数帮助创建指针类型的配置值，区分"未设置"和"设置为零值"

// IntPtr 创建int指针，用于明确表示用户设置了该值
func IntPtr(v int) *int {
	return &v
}

// StringPtr 创建string指针，用于明确表示用户设置了该值
func StringPtr(v string) *string {
	return &v
}

// Float64Ptr 创建float64指针，用于明确表示用户设置了该值
func Float64Ptr(v float64) *float64 {
	return &v
}
