package contract

import (
	"strings"
	"time"

	"github.com/weisyn/contract-gateway/pkg/types"
)

// ContractOptions 合约客户端配置选项
//
// 📋 **配置分类**：
// - 用户配置：RPC地址、签名私钥、合约地址、ABI路径（来自环境变量或配置文件）
// - 内部配置：启动期超时（有默认值）
type ContractOptions struct {
	RPCURL     string `json:"rpc_url"`  // 节点RPC地址
	PrivateKey string `json:"-"`        // 签名私钥（十六进制，不参与序列化）
	Address    string `json:"address"`  // 合约地址
	ABIPath    string `json:"abi_path"` // ABI文件路径，为空时使用内置ABI

	// DialTimeout 启动时连接节点并查询chainId的超时时间
	DialTimeout time.Duration `json:"dial_timeout"`
}

// Config 合约客户端配置实现
type Config struct {
	options *ContractOptions
}

// New 创建合约客户端配置实现
func New(userConfig *types.UserContractConfig) *Config {
	defaultOptions := createDefaultContractOptions()

	if userConfig != nil {
		applyUserContractConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// createDefaultContractOptions 创建默认合约客户端配置
func createDefaultContractOptions() *ContractOptions {
	return &ContractOptions{
		ABIPath:     defaultABIPath,
		DialTimeout: defaultDialTimeout,
	}
}

// applyUserContractConfig 应用用户配置覆盖默认值
func applyUserContractConfig(options *ContractOptions, userConfig *types.UserContractConfig) {
	if userConfig.RPCURL != nil {
		options.RPCURL = strings.TrimSpace(*userConfig.RPCURL)
	}
	if userConfig.PrivateKey != nil {
		options.PrivateKey = strings.TrimSpace(*userConfig.PrivateKey)
	}
	if userConfig.Address != nil {
		options.Address = strings.TrimSpace(*userConfig.Address)
	}
	if userConfig.ABIPath != nil {
		options.ABIPath = strings.TrimSpace(*userConfig.ABIPath)
	}
}

// GetOptions 获取完整的合约客户端配置选项
func (c *Config) GetOptions() *ContractOptions {
	return c.options
}

// PrivateKeyHex 返回去掉0x前缀的私钥
func (o *ContractOptions) PrivateKeyHex() string {
	return strings.TrimPrefix(strings.TrimPrefix(o.PrivateKey, "0x"), "0X")
}

// UsesEmbeddedABI 是否使用内置ABI
func (o *ContractOptions) UsesEmbeddedABI() bool {
	return o.ABIPath == ""
}
