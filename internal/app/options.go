package app

import (
	"github.com/weisyn/contract-gateway/pkg/interfaces/config"
	"github.com/weisyn/contract-gateway/pkg/types"
)

// Option 应用程序选项函数类型
type Option func(*options)

// SecretReader 交互式读取敏感输入（如私钥），返回false表示当前环境无法交互
type SecretReader func(prompt string) (string, bool, error)

// options 应用程序选项
// 实现config.AppOptions接口
type options struct {
	// JSON配置文件路径（可选）
	configFilePath string

	// .env 文件路径，为空时尝试当前目录下的 .env
	envFilePath string

	// 环境变量查找函数，默认 os.LookupEnv
	lookupEnv func(string) (string, bool)

	// 私钥缺失时的交互式读取，默认从终端读取
	secretReader SecretReader

	// 直接注入的配置（跳过文件和环境变量加载，测试使用）
	appConfig *types.AppConfig
}

// 编译时校验options是否实现了config.AppOptions接口
var _ config.AppOptions = (*options)(nil)

// WithConfigFile 设置JSON配置文件路径
func WithConfigFile(configPath string) Option {
	return func(o *options) {
		o.configFilePath = configPath
	}
}

// WithEnvFile 设置 .env 文件路径
func WithEnvFile(envPath string) Option {
	return func(o *options) {
		o.envFilePath = envPath
	}
}

// WithLookupEnv 替换环境变量查找函数
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(o *options) {
		o.lookupEnv = lookup
	}
}

// WithSecretReader 替换私钥交互式读取函数，传nil表示禁用交互
func WithSecretReader(reader SecretReader) Option {
	return func(o *options) {
		o.secretReader = reader
	}
}

// WithAppConfig 直接使用给定配置，不再读取文件和环境变量
func WithAppConfig(appConfig *types.AppConfig) Option {
	return func(o *options) {
		o.appConfig = appConfig
	}
}

// newOptions 创建选项
func newOptions(opts ...Option) *options {
	options := &options{
		lookupEnv:    lookupProcessEnv,
		secretReader: readSecretFromTerminal,
	}

	// 应用自定义选项
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// GetAppConfig 返回应用程序配置
func (o *options) GetAppConfig() *types.AppConfig {
	return o.appConfig
}
