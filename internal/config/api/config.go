package api

import (
	"time"

	"github.com/weisyn/contract-gateway/pkg/types"
)

// APIOptions API服务配置选项
type APIOptions struct {
	// HTTP API配置
	HTTP HTTPConfig `json:"http"`
}

// HTTPConfig HTTP API配置
type HTTPConfig struct {
	// 基础配置
	Host string `json:"host"` // 监听地址
	Port int    `json:"port"` // 监听端口

	// 超时配置
	// 注意：WriteTimeout 为0表示不限制，交易确认等待可能远超普通请求耗时
	ReadTimeout  time.Duration `json:"read_timeout"`  // 读取超时时间
	WriteTimeout time.Duration `json:"write_timeout"` // 写入超时时间
	IdleTimeout  time.Duration `json:"idle_timeout"`  // 空闲连接超时
	StopTimeout  time.Duration `json:"stop_timeout"`  // 优雅关闭等待时间

	// 限流（RateLimitRPS <= 0 时关闭）
	RateLimitRPS     float64       `json:"rate_limit_rps"`      // 每个客户端每秒请求数
	RateLimitBurst   int           `json:"rate_limit_burst"`    // 突发令牌数
	RateLimitIdleTTL time.Duration `json:"rate_limit_idle_ttl"` // 空闲客户端条目回收时间

	MaxRequestSize int64 `json:"max_request_size"` // 最大请求大小(字节)
}

// Config API配置实现
type Config struct {
	options *APIOptions
}

// New 创建API配置实现
func New(userConfig *types.UserAPIConfig) *Config {
	// 1. 先创建完整的默认配置
	defaultOptions := createDefaultAPIOptions()

	// 2. 如果有用户配置，则转换并覆盖默认配置
	if userConfig != nil {
		convertAndMergeUserConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// createDefaultAPIOptions 创建默认API配置
func createDefaultAPIOptions() *APIOptions {
	return &APIOptions{
		HTTP: HTTPConfig{
			Host:             defaultHTTPHost,
			Port:             defaultHTTPPort,
			ReadTimeout:      defaultHTTPReadTimeout,
			WriteTimeout:     defaultHTTPWriteTimeout,
			IdleTimeout:      defaultHTTPIdleTimeout,
			StopTimeout:      defaultHTTPStopTimeout,
			RateLimitRPS:     defaultRateLimitRPS,
			RateLimitBurst:   defaultRateLimitBurst,
			RateLimitIdleTTL: defaultRateLimitIdleTTL,
			MaxRequestSize:   defaultMaxRequestSize,
		},
	}
}

// convertAndMergeUserConfig 将用户配置转换并合并到默认配置中
// 使用指针类型来准确区分"未设置"和"设置为零值"
func convertAndMergeUserConfig(defaultOpts *APIOptions, userConfig *types.UserAPIConfig) {
	if userConfig.HTTPHost != nil && *userConfig.HTTPHost != "" {
		defaultOpts.HTTP.Host = *userConfig.HTTPHost
	}
	if userConfig.HTTPPort != nil {
		defaultOpts.HTTP.Port = *userConfig.HTTPPort
	}
	if userConfig.RateLimitRPS != nil {
		defaultOpts.HTTP.RateLimitRPS = *userConfig.RateLimitRPS
	}
	if userConfig.RateLimitBurst != nil {
		defaultOpts.HTTP.RateLimitBurst = *userConfig.RateLimitBurst
	}
	// 只配置了RPS时，突发值至少为1，否则限流器会拒绝所有请求
	if defaultOpts.HTTP.RateLimitRPS > 0 && defaultOpts.HTTP.RateLimitBurst <= 0 {
		defaultOpts.HTTP.RateLimitBurst = 1
	}
}

// GetOptions 获取完整的API配置选项
func (c *Config) GetOptions() *APIOptions {
	return c.options
}

// RateLimitEnabled 是否启用限流
func (o *HTTPConfig) RateLimitEnabled() bool {
	return o.RateLimitRPS > 0 && o.RateLimitBurst > 0
}
