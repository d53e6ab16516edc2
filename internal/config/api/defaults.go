package api

import "time"

// API服务默认配置值
const (
	// defaultHTTPHost 监听所有网络接口
	defaultHTTPHost = "0.0.0.0"

	// defaultHTTPPort 与原有部署保持一致（PORT 未设置时为3000）
	defaultHTTPPort = 3000

	// defaultHTTPReadTimeout 防止慢客户端长期占用连接
	defaultHTTPReadTimeout = 15 * time.Second

	// defaultHTTPWriteTimeout 不限制写超时
	// 状态变更调用会一直等待交易确认，由客户端自行决定何时断开
	defaultHTTPWriteTimeout = 0

	// defaultHTTPIdleTimeout 空闲keep-alive连接超时
	defaultHTTPIdleTimeout = 60 * time.Second

	// defaultHTTPStopTimeout 关闭时等待在途请求的最长时间
	defaultHTTPStopTimeout = 5 * time.Second

	// defaultRateLimitRPS 默认关闭限流
	defaultRateLimitRPS = 0

	// defaultRateLimitBurst 默认突发值
	defaultRateLimitBurst = 0

	// defaultRateLimitIdleTTL 空闲客户端条目保留10分钟
	defaultRateLimitIdleTTL = 10 * time.Minute

	// defaultMaxRequestSize 最大请求体1MB
	defaultMaxRequestSize = 1 << 20
)
