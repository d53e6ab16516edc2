package http

import (
	"go.uber.org/fx"
)

// Module 返回HTTP服务模块
//
// 依赖：
// - *apiconfig.APIOptions: 监听地址、超时、限流
// - contract.Client / contract.Introspector: 合约客户端
// - log.Logger、*zap.Logger: 日志
// - prometheus.Registerer / prometheus.Gatherer: 指标注册与导出
func Module() fx.Option {
	return fx.Module("http",
		fx.Provide(NewServer),
	)
}
