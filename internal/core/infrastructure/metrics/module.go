// Package metrics 提供进程级 Prometheus 指标注册表
//
// 所有组件（HTTP中间件、合约客户端）都向同一个注册表登记指标，
// GET /metrics 从该注册表导出。不使用 prometheus 的全局默认注册表，
// 这样同一进程内可以创建多个互不干扰的实例（测试中尤其需要）。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/zap"

	corelog "github.com/weisyn/contract-gateway/internal/core/infrastructure/log"
)

// ModuleOutput 指标模块输出
type ModuleOutput struct {
	fx.Out

	Registry   *prometheus.Registry
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// Module 返回 metrics 模块的 fx.Option
//
// 提供：
// - *prometheus.Registry 及其 Registerer / Gatherer 视图
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideRegistry),
	)
}

// ProvideRegistry 创建注册表并登记 Go 运行时与进程指标
func ProvideRegistry(logger *zap.Logger) ModuleOutput {
	reg := NewRegistry()
	if l := corelog.NewModuleZapLogger(logger, "metrics"); l != nil {
		l.Debug("指标注册表已创建")
	}
	return ModuleOutput{
		Registry:   reg,
		Registerer: reg,
		Gatherer:   reg,
	}
}

// NewRegistry 创建带默认采集器的注册表
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
