package api

import (
	"github.com/weisyn/contract-gateway/internal/api/http"
	"go.uber.org/fx"
)

// Module 返回API模块选项
// 目前只有HTTP一种对外接口
func Module() fx.Option {
	return fx.Module("api",
		http.Module(),

		// 显式依赖服务器实例，确保其生命周期钩子被注册
		fx.Invoke(func(*http.Server) {}),
	)
}
