// Package config 提供应用配置管理功能
package config

import (
	"fmt"

	apiconfig "github.com/weisyn/contract-gateway/internal/config/api"
	contractconfig "github.com/weisyn/contract-gateway/internal/config/contract"
	"github.com/weisyn/contract-gateway/pkg/interfaces/config"
	"github.com/weisyn/contract-gateway/pkg/types"
	"go.uber.org/fx"
)

// ConfigParams 定义配置模块的依赖参数
type ConfigParams struct {
	fx.In

	// 应用配置选项
	AppOptions config.AppOptions `optional:"true"`
}

// ConfigOutput 定义配置模块的输出结构
type ConfigOutput struct {
	fx.Out

	// 配置提供者
	Provider config.Provider
}

// Module 返回配置模块
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			ProvideConfigServices,
			// 提供具体的配置类型用于依赖注入
			func(provider config.Provider) *apiconfig.APIOptions {
				return provider.GetAPI()
			},
			func(provider config.Provider) *contractconfig.ContractOptions {
				return provider.GetContract()
			},
		),
	)
}

// ProvideConfigServices 提供配置服务
// 启动阶段即完成必填项校验，缺失时fx启动失败
func ProvideConfigServices(params ConfigParams) (ConfigOutput, error) {
	var appConfig *types.AppConfig
	if params.AppOptions != nil {
		appConfig = params.AppOptions.GetAppConfig()
	}

	provider := NewProvider(appConfig)

	if err := ValidateMandatoryConfig(provider); err != nil {
		return ConfigOutput{}, fmt.Errorf("配置校验失败: %w", err)
	}

	return ConfigOutput{
		Provider: provider,
	}, nil
}
