package config

import (
	"github.com/weisyn/contract-gateway/internal/config/api"
	"github.com/weisyn/contract-gateway/internal/config/contract"
	"github.com/weisyn/contract-gateway/internal/config/log"
	"github.com/weisyn/contract-gateway/pkg/interfaces/config"
	"github.com/weisyn/contract-gateway/pkg/types"
)

// Provider 实现配置提供者接口
type Provider struct {
	appConfig *types.AppConfig
}

// NewProvider 创建配置提供者
func NewProvider(appConfig *types.AppConfig) config.Provider {
	return &Provider{
		appConfig: appConfig,
	}
}

// GetAPI 获取API服务配置
func (p *Provider) GetAPI() *api.APIOptions {
	// 直接传递用户API配置给api.New，让它处理默认值和转换
	var userAPIConfig *types.UserAPIConfig
	if p.appConfig != nil && p.appConfig.API != nil {
		userAPIConfig = p.appConfig.API
	}

	return api.New(userAPIConfig).GetOptions()
}

// GetContract 获取合约客户端配置
func (p *Provider) GetContract() *contract.ContractOptions {
	var userContractConfig *types.UserContractConfig
	if p.appConfig != nil && p.appConfig.Contract != nil {
		userContractConfig = p.appConfig.Contract
	}

	return contract.New(userContractConfig).GetOptions()
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *log.LogOptions {
	var userLogConfig *types.UserLogConfig
	if p.appConfig != nil && p.appConfig.Log != nil {
		userLogConfig = p.appConfig.Log
	}

	return log.New(userLogConfig)
}
