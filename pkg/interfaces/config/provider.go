// Package config provides configuration provider interfaces.
package config

import (
	apiconfig "github.com/weisyn/contract-gateway/internal/config/api"
	contractconfig "github.com/weisyn/contract-gateway/internal/config/contract"
	logconfig "github.com/weisyn/contract-gateway/internal/config/log"
)

// Provider 配置提供者接口
type Provider interface {
	// GetAPI 获取API服务配置
	GetAPI() *apiconfig.APIOptions

	// GetContract 获取合约客户端配置
	GetContract() *contractconfig.ContractOptions

	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions
}
