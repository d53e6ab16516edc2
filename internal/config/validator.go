package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/weisyn/contract-gateway/pkg/interfaces/config"
)

// ValidationError 配置验证错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("配置验证失败 [%s]: %s", e.Field, e.Message)
}

// ValidateMandatoryConfig 验证必填配置项
//
// 📋 **必填配置项**：
// - RPC_URL: 节点RPC地址（http/https/ws/wss，或IPC文件路径）
// - PRIVATE_KEY: 签名私钥（secp256k1，十六进制）
// - CONTRACT_ADDRESS: 目标合约地址
//
// 端口等有默认值的配置只校验取值范围。
func ValidateMandatoryConfig(provider config.Provider) error {
	var errors []error

	contractOptions := provider.GetContract()

	// 1. RPC地址
	if contractOptions.RPCURL == "" {
		errors = append(errors, &ValidationError{
			Field:   "RPC_URL",
			Message: "节点RPC地址不能为空",
		})
	} else if u, err := url.Parse(contractOptions.RPCURL); err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https", "ws", "wss":
		default:
			errors = append(errors, &ValidationError{
				Field:   "RPC_URL",
				Message: fmt.Sprintf("不支持的RPC协议: %s", u.Scheme),
			})
		}
	}

	// 2. 签名私钥
	if contractOptions.PrivateKey == "" {
		errors = append(errors, &ValidationError{
			Field:   "PRIVATE_KEY",
			Message: "签名私钥不能为空",
		})
	} else if _, err := crypto.HexToECDSA(contractOptions.PrivateKeyHex()); err != nil {
		// 不回显私钥内容
		errors = append(errors, &ValidationError{
			Field:   "PRIVATE_KEY",
			Message: fmt.Sprintf("签名私钥格式无效: %v", err),
		})
	}

	// 3. 合约地址
	if contractOptions.Address == "" {
		errors = append(errors, &ValidationError{
			Field:   "CONTRACT_ADDRESS",
			Message: "合约地址不能为空",
		})
	} else if !common.IsHexAddress(contractOptions.Address) {
		errors = append(errors, &ValidationError{
			Field:   "CONTRACT_ADDRESS",
			Message: fmt.Sprintf("合约地址格式无效: %q", contractOptions.Address),
		})
	}

	// 4. 监听端口，0 表示由系统分配
	if port := provider.GetAPI().HTTP.Port; port < 0 || port > 65535 {
		errors = append(errors, &ValidationError{
			Field:   "PORT",
			Message: fmt.Sprintf("监听端口超出范围: %d", port),
		})
	}

	if len(errors) > 0 {
		return &ValidationErrors{Errors: errors}
	}

	return nil
}

// ValidationErrors 多个验证错误
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	msg := "配置验证失败，发现以下问题：\n"
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}
