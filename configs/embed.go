package configs

import _ "embed"

// 内置的合约ABI（CONTRACT_ABI_PATH 未设置时使用）
//
// getValue() view returns (uint256)
// setValue(uint256) nonpayable
//
//go:embed abi/simple_storage.json
var defaultContractABI []byte

// GetDefaultContractABI 获取内置合约ABI（JSON）
func GetDefaultContractABI() []byte {
	return defaultContractABI
}
