package contract

import "time"

// 合约客户端默认配置值
const (
	// defaultABIPath 为空表示使用 configs 中内置的 getValue/setValue ABI
	defaultABIPath = ""

	// defaultDialTimeout 启动期连接节点的超时
	// 只作用于启动阶段（chainId查询），不影响请求处理
	defaultDialTimeout = 10 * time.Second
)
