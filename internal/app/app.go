// Package app 负责装配并运行合约网关
//
// 启动流程：组装配置（环境变量 / .env / JSON配置文件 / 交互式私钥）→
// 创建fx应用（配置 → 日志 → 指标 → 合约客户端 → HTTP服务）→ 启动 → 等待退出信号。
package app

import (
	"context"
	"fmt"
	"sync"
)

// App 是网关应用的对外接口
type App interface {
	// Stop 停止应用，可重复调用
	Stop() error

	// Wait 阻塞直到收到 SIGINT/SIGTERM，然后停止应用
	Wait() error
}

// internalApp 网关应用的内部实现
type internalApp struct {
	bootstrap *Bootstrap

	stopOnce sync.Once
	stopErr  error
}

// Stop 停止应用
func (a *internalApp) Stop() error {
	a.stopOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
		defer cancel()
		a.stopErr = a.bootstrap.StopApp(ctx)
	})
	return a.stopErr
}

// Wait 等待应用收到退出信号
func (a *internalApp) Wait() error {
	sig := WaitForSignal()
	fmt.Printf("\n收到信号 %v，正在优雅退出...\n", sig)
	return a.Stop()
}

// Start 组装配置并启动网关
func Start(appOptions ...Option) (App, error) {
	return BootstrapApp(appOptions...)
}
