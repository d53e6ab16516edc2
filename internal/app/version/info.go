// Package version provides version information for the application.
package version

import (
	"fmt"
	"runtime"
	"time"
)

// 构建时注入的变量，通过ldflags设置
//
//	go build -ldflags "-X github.com/weisyn/contract-gateway/internal/app/version.Version=v1.0.0"
var (
	Version   = "v0.1.0"      // 语义化版本
	GitCommit = "unknown"     // 构建提交
	BuildTime = "unknown"     // 构建时间戳（RFC3339格式）
	BuildEnv  = "development" // 构建环境：development, production
)

// BuildInfo 完整构建信息结构
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	BuildEnv  string `json:"build_env"`

	// 运行时信息
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetBuildInfo 获取完整构建信息
func GetBuildInfo() *BuildInfo {
	return &BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		BuildEnv:  BuildEnv,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Rows 以键值行输出，供命令行表格渲染
func (b *BuildInfo) Rows() [][]string {
	buildTime := b.BuildTime
	if parsed, err := time.Parse(time.RFC3339, buildTime); err == nil {
		buildTime = parsed.Format("2006-01-02 15:04:05 MST")
	}
	return [][]string{
		{"版本", b.Version},
		{"提交", b.GitCommit},
		{"构建时间", buildTime},
		{"构建环境", b.BuildEnv},
		{"Go版本", b.GoVersion},
		{"平台", b.Platform},
	}
}

// String 单行版本描述
func (b *BuildInfo) String() string {
	return fmt.Sprintf("contract-gateway %s (%s, %s)", b.Version, b.GitCommit, b.Platform)
}
