package log

import (
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/weisyn/contract-gateway/pkg/types"
)

// LogOptions 日志配置选项
//
// 控制台始终输出；设置 FilePath 后额外写入按大小轮转的JSON文件。
type LogOptions struct {
	Level    string          `json:"level"`     // debug, info, warn, error
	FilePath string          `json:"file_path"` // 为空时不写文件
	Rotation RotationOptions `json:"rotation"`
}

// RotationOptions 文件轮转参数
type RotationOptions struct {
	MaxSizeMB  int  `json:"max_size_mb"`
	MaxBackups int  `json:"max_backups"`
	MaxAgeDays int  `json:"max_age_days"`
	Compress   bool `json:"compress"`
}

// New 用户配置覆盖默认值
func New(userConfig *types.UserLogConfig) *LogOptions {
	opts := &LogOptions{
		Level: defaultLogLevel,
		Rotation: RotationOptions{
			MaxSizeMB:  defaultMaxSizeMB,
			MaxBackups: defaultMaxBackups,
			MaxAgeDays: defaultMaxAgeDays,
			Compress:   defaultCompress,
		},
	}
	if userConfig == nil {
		return opts
	}
	if userConfig.Level != nil && strings.TrimSpace(*userConfig.Level) != "" {
		opts.Level = strings.ToLower(strings.TrimSpace(*userConfig.Level))
	}
	if userConfig.FilePath != nil {
		opts.FilePath = strings.TrimSpace(*userConfig.FilePath)
	}
	return opts
}

// ZapLevel 解析日志级别，无法识别时使用info
func (o *LogOptions) ZapLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(o.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}
