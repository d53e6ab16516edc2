package log

const (
	defaultLogLevel = "info"

	// 轮转：单文件100MB，保留10个备份或30天，历史文件压缩
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 10
	defaultMaxAgeDays = 30
	defaultCompress   = true
)
