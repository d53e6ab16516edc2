package log

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	logconfig "github.com/weisyn/contract-gateway/internal/config/log"
	"github.com/weisyn/contract-gateway/pkg/types"
)

// TestWithAddsStructuredFields 测试With附加的结构化字段
func TestWithAddsStructuredFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewFromZap(zap.New(core))

	logger.With("function", "setValue", "mutating", true).Info("合约调用")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "合约调用", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "setValue", fields["function"])
	assert.Equal(t, true, fields["mutating"])
}

// TestWithOddArgsDropsDanglingKey 奇数个参数时丢弃最后一个
func TestWithOddArgsDropsDanglingKey(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := NewFromZap(zap.New(core))

	logger.With("k1", "v1", "dangling").Info("odd")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Len(t, fields, 1)
	assert.Equal(t, "v1", fields["k1"])
}

// TestLevelFiltering 测试级别过滤
func TestLevelFiltering(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := NewFromZap(zap.New(core))

	logger.Debug("debug")
	logger.Infof("info %d", 1)
	logger.Warnf("warn %d", 2)
	logger.Error("error")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "warn 2", logs.All()[0].Message)
	assert.Equal(t, "error", logs.All()[1].Message)
}

// TestNewWritesJSONFile 测试文件输出为JSON格式
func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gateway.log")
	opts := logconfig.New(&types.UserLogConfig{
		Level:    types.StringPtr("debug"),
		FilePath: types.StringPtr(path),
	})

	logger, err := New(opts)
	require.NoError(t, err)

	logger.With("request_id", "abc").Debug("写入文件")
	_ = logger.Sync()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan(), "日志文件应至少包含一行")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
	assert.Equal(t, "写入文件", entry["message"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "abc", entry["request_id"])
}

// TestNewFailsOnUnwritableDir 日志目录无法创建时报错
func TestNewFailsOnUnwritableDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	_, err := New(logconfig.New(&types.UserLogConfig{
		FilePath: types.StringPtr(filepath.Join(blocker, "sub", "gateway.log")),
	}))
	assert.Error(t, err)
}

func TestNewModuleLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := NewFromZap(zap.New(core))

	NewModuleLogger(base, "contract").Info("ready")
	NewModuleZapLogger(base.GetZapLogger(), "http").Info("ready")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "contract", logs.All()[0].ContextMap()["module"])
	assert.Equal(t, "http", logs.All()[1].ContextMap()["module"])

	assert.Nil(t, NewModuleLogger(nil, "contract"))
	assert.Nil(t, NewModuleZapLogger(nil, "http"))
}
