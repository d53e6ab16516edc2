package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"github.com/weisyn/contract-gateway/pkg/types"
)

func TestNew_Defaults(t *testing.T) {
	opts := New(nil)

	assert.Equal(t, "info", opts.Level)
	assert.Empty(t, opts.FilePath)
	assert.Equal(t, 100, opts.Rotation.MaxSizeMB)
	assert.True(t, opts.Rotation.Compress)
}

func TestZapLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{level: "debug", want: zapcore.DebugLevel},
		{level: " WARN ", want: zapcore.WarnLevel},
		{level: "error", want: zapcore.ErrorLevel},
		{level: "verbose", want: zapcore.InfoLevel},
		{level: "", want: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			opts := New(&types.UserLogConfig{Level: types.StringPtr(tt.level)})
			assert.Equal(t, tt.want, opts.ZapLevel())
		})
	}
}
