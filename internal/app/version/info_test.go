package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
	assert.Contains(t, info.String(), Version)
}

func TestBuildInfo_RowsFormatsBuildTime(t *testing.T) {
	info := &BuildInfo{BuildTime: "2024-05-01T08:30:00Z"}
	rows := info.Rows()

	assert.Len(t, rows, 6)
	assert.Equal(t, []string{"构建时间", "2024-05-01 08:30:00 UTC"}, rows[2])

	info.BuildTime = "unknown"
	assert.Equal(t, "unknown", info.Rows()[2][1])
}
