package version

import (
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildInfo(v string) func() (*debug.BuildInfo, bool) {
	return func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Path: "github.com/grovetools/vibediary", Version: v}}, true
	}
}

func TestResolveVersion(t *testing.T) {
	noInfo := func() (*debug.BuildInfo, bool) { return nil, false }

	assert.Equal(t, "v1.2.0", resolveVersion("v1.2.0", buildInfo("v0.9.0")), "ldflags win")
	assert.Equal(t, "v0.9.0", resolveVersion("", buildInfo("v0.9.0")), "go install records the module version")
	assert.Equal(t, "dev", resolveVersion("", buildInfo("(devel)")))
	assert.Equal(t, "dev", resolveVersion("", noInfo))
}

func TestInfoString(t *testing.T) {
	out := Info{Version: "v1.0.0", Commit: "abc123", Platform: "linux/amd64"}.String()

	assert.True(t, strings.HasPrefix(out, "vibediary v1.0.0\n"))
	assert.Contains(t, out, "Commit:    abc123")
	assert.Contains(t, out, "Platform:  linux/amd64")
}
