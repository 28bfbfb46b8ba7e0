package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleTable(t *testing.T) {
	out := SimpleTable([]string{"SESSION", "PROJECT"}, [][]string{
		{"abc", "api"},
		{"def", "web"},
	})

	for _, want := range []string{"SESSION", "PROJECT", "abc", "api", "def", "web"} {
		assert.Contains(t, out, want)
	}
	assert.True(t, strings.Index(out, "abc") < strings.Index(out, "def"), "rows keep their order")
}

func TestStatusTable(t *testing.T) {
	out := StatusTable([][2]string{{"Project", "api"}, {"Duration", "5 minutes"}})
	assert.Contains(t, out, "Project:")
	assert.Contains(t, out, "5 minutes")
	assert.NotContains(t, out, "╭")
}
