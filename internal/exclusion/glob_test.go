package exclusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateGlob(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"/foo/*.txt", `/foo/.*\.txt`},
		{"*/*", `.*/.*`},
		{"a?b", `a.b`},
		{"**", `.*.*`},
		{"*", `.*`},
		{"", ``},
		{`a\b*`, `a\\b.*`},
		{"/x/(y)|z^$+{[", `/x/\(y\)\|z\^\$\+\{\[`},
		// closing delimiters are not escaped
		{"/x/]}", `/x/]}`},
		{"?*?", `..*.`},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, translateGlob(tt.pattern))
		})
	}
}

func TestCompileGlob_WholeStringOnly(t *testing.T) {
	re, err := compileGlob("/a/*")
	require.NoError(t, err)

	assert.True(t, re.MatchString("/a/"))
	assert.True(t, re.MatchString("/a/b/c"))
	assert.False(t, re.MatchString("x/a/b"))
}

func TestCompileGlob_ClosingDelimitersCompile(t *testing.T) {
	re, err := compileGlob("*/a]b}c")
	require.NoError(t, err)

	assert.True(t, re.MatchString("/x/a]b}c"))
}

func TestWiden(t *testing.T) {
	assert.Equal(t, "/plain/ascii", widen("/plain/ascii"))
	assert.Equal(t, "café", widen("caf\xe9"))
	assert.Equal(t, "Ã©", widen("\xc3\xa9"))
	assert.Equal(t, "", widen(""))
}
