package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bethropolis/exscan/internal/exclusion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"policy.yaml", FormatYAML},
		{"policy.YML", FormatYAML},
		{"/etc/exscan/policy.json", FormatJSON},
		{"onaccess.xml", FormatXML},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := FormatFromPath("policy.toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParse_YAML(t *testing.T) {
	doc := `
name: servers
excludeHidden: true
ignoreFile: .scanignore
exclusions:
  - /proc/
  - "*.iso"
  - "  core  "
  - ""
  - "   "
  - /proc/
`
	p, err := Parse([]byte(doc), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "servers", p.Name)
	assert.True(t, p.ExcludeHidden)
	assert.Equal(t, ".scanignore", p.IgnoreFile)
	assert.Equal(t, []string{"/proc/", "*.iso", "  core  "}, p.Exclusions)
}

func TestParse_JSON(t *testing.T) {
	doc := `{"name": "desktop", "exclusions": ["/home/*/Downloads/", "cache/"]}`

	p, err := Parse([]byte(doc), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, "desktop", p.Name)
	assert.False(t, p.ExcludeHidden)
	assert.Equal(t, []string{"/home/*/Downloads/", "cache/"}, p.Exclusions)
}

func TestParse_XML(t *testing.T) {
	doc := `<?xml version="1.0"?>
<policy name="on-access">
  <onAccessScan>
    <excludeHidden>true</excludeHidden>
    <exclusions>
      <filePath>/mnt/</filePath>
      <filePath>
        *.vmdk
      </filePath>
      <filePath>relative/path</filePath>
    </exclusions>
  </onAccessScan>
</policy>`

	p, err := Parse([]byte(doc), FormatXML)
	require.NoError(t, err)

	assert.Equal(t, "on-access", p.Name)
	assert.True(t, p.ExcludeHidden)
	assert.Equal(t, []string{"/mnt/", "*.vmdk", "relative/path"}, p.Exclusions)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("exclusions: [unclosed"), FormatYAML)
	assert.Error(t, err)

	_, err = Parse([]byte("{"), FormatJSON)
	assert.Error(t, err)

	_, err = Parse([]byte("<policy>"), FormatXML)
	assert.Error(t, err)

	_, err = Parse([]byte("x"), Format("ini"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exclusions: [/tmp/]\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/tmp/"}, p.Exclusions)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(filepath.Join(dir, "policy.txt"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestMerge(t *testing.T) {
	p := &Policy{Name: "base", Exclusions: []string{"/a/", "b"}}

	merged := p.Merge([]string{" c ", "/a/", "", "\t"})

	assert.Equal(t, []string{"/a/", "b", " c "}, merged.Exclusions)
	assert.Equal(t, "base", merged.Name)
	assert.Equal(t, []string{"/a/", "b"}, p.Exclusions, "original untouched")

	var none *Policy
	assert.Equal(t, []string{"x"}, none.Merge([]string{"x"}).Exclusions)
}

func TestCompile(t *testing.T) {
	p := &Policy{Exclusions: []string{"/var/lib/docker/", "*.qcow2"}}
	set := p.Compile()

	require.Equal(t, 2, set.Len())
	assert.Equal(t, exclusion.Stem, set.Exclusions()[0].Type())
	assert.True(t, set.Excluded("/var/lib/docker/overlay2/x", false, true))
	assert.True(t, set.Excluded("/srv/vm/disk.qcow2", false, true))

	var none *Policy
	assert.Equal(t, 0, none.Compile().Len())
}

func TestCompile_KeepsSurroundingSpaces(t *testing.T) {
	p, err := Parse([]byte(`{"exclusions": ["report.txt "]}`), FormatJSON)
	require.NoError(t, err)

	set := p.Compile()
	require.Equal(t, 1, set.Len())
	assert.Equal(t, "report.txt ", set.Exclusions()[0].DisplayPath())
	assert.True(t, set.Excluded("/home/u/report.txt ", false, true))
	assert.False(t, set.Excluded("/home/u/report.txt", false, true))
}
