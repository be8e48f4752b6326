package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bethropolis/exscan/internal/exclusion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return root
}

func decide(m *IgnoreMatcher, rel string, isDir bool) Decision {
	abs := filepath.Join(m.RootDir(), filepath.FromSlash(rel))
	return m.Decide(abs, rel, isDir, !isDir)
}

func TestDecide_GitAndHidden(t *testing.T) {
	root := newTree(t, map[string]string{"a.txt": "a"})

	m, err := New(root, WithHiddenIgnore(true))
	require.NoError(t, err)

	assert.Equal(t, ReasonGit, decide(m, ".git", true).Reason)
	assert.Equal(t, ReasonGit, decide(m, "sub/.git/config", false).Reason)
	assert.Equal(t, ReasonHidden, decide(m, ".env", false).Reason)
	assert.Equal(t, ReasonHidden, decide(m, ".cache/x/y", false).Reason)
	assert.False(t, decide(m, "a.txt", false).Skip)
	assert.False(t, decide(m, ".", true).Skip, "root is never skipped")
}

func TestDecide_HiddenDisabledByDefault(t *testing.T) {
	m, err := New(t.TempDir())
	require.NoError(t, err)

	assert.False(t, decide(m, ".env", false).Skip)
	assert.False(t, decide(m, ".gitignore", false).Skip, "a file named like .git* is not a .git directory")
}

func TestDecide_PolicyExclusions(t *testing.T) {
	root := newTree(t, map[string]string{"secret/key": "k", "notes.txt": "n"})
	set := exclusion.NewSet([]string{filepath.Join(root, "secret") + "/", "*.iso", "core"})

	m, err := New(root, WithExclusions(set))
	require.NoError(t, err)

	d := decide(m, "secret", true)
	require.True(t, d.Skip)
	assert.Equal(t, ReasonExclusion, d.Reason)
	assert.Equal(t, exclusion.Stem, d.Exclusion.Type())

	assert.True(t, decide(m, "images/disk.iso", false).Skip)
	assert.True(t, decide(m, "crash/core", false).Skip)
	assert.False(t, decide(m, "crash/core", true).Skip, "filename exclusions skip files only")
	assert.False(t, decide(m, "notes.txt", false).Skip)

	special := m.Decide(filepath.Join(root, "crash/core"), "crash/core", false, false)
	assert.False(t, special.Skip, "special files are neither directories nor files")
}

func TestDecide_IgnoreFiles(t *testing.T) {
	root := newTree(t, map[string]string{
		DefaultIgnoreFile:          "*.log\n!keep.log\nbuild/\n",
		"app.log":                  "",
		"keep.log":                 "",
		"build/out.bin":            "",
		"src/main.go":              "",
		"src/" + DefaultIgnoreFile: "generated.go\n",
		"src/generated.go":         "",
		"other/generated.go":       "",
	})

	m, err := New(root, WithIgnoreFile(DefaultIgnoreFile))
	require.NoError(t, err)

	assert.Equal(t, ReasonIgnoreFile, decide(m, "app.log", false).Reason)
	assert.False(t, decide(m, "keep.log", false).Skip)
	assert.Equal(t, ReasonIgnoreFile, decide(m, "build", true).Reason)
	assert.False(t, decide(m, "src/main.go", false).Skip)
	assert.True(t, decide(m, "src/generated.go", false).Skip)
	assert.False(t, decide(m, "other/generated.go", false).Skip, "nested ignore files apply to their own subtree")
}

func TestDecide_IgnoreFilesOff(t *testing.T) {
	root := newTree(t, map[string]string{DefaultIgnoreFile: "*.log\n"})

	m, err := New(root)
	require.NoError(t, err)

	assert.False(t, decide(m, "app.log", false).Skip)
}

func TestDecide_NilAndDisabled(t *testing.T) {
	var m *IgnoreMatcher
	assert.False(t, m.ShouldIgnore("/x/.git", ".git", true, false))

	disabled := CreateDisabledMatcher()
	assert.False(t, disabled.ShouldIgnore("/x/.git", ".git", true, false))
}

func TestNewFromConfig(t *testing.T) {
	root := t.TempDir()
	m, err := NewFromConfig(Config{
		RootDir:      root,
		IgnoreHidden: true,
		IgnoreGit:    false,
		Exclusions:   exclusion.NewSet([]string{"*.bak"}),
	})
	require.NoError(t, err)

	assert.Equal(t, ReasonHidden, decide(m, ".git", true).Reason, "git rule off, hidden rule still applies")
	assert.Equal(t, ReasonExclusion, decide(m, "x.bak", false).Reason)
}
