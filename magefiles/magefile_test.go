//go:build mage

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountGoLines(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("a/a.go", "package a\n\n  \t\nfunc A() {}\n")
	write("a/a_test.go", "package a\n\nfunc TestA() {}\n")
	write("b/c/c.go", "package c\r\n\r\nvar X = 1")
	write("b/notes.md", "not go\n")

	prod, test := map[string]int{}, map[string]int{}
	require.NoError(t, countGoLines(root, prod, test))

	rel := func(dir string) string { return filepath.ToSlash(filepath.Join(root, dir)) }
	assert.Equal(t, map[string]int{rel("a"): 2, rel("b/c"): 2}, prod)
	assert.Equal(t, map[string]int{rel("a"): 2}, test)
}

func TestCountGoLinesMissingRoot(t *testing.T) {
	prod, test := map[string]int{}, map[string]int{}
	assert.NoError(t, countGoLines(filepath.Join(t.TempDir(), "absent"), prod, test))
	assert.Empty(t, prod)
	assert.Empty(t, test)
}
