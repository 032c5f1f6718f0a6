package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-notebook/internal/notebook"
	"github.com/pdiddy/research-notebook/pkg/types"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	setDefaults(types.DefaultConfig())
	viper.SetEnvPrefix("RESEARCH_NOTEBOOK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func TestLoadConfigDefaults(t *testing.T) {
	resetViper(t)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig(), cfg)
}

func TestLoadConfigOverrides(t *testing.T) {
	resetViper(t)
	t.Setenv("RESEARCH_NOTEBOOK_DISPATCH_TIMEOUT", "5s")
	t.Setenv("RESEARCH_NOTEBOOK_DISPATCH_WEB_ENDPOINT", "http://localhost:9000/web")

	path := filepath.Join(t.TempDir(), "research-notebook.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dispatch:\n  max_results: 9\npage:\n  margin: 20\n"), 0o644))
	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Dispatch.Timeout)
	assert.Equal(t, "http://localhost:9000/web", cfg.Dispatch.Web.Endpoint)
	assert.Equal(t, 9, cfg.Dispatch.MaxResults)
	assert.Equal(t, 20.0, cfg.Page.Margin)
	assert.Equal(t, 842.0, cfg.Page.Height)
}

func TestNeedsCorpus(t *testing.T) {
	assert.False(t, needsCorpus([]types.Source{types.SourcePaperIndex, types.SourceWeb}))
	assert.True(t, needsCorpus([]types.Source{types.SourceRAG}))
	assert.True(t, needsCorpus([]types.Source{types.SourceSmart}))
}

func TestWriteOutputs(t *testing.T) {
	session := notebook.NewSession(nil, notebook.Options{})
	session.Replay([]notebook.Entry{{
		Query:   "q",
		Source:  types.SourceWeb,
		Results: []types.SearchResult{{Title: "Web Search Result", Summary: "answer", URL: "https://example.com"}},
	}})

	dir := t.TempDir()
	out := outputFlags{
		markdown: filepath.Join(dir, "doc.md"),
		html:     filepath.Join(dir, "doc.html"),
		pdf:      filepath.Join(dir, "doc.pdf"),
	}
	require.NoError(t, writeOutputs(session, out))

	md, err := os.ReadFile(out.markdown)
	require.NoError(t, err)
	assert.Equal(t, session.Document(), string(md))

	html, err := os.ReadFile(out.html)
	require.NoError(t, err)
	assert.Contains(t, string(html), `href="https://example.com"`)

	pdf, err := os.ReadFile(out.pdf)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF-"))
}

func TestWriteOutputsWrapsErrors(t *testing.T) {
	session := notebook.NewSession(nil, notebook.Options{})
	missing := filepath.Join(t.TempDir(), "absent", "doc.md")

	err := writeOutputs(session, outputFlags{markdown: missing})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "writing markdown: "), err.Error())
	assert.True(t, os.IsNotExist(errors.Cause(err)), "cause = %v", errors.Cause(err))
}
