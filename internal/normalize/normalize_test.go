package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-notebook/pkg/types"
)

func TestNormalizePaperIndex(t *testing.T) {
	payload := `{"results": [
		{"title": "Transformers Paper", "summary": "Attention.", "pdf_url": "http://x/pdf"},
		{"title": "Second", "summary": "line one\nline two"},
		{"title": "Third", "summary": "no pdf", "pdf_url": null}
	]}`

	got := Normalize(types.SourcePaperIndex, []byte(payload))
	require.Len(t, got, 3)
	assert.Equal(t, types.SearchResult{Title: "Transformers Paper", Summary: "Attention.", PDFURL: "http://x/pdf"}, got[0])
	assert.Equal(t, "line one\nline two", got[1].Summary)
	assert.Empty(t, got[2].PDFURL)
}

func TestNormalizeCardinality(t *testing.T) {
	tests := []struct {
		name    string
		source  types.Source
		payload string
		want    []types.SearchResult
	}{
		{
			name:    "rag content",
			source:  types.SourceRAG,
			payload: `{"choices": [{"message": {"role": "assistant", "content": "answer\nmore"}}]}`,
			want:    []types.SearchResult{{Title: RAGTitle, Summary: "answer\nmore"}},
		},
		{
			name:    "rag empty choices",
			source:  types.SourceRAG,
			payload: `{"choices": []}`,
			want:    []types.SearchResult{types.NoResults},
		},
		{
			name:    "rag message without content",
			source:  types.SourceRAG,
			payload: `{"choices": [{"message": {}}]}`,
			want:    []types.SearchResult{types.NoResults},
		},
		{
			name:    "rag error body",
			source:  types.SourceRAG,
			payload: `{"error": "boom"}`,
			want:    []types.SearchResult{types.NoResults},
		},
		{
			name:    "web context",
			source:  types.SourceWeb,
			payload: `{"context": "the web says"}`,
			want:    []types.SearchResult{{Title: WebTitle, Summary: "the web says"}},
		},
		{
			name:    "web context with url",
			source:  types.SourceWeb,
			payload: `{"context": "the web says", "url": "https://example.com"}`,
			want:    []types.SearchResult{{Title: WebTitle, Summary: "the web says", URL: "https://example.com"}},
		},
		{
			name:    "web context wrong type",
			source:  types.SourceWeb,
			payload: `{"context": 42}`,
			want:    []types.SearchResult{types.NoResults},
		},
		{
			name:    "paper missing results",
			source:  types.SourcePaperIndex,
			payload: `{"message": "No papers found matching your query."}`,
			want:    []types.SearchResult{types.NoResults},
		},
		{
			name:    "paper results not an array",
			source:  types.SourcePaperIndex,
			payload: `{"results": "nope"}`,
			want:    []types.SearchResult{types.NoResults},
		},
		{
			name:    "paper results empty",
			source:  types.SourcePaperIndex,
			payload: `{"results": []}`,
			want:    []types.SearchResult{types.NoResults},
		},
		{
			name:    "smart results",
			source:  types.SourceSmart,
			payload: `{"results": [{"title": "A", "summary": "a"}]}`,
			want:    []types.SearchResult{{Title: "A", Summary: "a"}},
		},
		{
			name:    "smart context",
			source:  types.SourceSmart,
			payload: `{"context": "ctx"}`,
			want:    []types.SearchResult{{Title: WebTitle, Summary: "ctx"}},
		},
		{
			name:    "smart neither",
			source:  types.SourceSmart,
			payload: `{"choices": []}`,
			want:    []types.SearchResult{types.NoResults},
		},
		{
			name:    "error source",
			source:  types.SourceError,
			payload: `{"context": "ignored"}`,
			want:    []types.SearchResult{types.NoResults},
		},
		{
			name:    "top-level array",
			source:  types.SourcePaperIndex,
			payload: `[1, 2, 3]`,
			want:    []types.SearchResult{types.NoResults},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.source, []byte(tt.payload)))
		})
	}
}

func TestNormalizeSkipsUnusableEntries(t *testing.T) {
	payload := `{"results": ["str", {"pdf_url": "x"}, {"title": "Kept", "summary": "yes"}]}`
	got := Normalize(types.SourcePaperIndex, []byte(payload))
	require.Len(t, got, 1)
	assert.Equal(t, "Kept", got[0].Title)
}
