package types

import (
	"strings"
	"testing"
)

func TestParseSource(t *testing.T) {
	tests := []struct {
		in   string
		want Source
	}{
		{"paper-index", SourcePaperIndex},
		{" ArXiv ", SourcePaperIndex},
		{"rag", SourceRAG},
		{"search", SourceWeb},
		{"smart", SourceSmart},
	}
	for _, tt := range tests {
		got, err := ParseSource(tt.in)
		if err != nil {
			t.Errorf("ParseSource(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSource(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseSourceErrorListsSources(t *testing.T) {
	_, err := ParseSource("gopher")
	if err == nil {
		t.Fatal("expected error for unknown source")
	}
	for _, src := range Sources {
		if !strings.Contains(err.Error(), string(src)) {
			t.Errorf("error %q does not name %s", err, src)
		}
	}
	if strings.Contains(err.Error(), string(SourceError)) {
		t.Errorf("error %q names the non-searchable error source", err)
	}
}

func TestSourceNames(t *testing.T) {
	want := "paper-index,retrieval-augmented,web,smart"
	if got := SourceNames(","); got != want {
		t.Errorf("SourceNames = %q, want %q", got, want)
	}
}

func TestParseSources(t *testing.T) {
	got, err := ParseSources("web, rag,,smart")
	if err != nil {
		t.Fatalf("ParseSources: %v", err)
	}
	want := []Source{SourceWeb, SourceRAG, SourceSmart}
	if len(got) != len(want) {
		t.Fatalf("ParseSources = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseSources[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	if _, err := ParseSources(" , "); err == nil {
		t.Error("expected error for an empty list")
	}
}
