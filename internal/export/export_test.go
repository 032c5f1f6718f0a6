package export

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-notebook/internal/format"
	"github.com/pdiddy/research-notebook/pkg/types"
)

var unit = RuneWidthMeasurer{CharWidth: 1}

func TestToMarkdown(t *testing.T) {
	doc := "## Query: x\n\n### T\n\n**Summary:**\n\nfirst<br>\nsecond\n\n[Download PDF](http://x/pdf)\n\n"
	got := ToMarkdown(doc)

	assert.Equal(t, doc, got.Markdown)
	assert.Contains(t, got.HTML, "Query: x</h2>")
	assert.Contains(t, got.HTML, "<strong>Summary:</strong>")
	assert.Contains(t, got.HTML, `href="http://x/pdf"`)
	assert.Contains(t, got.HTML, "<br")
}

func TestRenderHTMLSanitizes(t *testing.T) {
	got := RenderHTML("### T\n\n<script>alert(1)</script>\n\n<a href=\"javascript:alert(1)\">click</a>\n\n[x](javascript:alert(1))\n\n<img src=x onerror=alert(1)>\n")
	assert.NotContains(t, got, "<script")
	assert.NotContains(t, got, "<a href=\"javascript")
	assert.NotContains(t, got, `href="javascript`)
	assert.NotContains(t, got, "<img")
}

func TestRenderHTMLKeepsProviderText(t *testing.T) {
	doc := format.Batch([]types.SearchResult{{Title: "Bounds", Summary: "We show that x<y and y>z imply p<q."}}, types.SourceWeb, "q")
	got := RenderHTML(doc)
	assert.Contains(t, got, "We show that x&lt;y and y&gt;z imply p&lt;q.")

	rag := format.Format(types.SearchResult{Title: "R", Summary: "a<b\nc"}, types.SourceRAG)
	got = RenderHTML(rag)
	assert.Contains(t, got, "a&lt;b<br")
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "paper fragment",
			in:   "## Query: q\n\n### T\n\n**Summary:**\n\nbody\n\n[Download PDF](http://x/pdf)\n\n",
			want: "Query: q\n\nT\n\nSummary:\n\nbody\n\nDownload PDF (http://x/pdf)",
		},
		{
			name: "line break markers",
			in:   "one<br>\ntwo<br>\nthree",
			want: "one\ntwo\nthree",
		},
		{
			name: "smart label and read more",
			in:   "**Smart Query Result**\n\n### T\n\nbody\n\n[Read More](https://x/a_(b))\n\n",
			want: "Smart Query Result\n\nT\n\nbody\n\nRead More (https://x/a_(b))",
		},
		{
			name: "comparisons in provider text",
			in:   "We show that x<y and y>z imply p<q.",
			want: "We show that x<y and y>z imply p<q.",
		},
		{
			name: "dunder names",
			in:   "Override __init__ and __repr__",
			want: "Override __init__ and __repr__",
		},
		{
			name: "double star in provider text",
			in:   "2**10 bytes",
			want: "2**10 bytes",
		},
		{
			name: "provider links and tags are text",
			in:   "see [docs](http://d) and <b>this</b> & that",
			want: "see [docs](http://d) and <b>this</b> & that",
		},
		{
			name: "heading marker inside a line",
			in:   "C# and ### mid-line",
			want: "C# and ### mid-line",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width float64
		want  []string
	}{
		{"fits", "short line", 20, []string{"short line"}},
		{"word boundaries", "the quick brown fox", 10, []string{"the quick", "brown fox"}},
		{"forced breaks", "a\n\nb", 10, []string{"a", "", "b"}},
		{"collapses spaces", "a    b", 10, []string{"a b"}},
		{"overlong word", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"overlong after word", "x abcdefghij", 4, []string{"x", "abcd", "efgh", "ij"}},
		{"continues after break", "abcdef gh", 4, []string{"abcd", "ef", "gh"}},
		{"narrower than a rune", "ab", 0.5, []string{"a", "b"}},
		{"wide runes", "日本語", 4, []string{"日本", "語"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Wrap(tt.text, tt.width, unit))
		})
	}
}

func TestWrapNeverExceedsWidth(t *testing.T) {
	text := strings.Repeat("lorem ipsum dolor sit amet consectetur adipiscing ", 20)
	for _, width := range []float64{5, 8, 13, 40} {
		for _, line := range Wrap(text, width, unit) {
			assert.LessOrEqual(t, unit.Width(line), width, "line %q", line)
		}
	}
}

func TestWrapPreservesWords(t *testing.T) {
	text := "alpha beta gamma delta epsilon zeta eta theta"
	lines := Wrap(text, 12, unit)
	assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(lines, " ")))
}

func smallPage() types.PageConfig {
	return types.PageConfig{Width: 60, Height: 100, LineHeight: 25, Margin: 20, FontSize: 10}
}

func pageSizes(pages []Page) []int {
	sizes := make([]int, len(pages))
	for i, p := range pages {
		sizes[i] = len(p.Lines)
	}
	return sizes
}

func TestPaginateSplitsPages(t *testing.T) {
	lines := []string{"one", "two", "three", "four", "five"}
	pages := Paginate(lines, smallPage())

	require.Equal(t, []int{2, 2, 1}, pageSizes(pages))

	var got []string
	for _, p := range pages {
		assert.Equal(t, 20.0, p.Lines[0].Y)
		for _, l := range p.Lines {
			got = append(got, l.Text)
		}
	}
	assert.Equal(t, lines, got)
	assert.Equal(t, 45.0, pages[0].Lines[1].Y)
}

func TestPaginateDegenerateGeometry(t *testing.T) {
	cfg := types.PageConfig{Height: 10, LineHeight: 50, Margin: 5}
	pages := Paginate([]string{"a", "b"}, cfg)
	assert.Equal(t, []int{1, 1}, pageSizes(pages))
}

func TestToPaginatedPages(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		cfg := types.DefaultConfig().Page
		doc := "## Query: q\n\n### Title\n\nA short summary.\n\n"
		pages := ToPaginatedPages(doc, cfg, MonospaceMeasurer(cfg))

		require.Len(t, pages, 1)
		var got []string
		for _, l := range pages[0].Lines {
			got = append(got, l.Text)
		}
		assert.Equal(t, []string{"Query: q", "", "Title", "", "A short summary."}, got)
	})

	t.Run("provider text survives layout", func(t *testing.T) {
		cfg := types.DefaultConfig().Page
		doc := format.Batch([]types.SearchResult{{Title: "Bounds", Summary: "We show that x<y and y>z imply p<q."}}, types.SourceWeb, "q")
		pages := ToPaginatedPages(doc, cfg, MonospaceMeasurer(cfg))

		require.Len(t, pages, 1)
		var got []string
		for _, l := range pages[0].Lines {
			got = append(got, l.Text)
		}
		assert.Contains(t, got, "We show that x<y and y>z imply p<q.")
	})

	t.Run("page boundary", func(t *testing.T) {
		pages := ToPaginatedPages("a\nb\nc\nd\ne", smallPage(), unit)
		assert.Equal(t, []int{2, 2, 1}, pageSizes(pages))
	})

	t.Run("deterministic", func(t *testing.T) {
		doc := strings.Repeat("### Heading\n\nSome words that need wrapping across lines.\n\n", 40)
		cfg := types.DefaultConfig().Page
		assert.Equal(t, ToPaginatedPages(doc, cfg, MonospaceMeasurer(cfg)), ToPaginatedPages(doc, cfg, MonospaceMeasurer(cfg)))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, ToPaginatedPages("", smallPage(), unit))
	})
}

type recordingDrawer struct {
	calls []string
}

func (d *recordingDrawer) NewPage() { d.calls = append(d.calls, "page") }

func (d *recordingDrawer) DrawLine(x, y float64, text string) {
	d.calls = append(d.calls, fmt.Sprintf("%.0f,%.0f:%s", x, y, text))
}

func TestRender(t *testing.T) {
	pages := Paginate([]string{"a", "b", "c"}, smallPage())
	d := &recordingDrawer{}
	Render(pages, 20, d)

	assert.Equal(t, []string{"page", "20,20:a", "20,45:b", "page", "20,20:c"}, d.calls)
}

func TestWritePDF(t *testing.T) {
	cfg := types.DefaultConfig().Page
	pages := ToPaginatedPages("### Title\n\nSummary with a [link](http://x) and ünïcode.\n", cfg, MonospaceMeasurer(cfg))

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, pages, cfg))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	buf.Reset()
	require.NoError(t, WritePDF(&buf, nil, cfg))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
