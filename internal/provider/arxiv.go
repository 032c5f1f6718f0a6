// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pdiddy/research-notebook/internal/httputil"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const defaultArxivResults = 5

// ArxivProvider queries the arXiv Atom API and answers in the paper-index
// payload shape: {"results": [{title, summary, authors, published, link, pdf_url}]}.
type ArxivProvider struct {
	Client     *http.Client
	UserAgent  string
	MaxRetries int
	Logger     *zap.Logger
}

// Name returns the provider identifier.
func (p *ArxivProvider) Name() string { return "arxiv" }

// Paper is one entry of the paper-index payload.
type Paper struct {
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Authors   []string `json:"authors"`
	Published string   `json:"published"`
	Link      string   `json:"link"`
	PDFURL    string   `json:"pdf_url,omitempty"`
}

// PaperPayload is the paper-index response body. Message replaces Results
// when nothing matched.
type PaperPayload struct {
	Results []Paper `json:"results,omitempty"`
	Message string  `json:"message,omitempty"`
}

// Call searches arXiv for req.Query.
func (p *ArxivProvider) Call(ctx context.Context, req Request) ([]byte, error) {
	query := strings.Join(strings.Fields(req.Query), " ")
	if query == "" {
		return nil, errors.New("empty arXiv query")
	}

	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = defaultArxivResults
	}

	params := url.Values{
		"search_query": {"all:" + query},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(maxResults)},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating request")
	}
	if p.UserAgent != "" {
		httpReq.Header.Set("User-Agent", p.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, p.Client, httpReq, p.MaxRetries, p.Logger)
	if err != nil {
		return nil, errors.Wrap(err, "arXiv API request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Backend: "arXiv API", Code: resp.StatusCode}
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, errors.Wrap(err, "parsing arXiv response")
	}

	payload := PaperPayload{Results: make([]Paper, 0, len(feed.Entries))}
	for _, entry := range feed.Entries {
		paper := Paper{
			Title:     collapse(entry.Title),
			Summary:   collapse(entry.Summary),
			Published: entry.Published,
			Link:      strings.TrimSpace(entry.ID),
			PDFURL:    entry.pdfLink(),
		}
		for _, a := range entry.Authors {
			paper.Authors = append(paper.Authors, strings.TrimSpace(a.Name))
		}
		payload.Results = append(payload.Results, paper)
	}
	if len(payload.Results) == 0 {
		payload = PaperPayload{Message: "No papers found matching your query."}
	}

	return json.Marshal(payload)
}

// collapse joins the lines of a wrapped Atom text field into one line.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
	Links     []arxivLink   `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// pdfLink returns the href of the link titled "pdf", if any.
func (e arxivEntry) pdfLink() string {
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			return l.Href
		}
	}
	return ""
}
