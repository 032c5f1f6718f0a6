// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pdiddy/research-notebook/internal/notebook"
	"github.com/pdiddy/research-notebook/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Send a query to one or more sources and build the research document",
	Long: `Query dispatches a free-text query to each requested source concurrently.
Every source's results are appended to the research document as soon as that
source answers. A source that fails contributes a visible error entry instead
of aborting the run.

Sources: paper-index (alias arxiv), retrieval-augmented (alias rag), web, smart.`,
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("query")
	if text == "" && len(args) > 0 {
		text = strings.Join(args, " ")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("query is empty: provide --query or a positional argument")
	}

	sourceList, _ := cmd.Flags().GetString("source")
	sources, err := types.ParseSources(sourceList)
	if err != nil {
		return err
	}

	a, err := newApp(needsCorpus(sources))
	if err != nil {
		return err
	}
	defer a.Close()

	batches := a.session.Search(context.Background(), text, sources...)
	for _, b := range batches {
		fmt.Fprintf(os.Stderr, "%-20s %d result(s)\n", b.Source, len(b.Results))
	}

	if printDoc, _ := cmd.Flags().GetBool("print"); printDoc {
		fmt.Fprint(os.Stdout, a.session.Document())
	}

	if path, _ := cmd.Flags().GetString("transcript"); path != "" {
		if err := notebook.WriteTranscript(path, a.session.Entries()); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Wrote %s\n", path)
	}

	return writeOutputs(a.session, outputFlagsFrom(cmd))
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("markdown", "", "write the document as Markdown to this file")
	cmd.Flags().String("html", "", "write the rendered, sanitized HTML to this file")
	cmd.Flags().String("pdf", "", "write the paginated PDF to this file")
}

func outputFlagsFrom(cmd *cobra.Command) outputFlags {
	md, _ := cmd.Flags().GetString("markdown")
	html, _ := cmd.Flags().GetString("html")
	pdf, _ := cmd.Flags().GetString("pdf")
	return outputFlags{markdown: md, html: html, pdf: pdf}
}

func init() {
	queryCmd.Flags().String("query", "", "free-text query")
	queryCmd.Flags().String("source", string(types.SourcePaperIndex), "sources to query, comma-separated: "+types.SourceNames(", "))
	queryCmd.Flags().String("transcript", "", "save the session transcript (YAML) to this file")
	queryCmd.Flags().Bool("print", true, "print the document to stdout")
	addOutputFlags(queryCmd)

	rootCmd.AddCommand(queryCmd)
}
