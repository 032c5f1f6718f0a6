// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/pdiddy/research-notebook/internal/corpus"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the local corpus behind retrieval-augmented search",
	Long: `Corpus manages a local SQLite database with FTS5 indexing. The
retrieval-augmented source retrieves its context documents from it.`,
}

// --- add subcommand ---

var corpusAddCmd = &cobra.Command{
	Use:   "add FILE...",
	Short: "Add text or Markdown files to the corpus",
	Long: `Add indexes each file as one document. The document ID is the file name
without its extension; adding a file with an existing ID replaces it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCorpusAdd,
}

func runCorpusAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := corpus.NewStore(cfg.Corpus)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	failed := 0
	for _, path := range args {
		doc, err := store.AddFile(ctx, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(os.Stdout, "added %s (%s)\n", doc.ID, doc.Title)
	}

	n, err := store.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%d document(s) in corpus\n", n)
	if failed > 0 {
		return errors.Errorf("%d file(s) could not be added", failed)
	}
	return nil
}

// --- search subcommand ---

var corpusSearchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Show the documents retrieval-augmented search would use for a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCorpusSearch,
}

func runCorpusSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := corpus.NewStore(cfg.Corpus)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	docs, err := store.Retrieve(context.Background(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}
	return printDocuments(docs)
}

func printDocuments(docs []corpus.Document) error {
	if len(docs) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-20s  %-30s  %s\n", "Rank", "ID", "Title", "Excerpt")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for i, d := range docs {
		excerpt := strings.Join(strings.Fields(d.Content), " ")
		fmt.Fprintf(os.Stdout, "%-4d  %s  %s  %s\n", i+1,
			runewidth.FillRight(runewidth.Truncate(d.ID, 20, "..."), 20),
			runewidth.FillRight(runewidth.Truncate(d.Title, 30, "..."), 30),
			runewidth.Truncate(excerpt, 38, "..."))
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(docs))
	return nil
}

func init() {
	corpusSearchCmd.Flags().Int("limit", 0, "maximum documents to return (default: corpus.top_k)")
	corpusSearchCmd.Flags().Bool("json", false, "output documents as JSON")

	corpusCmd.AddCommand(corpusAddCmd)
	corpusCmd.AddCommand(corpusSearchCmd)
	rootCmd.AddCommand(corpusCmd)
}
