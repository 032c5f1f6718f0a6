// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-notebook/internal/notebook"
)

var replayCmd = &cobra.Command{
	Use:   "replay TRANSCRIPT",
	Short: "Rebuild a research document from a saved transcript",
	Long: `Replay reads a transcript written by query --transcript and appends its
entries in their recorded order. No provider is contacted: the document is a
pure function of the recorded results.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tr, err := notebook.ReadTranscript(args[0])
	if err != nil {
		return err
	}

	session := notebook.NewSession(nil, notebook.Options{Page: cfg.Page})
	session.Replay(tr.Entries)
	fmt.Fprintf(os.Stderr, "Replayed %d entries (%d results)\n", len(tr.Entries), len(session.Results()))

	if printDoc, _ := cmd.Flags().GetBool("print"); printDoc {
		fmt.Fprint(os.Stdout, session.Document())
	}
	return writeOutputs(session, outputFlagsFrom(cmd))
}

func init() {
	replayCmd.Flags().Bool("print", false, "print the document to stdout")
	addOutputFlags(replayCmd)

	rootCmd.AddCommand(replayCmd)
}
