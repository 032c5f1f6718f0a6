// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notebook

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/research-notebook/pkg/types"
)

// Transcript is the on-disk record of a session: every Append call in
// order. Replaying it rebuilds the document without re-querying providers.
type Transcript struct {
	Entries []Entry           `yaml:"entries"`
	Summary TranscriptSummary `yaml:"summary"`
}

// TranscriptSummary stores result statistics and a timestamp.
type TranscriptSummary struct {
	Queries   int       `yaml:"queries"`
	Results   int       `yaml:"results"`
	Timestamp time.Time `yaml:"timestamp"`
}

// NewTranscript wraps entries with a summary.
func NewTranscript(entries []Entry) Transcript {
	total := 0
	for _, e := range entries {
		total += len(e.Results)
	}
	return Transcript{
		Entries: entries,
		Summary: TranscriptSummary{
			Queries:   len(entries),
			Results:   total,
			Timestamp: time.Now().UTC(),
		},
	}
}

// WriteTranscript saves entries to a YAML file.
func WriteTranscript(path string, entries []Entry) error {
	t := NewTranscript(entries)
	data, err := yaml.Marshal(&t)
	if err != nil {
		return errors.Wrap(err, "marshaling transcript")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "writing transcript")
	}
	return nil
}

// ReadTranscript loads a transcript from disk. Every entry's source must be
// a known source name.
func ReadTranscript(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading transcript")
	}
	var t Transcript
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, errors.Wrap(err, "parsing transcript")
	}
	for i, e := range t.Entries {
		src, err := types.ParseSource(string(e.Source))
		if err != nil {
			return nil, errors.Wrapf(err, "entry %d", i+1)
		}
		t.Entries[i].Source = src
	}
	return &t, nil
}
