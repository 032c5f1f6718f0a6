// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus keeps the local document collection that backs
// retrieval-augmented search. Documents live in SQLite with an FTS5 index;
// Retrieve returns the best matches for a query ranked by bm25.
package corpus

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/pdiddy/research-notebook/pkg/types"
)

const (
	dbFile      = "corpus.db"
	defaultTopK = 4
)

// Document is one retrievable text in the corpus.
type Document struct {
	ID      string    `json:"id" yaml:"id"`
	Title   string    `json:"title" yaml:"title"`
	Content string    `json:"content" yaml:"content"`
	Path    string    `json:"path,omitempty" yaml:"path,omitempty"`
	AddedAt time.Time `json:"added_at" yaml:"added_at"`
}

// Store manages the corpus SQLite database.
type Store struct {
	db   *sql.DB
	topK int
}

// NewStore opens or creates the corpus database at cfg.Dir/corpus.db and
// creates the schema if it does not exist.
func NewStore(cfg types.CorpusConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating corpus directory")
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	s := &Store{db: db, topK: topK}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating schema")
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		rowid INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		title TEXT,
		content TEXT NOT NULL,
		path TEXT,
		added_at TEXT
	)`); err != nil {
		return errors.Wrap(err, "creating documents table")
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='documents_fts'`,
	).Scan(&ftsExists); err != nil {
		return errors.Wrap(err, "checking FTS table")
	}
	if ftsExists > 0 {
		return nil
	}

	for _, stmt := range []string{
		`CREATE VIRTUAL TABLE documents_fts USING fts5(title, content, content=documents, content_rowid=rowid)`,
		`CREATE TRIGGER documents_ai AFTER INSERT ON documents BEGIN
			INSERT INTO documents_fts(rowid, title, content) VALUES (new.rowid, new.title, new.content);
		END`,
		`CREATE TRIGGER documents_ad AFTER DELETE ON documents BEGIN
			INSERT INTO documents_fts(documents_fts, rowid, title, content) VALUES('delete', old.rowid, old.title, old.content);
		END`,
		`CREATE TRIGGER documents_au AFTER UPDATE ON documents BEGIN
			INSERT INTO documents_fts(documents_fts, rowid, title, content) VALUES('delete', old.rowid, old.title, old.content);
			INSERT INTO documents_fts(rowid, title, content) VALUES (new.rowid, new.title, new.content);
		END`,
	} {
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Wrap(err, "creating FTS infrastructure")
		}
	}
	return nil
}

// Add inserts doc, replacing any document with the same ID.
func (s *Store) Add(ctx context.Context, doc Document) error {
	if doc.ID == "" {
		return errors.New("document ID is required")
	}
	if strings.TrimSpace(doc.Content) == "" {
		return errors.Errorf("document %s has no content", doc.ID)
	}
	if doc.AddedAt.IsZero() {
		doc.AddedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, title, content, path, added_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, content=excluded.content,
			path=excluded.path, added_at=excluded.added_at`,
		doc.ID, doc.Title, doc.Content, doc.Path, doc.AddedAt.Format(time.RFC3339),
	)
	return errors.Wrapf(err, "storing document %s", doc.ID)
}

// AddFile reads a text or Markdown file and stores it. The ID is the file's
// base name without extension; the title is the first Markdown heading, or
// the ID when the file has none.
func (s *Store) AddFile(ctx context.Context, path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, errors.Wrapf(err, "reading %s", path)
	}

	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc := Document{
		ID:      id,
		Title:   firstHeading(string(data), id),
		Content: string(data),
		Path:    path,
	}
	if err := s.Add(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM documents`).Scan(&n)
	return n, errors.Wrap(err, "counting documents")
}

// Retrieve returns up to k documents matching query, best first. A k of
// zero uses the configured TopK. A query with no searchable terms returns
// no documents.
func (s *Store) Retrieve(ctx context.Context, query string, k int) ([]Document, error) {
	if k <= 0 {
		k = s.topK
	}
	match := matchExpr(query)
	if match == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT d.id, d.title, d.content, d.path, d.added_at
		 FROM documents_fts
		 JOIN documents d ON d.rowid = documents_fts.rowid
		 WHERE documents_fts MATCH ?
		 ORDER BY bm25(documents_fts)
		 LIMIT ?`, match, k)
	if err != nil {
		return nil, errors.Wrap(err, "querying corpus")
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			d       Document
			path    sql.NullString
			title   sql.NullString
			addedAt sql.NullString
		)
		if err := rows.Scan(&d.ID, &title, &d.Content, &path, &addedAt); err != nil {
			return nil, errors.Wrap(err, "scanning document")
		}
		d.Title = title.String
		d.Path = path.String
		if t, err := time.Parse(time.RFC3339, addedAt.String); err == nil {
			d.AddedAt = t
		}
		docs = append(docs, d)
	}
	return docs, errors.Wrap(rows.Err(), "iterating documents")
}

// matchExpr turns free text into an FTS5 expression: every word becomes a
// quoted term and the terms are OR-ed, so punctuation in the query can never
// produce an FTS syntax error.
func matchExpr(query string) string {
	words := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	seen := make(map[string]bool, len(words))
	var terms []string
	for _, w := range words {
		if seen[w] {
			continue
		}
		seen[w] = true
		terms = append(terms, `"`+w+`"`)
	}
	return strings.Join(terms, " OR ")
}

func firstHeading(text, fallback string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			if title := strings.TrimSpace(strings.TrimLeft(line, "#")); title != "" {
				return title
			}
		}
	}
	return fallback
}
