// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: tavily-api-key, rag-api-key.
package secrets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Key file names.
const (
	TavilyAPIKey = "tavily-api-key"
	RAGAPIKey    = "rag-api-key"
)

// envFallback maps each key to the environment variables consulted when the
// key has no file. A .env file loaded at startup feeds these.
var envFallback = map[string][]string{
	TavilyAPIKey: {"TAVILY_API_KEY"},
	RAGAPIKey:    {"RAG_API_KEY", "NVIDIA_API_KEY"},
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged as warnings but do not abort.
func Load(dir string, logger *zap.Logger) (map[string]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, errors.Wrapf(err, "reading secrets directory %s", dir)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// WithEnv fills keys missing from secrets with their environment variable
// fallbacks and returns secrets.
func WithEnv(secrets map[string]string) map[string]string {
	for key, vars := range envFallback {
		if secrets[key] != "" {
			continue
		}
		for _, v := range vars {
			if value := strings.TrimSpace(os.Getenv(v)); value != "" {
				secrets[key] = value
				break
			}
		}
	}
	return secrets
}
