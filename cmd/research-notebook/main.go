// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-notebook CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/research-notebook/internal/secrets"
	"github.com/pdiddy/research-notebook/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ (and the environment) at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the research-notebook CLI.
var rootCmd = &cobra.Command{
	Use:   "research-notebook",
	Short: "Fan a query out to search backends and build one research document",
	Long: `research-notebook sends a free-text query to one or more search backends
(paper-index, retrieval-augmented, web, smart) and accumulates every result
into a single Markdown research document that can be exported as Markdown,
HTML or a paginated PDF.

Use query for one-shot searches, serve for the HTTP interface, corpus to
manage the local documents behind retrieval-augmented search, and replay to
rebuild a document from a saved transcript.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, "loading .env")
		}

		s, err := secrets.Load(".secrets/", nil)
		if err != nil {
			return err
		}
		loadedSecrets = secrets.WithEnv(s)
		if len(loadedSecrets) > 0 {
			keys := make([]string, 0, len(loadedSecrets))
			for k := range loadedSecrets {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-notebook.yaml or ~/.config/research-notebook/research-notebook.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "emit JSON logs")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.json", rootCmd.PersistentFlags().Lookup("log-json"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-notebook")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-notebook"))
		}
	}

	setDefaults(types.DefaultConfig())
	viper.SetEnvPrefix("RESEARCH_NOTEBOOK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so environment variables such as
// RESEARCH_NOTEBOOK_DISPATCH_TIMEOUT override it.
func setDefaults(cfg types.Config) {
	viper.SetDefault("dispatch.timeout", cfg.Dispatch.Timeout)
	viper.SetDefault("dispatch.user_agent", cfg.Dispatch.UserAgent)
	viper.SetDefault("dispatch.max_retries", cfg.Dispatch.MaxRetries)
	viper.SetDefault("dispatch.max_results", cfg.Dispatch.MaxResults)
	for key, p := range map[string]types.ProviderConfig{
		"paper_index": cfg.Dispatch.PaperIndex,
		"rag":         cfg.Dispatch.RAG,
		"web":         cfg.Dispatch.Web,
		"smart":       cfg.Dispatch.Smart,
	} {
		viper.SetDefault("dispatch."+key+".endpoint", p.Endpoint)
		viper.SetDefault("dispatch."+key+".base_url", p.BaseURL)
		viper.SetDefault("dispatch."+key+".api_key", p.APIKey)
		viper.SetDefault("dispatch."+key+".model", p.Model)
	}

	viper.SetDefault("page.width", cfg.Page.Width)
	viper.SetDefault("page.height", cfg.Page.Height)
	viper.SetDefault("page.line_height", cfg.Page.LineHeight)
	viper.SetDefault("page.margin", cfg.Page.Margin)
	viper.SetDefault("page.font_size", cfg.Page.FontSize)

	viper.SetDefault("corpus.dir", cfg.Corpus.Dir)
	viper.SetDefault("corpus.top_k", cfg.Corpus.TopK)

	viper.SetDefault("log.level", cfg.Log.Level)
	viper.SetDefault("log.json", cfg.Log.JSON)

	viper.SetDefault("server.addr", cfg.Server.Addr)
}

// loadConfig decodes the merged viper settings over the defaults.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "decoding config")
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
