package types

import "time"

// HTTPConfig holds shared HTTP settings used by every provider.
type HTTPConfig struct {
	// Timeout bounds one provider call, retries included.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429/503 (0 uses the default).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// ProviderConfig configures one source. When Endpoint is set the request body
// is POSTed there and the response is used verbatim; otherwise the built-in
// backend for the source is used.
type ProviderConfig struct {
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`
	BaseURL  string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
	APIKey   string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
	Model    string `json:"model,omitempty" yaml:"model,omitempty" mapstructure:"model"`
}

// DispatchConfig holds settings for the query dispatcher.
type DispatchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxResults is sent as max_results to paper-index and RAG providers.
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	PaperIndex ProviderConfig `json:"paper_index" yaml:"paper_index" mapstructure:"paper_index"`
	RAG        ProviderConfig `json:"rag" yaml:"rag" mapstructure:"rag"`
	Web        ProviderConfig `json:"web" yaml:"web" mapstructure:"web"`
	Smart      ProviderConfig `json:"smart" yaml:"smart" mapstructure:"smart"`
}

// Provider returns the configuration for a source.
func (c DispatchConfig) Provider(src Source) ProviderConfig {
	switch src {
	case SourcePaperIndex:
		return c.PaperIndex
	case SourceRAG:
		return c.RAG
	case SourceWeb:
		return c.Web
	case SourceSmart:
		return c.Smart
	}
	return ProviderConfig{}
}

// PageConfig describes the PDF page geometry in points.
type PageConfig struct {
	Width      float64 `json:"width" yaml:"width" mapstructure:"width"`
	Height     float64 `json:"height" yaml:"height" mapstructure:"height"`
	LineHeight float64 `json:"line_height" yaml:"line_height" mapstructure:"line_height"`
	Margin     float64 `json:"margin" yaml:"margin" mapstructure:"margin"`

	// FontSize is used by the PDF renderer and its font-metric measurer.
	FontSize float64 `json:"font_size" yaml:"font_size" mapstructure:"font_size"`
}

// TextWidth is the usable line width between the left and right margins.
func (p PageConfig) TextWidth() float64 {
	return p.Width - 2*p.Margin
}

// CorpusConfig holds settings for the local retrieval corpus backing RAG.
type CorpusConfig struct {
	// Dir holds the corpus database (corpus.db).
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// TopK is the number of documents retrieved per RAG query.
	TopK int `json:"top_k" yaml:"top_k" mapstructure:"top_k"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level"`
	JSON  bool   `json:"json" yaml:"json" mapstructure:"json"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// Config groups every stage configuration.
type Config struct {
	Dispatch DispatchConfig `json:"dispatch" yaml:"dispatch" mapstructure:"dispatch"`
	Page     PageConfig     `json:"page" yaml:"page" mapstructure:"page"`
	Corpus   CorpusConfig   `json:"corpus" yaml:"corpus" mapstructure:"corpus"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
// Page geometry is A4 in points.
func DefaultConfig() Config {
	return Config{
		Dispatch: DispatchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "research-notebook/0.1",
			},
			MaxResults: 5,
			RAG: ProviderConfig{
				BaseURL: "https://integrate.api.nvidia.com/v1",
				Model:   "meta/llama3-8b-instruct",
			},
		},
		Page: PageConfig{
			Width:      595,
			Height:     842,
			LineHeight: 14,
			Margin:     40,
			FontSize:   11,
		},
		Corpus: CorpusConfig{
			Dir:  "corpus",
			TopK: 4,
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}
