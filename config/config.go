// Package config loads seqvec settings from defaults, an optional YAML or
// JSON file, and SEQVEC_* environment variables, in increasing precedence.
// Command-line flags bound to the same viper instance take precedence over
// all of them.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/viant/seqvec/pipeline"
)

// EnvPrefix prefixes environment overrides, e.g. SEQVEC_TOP_K or
// SEQVEC_INDEX_DSN.
const EnvPrefix = "SEQVEC"

// Config is the effective application configuration.
type Config struct {
	Namespace   string         `mapstructure:"namespace" json:"namespace"`
	TopK        int            `mapstructure:"top_k" json:"top_k"`
	Concurrency int            `mapstructure:"concurrency" json:"concurrency"`
	Kmer        KmerConfig     `mapstructure:"kmer" json:"kmer"`
	Encoder     EncoderConfig  `mapstructure:"encoder" json:"encoder"`
	Index       IndexConfig    `mapstructure:"index" json:"index"`
	Metadata    MetadataConfig `mapstructure:"metadata" json:"metadata"`
	Log         LogConfig      `mapstructure:"log" json:"log"`
}

// KmerConfig sets the k-mer length used to tokenize sequences.
type KmerConfig struct {
	Size int `mapstructure:"size" json:"size"`
}

// EncoderConfig selects and parameterizes the sequence encoder.
type EncoderConfig struct {
	// Provider is "hashing" or "openai".
	Provider  string  `mapstructure:"provider" json:"provider"`
	Dimension int     `mapstructure:"dimension" json:"dimension"`
	NGramMin  int     `mapstructure:"ngram_min" json:"ngram_min"`
	NGramMax  int     `mapstructure:"ngram_max" json:"ngram_max"`
	Alphabet  string  `mapstructure:"alphabet" json:"alphabet"`
	Model     string  `mapstructure:"model" json:"model"`
	APIKey    string  `mapstructure:"api_key" json:"-"`
	BaseURL   string  `mapstructure:"base_url" json:"base_url,omitempty"`
	RateLimit float64 `mapstructure:"rate_limit" json:"rate_limit"`
	Burst     int     `mapstructure:"burst" json:"burst"`
}

// IndexConfig selects the vector index service.
type IndexConfig struct {
	// Driver is "sqlite" or "memory". The memory driver starts empty and is
	// meant for embedding and tests; the CLI rejects it.
	Driver string `mapstructure:"driver" json:"driver"`
	DSN    string `mapstructure:"dsn" json:"dsn"`
	// Kind is the in-process index used by the memory driver.
	Kind string `mapstructure:"kind" json:"kind"`
}

// MetadataConfig selects the metadata store.
type MetadataConfig struct {
	// Driver is "sqlite" or "badger".
	Driver string `mapstructure:"driver" json:"driver"`
	DSN    string `mapstructure:"dsn" json:"dsn"`
	// Dir is the Badger data directory; empty runs Badger in memory, which
	// the CLI rejects because nothing would be loaded.
	Dir string `mapstructure:"dir" json:"dir"`
}

// LogConfig sets the slog level ("debug", "info", "warn", "error") and
// handler format ("text" or "json").
type LogConfig struct {
	Level  string `mapstructure:"level" json:"level"`
	Format string `mapstructure:"format" json:"format"`
}

var defaults = map[string]any{
	"namespace":          "dna_sequence",
	"top_k":              5,
	"concurrency":        4,
	"kmer.size":          4,
	"encoder.provider":   "hashing",
	"encoder.dimension":  768,
	"encoder.ngram_min":  1,
	"encoder.ngram_max":  1,
	"encoder.alphabet":   "ACGTN",
	"encoder.model":      "text-embedding-3-small",
	"encoder.api_key":    "",
	"encoder.base_url":   "",
	"encoder.rate_limit": 0.0,
	"encoder.burst":      1,
	"index.driver":       "sqlite",
	"index.dsn":          "seqvec.db",
	"index.kind":         "brute",
	"metadata.driver":    "sqlite",
	"metadata.dsn":       "seqvec.db",
	"metadata.dir":       "",
	"log.level":          "info",
	"log.format":         "text",
}

// SetDefaults registers defaults and environment overrides on v.
func SetDefaults(v *viper.Viper) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads path (when non-empty) into v and decodes the result. A missing
// file is an error when path is given explicitly.
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Pipeline().Validate(); err != nil {
		errs = append(errs, err)
	}
	switch c.Encoder.Provider {
	case "hashing":
	case "openai":
		if c.Encoder.APIKey == "" && c.Encoder.BaseURL == "" {
			errs = append(errs, errors.New("config: encoder.api_key is required for the openai provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown encoder.provider %q", c.Encoder.Provider))
	}
	if c.Encoder.Dimension < 1 {
		errs = append(errs, fmt.Errorf("config: encoder.dimension must be >= 1, got %d", c.Encoder.Dimension))
	}
	switch c.Index.Driver {
	case "sqlite", "memory":
	default:
		errs = append(errs, fmt.Errorf("config: unknown index.driver %q", c.Index.Driver))
	}
	switch c.Metadata.Driver {
	case "sqlite", "badger":
	default:
		errs = append(errs, fmt.Errorf("config: unknown metadata.driver %q", c.Metadata.Driver))
	}
	return errors.Join(errs...)
}

// Pipeline returns the query parameters for pipeline.New.
func (c *Config) Pipeline() pipeline.Config {
	return pipeline.Config{
		DefaultNamespace: c.Namespace,
		TopK:             c.TopK,
		KmerSize:         c.Kmer.Size,
	}
}
