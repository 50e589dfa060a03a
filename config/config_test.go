package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/seqvec/pipeline"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "dna_sequence", cfg.Namespace)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, 4, cfg.Kmer.Size)
	assert.Equal(t, "hashing", cfg.Encoder.Provider)
	assert.Equal(t, 768, cfg.Encoder.Dimension)
	assert.Equal(t, "ACGTN", cfg.Encoder.Alphabet)
	assert.Equal(t, "sqlite", cfg.Index.Driver)
	assert.Equal(t, "brute", cfg.Index.Kind)
	assert.Equal(t, "seqvec.db", cfg.Metadata.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, pipeline.Config{DefaultNamespace: "dna_sequence", TopK: 5, KmerSize: 4}, cfg.Pipeline())
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seqvec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
namespace: rna_sequence
top_k: 10
kmer:
  size: 6
index:
  driver: memory
  kind: cover
metadata:
  driver: badger
`), 0o644))
	t.Setenv("SEQVEC_TOP_K", "3")
	t.Setenv("SEQVEC_ENCODER_DIMENSION", "256")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "rna_sequence", cfg.Namespace)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, 6, cfg.Kmer.Size)
	assert.Equal(t, 256, cfg.Encoder.Dimension)
	assert.Equal(t, "memory", cfg.Index.Driver)
	assert.Equal(t, "cover", cfg.Index.Kind)
	assert.Equal(t, "badger", cfg.Metadata.Driver)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("SEQVEC_TOP_K", "0")
	t.Setenv("SEQVEC_ENCODER_PROVIDER", "word2vec")
	_, err := Load(viper.New(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "word2vec")

	_, err = Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_OpenAIRequiresKey(t *testing.T) {
	t.Setenv("SEQVEC_ENCODER_PROVIDER", "openai")
	_, err := Load(viper.New(), "")
	assert.ErrorContains(t, err, "api_key")

	t.Setenv("SEQVEC_ENCODER_API_KEY", "sk-test")
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.Encoder.APIKey)
}
