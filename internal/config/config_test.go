package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
database:
  url: "postgres://localhost:5432/league"
  password: "secret"
embed_llm:
  base_url: "http://localhost:11434"
  model: "nomic-embed-text"
gen_llm:
  base_url: "http://localhost:11434"
  models: ["llama3.1", "mistral"]
rag:
  chunk_size: 400
  overlap_words: 30
  top_k: 5
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost:5432/league", cfg.Database.URL)
	assert.Equal(t, "nomic-embed-text", cfg.EmbedLLM.Model)
	assert.Equal(t, []string{"llama3.1", "mistral"}, cfg.GenLLM.Models)
	assert.Equal(t, 400, cfg.RAG.ChunkSize)
	assert.Equal(t, 5, cfg.RAG.TopK)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "{}\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, defaultChunkSize, cfg.RAG.ChunkSize)
	assert.Equal(t, defaultTopK, cfg.RAG.TopK)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db.internal:5432/prod")
	t.Setenv("OLLAMA_BASE_URL", "http://models.internal:11434")
	t.Setenv("GEN_MODELS", "llama3.1, gemma2")

	path := writeConfig(t, `
database:
  url: "postgres://localhost:5432/league"
gen_llm:
  base_url: "http://localhost:11434"
  models: ["mistral"]
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://db.internal:5432/prod", cfg.Database.URL)
	assert.Equal(t, "http://models.internal:11434", cfg.GenLLM.BaseURL)
	assert.Equal(t, "http://models.internal:11434", cfg.EmbedLLM.BaseURL)
	assert.Equal(t, []string{"llama3.1", "gemma2"}, cfg.GenLLM.Models)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
