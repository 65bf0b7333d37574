package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-matcher/internal/embedding"
	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/secrets"
)

func noGemini(t *testing.T) func(secrets.Source) (*genai.Client, error) {
	return func(secrets.Source) (*genai.Client, error) {
		t.Fatal("gemini client must not be requested")
		return nil, nil
	}
}

func TestNewEmbeddingProvider(t *testing.T) {
	t.Parallel()

	p, err := newEmbeddingProvider(&EmbeddingConfig{Provider: "LOCAL", Dimensions: 64}, noGemini(t), zap.NewNop())
	require.NoError(t, err)
	local, ok := p.(*embedding.Local)
	require.True(t, ok)
	assert.Equal(t, 64, local.Dimensions())

	p, err = newEmbeddingProvider(&EmbeddingConfig{Cache: true}, noGemini(t), zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &embedding.Cached{}, p)

	_, err = newEmbeddingProvider(&EmbeddingConfig{Provider: "word2vec"}, noGemini(t), zap.NewNop())
	require.ErrorIs(t, err, matching.ErrConfiguration)

	p, err = newEmbeddingProvider(&EmbeddingConfig{Provider: "openai", APIKey: "sk-test"}, noGemini(t), zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &embedding.OpenAI{}, p)
}

func TestNewEmbeddingProviderMissingKey(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "key")
	require.NoError(t, os.WriteFile(empty, []byte("\n"), 0o600))

	_, err := newEmbeddingProvider(&EmbeddingConfig{Provider: "openai", APIKeyFile: empty}, noGemini(t), zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")
}

func TestNewNarratorDisabled(t *testing.T) {
	t.Parallel()

	n, err := newNarrator(nil, noGemini(t), zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, n)

	n, err = newNarrator(&AIConfig{Enabled: false}, noGemini(t), zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, n)

	_, err = newNarrator(&AIConfig{Enabled: true, Provider: "qwen"}, noGemini(t), zap.NewNop())
	require.ErrorContains(t, err, "unsupported ai provider")

	_, err = newNarrator(&AIConfig{Enabled: true}, noGemini(t), zap.NewNop())
	require.ErrorContains(t, err, "gemini configuration is required")
}

func TestCollectResumePaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.yaml", "notes.doc", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	single := filepath.Join(dir, "notes.doc")

	paths, err := collectResumePaths([]string{dir, single})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "c.txt"),
		single,
	}, paths)

	_, err = collectResumePaths([]string{filepath.Join(dir, "missing")})
	require.Error(t, err)
}
