package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/resume-matcher/internal/embedding"
)

type fakeModels struct {
	calls   int
	configs []*genai.EmbedContentConfig
	errs    []error
	resp    *genai.EmbedContentResponse
}

func (f *fakeModels) EmbedContent(_ context.Context, _ string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error) {
	f.calls++
	f.configs = append(f.configs, config)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return f.resp, nil
}

func TestEmbedderEncodeBatch(t *testing.T) {
	originalWait := wait
	wait = func(context.Context, time.Duration) error { return nil }
	defer func() { wait = originalWait }()

	models := &fakeModels{
		errs: []error{genai.APIError{Code: http.StatusInternalServerError}},
		resp: &genai.EmbedContentResponse{Embeddings: []*genai.ContentEmbedding{
			{Values: []float32{1, 0}},
			{Values: []float32{0.5, 0.5}},
		}},
	}
	e := &Embedder{models: models, model: "text-embedding-004", dimensions: 2, maxRetries: 2, logger: zap.NewNop()}

	vectors, err := e.EncodeBatch(context.Background(), []string{"resume", "job"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if models.calls != 2 {
		t.Fatalf("expected a retry, got %d calls", models.calls)
	}
	if len(vectors) != 2 || vectors[0][0] != 1 || vectors[1][1] != 0.5 {
		t.Fatalf("unexpected vectors: %v", vectors)
	}

	cfg := models.configs[0]
	if cfg.TaskType != similarityTask {
		t.Fatalf("unexpected task type %q", cfg.TaskType)
	}
	if cfg.OutputDimensionality == nil || *cfg.OutputDimensionality != 2 {
		t.Fatalf("expected output dimensionality 2")
	}
}

func TestEmbedderErrors(t *testing.T) {
	t.Parallel()

	e := &Embedder{
		models:     &fakeModels{resp: &genai.EmbedContentResponse{}},
		model:      "m",
		maxRetries: 1,
		logger:     zap.NewNop(),
	}

	if _, err := e.Encode(context.Background(), "  "); !errors.Is(err, embedding.ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}

	if _, err := e.Encode(context.Background(), "text"); err == nil {
		t.Fatal("expected error on missing embeddings")
	}
}
