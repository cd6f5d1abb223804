package generativeAI

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

const defaultEmbeddingModel = "text-embedding-004"

// EmbeddingService wraps the Gemini embedding model. One service instance is
// shared across requests; the underlying client is safe for concurrent use.
type EmbeddingService struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

func NewEmbeddingService(ctx context.Context, model string, logger *slog.Logger) (*EmbeddingService, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "NewEmbeddingService")
	defer span.End()

	apiKey := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if apiKey == "" {
		err := fmt.Errorf("GOOGLE_GEMINI_API_KEY environment variable is not set")
		span.RecordError(err)
		span.SetStatus(codes.Error, "API key not set")
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, err
	}

	if model == "" {
		model = defaultEmbeddingModel
	}

	span.SetStatus(codes.Ok, "Embedding service created")
	return &EmbeddingService{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// GenerateEmbedding embeds a single text.
func (s *EmbeddingService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// GenerateEmbeddings embeds a batch of texts with a single model call. The
// result is index-aligned with the input.
func (s *EmbeddingService) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "GenerateEmbeddings", trace.WithAttributes(
		attribute.Int("texts.count", len(texts)),
		attribute.String("model", s.model),
	))
	defer span.End()

	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}

	resp, err := s.client.Models.EmbedContent(ctx, s.model, contents, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Embedding request failed")
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		err := fmt.Errorf("embedding count mismatch: requested %d, got %d", len(texts), len(resp.Embeddings))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Embedding count mismatch")
		return nil, err
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		vectors[i] = emb.Values
	}

	span.SetStatus(codes.Ok, "Embeddings generated")
	return vectors, nil
}

// CosineSimilarity returns the cosine of the angle between two vectors, or 0
// when either has zero magnitude or the dimensions differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
