// Package embed wraps text embedding behind a single-method interface so
// the retrieval pipeline can be tested without a live provider.
package embed

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"work-report-rag/config"
	"work-report-rag/pkg/logger"
)

// Embedder produces a dense vector for a query text.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

type openAIEmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type openAIEmbeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// OpenAI embeds via the OpenAI embeddings endpoint using the model
// configured under openai.embedding_model.
type OpenAI struct{}

// EmbedText implements Embedder.
func (OpenAI) EmbedText(ctx context.Context, text string) ([]float32, error) {
	key := config.Cfg.OpenAI.Key
	if key == "" {
		return nil, errors.New("missing openai key")
	}
	client := openai.NewClient(option.WithAPIKey(key))

	reqBody := openAIEmbeddingRequest{Model: config.Cfg.OpenAI.EmbeddingModel, Input: []string{text}}
	var out openAIEmbeddingResponse
	if err := client.Post(ctx, "/embeddings", reqBody, &out); err != nil {
		logger.WithFields(map[string]interface{}{
			"model": config.Cfg.OpenAI.EmbeddingModel,
			"error": err,
		}).Errorf("openai: embedding failed")
		return nil, err
	}
	if out.Error != nil {
		return nil, errors.New(out.Error.Message)
	}
	if len(out.Data) == 0 {
		return nil, errors.New("empty embedding response")
	}
	src := out.Data[0].Embedding
	vec := make([]float32, len(src))
	for i := range src {
		vec[i] = float32(src[i])
	}
	return vec, nil
}
