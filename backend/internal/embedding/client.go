package embedding

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"

	"github.com/sashabaranov/go-openai"
	"recall/backend/pkg/errors"
	"recall/backend/pkg/logger"
	"go.uber.org/zap"
)

// Client computes text embeddings against any OpenAI-compatible endpoint
// (LiteLLM, OpenAI, or an Ollama gateway). Vectors are cached in memory by
// content hash; the same text never hits the endpoint twice in one process.
type Client struct {
	client *openai.Client
	model  string
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[string][]float32
}

// NewClient creates an embedding client
func NewClient(baseURL, apiKey, model string) *Client {
	// LiteLLM and local gateways accept any key
	if apiKey == "" {
		apiKey = "dummy-key"
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL + "/v1"

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
		logger: logger.Named("embedding"),
		cache:  make(map[string][]float32),
	}
}

// Embed returns the embedding vector for text, using the cache when available
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	hash := contentHash(text)

	c.mu.RLock()
	cached, ok := c.cache[hash]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		c.logger.Warn("Embedding request failed",
			zap.String("model", c.model),
			zap.Error(err),
		)
		return nil, errors.NewEmbeddingFailed(c.model, err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.NewEmbeddingFailed(c.model, fmt.Errorf("empty embedding response"))
	}

	vec := resp.Data[0].Embedding

	c.mu.Lock()
	c.cache[hash] = vec
	c.mu.Unlock()

	c.logger.Debug("Embedding computed",
		zap.String("model", c.model),
		zap.Int("dimension", len(vec)),
	)

	return vec, nil
}

// contentHash computes a SHA-256 hash of text content
func contentHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%x", h)
}
