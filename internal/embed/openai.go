package embed

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrUnavailable signals that embeddings cannot be produced for this run.
// Callers switch to keyword scoring; the client never retries.
var ErrUnavailable = errors.New("embeddings unavailable")

// Client produces fixed-dimension embedding vectors via the OpenAI API.
type Client struct {
	api   *openai.Client
	model string

	// Stats aggregates recent call latencies for the stats endpoint.
	Stats *CallStats
}

// NewClient builds an embeddings client. An empty API key yields a client
// whose calls report ErrUnavailable, which drives the keyword fallback.
func NewClient(apiKey, model string) *Client {
	c := &Client{
		model: model,
		Stats: NewCallStats(time.Hour),
	}
	if apiKey != "" {
		c.api = openai.NewClient(apiKey)
	}
	return c
}

// Model returns the configured embedding model name.
func (c *Client) Model() string {
	return c.model
}

// Embed returns the embedding vector for text. Empty text embeds to a zero
// vector without an API call; cosine against it is defined as 0 downstream.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.api == nil {
		return nil, fmt.Errorf("no api key configured: %w", ErrUnavailable)
	}
	if text == "" {
		return nil, nil
	}

	start := time.Now()
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.model),
		Input: []string{text},
	})
	c.Stats.Record(time.Since(start).Milliseconds())
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w: %w", ErrUnavailable, err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embedding response: %w", ErrUnavailable)
	}
	return resp.Data[0].Embedding, nil
}
