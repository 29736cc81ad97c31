package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sandevgo/twinbot/internal/config"
	"github.com/sandevgo/twinbot/internal/core"
	"github.com/sandevgo/twinbot/pkg/log"
)

const providerName = "embeddings"

// Embedder calls an OpenAI-compatible /embeddings endpoint.
type Embedder struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	model     string
	tokenizer *Tokenizer
}

func NewEmbedder(cfg *config.EmbeddingConfig) *Embedder {
	return &Embedder{
		client:    &http.Client{Timeout: 60 * time.Second},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		tokenizer: NewTokenizer(),
	}
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch returns one vector per input, in input order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	input := make([]string, len(texts))
	for i, t := range texts {
		input[i] = e.tokenizer.Truncate(t, MaxInputTokens)
		if input[i] == "" {
			// the API rejects empty strings
			input[i] = " "
		}
	}

	log.FromCtx(ctx).Debug().Int("inputs", len(input)).Str("model", e.model).Msg("requesting embeddings")

	var resp embeddingResponse
	if err := e.post(ctx, embeddingRequest{Model: e.model, Input: input}, &resp); err != nil {
		return nil, core.NewProviderError(providerName, "embed", err)
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, core.NewProviderError(providerName, "embed", fmt.Errorf("index %d out of range", d.Index))
		}
		out[d.Index] = d.Embedding
	}
	for i, v := range out {
		if len(v) == 0 {
			return nil, core.NewProviderError(providerName, "embed", fmt.Errorf("missing embedding for input %d", i))
		}
	}
	return out, nil
}

func (e *Embedder) post(ctx context.Context, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", core.TwinUserAgent)
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(raw))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
