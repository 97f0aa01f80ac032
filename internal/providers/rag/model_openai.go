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

	"github.com/sandevgo/chatmtl/pkg/retry"
)

const ModelNameOpenAI = "openai"

type OpenAIModelConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Dims    int
	// E5Prefix adds the "query: " and "passage: " prefixes e5 models are trained with.
	E5Prefix bool
	// Retry overrides the default backoff.
	Retry *retry.Config
}

// OpenAIModel talks to any OpenAI-compatible /v1/embeddings endpoint (OpenAI, Ollama, llama.cpp server).
type OpenAIModel struct {
	cfg     OpenAIModelConfig
	client  *http.Client
	retrier *retry.Retrier
}

func NewOpenAIModel(cfg OpenAIModelConfig) *OpenAIModel {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &OpenAIModel{
		cfg:     cfg,
		client:  &http.Client{Timeout: 60 * time.Second},
		retrier: retry.NewRetrier(cfg.Retry),
	}
}

func (m *OpenAIModel) EncodeQuery(ctx context.Context, text string) ([]float32, error) {
	if m.cfg.E5Prefix {
		text = "query: " + text
	}
	return m.embed(ctx, text)
}

func (m *OpenAIModel) EncodePassage(ctx context.Context, text string) ([]float32, error) {
	if m.cfg.E5Prefix {
		text = "passage: " + text
	}
	return m.embed(ctx, text)
}

func (m *OpenAIModel) Dims() int {
	return m.cfg.Dims
}

// DetectDims sets the dimension from the length of a sample passage embedding.
func (m *OpenAIModel) DetectDims(ctx context.Context) error {
	vec, err := m.EncodePassage(ctx, "dimension check")
	if err != nil {
		return err
	}
	if len(vec) == 0 {
		return fmt.Errorf("model %s returned an empty embedding", m.cfg.Model)
	}
	m.cfg.Dims = len(vec)
	return nil
}

func (m *OpenAIModel) Shutdown() error {
	m.client.CloseIdleConnections()
	return nil
}

func (m *OpenAIModel) embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(map[string]any{
		"model": m.cfg.Model,
		"input": text,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	var vec []float32
	err = m.retrier.Do(ctx, func() error {
		vec, err = m.request(ctx, body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return vec, nil
}

func (m *OpenAIModel) request(ctx context.Context, body []byte) ([]float32, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+"/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if m.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("http %d: %s", resp.StatusCode, string(data))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, retry.Permanent(err)
		}
		return nil, err
	}

	var result struct {
		Data []struct {
			Embedding []float32 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, retry.Permanent(fmt.Errorf("decode: %w", err))
	}
	if len(result.Data) == 0 {
		return nil, retry.Permanent(fmt.Errorf("empty embedding data: %s", string(data)))
	}
	return result.Data[0].Embedding, nil
}
