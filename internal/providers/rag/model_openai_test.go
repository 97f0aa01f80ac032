package rag

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandevgo/chatmtl/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() *retry.Config {
	return &retry.Config{
		MaxRetries:    2,
		BackoffFactor: 1,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
	}
}

func TestOpenAIModel_Embed(t *testing.T) {
	var inputs []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req struct {
			Model string `json:"model"`
			Input string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "e5-small", req.Model)
		inputs = append(inputs, req.Input)

		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.5,0.25,0.125]}]}`))
	}))
	defer srv.Close()

	m := NewOpenAIModel(OpenAIModelConfig{
		BaseURL:  srv.URL + "/",
		APIKey:   "secret",
		Model:    "e5-small",
		Dims:     3,
		E5Prefix: true,
		Retry:    fastRetry(),
	})

	q, err := m.EncodeQuery(context.Background(), "winter")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.25, 0.125}, q)

	_, err = m.EncodePassage(context.Background(), "ski trip")
	require.NoError(t, err)

	assert.Equal(t, []string{"query: winter", "passage: ski trip"}, inputs)
	assert.Equal(t, 3, m.Dims())
}

func TestOpenAIModel_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"embedding":[1]}]}`))
	}))
	defer srv.Close()

	m := NewOpenAIModel(OpenAIModelConfig{BaseURL: srv.URL, Dims: 1, Retry: fastRetry()})

	vec, err := m.EncodeQuery(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, vec)
	assert.Equal(t, int32(3), calls.Load())
}

func TestOpenAIModel_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad model", http.StatusBadRequest)
	}))
	defer srv.Close()

	m := NewOpenAIModel(OpenAIModelConfig{BaseURL: srv.URL, Dims: 1, Retry: fastRetry()})

	_, err := m.EncodePassage(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http 400")
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAIModel_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	m := NewOpenAIModel(OpenAIModelConfig{BaseURL: srv.URL, Dims: 1, Retry: fastRetry()})

	_, err := m.EncodeQuery(context.Background(), "x")
	assert.ErrorContains(t, err, "empty embedding data")
}
