package config

import (
	"context"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/chatmtl/pkg/log"
)

type RAGConfig struct {
	// Embedding model: "hash" (local) or "openai" (OpenAI-compatible /v1/embeddings).
	EmbeddingModel   string        `env:"CHATMTL_EMBEDDING_MODEL" envDefault:"hash"`
	EmbeddingURL     string        `env:"EMBEDDING_BASE_URL" envDefault:"http://localhost:11434"`
	EmbeddingAPIKey  string        `env:"EMBEDDING_API_KEY"`
	EmbeddingName    string        `env:"EMBEDDING_MODEL_NAME" envDefault:"nomic-embed-text"`
	EmbeddingPrefix  bool          `env:"EMBEDDING_E5_PREFIX" envDefault:"false"`
	// Vector size. Zero uses 384 for hash and asks the openai endpoint.
	EmbeddingDims    int           `env:"EMBEDDING_DIMS"`
	EmbeddingTimeout time.Duration `env:"EMBEDDING_TIMEOUT" envDefault:"30s"`

	ChunkSize int    `env:"CHUNK_SIZE" envDefault:"500"`
	TopK      int    `env:"TOP_K" envDefault:"4"`
	Metric    string `env:"SIMILARITY_METRIC" envDefault:"cosine"`

	SourceURLTemplate string `env:"SOURCE_URL_TEMPLATE" envDefault:"https://www.mtlblog.com/{category}"`
	CorpusName        string `env:"CORPUS_NAME" envDefault:"Montreal Blog"`
	AnswerWords       int    `env:"ANSWER_WORDS" envDefault:"100"`
}

func NewRAGConfig(ctx context.Context) *RAGConfig {
	cfg, err := ParseRAGConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse RAG config")
	}
	return cfg
}

func ParseRAGConfig() (*RAGConfig, error) {
	cfg := &RAGConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SourceURL expands the source template for a category id.
func (c RAGConfig) SourceURL(categoryID string) string {
	return strings.ReplaceAll(c.SourceURLTemplate, "{category}", categoryID)
}
