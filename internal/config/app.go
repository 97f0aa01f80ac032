package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/chatmtl/pkg/log"
)

const (
	ModeSingle    = "single"
	ModeSustained = "sustained"
)

type AppConfig struct {
	RuntimePath string `env:"CHATMTL_RUNTIME_PATH" envDefault:".chatmtl"`

	// Transport Flags
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"ENABLE_CLI" envDefault:"true"`

	// Conversation
	ConversationMode  string        `env:"CONVERSATION_MODE" envDefault:"single"`
	SessionQueueSize  int           `env:"SESSION_QUEUE_SIZE" envDefault:"8"`
	GenerationTimeout time.Duration `env:"GENERATION_TIMEOUT" envDefault:"60s"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c, err := ParseAppConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func ParseAppConfig() (*AppConfig, error) {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	c.RuntimePath = GetRuntimePath()
	if c.ConversationMode != ModeSustained {
		c.ConversationMode = ModeSingle
	}
	if c.SessionQueueSize <= 0 {
		c.SessionQueueSize = 8
	}
	return c, nil
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetIndexPath() string {
	return filepath.Join(c.RuntimePath, "index")
}

func (c AppConfig) GetCategoriesPath() string {
	return filepath.Join(c.RuntimePath, "categories.yaml")
}

func (c AppConfig) GetLogPath() string {
	return filepath.Join(c.RuntimePath, "chatmtl.log")
}

func (c AppConfig) GetEnvPath() string {
	return filepath.Join(c.RuntimePath, ".env")
}

func (c AppConfig) IsSustained() bool {
	return c.ConversationMode == ModeSustained
}
