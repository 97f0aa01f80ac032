package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/chatmtl/pkg/log"
)

const (
	UnitChars  = "chars"
	UnitTokens = "tokens"
)

type MemoryConfig struct {
	Budget int    `env:"MEMORY_BUDGET" envDefault:"1000"`
	Unit   string `env:"MEMORY_BUDGET_UNIT" envDefault:"chars"`
}

func NewMemoryConfig(ctx context.Context) *MemoryConfig {
	c, err := ParseMemoryConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Memory config")
	}
	return c
}

func ParseMemoryConfig() (*MemoryConfig, error) {
	c := &MemoryConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if c.Unit != UnitTokens {
		c.Unit = UnitChars
	}
	return c, nil
}
