package main

import (
	"context"
	"fmt"

	"github.com/sandevgo/chatmtl/internal/config"
	"github.com/sandevgo/chatmtl/internal/core"
	"github.com/sandevgo/chatmtl/internal/providers/llm"
	"github.com/sandevgo/chatmtl/internal/providers/rag"
	"github.com/sandevgo/chatmtl/internal/service/command"
	"github.com/sandevgo/chatmtl/internal/service/memory"
	"github.com/sandevgo/chatmtl/internal/service/responder"
	"github.com/sandevgo/chatmtl/internal/service/router"
	"github.com/sandevgo/chatmtl/internal/service/session"
	"github.com/sandevgo/chatmtl/internal/storage/sqlite"
	"github.com/sandevgo/chatmtl/internal/transport/cli"
	"github.com/sandevgo/chatmtl/internal/transport/telegram"
	"github.com/sandevgo/chatmtl/pkg/log"
	"github.com/sandevgo/chatmtl/pkg/srv"
)

// NewServices wires the chat services. Services shut down in reverse order,
// so storage registered first closes last.
func NewServices(ctx context.Context, appCfg *config.AppConfig) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	if !appCfg.EnableCLI && !appCfg.EnableTelegram {
		logger.Fatal().Msg("no transport enabled, set ENABLE_CLI or ENABLE_TELEGRAM")
	}

	// 1. Configuration
	ragCfg := config.NewRAGConfig(ctx)
	memCfg := config.NewMemoryConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)

	categories, err := config.LoadCategories(appCfg.GetCategoriesPath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load categories")
	}

	// 2. Embedder
	embedder, err := initEmbedder(ctx, ragCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize embedder")
	}
	services = append(services, srv.NewCleanup(func() error { return embedder.Shutdown(ctx) }))

	// 3. Indexes
	registry, err := initIndexes(ctx, appCfg, ragCfg, categories, embedder.Dims())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load indexes")
	}
	services = append(services, srv.NewCleanup(func() error { return registry.Shutdown(ctx) }))

	// 4. Generator
	provider, err := llm.NewProvider(ctx, llmCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}
	generator := llm.NewGenerator(provider)

	// 5. Conversation
	if memCfg.Unit == config.UnitTokens {
		if err := rag.LoadTokenizer(); err != nil {
			logger.Warn().Err(err).Msg("memory budget falls back to characters")
			memCfg.Unit = config.UnitChars
		}
	}
	mem := memory.New(memCfg, generator)
	resp := responder.New(registry, embedder, generator, responder.Config{
		TopK:        ragCfg.TopK,
		AnswerWords: ragCfg.AnswerWords,
		CorpusName:  ragCfg.CorpusName,
		Timeout:     appCfg.GenerationTimeout,
	})
	conv := session.NewConversation(
		router.New(categories, appCfg.IsSustained()),
		resp,
		mem,
		registry,
		ragCfg.CorpusName,
	)
	conv.WithCommands(command.NewRouter(conv, mem))

	displays := session.Displays()
	sess := session.New(conv, displays, appCfg.SessionQueueSize)
	services = append(services, sess)

	// 6. Transports
	transports, err := initTransports(ctx, appCfg, sess, displays, conv.Greeting())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	services = append(services, transports...)

	return services
}

func initEmbedder(ctx context.Context, cfg *config.RAGConfig) (*rag.Embedder, error) {
	model, err := rag.NewEmbeddingModel(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return rag.NewEmbedder(model, cfg.EmbeddingTimeout), nil
}

// initIndexes opens every category store found on disk. Categories without
// a usable store answer with a not-loaded message.
func initIndexes(
	ctx context.Context,
	appCfg *config.AppConfig,
	ragCfg *config.RAGConfig,
	categories core.Categories,
	dims int,
) (*sqlite.Registry, error) {
	logger := log.FromCtx(ctx)

	metric := core.Metric(ragCfg.Metric)
	if !metric.Valid() {
		return nil, fmt.Errorf("unknown similarity metric %q", ragCfg.Metric)
	}

	registry := sqlite.NewRegistry(appCfg.GetIndexPath())
	if err := registry.LoadAll(ctx, categories, dims, metric); err != nil {
		// mismatched stores stay unloaded until re-ingested with --rebuild
		logger.Error().Err(err).Msg("some indexes could not be opened")
	}

	loaded := registry.Loaded(categories)
	if len(loaded) < len(categories) {
		logger.Warn().
			Int("loaded", len(loaded)).
			Int("categories", len(categories)).
			Msg("some categories have no index, run 'chatmtl ingest'")
	}
	logger.Info().Strs("categories", loaded).Msg("indexes loaded")
	return registry, nil
}

func initTransports(
	ctx context.Context,
	cfg *config.AppConfig,
	sess *session.Session,
	displays *session.Broadcast,
	greeting string,
) ([]srv.Service, error) {
	var services []srv.Service

	if cfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, sess, greeting)
		if err != nil {
			return nil, err
		}
		displays.Add(bot)
		services = append(services, bot)
	}

	if cfg.EnableCLI {
		chat := cli.NewChat(ctx, sess)
		displays.Add(chat)
		services = append(services, chat)
	}

	return services, nil
}
