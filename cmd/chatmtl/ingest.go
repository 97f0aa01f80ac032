package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/sandevgo/chatmtl/internal/config"
	"github.com/sandevgo/chatmtl/internal/core"
	"github.com/sandevgo/chatmtl/internal/providers/fetch"
	"github.com/sandevgo/chatmtl/internal/service/ingest"
	"github.com/sandevgo/chatmtl/internal/service/ui"
	"github.com/sandevgo/chatmtl/internal/storage/sqlite"
	"github.com/sandevgo/chatmtl/pkg/log"
	"github.com/spf13/cobra"
)

var (
	ingestCategories []string
	ingestRebuild    bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch, chunk and index category content",
	Long: `Fetches the source page of each category, splits it into fragments and stores their embeddings
in the category index. Re-ingesting a category replaces its fragments; --rebuild recreates the stores.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if _, err := loadEnv(config.GetRuntimePath()); err != nil {
			return err
		}

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()
		logger := log.FromCtx(ctx)

		appCfg, err := config.ParseAppConfig()
		if err != nil {
			return err
		}
		ragCfg, err := config.ParseRAGConfig()
		if err != nil {
			return err
		}

		all, err := config.LoadCategories(appCfg.GetCategoriesPath())
		if err != nil {
			return err
		}
		categories, err := selectCategories(all, ingestCategories)
		if err != nil {
			return err
		}

		metric := core.Metric(ragCfg.Metric)
		if !metric.Valid() {
			return fmt.Errorf("unknown similarity metric %q", ragCfg.Metric)
		}

		embedder, err := initEmbedder(ctx, ragCfg)
		if err != nil {
			return err
		}
		defer func() { _ = embedder.Shutdown(ctx) }()

		registry := sqlite.NewRegistry(appCfg.GetIndexPath())
		defer func() { _ = registry.Shutdown(ctx) }()

		pipeline := ingest.New(fetch.NewFetcher(), embedder, registry, ingest.Config{
			ChunkSize: ragCfg.ChunkSize,
			Metric:    metric,
			SourceURL: ragCfg.SourceURL,
			Rebuild:   ingestRebuild,
		})

		logger.Info().Int("categories", len(categories)).Bool("rebuild", ingestRebuild).Msg("starting ingestion")
		report, runErr := pipeline.Run(ctx, categories)
		printReport(cmd.OutOrStdout(), report)

		if runErr != nil {
			return runErr
		}
		if failed := report.Failed(); len(failed) == len(categories) && len(categories) > 0 {
			return errors.New("every category failed to ingest")
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringSliceVarP(&ingestCategories, "category", "c", nil, "category ids to ingest (default: all)")
	ingestCmd.Flags().BoolVar(&ingestRebuild, "rebuild", false, "drop existing indexes before ingesting")
	rootCmd.AddCommand(ingestCmd)
}

// selectCategories keeps configuration order. Unknown ids are an error.
func selectCategories(all core.Categories, ids []string) (core.Categories, error) {
	if len(ids) == 0 {
		return all, nil
	}
	for _, id := range ids {
		if _, ok := all.Find(id); !ok {
			return nil, fmt.Errorf("unknown category %q, known: %v", id, all.IDs())
		}
	}
	out := make(core.Categories, 0, len(ids))
	for _, c := range all {
		if slices.Contains(ids, c.ID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func printReport(w io.Writer, report ingest.Report) {
	fmt.Fprintln(w, ui.TitleStyle.Render("INGESTION"))
	for _, res := range report.Results {
		status := ui.UsageStyle.Render("ok")
		detail := fmt.Sprintf("%d fragments", res.Fragments)
		if res.Err != nil {
			status = ui.ErrorStyle.Render("failed")
			detail = res.Err.Error()
		}
		fmt.Fprintf(w, "  %-15s %s %s %s\n", res.Category, status,
			ui.DescStyle.Render(res.Took.Round(time.Millisecond).String()), detail)
	}
	fmt.Fprintf(w, "\n%d fragments indexed, %d of %d categories failed\n",
		report.Fragments(), len(report.Failed()), len(report.Results))
}
