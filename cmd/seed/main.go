// Package main seeds the configured gateway with the sample catalog.
// Products whose name already exists are skipped, so the command can be
// run repeatedly.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/UTarts/cardiff-healthcare/internal/app"
	"github.com/UTarts/cardiff-healthcare/internal/config"
	"github.com/UTarts/cardiff-healthcare/internal/domain"
	"github.com/UTarts/cardiff-healthcare/internal/repository"
	"github.com/UTarts/cardiff-healthcare/internal/repository/memory"
	"github.com/UTarts/cardiff-healthcare/pkg/health"
	"github.com/UTarts/cardiff-healthcare/pkg/logger"
)

var (
	dryRun  bool
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample medicine catalog through the configured gateway",
	Long: `seed inserts the ten sample products used in development into the
products table of the gateway selected by GATEWAY_DRIVER (rest or postgres).
Writes through the REST gateway use GATEWAY_SERVICE_KEY.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.GatewayDriver == config.DriverMemory {
			return fmt.Errorf("GATEWAY_DRIVER is memory; nothing to seed")
		}

		log := logger.New("seed", cfg.LogLevel)

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		backend, err := app.NewBackend(ctx, cfg, health.NewHandler(), log)
		if err != nil {
			return err
		}
		defer backend.Close()

		inserted, err := seed(ctx, backend.Products, memory.SeedProducts(), dryRun, log)
		if err != nil {
			return err
		}
		log.Info("seeding complete", slog.Int("inserted", inserted), slog.Bool("dry_run", dryRun))
		return nil
	},
}

// seed inserts products whose names are not present yet.
func seed(ctx context.Context, repo repository.ProductRepository, products []domain.Product, dryRun bool, log *slog.Logger) (int, error) {
	names, err := repo.ListProductNames(ctx)
	if err != nil {
		return 0, fmt.Errorf("list existing products: %w", err)
	}
	existing := make(map[string]struct{}, len(names))
	for _, n := range names {
		existing[n] = struct{}{}
	}

	inserted := 0
	for _, p := range products {
		if _, ok := existing[p.Name]; ok {
			log.Info("skipping existing product", slog.String("name", p.Name))
			continue
		}
		if dryRun {
			log.Info("would insert product", slog.String("name", p.Name))
			inserted++
			continue
		}

		p.ID = 0
		p.CreatedAt = time.Time{}
		if err := repo.Create(ctx, &p); err != nil {
			return inserted, fmt.Errorf("insert %s: %w", p.Name, err)
		}
		log.Info("inserted product", slog.String("name", p.Name), slog.Int64("id", p.ID))
		inserted++
	}
	return inserted, nil
}

func main() {
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "log what would be inserted without writing")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall deadline")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
}
