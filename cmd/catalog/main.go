// Package main is a terminal browser for the medicine catalog. It reads
// products through the configured gateway and prints the contact link of
// the product the user chose to inquire about.
package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/UTarts/cardiff-healthcare/internal/app"
	"github.com/UTarts/cardiff-healthcare/internal/catalog"
	"github.com/UTarts/cardiff-healthcare/internal/config"
	"github.com/UTarts/cardiff-healthcare/internal/tui"
	"github.com/UTarts/cardiff-healthcare/pkg/health"
	"github.com/UTarts/cardiff-healthcare/pkg/logger"
)

var (
	openID  string
	locale  string
	logFile string
)

var rootCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the Cardiff Healthcare medicine catalog in the terminal",
	Long: `catalog shows the product grid with category chips, search and name
sorting. Enter opens a product's gallery; i inside the gallery exits and
prints the contact form link prefilled with that product.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		tag := cfg.Locale()
		if locale != "" {
			if tag, err = language.Parse(locale); err != nil {
				return fmt.Errorf("invalid --locale %q: %w", locale, err)
			}
		}

		directive, err := catalog.ParseDirective(openID)
		if err != nil {
			return err
		}

		var w io.Writer = io.Discard
		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			w = f
		}
		log := logger.NewWithFormat("catalog", cfg.LogLevel, logger.FormatText, w)

		ctx := cmd.Context()
		backend, err := app.NewBackend(ctx, cfg, health.NewHandler(), log)
		if err != nil {
			return err
		}
		defer backend.Close()

		model := tui.New(ctx, backend.Products, catalog.NewEngine(tag), directive,
			catalog.WithLogger(log),
			catalog.WithPlaceholder(cfg.CatalogPlaceholder),
		)

		final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		if err != nil {
			return fmt.Errorf("run catalog: %w", err)
		}

		if m, ok := final.(tui.Model); ok {
			if h, ok := m.Handoff(); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s?prefill=%s\n", h.Path, url.QueryEscape(h.Prefill))
			}
		}
		return nil
	},
}

func main() {
	rootCmd.Flags().StringVar(&openID, "open", "", "open this product id's gallery once loaded")
	rootCmd.Flags().StringVar(&locale, "locale", "", "collation locale for name sorting (default CATALOG_LOCALE)")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "append logs to this file instead of discarding them")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "catalog:", err)
		os.Exit(1)
	}
}
