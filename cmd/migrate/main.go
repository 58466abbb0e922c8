package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/whummer/stripe-xero-sync/internal/config"
	stripeadapter "github.com/whummer/stripe-xero-sync/internal/integration/stripe"
	xeroadapter "github.com/whummer/stripe-xero-sync/internal/integration/xero"
	"github.com/whummer/stripe-xero-sync/internal/logger"
	"github.com/whummer/stripe-xero-sync/internal/mapper"
	"github.com/whummer/stripe-xero-sync/internal/service"
	"github.com/whummer/stripe-xero-sync/internal/watermark"
)

func main() {
	// Parse command line flags
	invoices := flag.Bool("invoices", false, "Migrate invoices")
	refunds := flag.Bool("refunds", false, "Migrate refunds")
	dryRun := flag.Bool("dry-run", false, "Report what would be migrated without writing")
	flag.Parse()

	if !*invoices && !*refunds {
		log.Fatal("Nothing to do: pass --invoices and/or --refunds")
	}

	// Load .env if present, then configuration
	_ = godotenv.Load()
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dryRun {
		cfg.Migration.DryRun = true
	}

	// Initialize logger
	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	source := stripeadapter.NewClient(cfg.Stripe, logger)
	sink := xeroadapter.NewClient(cfg.Xero, xeroadapter.NewStaticTokenSource(cfg.Xero.AccessToken), logger)
	states := watermark.NewFileStore(cfg.Migration.StateFile)

	svc := service.NewMigrationService(cfg, logger, source, sink, states, mapper.New(cfg.Xero))

	if *invoices {
		if _, err := svc.MigrateInvoices(ctx); err != nil {
			logger.Fatalw("Invoice migration failed", "error", err)
		}
	}
	if *refunds {
		if _, err := svc.MigrateRefunds(ctx); err != nil {
			logger.Fatalw("Refund migration failed", "error", err)
		}
	}
}
