package main

import (
	"context"
	"flag"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	loyaltyapp "github.com/loyalty/backend/internal/application/loyalty"
	"github.com/loyalty/backend/internal/infrastructure/config"
	"github.com/loyalty/backend/internal/infrastructure/logger"
	"github.com/loyalty/backend/internal/infrastructure/persistence"
	"github.com/loyalty/backend/internal/infrastructure/persistence/tenant"
)

// The yearly expiration job. Run once a year (typically on January 1st)
// it expires every customer's unspent remainder from the target year.
// Safe to re-run: an already-expired year yields nothing.
func main() {
	_ = godotenv.Load()

	var (
		tenantFlag string
		yearFlag   int
	)
	flag.StringVar(&tenantFlag, "tenant", "", "Run for a single tenant ID instead of all active tenants")
	flag.IntVar(&yearFlag, "year", 0, "Target year to expire (default: current year minus expiration.years_back)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	targetYear := yearFlag
	if targetYear == 0 {
		targetYear = time.Now().UTC().Year() - cfg.Expiration.YearsBack
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	tenant.EnableAutoTenantFilter(db.DB)

	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	unitOfWork := persistence.NewGormUnitOfWork(db.DB)

	// The job goes straight at the ledger; no caches to keep warm here
	ledger := loyaltyapp.NewLedgerService(unitOfWork, nil, nil, 0, log)
	job := loyaltyapp.NewExpirationJob(tenantRepo, customerRepo, ledger, cfg.Expiration.BatchSize, log)

	ctx := logger.WithContext(context.Background(), log)

	var summary *loyaltyapp.ExpirationSummary
	if tenantFlag != "" {
		tenantID, err := uuid.Parse(tenantFlag)
		if err != nil {
			log.Fatal("Invalid tenant ID", zap.String("tenant", tenantFlag))
		}
		summary, err = job.RunTenant(ctx, tenantID, targetYear)
		if err != nil {
			log.Fatal("Expiration run failed", zap.Error(err))
		}
		summary.TenantsProcessed = 1
	} else {
		summary, err = job.Dispatch(ctx, targetYear)
		if err != nil {
			log.Fatal("Expiration dispatch failed", zap.Error(err))
		}
	}

	log.Info("Expiration job completed",
		zap.Int("target_year", summary.TargetYear),
		zap.Int("tenants_processed", summary.TenantsProcessed),
		zap.Int64("customers_affected", summary.CustomersAffected),
		zap.Int64("total_expired", summary.TotalExpired),
		zap.Int64("failures", summary.Failures),
	)
}
