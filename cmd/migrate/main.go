package main

import (
	"flag"

	"github.com/agrifield/backend/internal/infrastructure/config"
	"github.com/agrifield/backend/internal/infrastructure/logger"
	"github.com/agrifield/backend/internal/infrastructure/persistence"
	"github.com/agrifield/backend/internal/infrastructure/persistence/models"
	"go.uber.org/zap"
)

// compositeIndexes are the unique constraints spanning tenant_id and a
// sibling column. They cannot be declared through struct tags because
// tenant_id lives on an embedded struct, so they are created here.
var compositeIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_tenant_username
		ON users (tenant_id, username)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_tenant_modules_tenant_key
		ON tenant_modules (tenant_id, module_key)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_posting_groups_tenant_idem_key
		ON posting_groups (tenant_id, idempotency_key)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_stock_balances_tenant_store_item
		ON stock_balances (tenant_id, store_id, item_id)`,
}

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log := logger.New(config.LogConfig{Level: logLevel, Format: "console", Output: "stdout"})
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	log.Info("Running schema migration", zap.String("database", cfg.Database.DBName))

	if err := db.DB.AutoMigrate(
		&models.TenantModelRow{},
		&models.UserModel{},
		&models.TenantModuleModel{},
		&models.LandParcelModel{},
		&models.LandAllocationModel{},
		&models.GRNModel{},
		&models.GRNLineModel{},
		&models.PostingGroupModel{},
		&models.StockBalanceModel{},
	); err != nil {
		log.Fatal("Schema migration failed", zap.Error(err))
	}

	for _, stmt := range compositeIndexes {
		if err := db.DB.Exec(stmt).Error; err != nil {
			log.Fatal("Index creation failed", zap.String("statement", stmt), zap.Error(err))
		}
	}

	log.Info("Migration completed")
}
