package database

import (
	"fmt"

	"github.com/surdiana/userhub/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnsureIndexes creates the partial and composite indexes the column tags
// cannot express. Runs after AutoMigrate; every statement is idempotent.
func EnsureIndexes(db *gorm.DB) error {
	statements := []string{
		// At most one root row can ever exist. The repository assigns root
		// to the first registration it observes; this index is the store-level
		// backstop for two registrations racing on an empty table.
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_single_root ON users(type) WHERE type = 'root';",

		// Admin listings filter on type within active accounts
		"CREATE INDEX IF NOT EXISTS idx_users_status_type ON users(status, type) WHERE deleted_at IS NULL;",

		// Login audit queries order by recency
		"CREATE INDEX IF NOT EXISTS idx_users_last_login_at ON users(last_login_at DESC) WHERE last_login_at IS NOT NULL;",
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	logger.GetLogger().Info("Database indexes ensured",
		zap.Int("count", len(statements)),
	)
	return nil
}
