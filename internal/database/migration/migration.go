// Package migration creates the schema for generation records.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_generations",
		SQL: `CREATE TABLE IF NOT EXISTS generations (
  id              UUID        PRIMARY KEY,
  language        TEXT        NOT NULL,
  doc_type        TEXT        NOT NULL,
  output_format   TEXT        NOT NULL CHECK (output_format IN ('docx', 'pdf')),
  filename        TEXT        NOT NULL,
  storage_key     TEXT        NOT NULL,
  status          TEXT        NOT NULL CHECK (status IN ('succeeded', 'failed')),
  error_kind      TEXT,
  email_requested BOOLEAN     NOT NULL DEFAULT false,
  email_sent      BOOLEAN     NOT NULL DEFAULT false,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_generations_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_generations_created_at ON generations (created_at);`,
	},
	{
		Name: "create_index_generations_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_generations_status ON generations (status);`,
	},
}

// EnsureMigrated creates the generations table and its indexes unless the
// table already exists.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	start := time.Now()
	log = log.With(zap.String("component", "database"))

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass('public.generations') IS NOT NULL").Scan(&exists); err != nil {
		log.Error("db_migration_failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}
	if exists {
		log.Info("db_migration_skip", zap.String("msg", "schema already exists"))
		return nil
	}

	log.Info("db_migration_start")
	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Duration("duration", time.Since(start)),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("db_migration_step",
			zap.String("migration_step", step.Name),
			zap.Duration("step_duration", time.Since(stepStart)),
		)
	}

	log.Info("db_migration_success", zap.Duration("duration", time.Since(start)))
	return nil
}
