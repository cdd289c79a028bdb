package migration

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/abi-lab/backend/internal/entity"
	"github.com/abi-lab/backend/pkg/xcontext"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed mysql/*.sql
var mysqlFS embed.FS

// Migrate brings the schema of the configured database up to date. MySQL is
// migrated by the versioned SQL files, sqlite (local runs and tests) by gorm.
func Migrate(ctx context.Context) error {
	switch driver := xcontext.Configs(ctx).Database.Driver; driver {
	case "mysql":
		return migrateMySQL(ctx)
	case "sqlite":
		return AutoMigrate(ctx)
	default:
		return fmt.Errorf("unsupported database driver %s", driver)
	}
}

// migrateMySQL uses its own connection because a migration file contains
// multiple statements.
func migrateMySQL(ctx context.Context) error {
	source, err := iofs.New(mysqlFS, "mysql")
	if err != nil {
		return err
	}

	dbCfg := xcontext.Configs(ctx).Database
	dsn := dbCfg.MigrationConnectionString()
	m, err := migrate.NewWithSourceInstance("iofs", source, "mysql://"+dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

// AutoMigrate creates the tables by gorm. MySQL doesn't support partial
// indexes, so it must use the SQL files instead.
func AutoMigrate(ctx context.Context) error {
	db := xcontext.DB(ctx)
	err := db.AutoMigrate(
		&entity.Profile{},
		&entity.Tag{},
		&entity.Question{},
		&entity.QuestionTag{},
		&entity.Answer{},
		&entity.Vote{},
		&entity.ReputationLog{},
		&entity.Badge{},
		&entity.UserBadge{},
		&entity.UpgradeRequest{},
	)
	if err != nil {
		return err
	}

	// At most one accepted answer per question.
	return db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_answers_one_accepted " +
			"ON answers (question_id) WHERE is_accepted",
	).Error
}
