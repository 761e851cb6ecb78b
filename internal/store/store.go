// Package store persists users and birthday records with gorm.
// SQLite is the default engine; PostgreSQL is available for shared deployments.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/tartampluch/go-birthday-web/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New(config.ErrRowNotFound)
	// ErrConflict is returned when a unique constraint is violated.
	ErrConflict = errors.New(config.ErrRowConflict)
)

// Store wraps the gorm handle shared by the repositories.
type Store struct {
	db *gorm.DB
}

// Open connects to the configured database and migrates the schema.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case config.DriverSQLite:
		dialector = sqlite.Open(dsn)
	case config.DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrDBDriver, driver)
	}

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             config.DBSlowThreshold,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLog,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDBOpen, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDBOpen, err)
	}
	if driver == config.DriverSQLite {
		// SQLite allows a single writer; serializing connections avoids "database is locked".
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(config.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(config.DBMaxIdleConns)
		sqlDB.SetConnMaxIdleTime(config.DBConnMaxIdle)
		sqlDB.SetConnMaxLifetime(config.DBConnMaxLife)
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.DBConnectTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrDBOpen, err)
	}

	if err := db.WithContext(ctx).AutoMigrate(&User{}, &Birthday{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrDBMigrate, err)
	}

	slog.Info(config.MsgDBOpened,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyDriver, driver,
	)
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the database answers. Used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Users returns the user repository.
func (s *Store) Users() *UserRepo {
	return &UserRepo{db: s.db}
}

// Birthdays returns the birthday repository.
func (s *Store) Birthdays() *BirthdayRepo {
	return &BirthdayRepo{db: s.db}
}

// translate maps gorm errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return fmt.Errorf("%s: %w", config.ErrDBQuery, err)
	}
}
