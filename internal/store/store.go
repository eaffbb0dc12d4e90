package store

import (
	"context"
	"fmt"

	"github.com/go-authgate/oauthprovider/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is the relational persistence layer shared by the registry, token
// store and consent ledger.
type Store struct {
	db     *gorm.DB
	driver string
}

// Options tunes New.
type Options struct {
	// BootstrapIdentity creates empty user and session tables when the
	// identity system has not created them yet (development databases).
	BootstrapIdentity bool
	LogLevel          logger.LogLevel
}

// New opens the database. OAuth tables are owned by the migration package and
// are not created here; only the audit table is auto-migrated.
func New(driver, dsn string, opts Options) (*Store, error) {
	dialector, err := GetDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	level := opts.LogLevel
	if level == 0 {
		level = logger.Warn
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// One connection keeps :memory: databases and the pragma below stable.
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	}

	if opts.BootstrapIdentity {
		for _, table := range []any{&models.User{}, &models.Session{}} {
			if db.Migrator().HasTable(table) {
				continue
			}
			if err := db.Migrator().CreateTable(table); err != nil {
				return nil, fmt.Errorf("bootstrap identity tables: %w", err)
			}
		}
	}

	if err := db.AutoMigrate(&models.AuditLog{}); err != nil {
		return nil, err
	}

	return &Store{db: db, driver: driver}, nil
}

// Driver returns the configured driver name.
func (s *Store) Driver() string {
	return s.driver
}

// DB returns the underlying gorm handle, used by the schema migrator.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// RunInTransaction runs fn against a Store bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, driver: s.driver})
	})
}

// Health pings the database.
func (s *Store) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}
