package database

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/beesaferoot/gorm-posts/internal/config"
)

const pingTimeout = 2 * time.Second

// retryDelay is the first pause between connection attempts; it doubles up to maxRetryDelay.
var (
	retryDelay    = time.Second
	maxRetryDelay = 8 * time.Second
)

// Dialect names the relational engine behind a database URL.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// ParseURL maps a DATABASE_URL value to its dialect and the DSN the driver expects.
// postgres:// and postgresql:// URLs and keyword DSNs ("host=... dbname=...")
// select PostgreSQL. sqlite://, file: URIs and bare paths select SQLite.
func ParseURL(raw string) (Dialect, string, error) {
	url := strings.TrimSpace(raw)
	switch {
	case url == "":
		return "", "", fmt.Errorf("database url is empty")
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"), isKeywordDSN(url):
		return DialectPostgres, url, nil
	case strings.HasPrefix(url, "file:"):
	case strings.HasPrefix(url, "sqlite://"):
		url = strings.TrimPrefix(url, "sqlite://")
		if url == "" {
			return "", "", fmt.Errorf("sqlite url has no path")
		}
	case strings.Contains(url, "://"):
		return "", "", fmt.Errorf("unsupported database url scheme in %q", raw)
	}
	return DialectSQLite, withForeignKeys(url), nil
}

// keywordDSNKeys are the libpq settings that mark a key=value connection string.
var keywordDSNKeys = map[string]bool{"host": true, "hostaddr": true, "dbname": true, "user": true, "port": true}

// isKeywordDSN reports whether every space separated field is key=value and at
// least one key is a libpq connection setting.
func isKeywordDSN(dsn string) bool {
	fields := strings.Fields(dsn)
	found := false
	for _, f := range fields {
		key, _, ok := strings.Cut(f, "=")
		if !ok {
			return false
		}
		if keywordDSNKeys[key] {
			found = true
		}
	}
	return found
}

// withForeignKeys turns on SQLite foreign key enforcement so likes cascade with their post.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

// Dialector returns the gorm dialector for a DATABASE_URL value.
func Dialector(raw string) (gorm.Dialector, Dialect, error) {
	dialect, dsn, err := ParseURL(raw)
	if err != nil {
		return nil, "", err
	}
	if dialect == DialectPostgres {
		return postgres.Open(dsn), dialect, nil
	}
	return sqlite.Open(dsn), dialect, nil
}

// Open connects to the configured store and returns the handle every repository shares.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, dialect, err := Dialector(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	db, err := openWithRetry(dialector, cfg.DBConnectAttempt, newGormConfig(cfg.DBLogLevel))
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if dialect == DialectSQLite {
		// one writer at a time; sqlite returns "database is locked" otherwise
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(40)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.Use(tracing.NewPlugin()); err != nil {
		return nil, fmt.Errorf("db tracing plugin: %w", err)
	}

	if len(cfg.ReadReplicas) > 0 {
		if err := useReplicas(db, cfg.ReadReplicas); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Ping checks the primary connection.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func useReplicas(db *gorm.DB, urls []string) error {
	replicas := make([]gorm.Dialector, 0, len(urls))
	for _, u := range urls {
		d, _, err := Dialector(u)
		if err != nil {
			return fmt.Errorf("read replica: %w", err)
		}
		replicas = append(replicas, d)
	}
	resolver := dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	})
	if err := db.Use(resolver); err != nil {
		return fmt.Errorf("dbresolver: %w", err)
	}
	return nil
}

func newGormConfig(level string) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel(level)),
		TranslateError: true,
	}
}

func logLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func openWithRetry(dialector gorm.Dialector, attempts int, gcfg *gorm.Config) (*gorm.DB, error) {
	if attempts < 1 {
		attempts = 1
	}
	sleep := retryDelay
	var last error
	for i := 1; i <= attempts; i++ {
		db, err := gorm.Open(dialector, gcfg)
		if err == nil {
			if err = Ping(context.Background(), db); err == nil {
				return db, nil
			}
		}
		// gorm.Open hands back the pool even when its own ping fails
		if db != nil && db.ConnPool != nil {
			_ = Close(db)
		}
		last = err
		if i == attempts {
			break
		}
		log.Printf("db connect attempt %d/%d failed: %v", i, attempts, err)
		time.Sleep(sleep)
		if sleep < maxRetryDelay {
			sleep *= 2
		}
	}
	return nil, last
}
