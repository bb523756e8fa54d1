package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rpupo63/crowdconnect-backend/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Options selects the SQL dialect and connection strings for Open
type Options struct {
	Type          string
	DSN           string
	ReplicaDSN    string
	SlowThreshold time.Duration
	LogLevel      logger.LogLevel
}

// OptionsFromConfig builds connection options from the environment map.
// DB_TYPE is one of postgres, supa or sqlite.
func OptionsFromConfig(c map[string]string) (Options, error) {
	opts := Options{
		Type:          strings.ToLower(config.GetString(c, "DB_TYPE", "postgres")),
		ReplicaDSN:    config.GetString(c, "DB_REPLICA_DSN", ""),
		SlowThreshold: time.Duration(config.GetInt(c, "DB_SLOW_THRESHOLD_SECONDS", 10)) * time.Second,
		LogLevel:      logger.Warn,
	}

	switch opts.Type {
	case "postgres":
		opts.DSN = config.GetString(c, "DATABASE_URL", "")
		if opts.DSN == "" {
			opts.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
				config.GetString(c, "DB_HOST", "localhost"),
				config.GetString(c, "DB_USER", "postgres"),
				config.GetString(c, "DB_PASSWORD", ""),
				config.GetString(c, "DB_NAME", "crowdconnect"),
				config.GetString(c, "DB_PORT", "5432"),
				config.GetString(c, "DB_SSLMODE", "disable"),
			)
		}
	case "supa":
		opts.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", ""),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		)
	case "sqlite":
		opts.DSN = SQLiteDSN(config.GetString(c, "SQLITE_PATH", "crowdconnect.db"))
	default:
		return Options{}, fmt.Errorf("unsupported DB_TYPE %q", opts.Type)
	}
	return opts, nil
}

// SQLiteDSN enables foreign keys and a busy timeout on a file path
func SQLiteDSN(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func dialector(dbType, dsn string) gorm.Dialector {
	if dbType == "sqlite" {
		return sqlite.Open(dsn)
	}
	return postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	})
}

// Open connects to the configured store. Reads are routed to the replica
// when ReplicaDSN is set; writes and transactions stay on the primary.
func Open(opts Options) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             opts.SlowThreshold,
			LogLevel:                  opts.LogLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(dialector(opts.Type, opts.DSN), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", opts.Type, err)
	}

	if opts.Type == "sqlite" {
		// sqlite has a single writer
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if opts.ReplicaDSN != "" {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{dialector(opts.Type, opts.ReplicaDSN)},
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("registering read replica: %w", err)
		}
	}

	return db, nil
}
