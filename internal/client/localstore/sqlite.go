package localstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	sqldblogger "github.com/simukti/sqldb-logger"
	"github.com/simukti/sqldb-logger/logadapter/zerologadapter"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"go.opentelemetry.io/otel"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const kvTable = "kv"

type SQLiteKV struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

// NewSQLiteKV opens (creating if needed) the database at path and brings its
// schema up to date. SQL statements are logged to logWriter when it is not
// nil.
func NewSQLiteKV(path string, logWriter io.Writer) (*SQLiteKV, error) {
	migrationDB, err := sql.Open("sqlite3", path)

	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	err = RunMigrations(migrationDB)
	migrationDB.Close()

	if err != nil {
		return nil, err
	}

	tracedDB, err := otelsql.Open("sqlite3", path,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("serenity"),
		otelsql.WithTracerProvider(otel.GetTracerProvider()),
	)

	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	if logWriter == nil {
		logWriter = io.Discard
	}

	logger := zerolog.New(logWriter).With().Timestamp().Logger()
	db := sqldblogger.OpenDriver(path, tracedDB.Driver(), zerologadapter.New(logger),
		sqldblogger.WithMinimumLevel(sqldblogger.LevelDebug),
	)

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &SQLiteKV{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}, nil
}

func RunMigrations(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations")

	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})

	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)

	if err != nil {
		return fmt.Errorf("creating migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}

	return nil
}

func (s *SQLiteKV) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := s.builder.Select("value").
		From(kvTable).
		Where(sq.Eq{"key": key}).
		Limit(1).
		ToSql()

	if err != nil {
		return "", false, err
	}

	var value string

	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}

	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}

	return value, true, nil
}

func (s *SQLiteKV) Set(ctx context.Context, key, value string) error {
	query, args, err := s.builder.Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now().UTC()).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()

	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}

	return nil
}

func (s *SQLiteKV) Delete(ctx context.Context, key string) error {
	query, args, err := s.builder.Delete(kvTable).
		Where(sq.Eq{"key": key}).
		ToSql()

	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting %s: %w", key, err)
	}

	return nil
}

func (s *SQLiteKV) Close() error {
	return s.db.Close()
}
