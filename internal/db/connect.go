package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open подключается к Postgres и ждёт готовности базы.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	database, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	database.SetMaxOpenConns(10)
	database.SetMaxIdleConns(5)
	database.SetConnMaxLifetime(30 * time.Minute)

	if err := ping(ctx, database); err != nil {
		_ = database.Close()
		return nil, err
	}
	return database, nil
}

func ping(ctx context.Context, database *sql.DB) error {
	var err error
	for attempt := 1; attempt <= 30; attempt++ {
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err = database.PingContext(pctx)
		cancel()
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
		}
	}
	return fmt.Errorf("db ping timeout: %w", err)
}
