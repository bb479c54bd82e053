package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func New(ctx context.Context, connStr string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if maxConns <= 0 {
		maxConns = 25
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(max(maxConns/5, 1))
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}
