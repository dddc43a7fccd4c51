// Marquee - Mood-to-Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package database

import (
	"context"
	"database/sql"
	"fmt"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/marquee/internal/logging"
)

// DB wraps an in-memory DuckDB connection used for CSV ingestion.
// Nothing is persisted; the catalog artifact is the only output.
type DB struct {
	conn *sql.DB
}

// Options tunes the DuckDB instance.
type Options struct {
	// Threads defaults to runtime.NumCPU().
	Threads int

	// MaxMemory is a DuckDB size string such as "1GB". Empty leaves the
	// DuckDB default.
	MaxMemory string
}

// Open starts an in-memory DuckDB instance.
//
// Extension auto-install and auto-load are disabled so ingestion never
// reaches the network; CSV parsing and regex functions are built in.
func Open(ctx context.Context, opts Options) (*DB, error) {
	threads := opts.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	connStr := fmt.Sprintf(":memory:?threads=%d&autoinstall_known_extensions=false&autoload_known_extensions=false", threads)
	if opts.MaxMemory != "" {
		connStr += "&max_memory=" + opts.MaxMemory
	}

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn}
	db.configureConnectionPool()

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logging.Debug().Int("threads", threads).Str("max_memory", opts.MaxMemory).Msg("DuckDB ingestion database opened")
	return db, nil
}

// configureConnectionPool pins the pool to one connection. TEMP tables are
// per connection, so every statement of a build must share it.
func (db *DB) configureConnectionPool() {
	db.conn.SetMaxOpenConns(1)
	db.conn.SetMaxIdleConns(1)
	db.conn.SetConnMaxLifetime(0)
}

// Close releases the DuckDB instance.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// sqlLiteral quotes s as a SQL string literal. Table functions such as
// read_csv take their path as a constant, not a bind parameter.
func sqlLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
