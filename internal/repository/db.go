package repository

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the durable store and verifies the connection. The
// supported drivers are "postgres" and "sqlite3".
func Open(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if driver == "sqlite3" {
		// A single connection keeps :memory: databases coherent and avoids
		// SQLITE_BUSY under concurrent writers.
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// InitSchema creates the store tables if they do not exist. The DDL sticks to
// the subset both drivers accept.
func InitSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			customer_id   TEXT PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			first_name    TEXT NOT NULL,
			last_name     TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			phone_number  TEXT NOT NULL UNIQUE,
			created_at    TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			account_number        TEXT PRIMARY KEY,
			customer_id           TEXT NOT NULL REFERENCES customers(customer_id),
			account_type          TEXT NOT NULL,
			balance               NUMERIC(19,4) NOT NULL,
			min_balance_threshold NUMERIC(19,4) NOT NULL,
			created_at            TIMESTAMP NOT NULL,
			updated_at            TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			transaction_id   TEXT PRIMARY KEY,
			account_number   TEXT NOT NULL REFERENCES accounts(account_number),
			transaction_type TEXT NOT NULL,
			amount           NUMERIC(19,4) NOT NULL,
			timestamp        TIMESTAMP NOT NULL,
			description      TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
