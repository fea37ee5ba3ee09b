// Package duckdb stages training datasets in an embedded DuckDB file
// so a multi-million-row input does not have to stay resident between
// pipeline stages, and so computed feature rows survive for inspection
// and re-runs.
package duckdb

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
)

// Client manages the DuckDB connection.
type Client struct {
	db   *sql.DB
	path string
}

// NewClient opens a DuckDB database. path is a file for persistent
// staging or ":memory:" for throwaway runs.
func NewClient(path string) (*Client, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}
	return &Client{db: db, path: path}, nil
}

// Close closes the database connection.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Exec executes a statement without returning rows.
func (c *Client) Exec(query string, args ...interface{}) error {
	_, err := c.db.Exec(query, args...)
	return err
}

// Query executes a query and returns rows.
func (c *Client) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return c.db.Query(query, args...)
}

// QueryRow executes a query that returns at most one row.
func (c *Client) QueryRow(query string, args ...interface{}) *sql.Row {
	return c.db.QueryRow(query, args...)
}

// Begin starts a transaction.
func (c *Client) Begin() (*sql.Tx, error) {
	return c.db.Begin()
}
