package duckdb

import "fmt"

// CreateBarsTable creates the staged OHLCV fact table. seq preserves
// input row order so instruments can be walked in first-seen order,
// keeping runs reproducible.
const CreateBarsTable = `
CREATE TABLE IF NOT EXISTS bars (
    seq BIGINT NOT NULL,
    stock VARCHAR NOT NULL,
    bar_date TIMESTAMP NOT NULL,
    open DOUBLE,
    high DOUBLE,
    low DOUBLE,
    close DOUBLE,
    volume DOUBLE,
    PRIMARY KEY (stock, bar_date)
);

CREATE INDEX IF NOT EXISTS idx_bars_stock ON bars(stock);
`

// CreateFeatureRowsTable creates the computed feature matrix table.
// Column order matches the canonical feature schema.
const CreateFeatureRowsTable = `
CREATE TABLE IF NOT EXISTS feature_rows (
    stock VARCHAR NOT NULL,
    bar_date TIMESTAMP NOT NULL,
    volatility_5d DOUBLE,
    volatility_10d DOUBLE,
    volatility_20d DOUBLE,
    trend_slope_10d DOUBLE,
    trend_slope_20d DOUBLE,
    drawdown_20d DOUBLE,
    volume_ratio_10d DOUBLE,
    volume_ratio_20d DOUBLE,
    range_compression_10d DOUBLE,
    momentum_5d DOUBLE,
    momentum_10d DOUBLE,
    PRIMARY KEY (stock, bar_date)
);
`

// InitializeSchema creates all required tables.
func InitializeSchema(c *Client) error {
	schemas := []string{
		CreateBarsTable,
		CreateFeatureRowsTable,
	}
	for _, schema := range schemas {
		if err := c.Exec(schema); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// DropAllTables drops all tables so a run can restage from scratch.
func DropAllTables(c *Client) error {
	tables := []string{"feature_rows", "bars"}
	for _, table := range tables {
		if err := c.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
