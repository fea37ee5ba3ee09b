package duckdb

import (
	"context"
	"fmt"

	"github.com/quantfold/regime/pkg/model"
)

// BarRepo handles staged OHLCV bar persistence.
type BarRepo struct {
	client *Client
}

// NewBarRepo creates a new bar repository.
func NewBarRepo(client *Client) *BarRepo {
	return &BarRepo{client: client}
}

// InsertBatch stages bars in a transaction. seq continues from the
// current table maximum so repeated batches keep a global input order.
func (r *BarRepo) InsertBatch(ctx context.Context, bars []model.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	var next int64
	row := r.client.QueryRow("SELECT COALESCE(MAX(seq), -1) + 1 FROM bars")
	if err := row.Scan(&next); err != nil {
		return fmt.Errorf("failed to read bar sequence: %w", err)
	}

	tx, err := r.client.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO bars (seq, stock, bar_date, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (stock, bar_date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, b := range bars {
		_, err := stmt.Exec(next+int64(i), b.Stock, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume)
		if err != nil {
			return fmt.Errorf("failed to insert bar: %w", err)
		}
	}
	return tx.Commit()
}

// Instruments returns the distinct instrument ids in first-seen input
// order.
func (r *BarRepo) Instruments(ctx context.Context) ([]string, error) {
	rows, err := r.client.Query(`
		SELECT stock FROM bars GROUP BY stock ORDER BY MIN(seq)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query instruments: %w", err)
	}
	defer rows.Close()

	var stocks []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan instrument: %w", err)
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}

// GetByStock returns one instrument's bars ordered ascending by date.
func (r *BarRepo) GetByStock(ctx context.Context, stock string) ([]model.Bar, error) {
	rows, err := r.client.Query(`
		SELECT stock, bar_date, open, high, low, close, volume
		FROM bars
		WHERE stock = ?
		ORDER BY bar_date ASC
	`, stock)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.Bar
	for rows.Next() {
		var b model.Bar
		if err := rows.Scan(&b.Stock, &b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan bar: %w", err)
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// Count returns the total number of staged bars.
func (r *BarRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	row := r.client.QueryRow("SELECT COUNT(*) FROM bars")
	err := row.Scan(&count)
	return count, err
}
