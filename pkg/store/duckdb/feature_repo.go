package duckdb

import (
	"context"
	"fmt"

	"github.com/quantfold/regime/pkg/model"
)

// FeatureRepo persists computed feature rows.
type FeatureRepo struct {
	client *Client
}

// NewFeatureRepo creates a new feature repository.
func NewFeatureRepo(client *Client) *FeatureRepo {
	return &FeatureRepo{client: client}
}

// InsertBatch persists feature rows in a transaction. NaN fields are
// stored as SQL NULL so undefined-ness survives the round trip.
func (r *FeatureRepo) InsertBatch(ctx context.Context, vectors []model.FeatureVector) error {
	if len(vectors) == 0 {
		return nil
	}

	tx, err := r.client.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO feature_rows (
			stock, bar_date,
			volatility_5d, volatility_10d, volatility_20d,
			trend_slope_10d, trend_slope_20d, drawdown_20d,
			volume_ratio_10d, volume_ratio_20d, range_compression_10d,
			momentum_5d, momentum_10d
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (stock, bar_date) DO UPDATE SET
			volatility_5d = EXCLUDED.volatility_5d,
			volatility_10d = EXCLUDED.volatility_10d,
			volatility_20d = EXCLUDED.volatility_20d,
			trend_slope_10d = EXCLUDED.trend_slope_10d,
			trend_slope_20d = EXCLUDED.trend_slope_20d,
			drawdown_20d = EXCLUDED.drawdown_20d,
			volume_ratio_10d = EXCLUDED.volume_ratio_10d,
			volume_ratio_20d = EXCLUDED.volume_ratio_20d,
			range_compression_10d = EXCLUDED.range_compression_10d,
			momentum_5d = EXCLUDED.momentum_5d,
			momentum_10d = EXCLUDED.momentum_10d
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i := range vectors {
		v := &vectors[i]
		args := make([]interface{}, 0, 13)
		args = append(args, v.Stock, v.Date)
		for _, x := range v.Values() {
			args = append(args, nullable(x))
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("failed to insert feature row: %w", err)
		}
	}
	return tx.Commit()
}

// CountDefined returns the number of rows with every feature defined.
func (r *FeatureRepo) CountDefined(ctx context.Context) (int64, error) {
	var count int64
	row := r.client.QueryRow(`
		SELECT COUNT(*) FROM feature_rows
		WHERE volatility_5d IS NOT NULL
		  AND volatility_10d IS NOT NULL
		  AND volatility_20d IS NOT NULL
		  AND trend_slope_10d IS NOT NULL
		  AND trend_slope_20d IS NOT NULL
		  AND drawdown_20d IS NOT NULL
		  AND volume_ratio_10d IS NOT NULL
		  AND volume_ratio_20d IS NOT NULL
		  AND range_compression_10d IS NOT NULL
		  AND momentum_5d IS NOT NULL
		  AND momentum_10d IS NOT NULL
	`)
	err := row.Scan(&count)
	return count, err
}

// nullable maps NaN to NULL for storage.
func nullable(x float64) interface{} {
	if x != x {
		return nil
	}
	return x
}
