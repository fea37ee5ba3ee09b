package data

import (
	"context"

	"github.com/quantfold/regime/pkg/model"
)

// BarProvider supplies the raw OHLCV dataset for a training run.
type BarProvider interface {
	// LoadBars returns every bar in the dataset. Order across
	// instruments is whatever the source produces; the feature
	// pipeline partitions and sorts per instrument itself.
	LoadBars(ctx context.Context) ([]model.Bar, error)
}
