package data

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVProvider_LoadBars(t *testing.T) {
	path := writeCSV(t, `Date,Stock,Open,High,Low,Close,Volume
2024-01-02,AAA,100,102,99,101,15000
2024-01-03,AAA,101,103,100,102,16000
2024-01-02,BBB,50,51,49,50.5,8000
`)

	bars, err := NewCSVProvider(path, "").LoadBars(context.Background())
	require.NoError(t, err)
	require.Len(t, bars, 3)

	first := bars[0]
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "AAA", first.Stock)
	assert.Equal(t, 100.0, first.Open)
	assert.Equal(t, 102.0, first.High)
	assert.Equal(t, 99.0, first.Low)
	assert.Equal(t, 101.0, first.Close)
	assert.Equal(t, 15000.0, first.Volume)

	assert.Equal(t, "BBB", bars[2].Stock)
}

func TestCSVProvider_MissingColumnsListedTogether(t *testing.T) {
	path := writeCSV(t, `Date,Stock,Open,High,Close
2024-01-02,AAA,100,102,101
`)

	_, err := NewCSVProvider(path, "").LoadBars(context.Background())
	require.Error(t, err)
	// Every missing column is named in one pass.
	assert.Contains(t, err.Error(), "Low")
	assert.Contains(t, err.Error(), "Volume")
}

func TestCSVProvider_ConfigurableStockColumn(t *testing.T) {
	path := writeCSV(t, `Date,Symbol,Open,High,Low,Close,Volume
2024-01-02,XYZ,10,11,9,10.5,1000
`)

	bars, err := NewCSVProvider(path, "Symbol").LoadBars(context.Background())
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, "XYZ", bars[0].Stock)

	// Default column name is no longer present, so the default
	// provider rejects the same file.
	_, err = NewCSVProvider(path, "").LoadBars(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), DefaultStockColumn)
}

func TestCSVProvider_SkipsUnparseableRows(t *testing.T) {
	path := writeCSV(t, `Date,Stock,Open,High,Low,Close,Volume
2024-01-02,AAA,100,102,99,101,15000
not-a-date,AAA,1,2,3,4,5
2024-01-03,AAA,101,103,100,102,abc
2024-01-04,AAA,102,104,101,103,17000
`)

	bars, err := NewCSVProvider(path, "").LoadBars(context.Background())
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 101.0, bars[0].Close)
	assert.Equal(t, 103.0, bars[1].Close)
}

func TestCSVProvider_MissingFile(t *testing.T) {
	_, err := NewCSVProvider("/does/not/exist.csv", "").LoadBars(context.Background())
	assert.Error(t, err)
}
