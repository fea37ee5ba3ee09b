package data

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quantfold/regime/pkg/model"
)

// DefaultStockColumn is the default instrument-identifying column.
const DefaultStockColumn = "Stock"

// requiredColumns lists the columns every dataset must carry; the
// instrument column name is configurable and substituted in.
var requiredColumns = []string{"Date", "Open", "High", "Low", "Close", "Volume"}

// dateLayouts tried in order when parsing the Date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// CSVProvider reads OHLCV bars from a CSV file with a header row.
type CSVProvider struct {
	Path        string
	StockColumn string // instrument column name, DefaultStockColumn when empty
}

// NewCSVProvider creates a provider for the given file.
func NewCSVProvider(path, stockColumn string) *CSVProvider {
	if stockColumn == "" {
		stockColumn = DefaultStockColumn
	}
	return &CSVProvider{Path: path, StockColumn: stockColumn}
}

// LoadBars reads and parses the whole file. The header is validated
// before any row is parsed; a missing required column fails fast and
// the error names every missing column at once. Rows with unparseable
// values are skipped.
func (p *CSVProvider) LoadBars(ctx context.Context) ([]model.Bar, error) {
	file, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range append(append([]string(nil), requiredColumns...), p.StockColumn) {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var bars []model.Bar
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}

		bar, err := p.parseRecord(record, colIdx)
		if err != nil {
			continue
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func (p *CSVProvider) parseRecord(record []string, colIdx map[string]int) (model.Bar, error) {
	get := func(name string) string {
		return strings.TrimSpace(record[colIdx[name]])
	}

	date, err := parseDate(get("Date"))
	if err != nil {
		return model.Bar{}, err
	}

	open, err := strconv.ParseFloat(get("Open"), 64)
	if err != nil {
		return model.Bar{}, fmt.Errorf("invalid Open: %w", err)
	}
	high, err := strconv.ParseFloat(get("High"), 64)
	if err != nil {
		return model.Bar{}, fmt.Errorf("invalid High: %w", err)
	}
	low, err := strconv.ParseFloat(get("Low"), 64)
	if err != nil {
		return model.Bar{}, fmt.Errorf("invalid Low: %w", err)
	}
	closePx, err := strconv.ParseFloat(get("Close"), 64)
	if err != nil {
		return model.Bar{}, fmt.Errorf("invalid Close: %w", err)
	}
	volume, err := strconv.ParseFloat(get("Volume"), 64)
	if err != nil {
		return model.Bar{}, fmt.Errorf("invalid Volume: %w", err)
	}

	return model.Bar{
		Date:   date,
		Stock:  get(p.StockColumn),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePx,
		Volume: volume,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
