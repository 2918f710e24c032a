package dto

import "math"

// IndicatorFrame is a candle series augmented with named derived columns.
// Rows with insufficient lookback hold NaN until DropWarmup removes them.
type IndicatorFrame struct {
	Candles []Candle
	Columns map[string][]float64
}

// Column returns the named column, or nil when absent.
func (f *IndicatorFrame) Column(name string) []float64 {
	if f.Columns == nil {
		return nil
	}
	return f.Columns[name]
}

// Len returns the number of rows.
func (f *IndicatorFrame) Len() int {
	return len(f.Candles)
}

// DropWarmup removes the leading rows where any column is still undefined.
// Rolling indicators only produce NaN at the head of the series, so trimming
// the prefix is equivalent to dropping every row holding a NaN.
func (f *IndicatorFrame) DropWarmup() *IndicatorFrame {
	start := 0
	for i := 0; i < len(f.Candles); i++ {
		defined := true
		for _, col := range f.Columns {
			if math.IsNaN(col[i]) {
				defined = false
				break
			}
		}
		if defined {
			start = i
			break
		}
		start = i + 1
	}

	trimmed := &IndicatorFrame{
		Candles: f.Candles[start:],
		Columns: make(map[string][]float64, len(f.Columns)),
	}
	for name, col := range f.Columns {
		trimmed.Columns[name] = col[start:]
	}
	return trimmed
}

// Slice returns the sub-frame covering rows [from, to).
func (f *IndicatorFrame) Slice(from, to int) *IndicatorFrame {
	sliced := &IndicatorFrame{
		Candles: f.Candles[from:to],
		Columns: make(map[string][]float64, len(f.Columns)),
	}
	for name, col := range f.Columns {
		sliced.Columns[name] = col[from:to]
	}
	return sliced
}
