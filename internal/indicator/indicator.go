package indicator

import (
	"fmt"

	"github.com/finsightai/finsight/internal/core"
)

// Kind identifies an indicator.
type Kind string

const (
	KindSMA    Kind = "SMA"
	KindEMA    Kind = "EMA"
	KindRSI    Kind = "RSI"
	KindBBands Kind = "BBANDS"
	KindMACD   Kind = "MACD"
	KindVWAP   Kind = "VWAP"
)

// Value is one indicator sample. Valid is false where the trailing window
// cannot be filled yet; such entries are never zero-filled.
type Value struct {
	Num   float64
	Valid bool
}

// Result is a single-line indicator output, index-aligned with the input
// series.
type Result struct {
	Kind   Kind
	Params map[string]float64
	Values []Value
}

// Latest returns the last valid value, if any.
func (r Result) Latest() (float64, bool) {
	for i := len(r.Values) - 1; i >= 0; i-- {
		if r.Values[i].Valid {
			return r.Values[i].Num, true
		}
	}
	return 0, false
}

// BandsResult holds the three Bollinger lines, index-aligned with the
// input series. Upper >= Middle >= Lower at every valid index.
type BandsResult struct {
	Params map[string]float64
	Middle []Value
	Upper  []Value
	Lower  []Value
}

// MACDResult holds the MACD lines, index-aligned with the input series.
// Histogram[i] is exactly Line[i] - Signal[i].
type MACDResult struct {
	Params    map[string]float64
	Line      []Value
	Signal    []Value
	Histogram []Value
}

// checkSeries validates ordering and window parameters shared by all
// indicators. A misordered series is an input error, never silently
// reordered.
func checkSeries(series core.PriceSeries, window int) error {
	if window <= 0 {
		return core.WrapError(core.ErrInvalidInput,
			fmt.Errorf("window must be positive, got %d", window))
	}
	return series.Validate()
}

// insufficient returns a fully-sentinel value slice of length n.
func insufficient(n int) []Value {
	return make([]Value, n)
}
