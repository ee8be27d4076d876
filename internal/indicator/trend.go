package indicator

import "github.com/finsightai/finsight/internal/core"

// SMA calculates the simple moving average of closes over the given
// window. Indices before window-1 carry the insufficient-data sentinel.
func SMA(series core.PriceSeries, window int) (Result, error) {
	if err := checkSeries(series, window); err != nil {
		return Result{}, err
	}

	result := Result{
		Kind:   KindSMA,
		Params: map[string]float64{"window": float64(window)},
		Values: insufficient(len(series)),
	}
	if len(series) < window {
		return result, nil
	}

	closes := series.Closes()
	var sum float64
	for i := 0; i < window; i++ {
		sum += closes[i]
	}
	result.Values[window-1] = Value{Num: sum / float64(window), Valid: true}

	// Rolling calculation
	for i := window; i < len(closes); i++ {
		sum = sum - closes[i-window] + closes[i]
		result.Values[i] = Value{Num: sum / float64(window), Valid: true}
	}

	return result, nil
}

// EMA calculates the exponential moving average with smoothing factor
// alpha = 2/(span+1). The series is seeded at index 0 with that bar's
// close, so every index is defined and EMA[i] depends only on indices <= i.
func EMA(series core.PriceSeries, span int) (Result, error) {
	if err := checkSeries(series, span); err != nil {
		return Result{}, err
	}

	result := Result{
		Kind:   KindEMA,
		Params: map[string]float64{"span": float64(span)},
		Values: insufficient(len(series)),
	}
	if len(series) == 0 {
		return result, nil
	}

	ema := emaFloats(series.Closes(), span)
	for i, v := range ema {
		result.Values[i] = Value{Num: v, Valid: true}
	}
	return result, nil
}

// emaFloats applies the EMA recurrence to a raw float slice. Shared with
// the MACD signal line, which smooths the MACD line rather than closes.
func emaFloats(values []float64, span int) []float64 {
	if len(values) == 0 {
		return nil
	}
	alpha := 2.0 / float64(span+1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// MACD calculates the moving average convergence/divergence lines. The
// histogram is the exact identity line - signal, not independently
// recomputed.
func MACD(series core.PriceSeries, fast, slow, signal int) (MACDResult, error) {
	if err := checkSeries(series, fast); err != nil {
		return MACDResult{}, err
	}
	if err := checkSeries(series, slow); err != nil {
		return MACDResult{}, err
	}
	if err := checkSeries(series, signal); err != nil {
		return MACDResult{}, err
	}

	result := MACDResult{
		Params: map[string]float64{
			"fast":   float64(fast),
			"slow":   float64(slow),
			"signal": float64(signal),
		},
		Line:      insufficient(len(series)),
		Signal:    insufficient(len(series)),
		Histogram: insufficient(len(series)),
	}
	if len(series) == 0 {
		return result, nil
	}

	closes := series.Closes()
	fastEMA := emaFloats(closes, fast)
	slowEMA := emaFloats(closes, slow)

	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fastEMA[i] - slowEMA[i]
	}
	signalLine := emaFloats(line, signal)

	for i := range closes {
		result.Line[i] = Value{Num: line[i], Valid: true}
		result.Signal[i] = Value{Num: signalLine[i], Valid: true}
		result.Histogram[i] = Value{Num: line[i] - signalLine[i], Valid: true}
	}
	return result, nil
}
