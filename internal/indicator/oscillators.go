package indicator

import (
	"math"

	"github.com/finsightai/finsight/internal/core"
)

// RSI calculates the relative strength index over trailing day-over-day
// deltas. A down day contributes zero to the average gain and vice versa.
// The first window indices carry the insufficient-data sentinel. By
// convention RSI is 100 when the average loss is zero and the average gain
// is positive, and 50 when the window is entirely flat.
func RSI(series core.PriceSeries, window int) (Result, error) {
	if err := checkSeries(series, window); err != nil {
		return Result{}, err
	}

	result := Result{
		Kind:   KindRSI,
		Params: map[string]float64{"window": float64(window)},
		Values: insufficient(len(series)),
	}
	if len(series) <= window {
		return result, nil
	}

	closes := series.Closes()
	for i := window; i < len(closes); i++ {
		var gains, losses float64
		for j := i - window + 1; j <= i; j++ {
			delta := closes[j] - closes[j-1]
			if delta > 0 {
				gains += delta
			} else {
				losses -= delta
			}
		}
		avgGain := gains / float64(window)
		avgLoss := losses / float64(window)

		var rsi float64
		switch {
		case avgLoss == 0 && avgGain > 0:
			rsi = 100
		case avgLoss == 0 && avgGain == 0:
			rsi = 50
		default:
			rs := avgGain / avgLoss
			rsi = 100 - 100/(1+rs)
		}
		result.Values[i] = Value{Num: rsi, Valid: true}
	}
	return result, nil
}

// BollingerBands calculates the middle SMA band plus upper/lower bands at
// k sample standard deviations (divisor window-1) of the trailing closes.
func BollingerBands(series core.PriceSeries, window int, k float64) (BandsResult, error) {
	if err := checkSeries(series, window); err != nil {
		return BandsResult{}, err
	}

	result := BandsResult{
		Params: map[string]float64{"window": float64(window), "k": k},
		Middle: insufficient(len(series)),
		Upper:  insufficient(len(series)),
		Lower:  insufficient(len(series)),
	}
	if len(series) < window || window < 2 {
		return result, nil
	}

	sma, err := SMA(series, window)
	if err != nil {
		return BandsResult{}, err
	}

	closes := series.Closes()
	for i := window - 1; i < len(closes); i++ {
		mean := sma.Values[i].Num
		var sq float64
		for j := i - window + 1; j <= i; j++ {
			d := closes[j] - mean
			sq += d * d
		}
		band := k * math.Sqrt(sq/float64(window-1))
		result.Middle[i] = Value{Num: mean, Valid: true}
		result.Upper[i] = Value{Num: mean + band, Valid: true}
		result.Lower[i] = Value{Num: mean - band, Valid: true}
	}
	return result, nil
}

// VWAP calculates the volume-weighted average price as a running
// accumulation over the entire supplied series. It deliberately does not
// reset per trading session; callers needing session VWAP must pre-slice
// the input.
func VWAP(series core.PriceSeries) (Result, error) {
	if err := series.Validate(); err != nil {
		return Result{}, err
	}

	result := Result{
		Kind:   KindVWAP,
		Params: map[string]float64{},
		Values: insufficient(len(series)),
	}

	var cumPV, cumVol float64
	for i, bar := range series {
		typical := (bar.High + bar.Low + bar.Close) / 3
		cumPV += typical * float64(bar.Volume)
		cumVol += float64(bar.Volume)
		if cumVol > 0 {
			result.Values[i] = Value{Num: cumPV / cumVol, Valid: true}
		}
	}
	return result, nil
}
