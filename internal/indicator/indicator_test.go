package indicator

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/finsightai/finsight/internal/core"
)

func barsFromCloses(closes []float64) core.PriceSeries {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(core.PriceSeries, len(closes))
	for i, c := range closes {
		series[i] = core.PriceBar{
			Time:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000 + int64(i),
		}
	}
	return series
}

func countValid(values []Value) int {
	n := 0
	for _, v := range values {
		if v.Valid {
			n++
		}
	}
	return n
}

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestSMA_Calculate(t *testing.T) {
	series := barsFromCloses([]float64{10, 11, 12, 13, 14, 15})

	sma, err := SMA(series, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sma.Values) != len(series) {
		t.Fatalf("expected %d values, got %d", len(series), len(sma.Values))
	}

	// SMA(3) for [10,11,12,13,14,15]:
	// [2] = (10+11+12)/3 = 11
	// [3] = (11+12+13)/3 = 12
	// [4] = (12+13+14)/3 = 13
	// [5] = (13+14+15)/3 = 14
	expected := []float64{11, 12, 13, 14}
	for i := 0; i < 2; i++ {
		if sma.Values[i].Valid {
			t.Errorf("index %d should be insufficient-data", i)
		}
	}
	for i, want := range expected {
		got := sma.Values[i+2]
		if !got.Valid || got.Num != want {
			t.Errorf("sma[%d] = %v, want %f", i+2, got, want)
		}
	}
}

func TestSMA_DefinedCount(t *testing.T) {
	// N-W+1 defined values for any W <= N.
	tests := []struct {
		n, w int
	}{
		{10, 3},
		{10, 10},
		{50, 20},
		{300, 50},
	}
	for _, tc := range tests {
		closes := make([]float64, tc.n)
		for i := range closes {
			closes[i] = 100 + float64(i)
		}
		sma, err := SMA(barsFromCloses(closes), tc.w)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := countValid(sma.Values); got != tc.n-tc.w+1 {
			t.Errorf("n=%d w=%d: expected %d defined values, got %d", tc.n, tc.w, tc.n-tc.w+1, got)
		}
	}
}

func TestSMA_NotEnoughData(t *testing.T) {
	sma, err := SMA(barsFromCloses([]float64{10, 11}), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if countValid(sma.Values) != 0 {
		t.Errorf("expected all sentinel values, got %d valid", countValid(sma.Values))
	}
	if len(sma.Values) != 2 {
		t.Errorf("output must stay index-aligned, got len %d", len(sma.Values))
	}
}

func TestSMA_Reference300Bars(t *testing.T) {
	closes := make([]float64, 300)
	for i := range closes {
		closes[i] = 100 + 0.5*float64(i) + 3*math.Sin(float64(i)/7)
	}
	series := barsFromCloses(closes)

	for _, window := range []int{50, 200} {
		sma, err := SMA(series, window)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i := window - 1; i < len(closes); i++ {
			var sum float64
			for j := i - window + 1; j <= i; j++ {
				sum += closes[j]
			}
			want := sum / float64(window)
			if !sma.Values[i].Valid {
				t.Fatalf("window %d index %d: expected defined value", window, i)
			}
			if !almostEqual(sma.Values[i].Num, want, 1e-9) {
				t.Errorf("window %d index %d: got %.12f, want %.12f", window, i, sma.Values[i].Num, want)
			}
		}
	}
}

func TestEMA_SeededAtFirstClose(t *testing.T) {
	series := barsFromCloses([]float64{10, 11, 12, 13})
	ema, err := EMA(series, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !ema.Values[0].Valid || ema.Values[0].Num != 10 {
		t.Errorf("EMA[0] should equal first close, got %v", ema.Values[0])
	}

	// alpha = 2/(3+1) = 0.5
	want := 10.0
	for i := 1; i < len(series); i++ {
		want = 0.5*series[i].Close + 0.5*want
		if !almostEqual(ema.Values[i].Num, want, 1e-9) {
			t.Errorf("EMA[%d] = %f, want %f", i, ema.Values[i].Num, want)
		}
	}
}

func TestEMA_Causality(t *testing.T) {
	closes := []float64{10, 12, 11, 13, 15, 14, 16, 18}
	base, err := EMA(barsFromCloses(closes), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Mutating closes after index i must not change EMA[0..i].
	mutated := make([]float64, len(closes))
	copy(mutated, closes)
	cut := 4
	for i := cut + 1; i < len(mutated); i++ {
		mutated[i] = 999
	}
	changed, err := EMA(barsFromCloses(mutated), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i <= cut; i++ {
		if base.Values[i].Num != changed.Values[i].Num {
			t.Errorf("EMA[%d] changed after mutating later closes: %f vs %f",
				i, base.Values[i].Num, changed.Values[i].Num)
		}
	}
}

func TestRSI_Bounds(t *testing.T) {
	closes := []float64{44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46.1,
		45.9, 46.3, 46.2, 46.0, 46.6, 46.2, 46.4, 46.2, 45.7, 46.5}
	rsi, err := RSI(barsFromCloses(closes), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 14; i++ {
		if rsi.Values[i].Valid {
			t.Errorf("index %d should be insufficient-data", i)
		}
	}
	for i := 14; i < len(closes); i++ {
		v := rsi.Values[i]
		if !v.Valid {
			t.Fatalf("index %d should be defined", i)
		}
		if v.Num < 0 || v.Num > 100 {
			t.Errorf("RSI[%d] = %f out of [0,100]", i, v.Num)
		}
	}
}

func TestRSI_AllGains(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 14, 15, 16}
	rsi, err := RSI(barsFromCloses(closes), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 5; i < len(closes); i++ {
		if rsi.Values[i].Num != 100 {
			t.Errorf("RSI[%d] = %f, want exactly 100 with zero average loss", i, rsi.Values[i].Num)
		}
	}
}

func TestRSI_Flat(t *testing.T) {
	closes := []float64{10, 10, 10, 10, 10, 10}
	rsi, err := RSI(barsFromCloses(closes), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 4; i < len(closes); i++ {
		if rsi.Values[i].Num != 50 {
			t.Errorf("RSI[%d] = %f, want neutral 50 for flat window", i, rsi.Values[i].Num)
		}
	}
}

func TestBollingerBands_Ordering(t *testing.T) {
	closes := []float64{20, 21, 19, 22, 23, 21, 24, 25, 23, 26, 27, 25, 28, 26, 29}
	bands, err := BollingerBands(barsFromCloses(closes), 5, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range closes {
		if !bands.Middle[i].Valid {
			continue
		}
		u, m, l := bands.Upper[i].Num, bands.Middle[i].Num, bands.Lower[i].Num
		if u < m || m < l {
			t.Errorf("index %d: band ordering violated upper=%f middle=%f lower=%f", i, u, m, l)
		}
	}
}

func TestBollingerBands_SampleStdDev(t *testing.T) {
	closes := []float64{10, 12, 14, 16, 18}
	bands, err := BollingerBands(barsFromCloses(closes), 5, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// mean = 14, sample variance = (16+4+0+4+16)/4 = 10
	want := 14 + 2*math.Sqrt(10)
	if !almostEqual(bands.Upper[4].Num, want, 1e-9) {
		t.Errorf("upper = %f, want %f", bands.Upper[4].Num, want)
	}
}

func TestMACD_HistogramIdentity(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 50 + 10*math.Sin(float64(i)/9) + 0.1*float64(i)
	}
	macd, err := MACD(barsFromCloses(closes), 12, 26, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range closes {
		if !macd.Histogram[i].Valid {
			t.Fatalf("index %d should be defined", i)
		}
		want := macd.Line[i].Num - macd.Signal[i].Num
		if !almostEqual(macd.Histogram[i].Num, want, 1e-9) {
			t.Errorf("histogram[%d] = %.12f, want line-signal = %.12f", i, macd.Histogram[i].Num, want)
		}
	}
}

func TestVWAP_RunningAccumulation(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	series := core.PriceSeries{
		{Time: base, High: 12, Low: 10, Close: 11, Volume: 100},
		{Time: base.AddDate(0, 0, 1), High: 14, Low: 12, Close: 13, Volume: 200},
		{Time: base.AddDate(0, 0, 2), High: 13, Low: 11, Close: 12, Volume: 300},
	}
	vwap, err := VWAP(series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// typical prices: 11, 13, 12
	// VWAP[0] = 11
	// VWAP[1] = (11*100 + 13*200) / 300 = 3700/300
	// VWAP[2] = (11*100 + 13*200 + 12*300) / 600 = 7300/600
	expected := []float64{11, 3700.0 / 300, 7300.0 / 600}
	for i, want := range expected {
		if !almostEqual(vwap.Values[i].Num, want, 1e-9) {
			t.Errorf("VWAP[%d] = %f, want %f", i, vwap.Values[i].Num, want)
		}
	}
}

func TestUnsortedSeriesRejected(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := core.PriceSeries{
		{Time: base.AddDate(0, 0, 1), Close: 10},
		{Time: base, Close: 11},
	}

	if _, err := SMA(series, 2); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("SMA: expected ErrInvalidInput, got %v", err)
	}
	if _, err := RSI(series, 2); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("RSI: expected ErrInvalidInput, got %v", err)
	}
	if _, err := VWAP(series); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("VWAP: expected ErrInvalidInput, got %v", err)
	}
}

func TestDuplicateTimestampsRejected(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := core.PriceSeries{
		{Time: base, Close: 10},
		{Time: base, Close: 11},
	}
	if _, err := EMA(series, 2); !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for duplicate timestamps, got %v", err)
	}
}

func TestEmptySeries(t *testing.T) {
	empty := core.PriceSeries{}

	sma, err := SMA(empty, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sma.Values) != 0 {
		t.Errorf("expected empty aligned output")
	}

	macd, err := MACD(empty, 12, 26, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(macd.Line) != 0 {
		t.Errorf("expected empty aligned output")
	}
}

func TestResult_Latest(t *testing.T) {
	series := barsFromCloses([]float64{10, 11, 12, 13})
	sma, err := SMA(series, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	latest, ok := sma.Latest()
	if !ok || latest != 12.5 {
		t.Errorf("Latest() = %f,%v want 12.5,true", latest, ok)
	}

	short, _ := SMA(barsFromCloses([]float64{10}), 5)
	if _, ok := short.Latest(); ok {
		t.Error("Latest() should report no valid value")
	}
}
