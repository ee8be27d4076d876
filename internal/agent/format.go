package agent

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/finsightai/finsight/internal/core"
	"github.com/finsightai/finsight/internal/indicator"
)

const noDataMarker = "no data available"

// excerptLimit caps how much of each upstream section is quoted into a
// downstream prompt.
const excerptLimit = 1200

// excerpt truncates s to at most limit bytes, cutting on a rune boundary
// so a multibyte character is never split.
func excerpt(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

func joinLessons(lessons []string) string {
	if len(lessons) == 0 {
		return "no prior lessons recorded"
	}
	return strings.Join(lessons, "\n")
}

// formatIndicators computes the standard technical set over the series
// and renders the latest value of each line. Indicators whose window the
// series cannot fill render as insufficient data instead of a number.
func formatIndicators(series core.PriceSeries) string {
	var b strings.Builder

	writeLine := func(label string, r indicator.Result, err error) {
		if err != nil {
			fmt.Fprintf(&b, "- %s: error (%v)\n", label, err)
			return
		}
		if v, ok := r.Latest(); ok {
			fmt.Fprintf(&b, "- %s: %.4f\n", label, v)
		} else {
			fmt.Fprintf(&b, "- %s: insufficient data\n", label)
		}
	}

	sma50, err := indicator.SMA(series, 50)
	writeLine("SMA50", sma50, err)
	sma200, err := indicator.SMA(series, 200)
	writeLine("SMA200", sma200, err)
	ema10, err := indicator.EMA(series, 10)
	writeLine("EMA10", ema10, err)
	rsi14, err := indicator.RSI(series, 14)
	writeLine("RSI14", rsi14, err)

	if bb, err := indicator.BollingerBands(series, 20, 2); err != nil {
		fmt.Fprintf(&b, "- BBANDS: error (%v)\n", err)
	} else {
		n := len(bb.Middle)
		if n > 0 && bb.Middle[n-1].Valid {
			fmt.Fprintf(&b, "- BBANDS(20,2): upper=%.4f middle=%.4f lower=%.4f\n",
				bb.Upper[n-1].Num, bb.Middle[n-1].Num, bb.Lower[n-1].Num)
		} else {
			b.WriteString("- BBANDS(20,2): insufficient data\n")
		}
	}

	if macd, err := indicator.MACD(series, 12, 26, 9); err != nil {
		fmt.Fprintf(&b, "- MACD: error (%v)\n", err)
	} else {
		n := len(macd.Line)
		if n > 0 && macd.Line[n-1].Valid {
			fmt.Fprintf(&b, "- MACD(12,26,9): line=%.4f signal=%.4f histogram=%.4f\n",
				macd.Line[n-1].Num, macd.Signal[n-1].Num, macd.Histogram[n-1].Num)
		} else {
			b.WriteString("- MACD(12,26,9): insufficient data\n")
		}
	}

	vwap, err := indicator.VWAP(series)
	writeLine("VWAP", vwap, err)

	return b.String()
}

func formatFundamentals(f *core.Fundamentals) string {
	if f == nil {
		return noDataMarker
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", f.Name)
	fmt.Fprintf(&b, "Sector: %s\n", f.Sector)
	fmt.Fprintf(&b, "MarketCap: %.0f\n", f.MarketCap)
	fmt.Fprintf(&b, "PERatio: %.2f\n", f.PERatio)
	fmt.Fprintf(&b, "EPS: %.2f\n", f.EPS)
	fmt.Fprintf(&b, "DividendYield: %.4f\n", f.DividendYield)
	fmt.Fprintf(&b, "ProfitMargin: %.4f\n", f.ProfitMargin)
	fmt.Fprintf(&b, "RevenueTTM: %.0f\n", f.RevenueTTM)
	if !f.AsOf.IsZero() {
		fmt.Fprintf(&b, "AsOf: %s\n", f.AsOf.Format("2006-01-02"))
	}
	return b.String()
}

func formatNews(articles []core.NewsArticle) string {
	if len(articles) == 0 {
		return noDataMarker
	}
	var b strings.Builder
	for _, a := range articles {
		fmt.Fprintf(&b, "- [%s] %s (sentiment %.2f): %s\n",
			a.Source, a.Title, a.Sentiment, excerpt(a.Summary, 300))
	}
	return b.String()
}

func formatInsiders(txs []core.InsiderTransaction) string {
	if len(txs) == 0 {
		return noDataMarker
	}
	var b strings.Builder
	for _, tx := range txs {
		fmt.Fprintf(&b, "- %s %s (%s): %.0f shares at %.2f on %s\n",
			tx.Insider, tx.Type, tx.Relation, tx.Shares, tx.Price,
			tx.Date.Format("2006-01-02"))
	}
	return b.String()
}
