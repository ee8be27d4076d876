package core

import (
	"fmt"
	"regexp"
	"time"
)

// Period is the forecast horizon requested for an analysis run.
type Period string

const (
	PeriodShortPlus Period = "short+"
	PeriodShort     Period = "short"
	PeriodMedium    Period = "medium"
	PeriodLong      Period = "long"
)

// Valid reports whether p is one of the four supported periods.
func (p Period) Valid() bool {
	switch p {
	case PeriodShortPlus, PeriodShort, PeriodMedium, PeriodLong:
		return true
	}
	return false
}

// Interval is the bar granularity used when fetching price history.
type Interval string

const (
	IntervalDaily   Interval = "1d"
	IntervalWeekly  Interval = "1wk"
	IntervalMonthly Interval = "1mo"
)

// PeriodSpec maps a period to its data-fetch parameters and the
// human-readable forecast window used in prompts.
type PeriodSpec struct {
	Interval      Interval
	LookbackYears int
	Horizon       string
}

var periodSpecs = map[Period]PeriodSpec{
	PeriodShortPlus: {Interval: IntervalDaily, LookbackYears: 1, Horizon: "within 2 weeks"},
	PeriodShort:     {Interval: IntervalDaily, LookbackYears: 2, Horizon: "2 weeks to 1 month"},
	PeriodMedium:    {Interval: IntervalWeekly, LookbackYears: 5, Horizon: "from 1 month to 1 year"},
	PeriodLong:      {Interval: IntervalMonthly, LookbackYears: 10, Horizon: "from 1 year to 2 years"},
}

// ResolvePeriod returns the spec for p. Unknown periods fall back to the
// medium spec; the second return value reports that the default was used so
// callers can surface it instead of silently absorbing the miss.
func ResolvePeriod(p Period) (PeriodSpec, bool) {
	spec, ok := periodSpecs[p]
	if !ok {
		return periodSpecs[PeriodMedium], true
	}
	return spec, false
}

// symbolPattern matches tickers like AAPL, BRK-B, 0700.HK, 600519.SS
var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9\-]{1,10}(\.[A-Za-z]{1,4})?$`)

// ValidateSymbol checks that a symbol is a plausible ticker identifier.
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return WrapError(ErrInvalidInput, fmt.Errorf("symbol cannot be empty"))
	}
	if !symbolPattern.MatchString(symbol) {
		return WrapError(ErrInvalidInput, fmt.Errorf("invalid symbol format: %s", symbol))
	}
	return nil
}

// PriceBar represents one OHLCV bar.
type PriceBar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// PriceSeries is an ordered sequence of bars.
type PriceSeries []PriceBar

// Validate checks that timestamps are strictly increasing with no
// duplicates. Gaps are allowed.
func (s PriceSeries) Validate() error {
	for i := 1; i < len(s); i++ {
		if !s[i].Time.After(s[i-1].Time) {
			return WrapError(ErrInvalidInput,
				fmt.Errorf("series not strictly ascending at index %d", i))
		}
	}
	return nil
}

// Closes returns the close prices in series order.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, b := range s {
		closes[i] = b.Close
	}
	return closes
}

// Quote is the latest traded price for a symbol.
type Quote struct {
	Symbol string
	Price  float64
	Time   time.Time
	Source string
}

// Fundamentals is a snapshot of company-level financial data. Providers
// return nil for symbols without coverage (ETFs, crypto) rather than an
// error, so analysis can degrade to a "no data" marker.
type Fundamentals struct {
	Symbol        string
	Name          string
	Sector        string
	MarketCap     float64
	PERatio       float64
	EPS           float64
	DividendYield float64
	ProfitMargin  float64
	RevenueTTM    float64
	AsOf          time.Time
}

// NewsArticle is one news reference with optional provider sentiment.
type NewsArticle struct {
	Title       string
	Source      string
	URL         string
	Summary     string
	Sentiment   float64
	PublishedAt time.Time
}

// InsiderTransaction is a single reported insider trade.
type InsiderTransaction struct {
	Insider  string
	Relation string
	Type     string // "buy" or "sell"
	Shares   float64
	Price    float64
	Date     time.Time
}

// Analysis angles produced by the analyst stage.
const (
	AngleFundamentals = "fundamentals"
	AngleSentiment    = "sentiment"
	AngleTechnical    = "technical"
	AngleSpecial      = "special"
)

// Debate holds the researcher stage output.
type Debate struct {
	Bull    string
	Bear    string
	Summary string
}

// AnalysisContext is the state threaded through the pipeline. Stages only
// ever add fields via Apply; symbol and period are immutable after creation.
type AnalysisContext struct {
	Symbol       string
	Period       Period
	CreatedAt    time.Time
	PriorLessons []string
	Insights     map[string]string
	Debate       Debate
	Decision     string
	RiskVerdict  string
}

// ContextUpdate is a partial update produced by one stage. Nil fields are
// left untouched by Apply.
type ContextUpdate struct {
	Insights    map[string]string
	Debate      *Debate
	Decision    *string
	RiskVerdict *string
}

// Apply merges an update into a copy of the context and returns it. The
// receiver is never mutated.
func (c AnalysisContext) Apply(u ContextUpdate) AnalysisContext {
	next := c
	if len(c.Insights) > 0 {
		next.Insights = make(map[string]string, len(c.Insights))
		for k, v := range c.Insights {
			next.Insights[k] = v
		}
	}
	if u.Insights != nil {
		if next.Insights == nil {
			next.Insights = make(map[string]string, len(u.Insights))
		}
		for k, v := range u.Insights {
			next.Insights[k] = v
		}
	}
	if u.Debate != nil {
		next.Debate = *u.Debate
	}
	if u.Decision != nil {
		next.Decision = *u.Decision
	}
	if u.RiskVerdict != nil {
		next.RiskVerdict = *u.RiskVerdict
	}
	return next
}

// ReportType classifies a memory record.
type ReportType string

const (
	ReportTypeReport ReportType = "report"
	ReportTypeLesson ReportType = "lesson"
)

// MemoryRecord is one archived analysis artifact. Records are immutable
// once written and only ever appended.
type MemoryRecord struct {
	ID               string
	Symbol           string
	ReportType       ReportType
	Content          string
	AnalysisDatetime time.Time
	Metadata         map[string]any
}
