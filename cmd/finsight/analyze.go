package main

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/finsightai/finsight/internal/app"
	"github.com/finsightai/finsight/internal/config"
	"github.com/finsightai/finsight/internal/core"
	"github.com/finsightai/finsight/internal/logger"
)

// summaryLimit caps each printed section; the full text goes to the
// report file.
const summaryLimit = 1200

var (
	analyzeSymbol string
	analyzePeriod string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run a one-shot analysis for a symbol",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeSymbol, "symbol", "s", "AAPL", "stock symbol (e.g. AAPL)")
	analyzeCmd.Flags().StringVarP(&analyzePeriod, "period", "p", "medium", "investment period: short+, short, medium, long")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	application, err := app.New(cfg, log)
	if err != nil {
		return fmt.Errorf("building application: %w", err)
	}

	ctx := context.Background()
	if err := application.Init(ctx); err != nil {
		return fmt.Errorf("initializing memory: %w", err)
	}

	fmt.Printf("Analyzing %s for %s term investment...\n", analyzeSymbol, analyzePeriod)

	state, err := application.Pipeline.Run(ctx, analyzeSymbol, core.Period(analyzePeriod))
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Println("\n=== Analyst Insights ===")
	for _, angle := range []string{core.AngleFundamentals, core.AngleSentiment, core.AngleTechnical, core.AngleSpecial} {
		fmt.Printf("%s: %s\n", angle, truncate(state.Insights[angle]))
	}

	fmt.Println("\n=== Researcher Debate ===")
	fmt.Printf("Bull: %s\n", truncate(state.Debate.Bull))
	fmt.Printf("Bear: %s\n", truncate(state.Debate.Bear))
	fmt.Printf("Debate: %s\n", truncate(state.Debate.Summary))

	fmt.Println("\n=== Trading Plan ===")
	fmt.Println(truncate(state.Decision))

	fmt.Println("\n=== Risk Management ===")
	fmt.Println(truncate(state.RiskVerdict))

	path, err := application.Writer.Save(ctx, state)
	if err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	fmt.Printf("\nFull report saved to %s\n", path)
	return nil
}

func truncate(s string) string {
	if len(s) <= summaryLimit {
		return s
	}
	cut := summaryLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func loadConfig(log *zap.Logger) (*config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
		return cfg, nil
	}
	log.Warn("no config file specified, using defaults")
	cfg := config.Defaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
