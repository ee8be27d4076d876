package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/finsightai/finsight/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Embedding  EmbeddingConfig  `mapstructure:"embedding"`
	Memory     MemoryConfig     `mapstructure:"memory"`
	MarketData MarketDataConfig `mapstructure:"market_data"`
	Report     ReportConfig     `mapstructure:"report"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	APIKey string `mapstructure:"api_key"`
}

type LLMConfig struct {
	Provider string       `mapstructure:"provider"`
	Claude   ClaudeConfig `mapstructure:"claude"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Ollama   OllamaConfig `mapstructure:"ollama"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
}

type EmbeddingConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	Dimension int    `mapstructure:"dimension"`
}

type MemoryConfig struct {
	Backend    string `mapstructure:"backend"` // "weaviate" or "memory"
	Scheme     string `mapstructure:"scheme"`
	Host       string `mapstructure:"host"`
	APIKey     string `mapstructure:"api_key"`
	Collection string `mapstructure:"collection"`
	Distance   string `mapstructure:"distance"` // "cosine" or "l2-squared"
}

type MarketDataConfig struct {
	AlphaVantage AlphaVantageConfig `mapstructure:"alphavantage"`
}

type AlphaVantageConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

type ReportConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Embedding: EmbeddingConfig{
			Model:     "text-embedding-3-small",
			Dimension: 1536,
		},
		Memory: MemoryConfig{
			Backend:    "memory",
			Scheme:     "http",
			Host:       "localhost:8081",
			Collection: "finsight_reports",
			Distance:   "cosine",
		},
		MarketData: MarketDataConfig{
			AlphaVantage: AlphaVantageConfig{
				BaseURL: "https://www.alphavantage.co",
			},
		},
		Report: ReportConfig{
			Type: "localfs",
			Path: "results",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	// LLM validation - if provider set, check config exists
	if c.LLM.Provider != "" {
		switch c.LLM.Provider {
		case "claude":
			if c.LLM.Claude.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("claude api_key required when provider is claude"))
			}
		case "openai":
			if c.LLM.OpenAI.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("openai api_key required when provider is openai"))
			}
		case "ollama":
			if c.LLM.Ollama.Endpoint == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("ollama endpoint required when provider is ollama"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown LLM provider: %s", c.LLM.Provider))
		}
	}

	switch c.Memory.Backend {
	case "", "memory":
	case "weaviate":
		if c.Memory.Host == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("memory host required when backend is weaviate"))
		}
		if c.Embedding.Dimension <= 0 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("embedding dimension must be positive, got %d", c.Embedding.Dimension))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown memory backend: %s", c.Memory.Backend))
	}

	switch c.Memory.Distance {
	case "", "cosine", "l2-squared":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown distance metric: %s", c.Memory.Distance))
	}

	switch c.Report.Type {
	case "", "localfs":
	case "s3":
		if c.Report.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when report type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown report storage type: %s", c.Report.Type))
	}

	return nil
}
