package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_FromFile(t *testing.T) {
	content := []byte(`
server:
  host: "127.0.0.1"
  port: 9090

llm:
  provider: ollama
  ollama:
    endpoint: "http://localhost:11434"
    model: "qwen3"

memory:
  backend: weaviate
  host: "localhost:8081"
  collection: "finsight_reports"
`)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}

	if cfg.LLM.Provider != "ollama" {
		t.Errorf("expected ollama provider, got %s", cfg.LLM.Provider)
	}

	if cfg.Memory.Backend != "weaviate" {
		t.Errorf("expected weaviate backend, got %s", cfg.Memory.Backend)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	content := []byte(`
server:
  port: 8080

llm:
  provider: openai
  openai:
    api_key: "${FINSIGHT_TEST_OPENAI_KEY}"
`)

	t.Setenv("FINSIGHT_TEST_OPENAI_KEY", "sk-test-123")

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.LLM.OpenAI.APIKey != "sk-test-123" {
		t.Errorf("expected expanded api key, got %q", cfg.LLM.OpenAI.APIKey)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}

	if cfg.Memory.Backend != "memory" {
		t.Errorf("expected default memory backend, got %s", cfg.Memory.Backend)
	}

	if cfg.Embedding.Dimension != 1536 {
		t.Errorf("expected default dimension 1536, got %d", cfg.Embedding.Dimension)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid minimal config",
			cfg: Config{
				Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
			},
			wantErr: false,
		},
		{
			name: "invalid port - zero",
			cfg: Config{
				Server: ServerConfig{Host: "0.0.0.0", Port: 0},
			},
			wantErr: true,
		},
		{
			name: "invalid port - too high",
			cfg: Config{
				Server: ServerConfig{Host: "0.0.0.0", Port: 70000},
			},
			wantErr: true,
		},
		{
			name: "unknown llm provider",
			cfg: Config{
				Server: ServerConfig{Port: 8080},
				LLM:    LLMConfig{Provider: "grok"},
			},
			wantErr: true,
		},
		{
			name: "claude without api key",
			cfg: Config{
				Server: ServerConfig{Port: 8080},
				LLM:    LLMConfig{Provider: "claude"},
			},
			wantErr: true,
		},
		{
			name: "openai with api key",
			cfg: Config{
				Server: ServerConfig{Port: 8080},
				LLM: LLMConfig{
					Provider: "openai",
					OpenAI:   OpenAIConfig{APIKey: "sk-test"},
				},
			},
			wantErr: false,
		},
		{
			name: "unknown memory backend",
			cfg: Config{
				Server: ServerConfig{Port: 8080},
				Memory: MemoryConfig{Backend: "redis"},
			},
			wantErr: true,
		},
		{
			name: "weaviate without host",
			cfg: Config{
				Server: ServerConfig{Port: 8080},
				Memory: MemoryConfig{Backend: "weaviate"},
			},
			wantErr: true,
		},
		{
			name: "weaviate without dimension",
			cfg: Config{
				Server: ServerConfig{Port: 8080},
				Memory: MemoryConfig{Backend: "weaviate", Host: "localhost:8081"},
			},
			wantErr: true,
		},
		{
			name: "unknown distance metric",
			cfg: Config{
				Server: ServerConfig{Port: 8080},
				Memory: MemoryConfig{Distance: "manhattan"},
			},
			wantErr: true,
		},
		{
			name: "s3 without bucket",
			cfg: Config{
				Server: ServerConfig{Port: 8080},
				Report: ReportConfig{Type: "s3"},
			},
			wantErr: true,
		},
		{
			name: "unknown report type",
			cfg: Config{
				Server: ServerConfig{Port: 8080},
				Report: ReportConfig{Type: "gcs"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
