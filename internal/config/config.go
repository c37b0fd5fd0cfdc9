package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	DefaultProvider string `toml:"default_provider"`
	OpenAIModel     string `toml:"openai_model"`
	GeminiModel     string `toml:"gemini_model"`
	OllamaModel     string `toml:"ollama_model"`
	EmbeddingModel  string `toml:"embedding_model"`
	SearchModel     string `toml:"search_model"`
	OpenAIAPIKey    string `toml:"openai_api_key"`
	GoogleAPIKey    string `toml:"google_api_key"`
	OllamaBaseURL   string `toml:"ollama_base_url"`
}

type MemgraphConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type LimitsConfig struct {
	TopK        int   `toml:"top_k"`
	BatchSize   int   `toml:"batch_size"`
	MaxFileSize int64 `toml:"max_file_size"`
}

type ServerConfig struct {
	Port     string `toml:"port"`
	JSONLogs bool   `toml:"json_logs"`
	Debug    bool   `toml:"debug"`
}

type Config struct {
	Server   ServerConfig   `toml:"server"`
	LLM      LLMConfig      `toml:"llm"`
	Memgraph MemgraphConfig `toml:"memgraph"`
	Limits   LimitsConfig   `toml:"limits"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// Default returns a usable config when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyEnv() {
	setString(&c.Server.Port, "PORT")
	setString(&c.LLM.DefaultProvider, "LLM_PROVIDER")
	setString(&c.LLM.OpenAIModel, "OPENAI_MODEL")
	setString(&c.LLM.GeminiModel, "GEMINI_MODEL")
	setString(&c.LLM.OllamaModel, "OLLAMA_MODEL")
	setString(&c.LLM.EmbeddingModel, "OPENAI_EMBED_MODEL")
	setString(&c.LLM.SearchModel, "OPENAI_SEARCH_MODEL")
	setString(&c.LLM.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.LLM.GoogleAPIKey, "GOOGLE_API_KEY")
	setString(&c.LLM.OllamaBaseURL, "OLLAMA_BASE_URL")
	setString(&c.Memgraph.URI, "MEMGRAPH_URI")
	setString(&c.Memgraph.User, "MEMGRAPH_USER")
	setString(&c.Memgraph.Password, "MEMGRAPH_PASSWORD")
	setInt(&c.Limits.TopK, "TOP_K_LIMIT")
	setInt(&c.Limits.BatchSize, "BATCH_SIZE_LIMIT")
	setInt64(&c.Limits.MaxFileSize, "MAX_FILE_SIZE")
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.LLM.DefaultProvider == "" {
		c.LLM.DefaultProvider = "gemini"
	}
	if c.LLM.OpenAIModel == "" {
		c.LLM.OpenAIModel = "gpt-4o"
	}
	if c.LLM.GeminiModel == "" {
		c.LLM.GeminiModel = "gemini-2.0-flash"
	}
	if c.LLM.OllamaModel == "" {
		c.LLM.OllamaModel = "llama3"
	}
	if c.LLM.EmbeddingModel == "" {
		c.LLM.EmbeddingModel = "text-embedding-3-small"
	}
	if c.LLM.SearchModel == "" {
		c.LLM.SearchModel = "gpt-4o-search-preview"
	}
	if c.LLM.OllamaBaseURL == "" {
		c.LLM.OllamaBaseURL = "http://localhost:11434"
	}
	if c.Memgraph.URI == "" {
		c.Memgraph.URI = "bolt://localhost:7687"
	}
	if c.Limits.TopK == 0 {
		c.Limits.TopK = 100
	}
	if c.Limits.BatchSize == 0 {
		c.Limits.BatchSize = 20
	}
	if c.Limits.MaxFileSize == 0 {
		c.Limits.MaxFileSize = 16 * 1024 * 1024
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}
