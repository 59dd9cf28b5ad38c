package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the briefing service.
type Config struct {
	General  GeneralConfig  `mapstructure:"general"`
	Server   ServerConfig   `mapstructure:"server"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Sources  SourcesConfig  `mapstructure:"sources"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
}

// GeneralConfig contains general application settings.
type GeneralConfig struct {
	Debug          bool          `mapstructure:"debug"`
	LogLevel       string        `mapstructure:"log_level"`
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LLMConfig contains the generation/embedding provider settings.
type LLMConfig struct {
	Provider        string        `mapstructure:"provider"` // openai
	APIKey          string        `mapstructure:"api_key"`
	CompletionModel string        `mapstructure:"completion_model"`
	EmbeddingModel  string        `mapstructure:"embedding_model"`
	Temperature     float64       `mapstructure:"temperature"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// SourcesConfig contains external evidence source settings.
type SourcesConfig struct {
	WebSearch WebSearchConfig `mapstructure:"web_search"`
}

// WebSearchConfig contains the search-provider settings. An empty API key
// disables the news aggregator rather than erroring.
type WebSearchConfig struct {
	Provider    string        `mapstructure:"provider"` // serper or brave
	APIKey      string        `mapstructure:"api_key"`
	Timeout     time.Duration `mapstructure:"timeout"`
	RecencyDays int           `mapstructure:"recency_days"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

// StorageConfig contains database and cache settings.
type StorageConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// PostgresConfig contains the document-store connection settings. An empty
// configuration disables the RAG retriever.
type PostgresConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN builds a postgres connection string, preferring an explicit URL.
func (p PostgresConfig) DSN() (string, error) {
	if p.URL != "" {
		return p.URL, nil
	}
	if p.Host == "" || p.DBName == "" {
		return "", fmt.Errorf("postgres not configured (storage.postgres.host/dbname or url)")
	}
	port := p.Port
	if port == "" {
		port = "5432"
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, port, p.DBName, ssl), nil
}

// Configured reports whether any connection detail was provided at all.
func (p PostgresConfig) Configured() bool {
	return p.URL != "" || (p.Host != "" && p.DBName != "")
}

// RedisConfig contains the optional news-cache settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PipelineConfig exposes the briefing pipeline tuning parameters. The
// defaults are inherited from the original deployment and deliberately kept
// configurable rather than hard-coded.
type PipelineConfig struct {
	Topics              []string      `mapstructure:"topics"`
	PerTopicResults     int           `mapstructure:"per_topic_results"`
	MaxPromptNews       int           `mapstructure:"max_prompt_news"`
	MaxRagDocs          int           `mapstructure:"max_rag_docs"`
	SimilarityThreshold float64       `mapstructure:"similarity_threshold"`
	KeywordTierDocs     int           `mapstructure:"keyword_tier_docs"`
	RecentDocLimit      int           `mapstructure:"recent_doc_limit"`
	ExcerptChars        int           `mapstructure:"excerpt_chars"`
	FallbackKeywords    []string      `mapstructure:"fallback_keywords"`
	StageTimeout        time.Duration `mapstructure:"stage_timeout"`
}

// IngestConfig controls the document ingestion path and refresh scheduler.
type IngestConfig struct {
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	MaxChars     int           `mapstructure:"max_chars"`
	RefreshCron  string        `mapstructure:"refresh_cron"`
	RefreshURLs  []string      `mapstructure:"refresh_urls"`
}

// LoadConfig reads configuration from file (json) and BRIEFER_* environment
// variables. Missing file is tolerated: every value has a default or an env
// binding, and absent provider credentials are a degradation signal rather
// than an error.
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")

	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("general.default_timeout", 30*time.Second)
	viper.SetDefault("server.address", ":10030")
	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.completion_model", "gpt-4o-mini")
	viper.SetDefault("llm.embedding_model", "text-embedding-3-small")
	viper.SetDefault("llm.temperature", 0.2)
	viper.SetDefault("llm.max_tokens", 4096)
	viper.SetDefault("llm.timeout", 45*time.Second)
	viper.SetDefault("sources.web_search.provider", "serper")
	viper.SetDefault("sources.web_search.timeout", 10*time.Second)
	viper.SetDefault("sources.web_search.recency_days", 2)
	viper.SetDefault("sources.web_search.cache_ttl", 10*time.Minute)
	viper.SetDefault("pipeline.topics", []string{
		"top world news today",
		"business and markets news",
		"economic policy announcements",
		"severe weather alerts",
		"technology industry news",
	})
	viper.SetDefault("pipeline.per_topic_results", 4)
	viper.SetDefault("pipeline.max_prompt_news", 15)
	viper.SetDefault("pipeline.max_rag_docs", 8)
	viper.SetDefault("pipeline.similarity_threshold", 0.4)
	viper.SetDefault("pipeline.keyword_tier_docs", 4)
	viper.SetDefault("pipeline.recent_doc_limit", 20)
	viper.SetDefault("pipeline.excerpt_chars", 1500)
	viper.SetDefault("pipeline.fallback_keywords", []string{
		"policy", "market", "economy", "weather", "announcement", "regulation", "budget",
	})
	viper.SetDefault("pipeline.stage_timeout", 20*time.Second)
	viper.SetDefault("ingest.fetch_timeout", 15*time.Second)
	viper.SetDefault("ingest.max_chars", 20000)
	viper.SetDefault("ingest.refresh_cron", "")

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		exe, _ := os.Executable()
		exeDir := filepath.Dir(exe)
		viper.AddConfigPath(exeDir)
		viper.AddConfigPath(filepath.Join(exeDir, ".."))
		viper.AddConfigPath(filepath.Join(exeDir, "..", "config"))
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("BRIEFER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}
	return &config
}
