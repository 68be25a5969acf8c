package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Application metadata reported by the API.
const (
	AppTitle       = "MHK-GPT v2 — Agentic AI Assistant"
	AppDescription = "AI-powered agentic chatbot with RAG, Meeting Scheduling, and Job Search."
	AppVersion     = "2.0.0"
)

// Config holds the process configuration read from the environment
type Config struct {
	Host            string        `env:"HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"PORT" envDefault:"8000" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json console"`

	CompanyName string `env:"COMPANY_NAME" envDefault:"MHK" validate:"required"`

	OpenAI    OpenAIConfig      `envPrefix:"OPENAI_"`
	Prompt    PromptConfig      `envPrefix:"PROMPT_"`
	History   HistoryConfig     `envPrefix:"HISTORY_"`
	Retriever RetrieverConfig   `envPrefix:"RETRIEVER_"`
	Redis     RedisConfig       `envPrefix:"REDIS_"`
	Session   SessionConfig
	RateLimit RateLimitSettings `envPrefix:"RATELIMIT_"`
}

// OpenAIConfig configures the chat completion client
type OpenAIConfig struct {
	Key         string        `env:"KEY"`
	BaseURL     string        `env:"BASE_URL"`
	Model       string        `env:"MODEL" envDefault:"gpt-4o-mini" validate:"required"`
	Temperature float32       `env:"TEMPERATURE" envDefault:"0.7" validate:"min=0,max=2"`
	MaxTokens   int           `env:"MAX_TOKENS" envDefault:"1024" validate:"min=0"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"60s"`
}

// PromptConfig holds the prompt templates and the prompt token budget.
// Empty templates select the built-in defaults.
type PromptConfig struct {
	SystemTemplate string `env:"SYSTEM_TEMPLATE"`
	UserTemplate   string `env:"USER_TEMPLATE"`
	MaxTokens      int    `env:"MAX_TOKENS" envDefault:"12000" validate:"min=0"`
}

// HistoryConfig bounds stored and replayed conversation history
type HistoryConfig struct {
	MaxMessages int           `env:"MAX_MESSAGES" envDefault:"10" validate:"min=1"`
	TTL         time.Duration `env:"TTL" envDefault:"24h"`
	MaxStored   int           `env:"MAX_STORED" envDefault:"100" validate:"min=1"`
}

// RetrieverConfig points at the external retrieval service
type RetrieverConfig struct {
	URL     string        `env:"URL" validate:"omitempty,url"`
	TopK    int           `env:"TOP_K" envDefault:"5" validate:"min=1,max=50"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// RedisConfig configures the optional Redis history store
type RedisConfig struct {
	URL      string `env:"URL"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// SessionConfig configures session tokens
type SessionConfig struct {
	JWTSecret string        `env:"JWT_SECRET" envDefault:"your-256-bit-secret"`
	Lifetime  time.Duration `env:"SESSION_LIFETIME" envDefault:"24h"`
}

// RateLimitSettings holds per-minute request limits
type RateLimitSettings struct {
	Enabled bool `env:"ENABLED" envDefault:"false"`
	Global  int  `env:"GLOBAL" envDefault:"1000" validate:"min=1"`
	Chat    int  `env:"CHAT" envDefault:"120" validate:"min=1"`
}

// Load reads a .env file when present, then parses and validates the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}
	return Parse()
}

// Parse parses and validates the environment without reading a .env file
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Session.JWTSecret == "your-256-bit-secret" {
		log.Warn().Msg("JWT_SECRET not set - using insecure default")
	}
	if cfg.OpenAI.Key == "" {
		log.Warn().Msg("OPENAI_KEY not set - chat completions will fail")
	}

	return cfg, nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
