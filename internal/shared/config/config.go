package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	defaultLLMTimeout = 60 * time.Second
)

// Config holds application configuration.
type Config struct {
	Port            string        `yaml:"port"`
	Env             string        `yaml:"env"`
	DatabaseURL     string        `yaml:"database_url"`
	DBAutoMigrate   bool          `yaml:"db_auto_migrate"`
	CORSAllowOrigin []string      `yaml:"cors_allow_origins"`
	LLMProvider     string        `yaml:"llm_provider"`
	LLMModel        string        `yaml:"llm_model"`
	OpenAIAPIKey    string        `yaml:"openai_api_key"`
	OpenAIBaseURL   string        `yaml:"openai_base_url"`
	GeminiAPIKey    string        `yaml:"gemini_api_key"`
	LLMTimeout      time.Duration `yaml:"llm_timeout"`
	LogLevel        string        `yaml:"log_level"`
	LogFile         string        `yaml:"log_file"`
}

// Load reads configuration from an optional YAML file (CONFIG_PATH), local .env files and
// environment variables. Environment variables win over the file.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience. Existing env vars are kept.
	loadEnvFiles(".env", "cmd/.env")

	cfg := Config{
		Port:            "8080",
		Env:             "dev",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LLMProvider:     ProviderOpenAI,
		LLMTimeout:      defaultLLMTimeout,
		LogLevel:        "info",
	}
	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	cfg.Env = normalizeEnv(cfg.Env)
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	switch cfg.LLMProvider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return Config{}, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}
	if cfg.LLMTimeout <= 0 {
		return Config{}, fmt.Errorf("LLM_TIMEOUT must be positive, got %s", cfg.LLMTimeout)
	}
	return cfg, nil
}

// APIKey returns the key of the selected provider.
func (c Config) APIKey() string {
	if c.LLMProvider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		_ = godotenv.Load(path)
	}
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Port, "PORT")
	setString(&cfg.Env, "ENV")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.LLMProvider, "LLM_PROVIDER")
	setString(&cfg.LLMModel, "LLM_MODEL")
	setString(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAIBaseURL, "OPENAI_BASE_URL")
	setString(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.LogFile, "LOG_FILE")

	if raw := os.Getenv("CORS_ALLOW_ORIGINS"); raw != "" {
		cfg.CORSAllowOrigin = splitAndTrim(raw)
	}
	if raw := os.Getenv("DB_AUTO_MIGRATE"); raw != "" {
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid DB_AUTO_MIGRATE %q: %w", raw, err)
		}
		cfg.DBAutoMigrate = v
	}
	if raw := os.Getenv("LLM_TIMEOUT"); raw != "" {
		d, err := parseTimeout(raw)
		if err != nil {
			return err
		}
		cfg.LLMTimeout = d
	}
	return nil
}

// parseTimeout accepts Go durations ("45s") and bare seconds ("45").
func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid LLM_TIMEOUT %q: %w", raw, err)
	}
	return d, nil
}

func setString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
