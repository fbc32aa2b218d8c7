package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Default model names and prices in dollars per million tokens.
const (
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultOpenAIModel = "gpt-4o-mini"

	DefaultGeminiInputCost  = 0.10
	DefaultGeminiOutputCost = 0.40
	DefaultOpenAIInputCost  = 0.15
	DefaultOpenAIOutputCost = 0.60
)

// envPrefix is prepended to every environment variable, e.g. SCRY_SERVER_PORT.
const envPrefix = "SCRY"

// Load configuration from a .env file, an optional config.yaml and
// environment variables. Environment variables take precedence over values
// from config files. Returns a populated Config struct or an error if
// loading/validation fails.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	// 1. Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.static_dir", "")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_output_tokens", 0)
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", DefaultGeminiModel)
	v.SetDefault("llm.gemini.base_url", "")
	v.SetDefault("llm.gemini.input_cost_per_million", DefaultGeminiInputCost)
	v.SetDefault("llm.gemini.output_cost_per_million", DefaultGeminiOutputCost)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", DefaultOpenAIModel)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.openai.input_cost_per_million", DefaultOpenAIInputCost)
	v.SetDefault("llm.openai.output_cost_per_million", DefaultOpenAIOutputCost)

	// 2. Optional config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 3. Environment variables with SCRY_ prefix
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Conventional key names are accepted as well.
	bindings := map[string][]string{
		"llm.provider":        {"SCRY_LLM_PROVIDER", "LLM_PROVIDER"},
		"llm.gemini.api_key":  {"SCRY_LLM_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"},
		"llm.gemini.model":    {"SCRY_LLM_GEMINI_MODEL", "GEMINI_MODEL"},
		"llm.openai.api_key":  {"SCRY_LLM_OPENAI_API_KEY", "OPENAI_API_KEY"},
		"llm.openai.model":    {"SCRY_LLM_OPENAI_MODEL", "OPENAI_MODEL"},
		"llm.openai.base_url": {"SCRY_LLM_OPENAI_BASE_URL", "OPENAI_BASE_URL"},
		"server.port":         {"SCRY_SERVER_PORT", "PORT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	// 4. Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))

	// 5. Validate config
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadDotEnv loads variables from path into the process environment without
// overriding variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
