package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	LLM    LLMConfig    `mapstructure:"llm"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// StaticDir serves the companion front-end from disk instead of the
	// embedded copy when set.
	StaticDir string `mapstructure:"static_dir"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	// Provider selects the active provider for every request.
	Provider string `mapstructure:"provider" validate:"required,oneof=gemini openai"`

	Gemini GeminiConfig `mapstructure:"gemini"`
	OpenAI OpenAIConfig `mapstructure:"openai"`

	Temperature     float64 `mapstructure:"temperature"       validate:"gte=0,lte=2"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens" validate:"gte=0"`
}

// GeminiConfig configures the Google Gemini provider.
// APIKey is optional at load time; requests fail with a configuration error
// while it is missing.
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"   validate:"required"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`

	InputCostPerMillion  float64 `mapstructure:"input_cost_per_million"  validate:"gte=0"`
	OutputCostPerMillion float64 `mapstructure:"output_cost_per_million" validate:"gte=0"`
}

// OpenAIConfig configures the OpenAI provider.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"    validate:"required"`
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`

	InputCostPerMillion  float64 `mapstructure:"input_cost_per_million"  validate:"gte=0"`
	OutputCostPerMillion float64 `mapstructure:"output_cost_per_million" validate:"gte=0"`
}
