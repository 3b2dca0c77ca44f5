package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultLMStudioBaseURL is where a local LM Studio instance serves its
// OpenAI-compatible API.
const DefaultLMStudioBaseURL = "http://localhost:1234/v1"

// Config holds all application configuration
// API Key Precedence Order:
// 1. Vault (if configured) - Highest priority
// 2. Config File values
// 3. Environment Variables (CVLENS_AI_APIKEY, etc.)
// 4. Default values - Lowest priority
type Config struct {
	AI            AIConfig            `mapstructure:"ai"`
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// AIConfig holds AI service configuration
type AIConfig struct {
	// Global/fallback configuration
	Provider         string        `mapstructure:"provider"`
	Model            string        `mapstructure:"model"`
	BaseURL          string        `mapstructure:"baseURL"`
	Timeout          time.Duration `mapstructure:"timeout"`
	APIKey           string        `mapstructure:"apiKey"`
	MaxRetries       int           `mapstructure:"maxRetries"`
	Temperature      float32       `mapstructure:"temperature"`
	UseSystemPrompts bool          `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig  `mapstructure:"customPrompts"`

	// Operation-specific configurations
	Parse      OperationAIConfig `mapstructure:"parse"`
	SpellCheck OperationAIConfig `mapstructure:"spellcheck"`
	Questions  OperationAIConfig `mapstructure:"questions"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`          // Whether circuit breaker is enabled
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // Max requests allowed when half-open
	Interval         time.Duration `mapstructure:"interval"`         // Interval to clear counts
	Timeout          time.Duration `mapstructure:"timeout"`          // Timeout for half-open to open
	MinRequests      uint32        `mapstructure:"minRequests"`      // Minimum requests before tripping
	FailureThreshold float64       `mapstructure:"failureThreshold"` // Failure ratio threshold (0.0-1.0)
}

// OperationAIConfig holds AI configuration for specific operations
type OperationAIConfig struct {
	Provider         string               `mapstructure:"provider"`
	Model            string               `mapstructure:"model"`
	BaseURL          string               `mapstructure:"baseURL"`
	Timeout          *time.Duration       `mapstructure:"timeout"`
	APIKey           string               `mapstructure:"apiKey"`
	MaxRetries       *int                 `mapstructure:"maxRetries"`
	Temperature      *float32             `mapstructure:"temperature"`
	UseSystemPrompts *bool                `mapstructure:"useSystemPrompts"`
	CustomPrompts    PromptConfig         `mapstructure:"customPrompts"`
	CircuitBreaker   CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// PromptConfig holds configuration for customizable prompts
type PromptConfig struct {
	SystemPrompts SystemPrompts `mapstructure:"systemPrompts"`
	UserPrompts   UserPrompts   `mapstructure:"userPrompts"`
}

// SystemPrompts contains system-level instructions
type SystemPrompts struct {
	ParseSections      string `mapstructure:"parseSections"`
	ParseSectionsFile  string `mapstructure:"parseSectionsFile"`
	QuestionsWide      string `mapstructure:"questionsWide"`
	QuestionsWideFile  string `mapstructure:"questionsWideFile"`
	QuestionsAdhoc     string `mapstructure:"questionsAdhoc"`
	QuestionsAdhocFile string `mapstructure:"questionsAdhocFile"`
	SpellCheck         string `mapstructure:"spellCheck"`
	SpellCheckFile     string `mapstructure:"spellCheckFile"`
}

// UserPrompts contains user-level prompt templates
type UserPrompts struct {
	ParseSections      string `mapstructure:"parseSections"`
	ParseSectionsFile  string `mapstructure:"parseSectionsFile"`
	QuestionsWide      string `mapstructure:"questionsWide"`
	QuestionsWideFile  string `mapstructure:"questionsWideFile"`
	QuestionsAdhoc     string `mapstructure:"questionsAdhoc"`
	QuestionsAdhocFile string `mapstructure:"questionsAdhocFile"`
	SpellCheck         string `mapstructure:"spellCheck"`
	SpellCheckFile     string `mapstructure:"spellCheckFile"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout  time.Duration `mapstructure:"idleTimeout"`

	// API Authentication
	APIKeys []string `mapstructure:"apiKeys"` // Valid API keys for authentication

	// Maximum size in bytes for uploaded resume documents
	MaxUploadSize int64 `mapstructure:"maxUploadSize"`

	// Rate Limiting Configuration
	RateLimit RateLimitConfig `mapstructure:"rateLimit"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`        // Enable/disable rate limiting
	RequestsPerMin int           `mapstructure:"requestsPerMin"` // Requests allowed per minute
	BurstCapacity  int           `mapstructure:"burstCapacity"`  // Burst capacity for token bucket
	ByIP           bool          `mapstructure:"byIP"`           // Enable per-IP rate limiting
	ByAPIKey       bool          `mapstructure:"byAPIKey"`       // Enable per-API-key rate limiting
	Window         time.Duration `mapstructure:"window"`         // Rate limiting window duration
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string   `mapstructure:"logLevel"`
	DefaultFormat    string   `mapstructure:"defaultFormat"`
	SupportedFormats []string `mapstructure:"supportedFormats"`
	MaxFileSize      int64    `mapstructure:"maxFileSize"`
	ScratchDir       string   `mapstructure:"scratchDir"` // Where per-request work dirs are created
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled         bool              `mapstructure:"enabled"`
	ServiceName     string            `mapstructure:"serviceName"`
	ServiceVersion  string            `mapstructure:"serviceVersion"`
	ServiceInstance string            `mapstructure:"serviceInstance"`
	ConsoleOutput   bool              `mapstructure:"consoleOutput"`
	SampleRate      float64           `mapstructure:"sampleRate"`
	Tracing         TracingConfig     `mapstructure:"tracing"`
	Metrics         MetricsConfig     `mapstructure:"metrics"`
	Console         ConsoleConfig     `mapstructure:"console"`
	Prometheus      PrometheusConfig  `mapstructure:"prometheus"`
	OTLP            OTLPConfig        `mapstructure:"otlp"`
	HealthCheck     HealthCheckConfig `mapstructure:"healthCheck"`
}

// TracingConfig holds tracing configuration
type TracingConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	SampleRate float64 `mapstructure:"sampleRate"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled            bool          `mapstructure:"enabled"`
	CollectionInterval time.Duration `mapstructure:"collectionInterval"`
}

// ConsoleConfig holds console output configuration
type ConsoleConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	PrettyPrint bool `mapstructure:"prettyPrint"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// HealthCheckConfig holds health check configuration
type HealthCheckConfig struct {
	Timeout             time.Duration `mapstructure:"timeout"`
	AIModelCheckTimeout time.Duration `mapstructure:"aiModelCheckTimeout"`
}

// LoadConfig loads configuration from environment variables and a config file
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("CVLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/cvlens/")
	v.AddConfigPath("$HOME/.cvlens")
	v.AddConfigPath(".")

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()

	// Validate prompt files before attempting to load them
	if err := config.validatePromptFiles(); err != nil {
		return nil, fmt.Errorf("prompt file validation failed: %w", err)
	}

	if err := config.loadPromptsFromFiles(); err != nil {
		return nil, fmt.Errorf("failed to load custom prompts from files: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.AI.Provider {
	case "lmstudio", "":
		// Local inference needs no API key.
	case "gemini":
		if c.AI.APIKey == "" && !c.Vault.Enabled {
			return fmt.Errorf("AI API key is required for the gemini provider (set CVLENS_AI_APIKEY or GEMINI_API_KEY)")
		}
	default:
		return fmt.Errorf("unsupported AI provider: %s (must be 'lmstudio' or 'gemini')", c.AI.Provider)
	}

	if c.AI.Timeout <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	validFormats := make(map[string]bool)
	for _, format := range c.App.SupportedFormats {
		validFormats[format] = true
	}
	if !validFormats[c.App.DefaultFormat] {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	if c.App.MaxFileSize <= 0 {
		return fmt.Errorf("app max file size must be positive")
	}

	return nil
}

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.BaseURL == "" {
		opCfg.BaseURL = c.AI.BaseURL
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetParseConfig returns the AI configuration for section extraction with
// fallback to global config
func (c *Config) GetParseConfig() OperationAIConfig {
	config := c.AI.Parse

	c.applyOperationDefaults(&config)

	if config.CustomPrompts.SystemPrompts.ParseSections == "" {
		config.CustomPrompts.SystemPrompts.ParseSections = c.AI.CustomPrompts.SystemPrompts.ParseSections
	}
	if config.CustomPrompts.UserPrompts.ParseSections == "" {
		config.CustomPrompts.UserPrompts.ParseSections = c.AI.CustomPrompts.UserPrompts.ParseSections
	}
	if config.CustomPrompts.SystemPrompts.ParseSectionsFile == "" {
		config.CustomPrompts.SystemPrompts.ParseSectionsFile = c.AI.CustomPrompts.SystemPrompts.ParseSectionsFile
	}
	if config.CustomPrompts.UserPrompts.ParseSectionsFile == "" {
		config.CustomPrompts.UserPrompts.ParseSectionsFile = c.AI.CustomPrompts.UserPrompts.ParseSectionsFile
	}

	return config
}

// GetSpellCheckConfig returns the AI configuration for spell checking with
// fallback to global config
func (c *Config) GetSpellCheckConfig() OperationAIConfig {
	config := c.AI.SpellCheck

	c.applyOperationDefaults(&config)

	if config.CustomPrompts.SystemPrompts.SpellCheck == "" {
		config.CustomPrompts.SystemPrompts.SpellCheck = c.AI.CustomPrompts.SystemPrompts.SpellCheck
	}
	if config.CustomPrompts.UserPrompts.SpellCheck == "" {
		config.CustomPrompts.UserPrompts.SpellCheck = c.AI.CustomPrompts.UserPrompts.SpellCheck
	}
	if config.CustomPrompts.SystemPrompts.SpellCheckFile == "" {
		config.CustomPrompts.SystemPrompts.SpellCheckFile = c.AI.CustomPrompts.SystemPrompts.SpellCheckFile
	}
	if config.CustomPrompts.UserPrompts.SpellCheckFile == "" {
		config.CustomPrompts.UserPrompts.SpellCheckFile = c.AI.CustomPrompts.UserPrompts.SpellCheckFile
	}

	return config
}

// GetQuestionsConfig returns the AI configuration for question generation with
// fallback to global config
func (c *Config) GetQuestionsConfig() OperationAIConfig {
	config := c.AI.Questions

	c.applyOperationDefaults(&config)

	if config.CustomPrompts.SystemPrompts.QuestionsWide == "" {
		config.CustomPrompts.SystemPrompts.QuestionsWide = c.AI.CustomPrompts.SystemPrompts.QuestionsWide
	}
	if config.CustomPrompts.UserPrompts.QuestionsWide == "" {
		config.CustomPrompts.UserPrompts.QuestionsWide = c.AI.CustomPrompts.UserPrompts.QuestionsWide
	}
	if config.CustomPrompts.SystemPrompts.QuestionsAdhoc == "" {
		config.CustomPrompts.SystemPrompts.QuestionsAdhoc = c.AI.CustomPrompts.SystemPrompts.QuestionsAdhoc
	}
	if config.CustomPrompts.UserPrompts.QuestionsAdhoc == "" {
		config.CustomPrompts.UserPrompts.QuestionsAdhoc = c.AI.CustomPrompts.UserPrompts.QuestionsAdhoc
	}
	if config.CustomPrompts.SystemPrompts.QuestionsWideFile == "" {
		config.CustomPrompts.SystemPrompts.QuestionsWideFile = c.AI.CustomPrompts.SystemPrompts.QuestionsWideFile
	}
	if config.CustomPrompts.UserPrompts.QuestionsWideFile == "" {
		config.CustomPrompts.UserPrompts.QuestionsWideFile = c.AI.CustomPrompts.UserPrompts.QuestionsWideFile
	}
	if config.CustomPrompts.SystemPrompts.QuestionsAdhocFile == "" {
		config.CustomPrompts.SystemPrompts.QuestionsAdhocFile = c.AI.CustomPrompts.SystemPrompts.QuestionsAdhocFile
	}
	if config.CustomPrompts.UserPrompts.QuestionsAdhocFile == "" {
		config.CustomPrompts.UserPrompts.QuestionsAdhocFile = c.AI.CustomPrompts.UserPrompts.QuestionsAdhocFile
	}

	return config
}

// applyFallbacks applies environment variable fallbacks
func (c *Config) applyFallbacks() {
	// Legacy environment variable support for the Gemini key
	if c.AI.APIKey == "" {
		if geminiKey := os.Getenv("GEMINI_API_KEY"); geminiKey != "" {
			c.AI.APIKey = geminiKey
		}
	}

	// Parse API keys from environment variable if not set in config
	if len(c.Server.APIKeys) == 0 {
		if apiKeysEnv := os.Getenv("CVLENS_SERVER_APIKEYS"); apiKeysEnv != "" {
			c.Server.APIKeys = strings.Split(apiKeysEnv, ",")
			for i, key := range c.Server.APIKeys {
				c.Server.APIKeys[i] = strings.TrimSpace(key)
			}
		}
	}

	if c.App.ScratchDir == "" {
		c.App.ScratchDir = os.TempDir()
	}

	// Set dynamic service instance ID if not specified
	if c.Observability.ServiceInstance == "" {
		if hostname, err := os.Hostname(); err == nil {
			c.Observability.ServiceInstance = fmt.Sprintf("%s-%s", c.Observability.ServiceName, hostname)
		} else {
			c.Observability.ServiceInstance = fmt.Sprintf("%s-1", c.Observability.ServiceName)
		}
	}

	// Set console output based on log level if not explicitly configured
	if c.App.LogLevel == "debug" && !c.Observability.ConsoleOutput {
		c.Observability.ConsoleOutput = true
	}
}

// Global configuration instance
var GlobalConfig *Config

// InitConfig initializes the global configuration
func InitConfig() error {
	config, err := LoadConfig()
	if err != nil {
		return err
	}
	GlobalConfig = config
	return nil
}
