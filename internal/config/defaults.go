package config

import (
	"time"

	"github.com/spf13/viper"
)

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// AI Configuration - Global defaults
	v.SetDefault("ai.provider", "lmstudio")
	v.SetDefault("ai.model", "hermes-3-llama-3.1-8b")
	v.SetDefault("ai.baseURL", DefaultLMStudioBaseURL)
	v.SetDefault("ai.timeout", 60*time.Second)
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.maxRetries", 3)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.useSystemPrompts", true)

	// AI Configuration - Section extraction defaults
	v.SetDefault("ai.parse.provider", "")
	v.SetDefault("ai.parse.model", "")
	v.SetDefault("ai.parse.timeout", 90*time.Second) // Full resumes produce long completions
	v.SetDefault("ai.parse.apiKey", "")
	v.SetDefault("ai.parse.maxRetries", 3)
	v.SetDefault("ai.parse.temperature", 0.2) // Low temperature for stable JSON output

	// AI Configuration - Spell check defaults
	v.SetDefault("ai.spellcheck.provider", "")
	v.SetDefault("ai.spellcheck.model", "")
	v.SetDefault("ai.spellcheck.timeout", 60*time.Second)
	v.SetDefault("ai.spellcheck.apiKey", "")
	v.SetDefault("ai.spellcheck.maxRetries", 2)
	v.SetDefault("ai.spellcheck.temperature", 0.1)

	// AI Configuration - Question generation defaults
	v.SetDefault("ai.questions.provider", "")
	v.SetDefault("ai.questions.model", "")
	v.SetDefault("ai.questions.timeout", 60*time.Second)
	v.SetDefault("ai.questions.apiKey", "")
	v.SetDefault("ai.questions.maxRetries", 3)
	v.SetDefault("ai.questions.temperature", 0.7) // Higher temperature for question variety

	// Circuit Breaker Configuration defaults for all operations.
	// Disabled out of the box: the common single-user local setup is
	// better served by plain retries.
	v.SetDefault("ai.parse.circuitBreaker.enabled", false)
	v.SetDefault("ai.parse.circuitBreaker.maxRequests", 3)
	v.SetDefault("ai.parse.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("ai.parse.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("ai.parse.circuitBreaker.minRequests", 3)
	v.SetDefault("ai.parse.circuitBreaker.failureThreshold", 0.6)

	v.SetDefault("ai.spellcheck.circuitBreaker.enabled", false)
	v.SetDefault("ai.spellcheck.circuitBreaker.maxRequests", 3)
	v.SetDefault("ai.spellcheck.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("ai.spellcheck.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("ai.spellcheck.circuitBreaker.minRequests", 3)
	v.SetDefault("ai.spellcheck.circuitBreaker.failureThreshold", 0.6)

	v.SetDefault("ai.questions.circuitBreaker.enabled", false)
	v.SetDefault("ai.questions.circuitBreaker.maxRequests", 3)
	v.SetDefault("ai.questions.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("ai.questions.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("ai.questions.circuitBreaker.minRequests", 3)
	v.SetDefault("ai.questions.circuitBreaker.failureThreshold", 0.6)

	// Server Configuration
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 120*time.Second) // Parsing holds the response open
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.maxUploadSize", 10*1024*1024) // 10MB

	// Rate limiting defaults
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", time.Minute)

	// App Configuration
	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "html")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "html"})
	v.SetDefault("app.maxFileSize", 10*1024*1024) // 10MB
	v.SetDefault("app.scratchDir", "")

	// Vault Configuration
	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.geminiKey", "")

	// Observability Configuration
	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "cvlens")
	v.SetDefault("observability.serviceVersion", "")  // Will use app version if empty
	v.SetDefault("observability.serviceInstance", "") // Will be auto-generated if empty
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.sampleRate", 1.0)

	// Tracing Configuration
	v.SetDefault("observability.tracing.enabled", true)
	v.SetDefault("observability.tracing.sampleRate", 1.0)

	// Metrics Configuration
	v.SetDefault("observability.metrics.enabled", true)
	v.SetDefault("observability.metrics.collectionInterval", 15*time.Second)

	// Console Configuration
	v.SetDefault("observability.console.enabled", false)
	v.SetDefault("observability.console.prettyPrint", true)

	// Prometheus Configuration
	v.SetDefault("observability.prometheus.enabled", true)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")

	// OTLP Configuration
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})

	// Health Check Configuration
	v.SetDefault("observability.healthCheck.timeout", 15*time.Second)
	v.SetDefault("observability.healthCheck.aiModelCheckTimeout", 10*time.Second)
}
