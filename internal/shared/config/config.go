package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"forgefolio/internal/shared/telemetry"
)

const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// Config holds application configuration. It is loaded once at startup and
// passed by value; nothing mutates it afterwards.
type Config struct {
	Port               string
	Env                string
	CORSAllowOrigin    []string
	LLMProvider        string
	LLMModel           string
	LLMAPIKey          string
	LLMBaseURL         string
	LLMTimeout         time.Duration
	DemoMode           bool
	DatabaseURL        string
	GenerateRatePerMin float64
	GenerateRateBurst  int
	MaxUploadBytes     int64
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	provider := normalizeProvider(getEnv("LLM_PROVIDER", ProviderGroq))
	apiKey := APIKeyFor(provider)

	demo := parseBool(os.Getenv("DEMO_MODE"))
	if apiKey == "" && !demo && isDevLike(env) {
		telemetry.Warn("config.demo_mode", map[string]any{
			"reason":   "no api key configured",
			"provider": provider,
		})
		demo = true
	}

	return Config{
		Port:               getEnv("PORT", "8080"),
		Env:                env,
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		LLMProvider:        provider,
		LLMModel:           getEnv("LLM_MODEL", DefaultModel(provider)),
		LLMAPIKey:          apiKey,
		LLMBaseURL:         getEnv("LLM_BASE_URL", ""),
		LLMTimeout:         getDuration("LLM_TIMEOUT", 30*time.Second),
		DemoMode:           demo,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		GenerateRatePerMin: getFloat("GENERATE_RATE_PER_MINUTE", 10),
		GenerateRateBurst:  getInt("GENERATE_RATE_BURST", 5),
		MaxUploadBytes:     int64(getInt("MAX_UPLOAD_BYTES", 5<<20)),
	}
}

// DefaultModel returns the model used when LLM_MODEL is unset.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderGemini:
		return "gemini-2.0-flash"
	default:
		return "llama-3.1-8b-instant"
	}
}

// IsDevLike reports whether the environment allows in-memory fallbacks.
func (c Config) IsDevLike() bool {
	return isDevLike(c.Env)
}

// APIKeyFor returns the credential for provider, preferring LLM_API_KEY.
func APIKeyFor(provider string) string {
	if key := strings.TrimSpace(os.Getenv("LLM_API_KEY")); key != "" {
		return key
	}
	switch provider {
	case ProviderGemini:
		return strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	default:
		return strings.TrimSpace(os.Getenv("GROQ_API_KEY"))
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		telemetry.Warn("config.invalid_int", map[string]any{"key": key, "value": raw})
		return def
	}
	return val
}

func getFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val < 0 {
		telemetry.Warn("config.invalid_float", map[string]any{"key": key, "value": raw})
		return def
	}
	return val
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if val, err := time.ParseDuration(raw); err == nil && val > 0 {
		return val
	}
	// Bare integers are seconds.
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	telemetry.Warn("config.invalid_duration", map[string]any{"key": key, "value": raw})
	return def
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
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

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini", "google":
		return ProviderGemini
	default:
		return ProviderGroq
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
