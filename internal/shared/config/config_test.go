package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "LLM_PROVIDER", "LLM_MODEL", "LLM_API_KEY", "GROQ_API_KEY",
		"GEMINI_API_KEY", "LLM_TIMEOUT", "DEMO_MODE", "PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("GROQ_API_KEY", "gsk-test")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ProviderGroq, cfg.LLMProvider)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.LLMModel)
	assert.Equal(t, "gsk-test", cfg.LLMAPIKey)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
	assert.False(t, cfg.DemoMode)
}

func TestLoadFallsBackToDemoWithoutKeyInDev(t *testing.T) {
	clearLLMEnv(t)

	cfg := Load()
	assert.True(t, cfg.DemoMode)
}

func TestLoadDoesNotForceDemoInProduction(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("ENV", "prod")

	cfg := Load()
	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.DemoMode)
}

func TestLoadGeminiProvider(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("LLM_TIMEOUT", "45")

	cfg := Load()
	assert.Equal(t, ProviderGemini, cfg.LLMProvider)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLMModel)
	assert.Equal(t, "g-key", cfg.LLMAPIKey)
	assert.Equal(t, 45*time.Second, cfg.LLMTimeout)
}

func TestGetDurationInvalidUsesDefault(t *testing.T) {
	t.Setenv("LLM_TIMEOUT", "soon")
	assert.Equal(t, 5*time.Second, getDuration("LLM_TIMEOUT", 5*time.Second))
}
