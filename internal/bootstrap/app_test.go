package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forgefolio/internal/llm"
	"forgefolio/internal/shared/config"
)

func demoConfig() config.Config {
	return config.Config{
		Port:               "0",
		Env:                "dev",
		LLMProvider:        config.ProviderGroq,
		LLMModel:           config.DefaultModel(config.ProviderGroq),
		DemoMode:           true,
		GenerateRatePerMin: 60,
		GenerateRateBurst:  5,
	}
}

func TestBuildDemoAppServesGenerate(t *testing.T) {
	app, err := Build(demoConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	assert.Nil(t, app.DB)
	assert.IsType(t, llm.PlaceholderClient{}, app.LLM)

	body := `{"name":"Jane Doe","profession":"Backend Engineer","experience":"3 years at Acme","skills":["Go","SQL"],"projects":["API Gateway"]}`
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"success":true`)
	assert.Contains(t, resp.Body.String(), "API Gateway")

	health := httptest.NewRecorder()
	app.Router.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, health.Code)
	assert.Contains(t, health.Body.String(), `"status":"ok"`)
}

func TestBuildWithoutKeyUsesPlaceholder(t *testing.T) {
	cfg := demoConfig()
	cfg.DemoMode = false
	cfg.Env = "prod"

	app, err := Build(cfg)
	require.NoError(t, err)

	assert.IsType(t, llm.PlaceholderClient{}, app.LLM)

	body := `{"name":"Jane Doe","profession":"Backend Engineer","experience":"3 years at Acme"}`
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body)))

	require.Equal(t, http.StatusBadGateway, resp.Code)
	assert.Contains(t, resp.Body.String(), `"success":false`)
	assert.NotContains(t, resp.Body.String(), "not configured")
}

func TestBuildUnknownProviderUsesPlaceholder(t *testing.T) {
	cfg := demoConfig()
	cfg.DemoMode = false
	cfg.LLMProvider = "mystery"

	assert.IsType(t, llm.PlaceholderClient{}, buildLLM(t.Context(), cfg))
}

func TestBuildGroqClientWithKey(t *testing.T) {
	cfg := demoConfig()
	cfg.DemoMode = false
	cfg.LLMAPIKey = "gsk_test"

	client := buildLLM(t.Context(), cfg)
	_, isPlaceholder := client.(llm.PlaceholderClient)
	assert.False(t, isPlaceholder)
}
