package gemini

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"forgefolio/internal/llm"
	"forgefolio/internal/shared/telemetry"
)

const (
	providerName = "gemini"
	maxTokens    = 4000
	temperature  = 0.7
)

// Client implements llm.Client using the Google GenAI SDK.
type Client struct {
	model   string
	timeout time.Duration
	models  *genai.Models
}

// NewClient constructs a Gemini client.
func NewClient(ctx context.Context, s llm.Settings) (*Client, error) {
	if strings.TrimSpace(s.Model) == "" {
		return nil, errors.New("LLM_MODEL is required for gemini")
	}
	if strings.TrimSpace(s.APIKey) == "" {
		return nil, errors.New("GEMINI_API_KEY is required")
	}
	cfg := &genai.ClientConfig{
		APIKey:  s.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if base := strings.TrimSpace(s.BaseURL); base != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}
	return &Client{
		model:   s.Model,
		timeout: s.EffectiveTimeout(),
		models:  client.Models,
	}, nil
}

// Complete sends one GenerateContent call and returns the response text.
func (c *Client) Complete(ctx context.Context, prompt llm.Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](temperature),
		MaxOutputTokens: maxTokens,
	}
	if strings.TrimSpace(prompt.System) != "" {
		cfg.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt.User), cfg)
	if err != nil {
		return "", classify(ctx, err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &llm.UpstreamError{
			Provider: providerName,
			Kind:     llm.KindMalformed,
			Err:      errors.New("gemini response empty content"),
		}
	}

	fields := map[string]any{"provider": providerName, "model": c.model}
	if resp.UsageMetadata != nil {
		fields["prompt_tokens"] = resp.UsageMetadata.PromptTokenCount
		fields["completion_tokens"] = resp.UsageMetadata.CandidatesTokenCount
		fields["total_tokens"] = resp.UsageMetadata.TotalTokenCount
	}
	telemetry.Info("llm.response", fields)
	return text, nil
}

func classify(ctx context.Context, err error) error {
	ue := &llm.UpstreamError{Provider: providerName, Kind: llm.KindNetwork, Err: errors.Wrap(err, "gemini generate content")}

	var apiErr genai.APIError
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		ue.Kind = llm.KindTimeout
	case errors.As(err, &apiErr):
		ue.Kind = llm.KindStatus
		ue.StatusCode = apiErr.Code
	case errors.As(err, &netErr) && netErr.Timeout():
		ue.Kind = llm.KindTimeout
	}
	return ue
}

var _ llm.Client = (*Client)(nil)
