package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"forgefolio/internal/llm"
	"forgefolio/internal/shared/telemetry"
)

const (
	providerName   = "groq"
	defaultBaseURL = "https://api.groq.com/openai/v1"
	maxTokens      = 4000
	temperature    = 0.7
	maxErrorBody   = 512
)

// Client implements llm.Client against Groq's OpenAI-compatible chat completions API.
type Client struct {
	model      string
	endpoint   string
	httpClient *http.Client
}

// NewClient constructs a Groq client. The API key is attached by an oauth2
// transport and is not retained on the Client.
func NewClient(s llm.Settings) (*Client, error) {
	if strings.TrimSpace(s.Model) == "" {
		return nil, errors.New("LLM_MODEL is required for groq")
	}
	if strings.TrimSpace(s.APIKey) == "" {
		return nil, errors.New("GROQ_API_KEY is required")
	}
	base := strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: s.APIKey, TokenType: "Bearer"})
	return &Client{
		model:    s.Model,
		endpoint: base + "/chat/completions",
		httpClient: &http.Client{
			Timeout:   s.EffectiveTimeout(),
			Transport: &oauth2.Transport{Source: src, Base: http.DefaultTransport},
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends one chat completion request and returns the raw content.
func (c *Client) Complete(ctx context.Context, prompt llm.Prompt) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if strings.TrimSpace(prompt.System) != "" {
		messages = append(messages, chatMessage{Role: "system", Content: prompt.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt.User})

	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal groq request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "build groq request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError(errors.Wrap(err, "read groq response"))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &llm.UpstreamError{
			Provider:   providerName,
			Kind:       llm.KindStatus,
			StatusCode: resp.StatusCode,
			Err:        errors.Errorf("groq http status %d: %s", resp.StatusCode, errorDetail(body)),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", malformed(errors.Wrap(err, "groq response parse"))
	}
	if parsed.Error != nil {
		return "", malformed(errors.Errorf("groq error: %s (%s)", parsed.Error.Message, parsed.Error.Type))
	}
	if len(parsed.Choices) == 0 {
		return "", malformed(errors.New("groq response missing choices"))
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", malformed(errors.New("groq response empty content"))
	}

	logUsage(c.model, parsed)
	return content, nil
}

func transportError(err error) error {
	kind := llm.KindNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = llm.KindTimeout
	}
	return &llm.UpstreamError{Provider: providerName, Kind: kind, Err: err}
}

func malformed(err error) error {
	return &llm.UpstreamError{Provider: providerName, Kind: llm.KindMalformed, Err: err}
}

func errorDetail(body []byte) string {
	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
		return parsed.Error.Message
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	return text
}

func logUsage(model string, parsed chatResponse) {
	fields := map[string]any{"provider": providerName, "model": model}
	if parsed.Usage != nil {
		fields["prompt_tokens"] = parsed.Usage.PromptTokens
		fields["completion_tokens"] = parsed.Usage.CompletionTokens
		fields["total_tokens"] = parsed.Usage.TotalTokens
	}
	telemetry.Info("llm.response", fields)
}

var _ llm.Client = (*Client)(nil)
