package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"

	"forgefolio/internal/llm"
)

func TestNewClientValidatesSettings(t *testing.T) {
	_, err := NewClient(context.Background(), llm.Settings{APIKey: "k"})
	assert.ErrorContains(t, err, "LLM_MODEL")

	_, err = NewClient(context.Background(), llm.Settings{Model: "gemini-2.0-flash"})
	assert.ErrorContains(t, err, "GEMINI_API_KEY")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind llm.Kind
		wantCode int
	}{
		{name: "deadline", err: fmt.Errorf("post: %w", context.DeadlineExceeded), wantKind: llm.KindTimeout},
		{name: "api status", err: genai.APIError{Code: 429, Message: "quota", Status: "RESOURCE_EXHAUSTED"}, wantKind: llm.KindStatus, wantCode: 429},
		{name: "other", err: errors.New("connection reset"), wantKind: llm.KindNetwork},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := classify(context.Background(), tt.err)
			var ue *llm.UpstreamError
			if assert.ErrorAs(t, err, &ue) {
				assert.Equal(t, tt.wantKind, ue.Kind)
				assert.Equal(t, tt.wantCode, ue.StatusCode)
				assert.Equal(t, "gemini", ue.Provider)
			}
		})
	}
}
