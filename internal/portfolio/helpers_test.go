package portfolio

import (
	"context"
	"sync"

	"forgefolio/internal/llm"
)

const stubOutput = "**Professional Summary**\nJane builds reliable backends.\n\n" +
	"**Technical Skills**\n• Go\n• SQL\n\n" +
	"**Professional Experience**\n3 years at Acme shipping payment APIs.\n\n" +
	"**Key Projects**\n• API Gateway: cut p99 latency in half.\n\n" +
	"**Conclusion**\nJane is ready for the next challenge."

type stubClient struct {
	mu      sync.Mutex
	out     string
	err     error
	prompts []llm.Prompt
}

func (s *stubClient) Complete(ctx context.Context, prompt llm.Prompt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.out, nil
}

func (s *stubClient) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

type recordingTracker struct {
	mu          sync.Mutex
	generations []trackedGeneration
	features    []string
	err         error
}

type trackedGeneration struct {
	template   string
	profession string
	features   []string
}

func (r *recordingTracker) TrackGeneration(ctx context.Context, templateID, profession string, features []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generations = append(r.generations, trackedGeneration{templateID, profession, features})
	return r.err
}

func (r *recordingTracker) TrackFeature(ctx context.Context, feature string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.features = append(r.features, feature)
	return r.err
}
