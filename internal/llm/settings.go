package llm

import "time"

// Settings configures a provider client at construction time.
type Settings struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// DefaultTimeout bounds a completion call when Settings.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// EffectiveTimeout returns Timeout or DefaultTimeout.
func (s Settings) EffectiveTimeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultTimeout
	}
	return s.Timeout
}
