package health

import "time"

// Service reports liveness. It never checks the completion service so a slow
// or failing upstream does not take the process out of rotation.
type Service struct {
	startedAt time.Time
	now       func() time.Time
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{startedAt: time.Now(), now: time.Now}
}

// Status returns the health payload.
func (s *Service) Status() map[string]any {
	return map[string]any{
		"status":         "ok",
		"uptime_seconds": int64(s.now().Sub(s.startedAt).Seconds()),
	}
}
