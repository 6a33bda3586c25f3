package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusReportsOK(t *testing.T) {
	start := time.Date(2026, time.May, 1, 12, 0, 0, 0, time.UTC)
	svc := &Service{startedAt: start, now: func() time.Time { return start.Add(90 * time.Second) }}

	status := svc.Status()
	assert.Equal(t, "ok", status["status"])
	assert.EqualValues(t, 90, status["uptime_seconds"])
}
