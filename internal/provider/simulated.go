package provider

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Simulated is a fake provider for development and tests. It sleeps for a
// short random latency and succeeds with the configured probability.
type Simulated struct {
	label string

	mu          sync.Mutex
	successRate float64 // 0.0 to 1.0
	rand        *rand.Rand
}

// NewSimulated creates a simulated provider.
// successRate is the probability of a successful send (clamped to [0, 1]).
func NewSimulated(label string, successRate float64) *Simulated {
	return &Simulated{
		label:       label,
		successRate: clampRate(successRate),
		rand:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Send simulates a provider call
func (s *Simulated) Send(ctx context.Context, recipient, content string) (string, error) {
	s.mu.Lock()
	latency := time.Duration(10+s.rand.Intn(40)) * time.Millisecond
	roll := s.rand.Float64()
	rate := s.successRate
	s.mu.Unlock()

	select {
	case <-time.After(latency):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if roll >= rate {
		reasons := []string{
			"network timeout",
			"invalid recipient",
			"rate limit exceeded",
			"service temporarily unavailable",
		}
		s.mu.Lock()
		reason := reasons[s.rand.Intn(len(reasons))]
		s.mu.Unlock()
		return "", fmt.Errorf("%s send to %s failed: %s", s.label, recipient, reason)
	}

	return uuid.NewString(), nil
}

// SetSuccessRate updates the success rate (for tests)
func (s *Simulated) SetSuccessRate(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successRate = clampRate(rate)
}

func clampRate(rate float64) float64 {
	if rate < 0.0 {
		return 0.0
	}
	if rate > 1.0 {
		return 1.0
	}
	return rate
}
