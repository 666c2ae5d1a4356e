// file: internal/metadata/pacer.go
// version: 1.1.0
// guid: b2c3d4e5-f6a7-8b9c-0d1e-f2a3b4c5d6e7

package metadata

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out requests to a remote host. MusicBrainz rejects anonymous
// clients that exceed roughly one request per second, and the other services
// get the same courtesy.
type Pacer struct {
	limiter *rate.Limiter
}

// NewPacer creates a pacer allowing one request per interval. A zero or
// negative interval disables pacing (used by tests).
func NewPacer(interval time.Duration) *Pacer {
	if interval <= 0 {
		return &Pacer{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// wait blocks until the next request slot is available.
func (p *Pacer) wait() {
	_ = p.limiter.Wait(context.Background())
}
