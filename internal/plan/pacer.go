package plan

import (
	"context"
	"math"
	"time"

	"golang.org/x/time/rate"
)

// Pacer converts plan offsets into real-time waits. An optional rate cap
// guards against schedules that fire faster than the consumer should emit.
type Pacer struct {
	start   time.Time
	limiter *rate.Limiter
}

// NewPacer creates a pacer. maxRPS <= 0 disables the cap.
func NewPacer(maxRPS int) *Pacer {
	p := &Pacer{}
	if maxRPS > 0 {
		burst := int(math.Ceil(float64(maxRPS)))
		if burst < 1 {
			burst = 1
		}
		p.limiter = rate.NewLimiter(rate.Limit(maxRPS), burst)
	}
	return p
}

// Wait blocks until the given offset from the first Wait call has elapsed,
// honoring the rate cap. The clock starts on the first call.
func (p *Pacer) Wait(ctx context.Context, offset time.Duration) error {
	if p.start.IsZero() {
		p.start = time.Now()
	}
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	delay := time.Until(p.start.Add(offset))
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
