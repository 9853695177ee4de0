package ingest

import (
	"context"
	"log/slog"
	"math/rand"
	"time"
)

// DecoyClient is the slice of the upstream client the pacer uses for noise
// traffic. None of these calls matter functionally; they exist to make the
// outbound request pattern look less automated.
type DecoyClient interface {
	ProfileViews(ctx context.Context) error
	Invitations(ctx context.Context, start, limit int) error
	FeedPosts(ctx context.Context, limit int) error
}

// Pacer shapes outbound request timing: uniformly-random delays between
// calls plus probability-gated decoy requests. It models human timing
// variance, not a hard rate cap.
type Pacer struct {
	min       time.Duration
	max       time.Duration
	noiseProb float64
	decoys    DecoyClient
	rng       func() float64
	sleep     func(ctx context.Context, d time.Duration) error
	logger    *slog.Logger
}

// NewPacer creates a Pacer delaying uniformly within [min, max] and firing a
// decoy call with probability noiseProb per MaybeNoise invocation.
func NewPacer(min, max time.Duration, noiseProb float64, decoys DecoyClient) *Pacer {
	if max < min {
		max = min
	}
	return &Pacer{
		min:       min,
		max:       max,
		noiseProb: noiseProb,
		decoys:    decoys,
		rng:       rand.Float64,
		sleep:     sleepContext,
		logger:    slog.Default(),
	}
}

// Pace suspends the caller for a random duration within the configured
// interval. It returns early with the context error on cancellation.
func (p *Pacer) Pace(ctx context.Context) error {
	d := p.min + time.Duration(p.rng()*float64(p.max-p.min))
	return p.sleep(ctx, d)
}

// MaybeNoise rolls the noise probability and, on a hit, paces once and then
// issues exactly one randomly-chosen decoy call. Decoy failures are logged
// and swallowed: noise is never allowed to fail an ingest.
func (p *Pacer) MaybeNoise(ctx context.Context) {
	if p.rng() >= p.noiseProb {
		return
	}
	if err := p.Pace(ctx); err != nil {
		return
	}

	var err error
	switch int(p.rng() * 3) {
	case 0:
		err = p.decoys.ProfileViews(ctx)
	case 1:
		err = p.decoys.Invitations(ctx, 0, 3)
	default:
		err = p.decoys.FeedPosts(ctx, 10)
	}
	if err != nil {
		p.logger.Warn("decoy request failed (this is fine)", "error", err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
