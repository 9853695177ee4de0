package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/linkedingest/linkedingest/internal/storage"
	"github.com/linkedingest/linkedingest/internal/transform"
)

// FetchError means the upstream profile fetch failed. It is fatal for the
// request but not for the service; the caller should retry later.
type FetchError struct {
	ProfileID string
	Cause     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching profile %s: %v", e.ProfileID, e.Cause)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// Fetcher is the upstream contract the coordinator drives.
type Fetcher interface {
	FetchProfile(ctx context.Context, publicID string) (json.RawMessage, error)
	FetchPosts(ctx context.Context, publicID string) (json.RawMessage, error)
}

// Journal records ingest outcomes for the audit trail. Failures to record
// are logged, never surfaced.
type Journal interface {
	Record(rec storage.IngestRecord) error
}

// Options are the behavior flags loaded from configuration.
type Options struct {
	CacheEnabled  bool
	PacingEnabled bool
	NoiseEnabled  bool
	MaxDelay      time.Duration // upper pacing bound, used by the ETA heuristic
}

// QueueStatus is the read-only admission snapshot served to callers deciding
// whether to wait.
type QueueStatus struct {
	WaitingRequestsCount         int   `json:"waiting_requests_count"`
	EstimatedCompletionTimestamp int64 `json:"estimated_completion_timestamp"`
}

// Coordinator serializes upstream fetches behind a single admission slot,
// tracks queue depth, and drives the pacer, cache, and transformer for each
// request. At most one fetch pipeline runs at a time, globally: that is the
// price of anti-detection pacing.
type Coordinator struct {
	fetcher     Fetcher
	pacer       *Pacer
	cache       *Cache
	transformer *transform.Transformer
	journal     Journal
	opts        Options

	// slot is the capacity-1 admission permit; its waiters queue FIFO.
	slot *semaphore.Weighted

	// mu guards waiting, which is read from outside the pipeline via
	// QueueStatus.
	mu      sync.Mutex
	waiting int

	now    func() time.Time
	logger *slog.Logger
}

// NewCoordinator wires a coordinator from its collaborators. journal may be
// nil to disable the audit trail.
func NewCoordinator(fetcher Fetcher, pacer *Pacer, cache *Cache, journal Journal, opts Options) *Coordinator {
	return &Coordinator{
		fetcher:     fetcher,
		pacer:       pacer,
		cache:       cache,
		transformer: transform.NewTransformer(),
		journal:     journal,
		opts:        opts,
		slot:        semaphore.NewWeighted(1),
		now:         time.Now,
		logger:      slog.Default(),
	}
}

// Ingest returns the document for one profile identifier, from cache when
// possible, otherwise by queueing for the admission slot and running the
// fetch pipeline. Errors are *FetchError or *transform.ParseError.
func (c *Coordinator) Ingest(ctx context.Context, profileID string) (*transform.ProfileDocument, error) {
	// Cache hits never enter the queue: they cost no upstream call.
	if c.opts.CacheEnabled {
		if doc, ok := c.cache.Get(profileID); ok {
			c.logger.Info("cache hit", "profile_id", profileID)
			return doc, nil
		}
	}

	// The counter covers queued and in-flight requests alike and must come
	// back down on every exit path; a leak here corrupts ETA estimates for
	// every later caller.
	c.addWaiting(1)
	defer c.addWaiting(-1)

	if err := c.slot.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.slot.Release(1)

	start := c.now()
	c.logger.Info("ingest started", "profile_id", profileID, "queue_depth", c.depth())

	doc, err := c.pipeline(ctx, profileID)
	if err != nil {
		c.record(profileID, err, start)
		return nil, err
	}

	if c.opts.CacheEnabled {
		c.cache.Put(profileID, doc)
	}
	c.record(profileID, nil, start)
	return doc, nil
}

// pipeline runs one serialized fetch while the slot is held.
func (c *Coordinator) pipeline(ctx context.Context, profileID string) (*transform.ProfileDocument, error) {
	if c.opts.PacingEnabled {
		if err := c.pacer.Pace(ctx); err != nil {
			return nil, err
		}
	}

	profileRaw, err := c.fetcher.FetchProfile(ctx, profileID)
	if err != nil {
		return nil, &FetchError{ProfileID: profileID, Cause: err}
	}

	if c.opts.NoiseEnabled {
		c.pacer.MaybeNoise(ctx)
	}

	// Posts are not critical; a failed fetch degrades to an absent section.
	postsRaw, err := c.fetcher.FetchPosts(ctx, profileID)
	if err != nil {
		c.logger.Warn("posts fetch failed", "profile_id", profileID, "error", err)
		postsRaw = nil
	}

	if c.opts.NoiseEnabled {
		c.pacer.MaybeNoise(ctx)
	}

	return c.transformer.Transform(profileRaw, postsRaw)
}

// QueueStatus reports the current queue depth plus an upper-bound completion
// estimate: (depth+1) times a fixed per-request overhead plus the configured
// pacing and noise allowances.
func (c *Coordinator) QueueStatus() QueueStatus {
	singleWait := 4 * time.Second
	if c.opts.PacingEnabled {
		singleWait += c.opts.MaxDelay
	}
	if c.opts.NoiseEnabled {
		// Two noise opportunities per request, each hitting half the time
		// and costing one pace plus ~2s of decoy round-trip.
		singleWait += time.Duration(float64(2*time.Second+c.opts.MaxDelay) * 0.5 * 2)
	}

	depth := c.depth()
	return QueueStatus{
		WaitingRequestsCount:         depth,
		EstimatedCompletionTimestamp: c.now().Add(time.Duration(depth+1) * singleWait).Unix(),
	}
}

func (c *Coordinator) addWaiting(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waiting += delta
}

func (c *Coordinator) depth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waiting
}

// record appends the outcome to the audit journal when one is configured.
func (c *Coordinator) record(profileID string, ingestErr error, start time.Time) {
	if c.journal == nil {
		return
	}
	rec := storage.IngestRecord{
		ID:         uuid.New().String(),
		ProfileID:  profileID,
		Outcome:    storage.OutcomeOK,
		DurationMS: c.now().Sub(start).Milliseconds(),
		CreatedAt:  c.now(),
	}
	if ingestErr != nil {
		rec.Detail = ingestErr.Error()
		switch ingestErr.(type) {
		case *FetchError:
			rec.Outcome = storage.OutcomeFetchError
		case *transform.ParseError:
			rec.Outcome = storage.OutcomeParseError
		default:
			rec.Outcome = storage.OutcomeFetchError
		}
	}
	if err := c.journal.Record(rec); err != nil {
		c.logger.Error("failed to record ingest outcome", "profile_id", profileID, "error", err)
	}
}
