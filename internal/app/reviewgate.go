package app

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"electrosite/internal/adapters/observability"
	"electrosite/internal/domain"
)

type externalResolver interface {
	Resolve(ctx context.Context) ([]domain.Review, bool)
}

// Freshness describes the list a ReviewGate served.
type Freshness struct {
	Live      bool      // false when the backup list is being served
	FetchedAt time.Time // when the list was stored
}

type gateEntry struct {
	reviews     []domain.Review
	fetchedAt   time.Time
	live        bool
	nextRefresh time.Time
}

// ReviewGate holds the last resolved external review list and decides when to
// ask the resolver again. Live results are kept for ttl; after a fallback the
// resolver is retried every backupRetry. A non-empty list is never replaced by
// an empty one, and concurrent refreshes share a single resolver call.
type ReviewGate struct {
	resolver    externalResolver
	ttl         time.Duration
	backupRetry time.Duration
	now         func() time.Time

	sf    singleflight.Group
	mu    sync.Mutex
	entry gateEntry
}

type GateOption func(*ReviewGate)

// WithClock overrides time.Now (tests).
func WithClock(now func() time.Time) GateOption {
	return func(g *ReviewGate) { g.now = now }
}

func NewReviewGate(r externalResolver, ttl, backupRetry time.Duration, opts ...GateOption) *ReviewGate {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if backupRetry <= 0 || backupRetry > ttl {
		backupRetry = ttl
	}
	g := &ReviewGate{resolver: r, ttl: ttl, backupRetry: backupRetry, now: time.Now}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Reviews returns the external review list, refreshing it first when it is empty
// or due. The returned slice belongs to the caller.
func (g *ReviewGate) Reviews(ctx context.Context) ([]domain.Review, Freshness) {
	if out, f, ok := g.fresh(); ok {
		observability.ObserveReviewGate("hit")
		return out, f
	}

	v, _, shared := g.sf.Do("external", func() (any, error) {
		// a flight that finished just before this one may already have refreshed
		if out, f, ok := g.fresh(); ok {
			return gateResult{out, f}, nil
		}
		observability.ObserveReviewGate("refresh")
		// the refresh is shared, so it must not die with the first caller's request
		reviews, live := g.resolver.Resolve(context.WithoutCancel(ctx))
		return g.store(reviews, live), nil
	})
	if shared {
		observability.ObserveReviewGate("coalesced")
	}
	res := v.(gateResult)
	return cloneReviews(res.reviews), res.freshness
}

type gateResult struct {
	reviews   []domain.Review
	freshness Freshness
}

func (g *ReviewGate) fresh() ([]domain.Review, Freshness, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.entry.reviews) == 0 || !g.now().Before(g.entry.nextRefresh) {
		return nil, Freshness{}, false
	}
	return cloneReviews(g.entry.reviews), g.freshnessLocked(), true
}

func (g *ReviewGate) store(reviews []domain.Review, live bool) gateResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	now := g.now()

	switch {
	case live && len(reviews) > 0:
		g.entry = gateEntry{reviews: cloneReviews(reviews), fetchedAt: now, live: true, nextRefresh: now.Add(g.ttl)}
	case len(g.entry.reviews) == 0 && len(reviews) > 0:
		g.entry = gateEntry{reviews: cloneReviews(reviews), fetchedAt: now, live: false, nextRefresh: now.Add(g.backupRetry)}
	default:
		// keep whatever we already have; just wait before asking again
		g.entry.nextRefresh = now.Add(g.backupRetry)
	}
	return gateResult{cloneReviews(g.entry.reviews), g.freshnessLocked()}
}

func (g *ReviewGate) freshnessLocked() Freshness {
	return Freshness{Live: g.entry.live, FetchedAt: g.entry.fetchedAt}
}

func cloneReviews(in []domain.Review) []domain.Review {
	if in == nil {
		return nil
	}
	out := make([]domain.Review, len(in))
	copy(out, in)
	return out
}
