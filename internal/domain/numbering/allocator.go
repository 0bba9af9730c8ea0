package numbering

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNumberTaken is returned by a PersistFunc when the (tenant, number) pair already exists.
	ErrNumberTaken = errors.New("quotation number already taken")
	// ErrNumberAllocationFailed is returned once every attempt collided.
	ErrNumberAllocationFailed = errors.New("could not allocate a unique quotation number")
)

// Store is the read side the allocator needs from persistence.
type Store interface {
	// LatestNumber returns the tenant's highest allocated number, or "" if none.
	LatestNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
	NumberExists(ctx context.Context, tenantID uuid.UUID, number string) (bool, error)
}

// PersistFunc durably stores the document under the candidate number. It must
// return ErrNumberTaken (possibly wrapped) when the uniqueness constraint fires.
type PersistFunc func(ctx context.Context, number Number) error

// RetryPolicy bounds the optimistic allocation loop.
type RetryPolicy struct {
	MaxAttempts int
	MinBackoff  time.Duration
	MaxBackoff  time.Duration
}

// DefaultRetryPolicy returns 3 attempts with 10-50ms of jitter between them.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		MinBackoff:  10 * time.Millisecond,
		MaxBackoff:  50 * time.Millisecond,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.MaxAttempts < 1 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.MinBackoff < 0 {
		p.MinBackoff = 0
	}
	if p.MaxBackoff < p.MinBackoff {
		p.MaxBackoff = p.MinBackoff
	}
	return p
}

// jitterBackOff waits a uniformly random duration in [min, max] between attempts.
type jitterBackOff struct {
	min, max time.Duration
}

func (b *jitterBackOff) NextBackOff() time.Duration {
	if b.max <= b.min {
		return b.min
	}
	return b.min + rand.N(b.max-b.min+1)
}

func (b *jitterBackOff) Reset() {}

// Allocator hands out per-tenant sequential numbers using read, check, insert and
// retry on conflict. It keeps no state between calls.
type Allocator struct {
	store  Store
	policy RetryPolicy
	logger *zap.Logger
}

// NewAllocator creates an allocator over the given store.
func NewAllocator(store Store, policy RetryPolicy, logger *zap.Logger) *Allocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Allocator{
		store:  store,
		policy: policy.normalized(),
		logger: logger,
	}
}

// Policy returns the effective retry policy.
func (a *Allocator) Policy() RetryPolicy {
	return a.policy
}

// Allocate computes the next number for the tenant and persists the owning
// document with it. The number is spent only if persist succeeds.
func (a *Allocator) Allocate(ctx context.Context, tenantID uuid.UUID, prefix string, persist PersistFunc) (Number, error) {
	prefix = NormalizePrefix(prefix)
	attempts := 0

	operation := func() (Number, error) {
		attempts++
		if err := ctx.Err(); err != nil {
			return Number{}, backoff.Permanent(err)
		}

		candidate, err := a.nextCandidate(ctx, tenantID, prefix)
		if err != nil {
			return Number{}, backoff.Permanent(err)
		}

		exists, err := a.store.NumberExists(ctx, tenantID, candidate.String())
		if err != nil {
			return Number{}, backoff.Permanent(fmt.Errorf("check quotation number: %w", err))
		}
		if exists {
			return Number{}, ErrNumberTaken
		}

		if err := persist(ctx, candidate); err != nil {
			if errors.Is(err, ErrNumberTaken) {
				return Number{}, ErrNumberTaken
			}
			return Number{}, backoff.Permanent(err)
		}
		return candidate, nil
	}

	number, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(&jitterBackOff{min: a.policy.MinBackoff, max: a.policy.MaxBackoff}),
		backoff.WithMaxTries(uint(a.policy.MaxAttempts)),
		backoff.WithNotify(func(err error, wait time.Duration) {
			a.logger.Warn("quotation number collision, retrying",
				zap.String("tenant_id", tenantID.String()),
				zap.Int("attempt", attempts),
				zap.Duration("backoff", wait),
				zap.Error(err),
			)
		}),
	)
	if err != nil {
		if errors.Is(err, ErrNumberTaken) {
			return Number{}, fmt.Errorf("%w: %d attempts collided", ErrNumberAllocationFailed, attempts)
		}
		return Number{}, err
	}
	return number, nil
}

func (a *Allocator) nextCandidate(ctx context.Context, tenantID uuid.UUID, prefix string) (Number, error) {
	latest, err := a.store.LatestNumber(ctx, tenantID)
	if err != nil {
		return Number{}, fmt.Errorf("read latest quotation number: %w", err)
	}
	if latest == "" {
		return Number{Prefix: prefix, Sequence: 1}, nil
	}
	last, err := Parse(latest)
	if err != nil {
		return Number{}, err
	}
	return last.Next(prefix), nil
}
