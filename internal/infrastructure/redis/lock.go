package redis

import (
	"context"
	"fmt"
	"time"

	domainErrors "github.com/cassiomorais/billing/internal/domain/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Lua script for safe lock release (only owner can release)
var releaseLockScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// ChargeLock is a per-invoice distributed lock. It guarantees at most one
// concurrent charge attempt per invoice across all billing instances.
type ChargeLock struct {
	client   *redis.Client
	key      string
	value    string
	ttl      time.Duration
	acquired bool
}

func newChargeLock(client *redis.Client, invoiceID uuid.UUID, ttl time.Duration) *ChargeLock {
	return &ChargeLock{
		client: client,
		key:    fmt.Sprintf("lock:invoice:%s", invoiceID),
		value:  uuid.New().String(),
		ttl:    ttl,
	}
}

// acquire attempts to take the lock with SET NX.
func (l *ChargeLock) acquire(ctx context.Context) (bool, error) {
	success, err := l.client.SetNX(ctx, l.key, l.value, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	l.acquired = success
	return success, nil
}

// Release releases the lock. Only the owner can release it.
func (l *ChargeLock) Release(ctx context.Context) error {
	if !l.acquired {
		return nil
	}

	result, err := releaseLockScript.Run(ctx, l.client, []string{l.key}, l.value).Result()
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}

	val, ok := result.(int64)
	if !ok || val == 0 {
		return domainErrors.ErrLockNotHeld
	}

	l.acquired = false
	return nil
}

// ChargeLocker hands out per-invoice charge locks.
type ChargeLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewChargeLocker(client *redis.Client, ttl time.Duration) *ChargeLocker {
	return &ChargeLocker{client: client, ttl: ttl}
}

// Acquire tries to take the charge lock for the invoice. When the lock is
// already held elsewhere it returns acquired=false without error. On success
// the returned func releases the lock.
func (cl *ChargeLocker) Acquire(ctx context.Context, invoiceID uuid.UUID) (func(ctx context.Context) error, bool, error) {
	lock := newChargeLock(cl.client, invoiceID, cl.ttl)
	acquired, err := lock.acquire(ctx)
	if err != nil || !acquired {
		return nil, false, err
	}
	return lock.Release, true, nil
}
