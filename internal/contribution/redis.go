package contribution

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/redis/go-redis/v9"

	"Babel/internal/market"
)

// Redis reads contributions kept by an external ledger in Redis hashes:
// "<namespace>:contributions:<project id>" maps account -> amount.
type Redis struct {
	client    *redis.Client
	namespace string
}

// NewRedis creates a contribution reader over an existing client.
func NewRedis(client *redis.Client, namespace string) *Redis {
	return &Redis{client: client, namespace: namespace}
}

// Dial connects to addr and verifies the connection with PING.
func Dial(ctx context.Context, addr, namespace string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s:\n%w", addr, err)
	}

	return NewRedis(client, namespace), nil
}

// Contribution returns the stored amount, zero when the field or hash is absent.
func (r *Redis) Contribution(ctx context.Context, projectID uint64, account market.Account) (uint64, error) {
	amount, err := r.client.HGet(ctx, r.projectKey(projectID), string(account)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis contribution:\n%w", err)
	}

	return amount, nil
}

// Record adds amount with HINCRBY. Redis counters are signed, so amounts above
// MaxInt64 are refused.
func (r *Redis) Record(ctx context.Context, projectID uint64, account market.Account, amount uint64) (uint64, error) {
	if err := account.Validate(); err != nil {
		return 0, err
	}

	if amount == 0 || amount > math.MaxInt64 {
		return 0, fmt.Errorf("%w: contribution amount %d", market.ErrInvalidArgument, amount)
	}

	total, err := r.client.HIncrBy(ctx, r.projectKey(projectID), string(account), int64(amount)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis record contribution:\n%w", err)
	}

	return uint64(total), nil
}

// Close releases the client's connections.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) projectKey(projectID uint64) string {
	return fmt.Sprintf("%s:contributions:%d", r.namespace, projectID)
}
