package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevokedTokens is a Redis denylist of access-token ids (jti).  Entries
// expire together with the token they deny.  A nil client turns every
// method into a no-op.
type RevokedTokens struct {
	rdb    *redis.Client
	prefix string
}

func NewRevokedTokens(rdb *redis.Client, prefix string) *RevokedTokens {
	if prefix == "" {
		prefix = "revoked"
	}
	return &RevokedTokens{rdb: rdb, prefix: prefix}
}

func (r *RevokedTokens) key(jti string) string { return r.prefix + ":" + jti }

// Revoke denies jti until exp.  Tokens already expired are skipped.
func (r *RevokedTokens) Revoke(ctx context.Context, jti string, exp time.Time) error {
	if r == nil || r.rdb == nil || jti == "" {
		return nil
	}
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, r.key(jti), 1, ttl).Err()
}

// IsRevoked reports whether jti is on the denylist.  Redis failures are
// returned so the caller can decide whether to fail open.
func (r *RevokedTokens) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if r == nil || r.rdb == nil || jti == "" {
		return false, nil
	}
	err := r.rdb.Get(ctx, r.key(jti)).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	}
	return false, err
}
