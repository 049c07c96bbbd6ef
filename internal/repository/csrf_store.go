package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCSRFUnavailable is returned when the Redis backend is not connected.
var ErrCSRFUnavailable = errors.New("csrf store unavailable")

// CSRFStore keeps single-use CSRF tokens in Redis under a TTL, so
// unconsumed tokens expire on their own instead of accumulating.
type CSRFStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCSRFStore(rdb *redis.Client, ttl time.Duration) *CSRFStore {
	return &CSRFStore{rdb: rdb, ttl: ttl}
}

func (s *CSRFStore) key(userID uint64, token string) string {
	return "csrf:" + strconv.FormatUint(userID, 10) + ":" + token
}

// Issue registers a token for the user.
func (s *CSRFStore) Issue(ctx context.Context, userID uint64, token string) error {
	if s.rdb == nil {
		return ErrCSRFUnavailable
	}
	return s.rdb.Set(ctx, s.key(userID, token), "1", s.ttl).Err()
}

// Consume deletes the token and reports whether it was live. GETDEL
// keeps check and invalidation one round trip, a token can only be
// spent once.
func (s *CSRFStore) Consume(ctx context.Context, userID uint64, token string) (bool, error) {
	if s.rdb == nil {
		return false, ErrCSRFUnavailable
	}
	res, err := s.rdb.GetDel(ctx, s.key(userID, token)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return res != "", nil
}
