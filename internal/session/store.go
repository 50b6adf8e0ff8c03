package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "kiosk:sess:"

// Store persists terminal sessions in Redis. Sessions are small JSON blobs
// under kiosk:sess:<token> with a sliding TTL, so an abandoned terminal
// eventually forgets who was logged in.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Load fetches the session for token. An empty or unknown token yields a
// fresh anonymous session with a new token — callers always get something
// usable back.
func (s *Store) Load(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return &Session{Token: uuid.NewString()}, nil
	}

	data, err := s.rdb.Get(ctx, keyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Session{Token: uuid.NewString()}, nil
	}
	if err != nil {
		return nil, err
	}

	sess := &Session{Token: token}
	if err := json.Unmarshal(data, sess); err != nil {
		// Corrupt blob: drop it and start over rather than failing the scan.
		return &Session{Token: uuid.NewString()}, nil
	}
	return sess, nil
}

// Save writes the session back and refreshes its TTL.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+sess.Token, data, s.ttl).Err()
}

// Delete removes the session entirely (terminal reset).
func (s *Store) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, keyPrefix+token).Err()
}
