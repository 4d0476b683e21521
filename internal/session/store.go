package session

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/harmonia-music/account-service/internal/domain/entity"
)

func sessionKey(sid string) string {
	return "session:" + sid
}

// RedisStore keeps session records as Redis hashes with a TTL, one hash per
// session id.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Put(ctx context.Context, sess *Session, ttl time.Duration) error {
	key := sessionKey(sess.SID)
	fields := map[string]any{
		"email":      sess.Email,
		"role":       string(sess.Role),
		"remember":   strconv.FormatBool(sess.Remember),
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, ttl)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Get(ctx context.Context, sid string) (*Session, error) {
	data, err := s.rdb.HGetAll(ctx, sessionKey(sid)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	remember, _ := strconv.ParseBool(data["remember"])
	return &Session{
		SID:      sid,
		Email:    data["email"],
		Role:     entity.Role(data["role"]),
		Remember: remember,
	}, nil
}

func (s *RedisStore) Delete(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, sessionKey(sid)).Err()
}

var _ Store = (*RedisStore)(nil)

// MemoryStore is a map-backed Store for tests and local development. TTLs
// are honored lazily on read.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
}

type memoryEntry struct {
	session Session
	expires time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Put(_ context.Context, sess *Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.SID] = memoryEntry{session: *sess, expires: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sid string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sid]
	if !ok {
		return nil, nil
	}
	if time.Now().After(e.expires) {
		delete(s.sessions, sid)
		return nil, nil
	}
	cp := e.session
	return &cp, nil
}

func (s *MemoryStore) Delete(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}

var _ Store = (*MemoryStore)(nil)
