package database

import (
	"errors"
	"sync"
	"time"

	"coreinvoice-backend/models"
)

var (
	ErrIdempotencyMismatch = errors.New("idempotency key reused with a different request")
	ErrIdempotencyPending  = errors.New("idempotency key request still in progress")
)

// IdempotencyStore remembers the first response recorded for each
// Idempotency-Key until the TTL runs out.
type IdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]models.IdempotencyKey
	ttl  time.Duration
	now  func() time.Time
}

func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		keys: make(map[string]models.IdempotencyKey),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Begin reserves key for the request identified by hash. If a completed
// response already exists for the same request it is returned with
// replay=true and the handler must not run again.
func (s *IdempotencyStore) Begin(key, hash, method, path string) (rec models.IdempotencyKey, replay bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if existing, ok := s.keys[key]; ok && !s.expired(existing, now) {
		if existing.RequestHash != hash {
			return existing, false, ErrIdempotencyMismatch
		}
		if !existing.Completed() {
			return existing, false, ErrIdempotencyPending
		}
		return existing, true, nil
	}

	rec = models.IdempotencyKey{
		Key:         key,
		RequestHash: hash,
		Method:      method,
		Path:        path,
		CreatedAt:   now,
	}
	s.keys[key] = rec
	return rec, false, nil
}

// Complete records the response for a reserved key.
func (s *IdempotencyStore) Complete(key string, status int, contentType string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.keys[key]
	if !ok {
		return
	}
	now := s.now().UTC()
	blob := make([]byte, len(body))
	copy(blob, body)

	rec.ResponseStatus = status
	rec.ResponseBody = blob
	rec.ContentType = contentType
	rec.CompletedAt = &now
	s.keys[key] = rec
}

// Release drops a pending reservation so the client can retry after a failure.
func (s *IdempotencyStore) Release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.keys[key]; ok && !rec.Completed() {
		delete(s.keys, key)
	}
}

func (s *IdempotencyStore) expired(rec models.IdempotencyKey, now time.Time) bool {
	return s.ttl > 0 && now.Sub(rec.CreatedAt) > s.ttl
}
