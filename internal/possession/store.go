package possession

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AIforimpact22/bootcampx/pkg/cache"
	"github.com/google/uuid"
)

const (
	// HeaderName carries the session id between requests.
	HeaderName = "X-POS-Session"
	keyPrefix  = "possession:"

	DefaultTTL = 12 * time.Hour
)

// Store persists sessions in a cache backend with a sliding TTL.
type Store struct {
	backend cache.Store
	ttl     time.Duration
	now     func() time.Time
}

// NewStore builds a session store over backend.
func NewStore(backend cache.Store, ttl time.Duration) *Store {
	if backend == nil {
		backend = cache.NewMemoryStore()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{backend: backend, ttl: ttl, now: time.Now}
}

// NewID issues a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an id issued by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil
}

// Load returns the stored session or a new idle one when none exists.
func (s *Store) Load(ctx context.Context, id string) (*Session, error) {
	raw, err := s.backend.Get(ctx, keyPrefix+id)
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return NewSession(id), nil
		}
		return nil, fmt.Errorf("load pos session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return NewSession(id), nil
	}
	sess.ID = id
	return &sess, nil
}

// Save writes the session and restarts its TTL.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	if sess == nil {
		return errors.New("session is required")
	}
	sess.UpdatedAt = s.now().UTC()
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode pos session: %w", err)
	}
	if err := s.backend.Set(ctx, keyPrefix+sess.ID, raw, s.ttl); err != nil {
		return fmt.Errorf("save pos session: %w", err)
	}
	return nil
}
