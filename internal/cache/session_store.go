package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/auth-portal/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps signed-in users in redis under opaque session IDs
type SessionStore struct {
	helper *CacheHelper
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionStore creates a session store; a non-positive ttl uses the default
func NewSessionStore(helper *CacheHelper, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = SessionCacheConfig.TTL
	}
	return &SessionStore{helper: helper, ttl: ttl, now: time.Now}
}

// TTL returns how long sessions live
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// Create opens a session for user
func (s *SessionStore) Create(ctx context.Context, user models.User) (*models.Session, error) {
	now := s.now().UTC()
	session := &models.Session{
		ID:        uuid.NewString(),
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.helper.Set(ctx, session.ID, session, s.ttl); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return session, nil
}

// Get loads a live session
func (s *SessionStore) Get(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, ErrSessionNotFound
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSessionNotFound
	}

	var session models.Session
	if err := s.helper.Get(ctx, id, &session); err != nil {
		if errors.Is(err, ErrCacheNotFound) || errors.Is(err, ErrCacheNotAvailable) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &session, nil
}

// Delete ends a session; deleting an unknown session is not an error
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.helper.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
