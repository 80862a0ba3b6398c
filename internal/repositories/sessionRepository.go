package repositories

import (
	"context"
	"sync"
	"time"

	"leadgate/internal/models"
)

// SessionRepository stores OTP session state keyed by session token.
// Find returns (nil, nil) when no state exists for the token.
//
// Update and TakeVerified are atomic with respect to every other call on the
// same token.
type SessionRepository interface {
	Find(ctx context.Context, token string) (*models.OTPSession, error)
	Save(ctx context.Context, token string, session *models.OTPSession) error
	Delete(ctx context.Context, token string) error

	// Update passes the stored session to fn, or nil when there is none, and
	// writes back the changes fn makes. A non-nil error from fn is returned
	// and nothing is written. The expiry is left as it was.
	Update(ctx context.Context, token string, fn func(session *models.OTPSession) error) error

	// TakeVerified removes and returns the session if it is verified. An
	// unverified or missing session is left alone and (nil, nil) returned.
	TakeVerified(ctx context.Context, token string) (*models.OTPSession, error)
}

type memoryEntry struct {
	session   models.OTPSession
	expiresAt time.Time
}

type memorySessionRepository struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemorySessionRepository keeps sessions in process. Entries expire ttl
// after their last save.
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return &memorySessionRepository{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (r *memorySessionRepository) Find(ctx context.Context, token string) (*models.OTPSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.live(token)
	if !ok {
		return nil, nil
	}

	session := entry.session
	return &session, nil
}

func (r *memorySessionRepository) Save(ctx context.Context, token string, session *models.OTPSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.purgeExpired()
	r.entries[token] = memoryEntry{session: *session, expiresAt: r.now().Add(r.ttl)}
	return nil
}

func (r *memorySessionRepository) Delete(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, token)
	return nil
}

func (r *memorySessionRepository) Update(ctx context.Context, token string, fn func(session *models.OTPSession) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.live(token)
	if !ok {
		return fn(nil)
	}

	session := entry.session
	if err := fn(&session); err != nil {
		return err
	}
	entry.session = session
	r.entries[token] = entry
	return nil
}

func (r *memorySessionRepository) TakeVerified(ctx context.Context, token string) (*models.OTPSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.live(token)
	if !ok || !entry.session.Verified {
		return nil, nil
	}

	delete(r.entries, token)
	session := entry.session
	return &session, nil
}

// live returns the unexpired entry for token. It must be called with r.mu held.
func (r *memorySessionRepository) live(token string) (memoryEntry, bool) {
	entry, ok := r.entries[token]
	if !ok {
		return memoryEntry{}, false
	}
	if r.now().After(entry.expiresAt) {
		delete(r.entries, token)
		return memoryEntry{}, false
	}
	return entry, true
}

// purgeExpired must be called with r.mu held.
func (r *memorySessionRepository) purgeExpired() {
	now := r.now()
	for token, entry := range r.entries {
		if now.After(entry.expiresAt) {
			delete(r.entries, token)
		}
	}
}
