package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/anup4khandelwal/travel-planner-agent/pkg/store"

	"github.com/go-playground/validator/v10"
	"github.com/patrickmn/go-cache"
)

// ValidationError reports a merge that produced a session violating the
// slot schema (e.g. a non-positive passenger count). The session keeps
// its pre-merge state when this is returned.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("session validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// SessionRepository keeps per-user conversation state in process
// memory. Sessions live for the process lifetime unless a TTL is
// configured; access across distinct users is safe for concurrent use.
type SessionRepository struct {
	cache    *cache.Cache
	validate *validator.Validate

	// Guards get-or-create and merge so two writers cannot both
	// observe a missing session or interleave a read-modify-write.
	mu sync.Mutex
}

// NewSessionRepository creates a store with the given session TTL.
// A ttl of zero keeps sessions forever.
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	expiry := cache.NoExpiration
	cleanup := time.Duration(0)
	if ttl > 0 {
		expiry = ttl
		cleanup = 10 * time.Minute
	}
	return &SessionRepository{
		cache:    cache.New(expiry, cleanup),
		validate: validator.New(),
	}
}

// GetOrCreate returns the session for userID, creating a default one on
// first contact. Idempotent.
func (r *SessionRepository) GetOrCreate(userID string) *store.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getOrCreateLocked(userID).Clone()
}

func (r *SessionRepository) getOrCreateLocked(userID string) *store.Session {
	if x, found := r.cache.Get(userID); found {
		return x.(*store.Session)
	}
	session := &store.Session{
		UserID:  userID,
		Stage:   store.StageIntentDetection,
		History: []store.Message{},
	}
	r.cache.Set(userID, session, cache.DefaultExpiration)
	return session
}

// Update shallow-merges the patch into the stored session and
// re-validates the result. Fields absent from the patch are untouched;
// later values win field-by-field. On a schema violation the stored
// session is left as it was and a *ValidationError is returned.
func (r *SessionRepository) Update(userID string, patch store.SessionUpdate) (*store.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.getOrCreateLocked(userID)
	merged := current.Clone()

	if patch.Stage != nil {
		merged.Stage = *patch.Stage
	}
	if patch.Intent != nil {
		merged.Intent = *patch.Intent
	}
	if patch.FlightSlots != nil {
		fs := *patch.FlightSlots
		merged.FlightSlots = &fs
	}
	if patch.HotelSlots != nil {
		hs := *patch.HotelSlots
		merged.HotelSlots = &hs
	}
	if patch.CombinedSlots != nil {
		cs := *patch.CombinedSlots
		merged.CombinedSlots = &cs
	}

	if err := r.validateSession(merged); err != nil {
		return nil, &ValidationError{Err: err}
	}

	r.cache.Set(userID, merged, cache.DefaultExpiration)
	return merged.Clone(), nil
}

func (r *SessionRepository) validateSession(s *store.Session) error {
	if s.FlightSlots != nil {
		if err := r.validate.Struct(s.FlightSlots); err != nil {
			return err
		}
	}
	if s.HotelSlots != nil {
		if err := r.validate.Struct(s.HotelSlots); err != nil {
			return err
		}
	}
	if s.CombinedSlots != nil {
		if err := r.validate.Struct(s.CombinedSlots); err != nil {
			return err
		}
	}
	return nil
}

// AppendMessage records one history entry with the current time.
// History is append-only; nothing is ever dropped or reordered here.
func (r *SessionRepository) AppendMessage(userID, role, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := r.getOrCreateLocked(userID)
	session.History = append(session.History, store.Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	r.cache.Set(userID, session, cache.DefaultExpiration)
}

// Reset clears the intent and every slot object and moves the session
// back to intent detection, keeping the user id and history. This backs
// the "new search" flow.
func (r *SessionRepository) Reset(userID string) *store.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := r.getOrCreateLocked(userID)
	session.Intent = ""
	session.FlightSlots = nil
	session.HotelSlots = nil
	session.CombinedSlots = nil
	session.Stage = store.StageIntentDetection
	r.cache.Set(userID, session, cache.DefaultExpiration)
	return session.Clone()
}

// Clear removes the session entirely; the next GetOrCreate starts fresh.
func (r *SessionRepository) Clear(userID string) {
	r.cache.Delete(userID)
}

// Count reports how many sessions are currently tracked.
func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
