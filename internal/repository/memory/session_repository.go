package memory

import (
	"time"

	"starter-coach-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps live session contexts until they expire. Nothing is
// persisted; a restart ends every session.
type SessionRepository struct {
	cache *cache.Cache
}

// NewSessionRepository expires sessions after ttl of inactivity and purges
// expired items every ttl/4 (at least once a minute).
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	cleanup := ttl / 4
	if cleanup < time.Minute {
		cleanup = time.Minute
	}
	return &SessionRepository{
		cache: cache.New(ttl, cleanup),
	}
}

func (r *SessionRepository) Save(session *entity.SessionContext) {
	r.cache.Set(session.SessionID, session, cache.DefaultExpiration)
}

// Get returns the session and slides its expiry forward.
func (r *SessionRepository) Get(sessionID string) (*entity.SessionContext, bool) {
	if x, found := r.cache.Get(sessionID); found {
		session := x.(*entity.SessionContext)
		r.cache.Set(sessionID, session, cache.DefaultExpiration)
		return session, true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
