// Package session holds the ephemeral current-user slot. It lives apart
// from the snapshot store: a login survives only the browsing session,
// never a restart.
package session

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/hcquillabamba/custodia/model"
)

const currentUserKey = "currentUser"

// Store wraps an expiring in-memory cache with a single well-known key.
type Store struct {
	cache *gocache.Cache
}

// New creates a session store. A zero ttl means sessions never expire
// on their own and last until Clear or process exit.
func New(ttl time.Duration) *Store {
	expiry := gocache.NoExpiration
	if ttl > 0 {
		expiry = ttl
	}
	return &Store{cache: gocache.New(expiry, 10*time.Minute)}
}

// Set records the authenticated user.
func (s *Store) Set(user *model.User) {
	copied := *user
	s.cache.Set(currentUserKey, &copied, gocache.DefaultExpiration)
}

// Current returns the authenticated user, or nil when logged out.
func (s *Store) Current() *model.User {
	value, ok := s.cache.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*model.User)
	if !ok {
		return nil
	}
	copied := *user
	return &copied
}

// Clear ends the session.
func (s *Store) Clear() {
	s.cache.Delete(currentUserKey)
}
