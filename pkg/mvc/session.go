package mvc

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionCookie names the cookie carrying the session id
const DefaultSessionCookie = "MVCSESSION"

// Session is the server side state shared by the requests of one client
type Session interface {
	ID() string
	Get(key string) (any, bool)
	Set(key string, value any)
	Delete(key string)
	Keys() []string

	// Flash returns the flash values the previous request left
	Flash() FlashMap
	// SetFlash makes a value visible to the next request only
	SetFlash(key string, value any)

	// Invalidate discards the session; later requests get a new one
	Invalidate()
	Valid() bool
}

// SessionStore keeps sessions between requests
type SessionStore interface {
	// Load returns a live session and hands it the flash values queued by
	// the previous request
	Load(id string) (Session, bool)
	Create() Session
	Remove(id string)
}

// Sessions ties a store to the cookie carrying session ids
type Sessions struct {
	Store      SessionStore
	CookieName string
	// Path is the cookie path, / when empty
	Path string
	// Secure marks the cookie https only
	Secure bool
}

// NewSessions creates a cookie session manager over store
func NewSessions(store SessionStore) *Sessions {
	return &Sessions{Store: store, CookieName: DefaultSessionCookie, Path: "/"}
}

// MemoryStore is an in-process SessionStore with uuid ids. Sessions idle
// for longer than the ttl are dropped on access; a zero ttl keeps them
// until removed.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Load returns a live session
func (s *MemoryStore) Load(id string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.ttl > 0 && now.Sub(sess.touched) > s.ttl {
		delete(s.sessions, id)
		return nil, false
	}
	sess.touched = now
	sess.rotateFlash()
	return sess, true
}

// Create starts a new session
func (s *MemoryStore) Create() Session {
	sess := &memorySession{
		id:      uuid.NewString(),
		values:  make(map[string]any),
		flash:   make(FlashMap),
		queued:  make(FlashMap),
		store:   s,
		valid:   true,
		touched: s.now(),
	}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	return sess
}

// Remove drops a session
func (s *MemoryStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of stored sessions
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

type memorySession struct {
	mu      sync.RWMutex
	id      string
	values  map[string]any
	flash   FlashMap
	queued  FlashMap
	store   *MemoryStore
	valid   bool
	touched time.Time
}

func (s *memorySession) ID() string { return s.id }

func (s *memorySession) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *memorySession) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *memorySession) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

func (s *memorySession) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *memorySession) Flash() FlashMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flash
}

func (s *memorySession) SetFlash(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queued[key] = value
}

func (s *memorySession) rotateFlash() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flash, s.queued = s.queued, make(FlashMap)
}

func (s *memorySession) Invalidate() {
	s.mu.Lock()
	s.valid = false
	s.mu.Unlock()
	s.store.Remove(s.id)
}

func (s *memorySession) Valid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.valid
}
