// Package session holds the process-wide platform credential and its
// lifecycle. The store is passed explicitly to every component that issues
// requests; there is no hidden singleton.
package session

import (
	"sync"

	"github.com/rotisserie/eris"
)

// State is the credential lifecycle state.
type State int

const (
	// StateAbsent means no credential has been provided yet.
	StateAbsent State = iota
	// StateValid means a credential is present and has not been rejected.
	StateValid
	// StateExpired means the backend rejected the credential; every further
	// request must fail fast until SetToken is called again.
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateValid:
		return "valid"
	case StateExpired:
		return "expired"
	default:
		return "absent"
	}
}

// ErrExpired is returned by request paths that short-circuit on an expired
// or absent credential.
var ErrExpired = eris.New("session: credential expired or absent")

// Store is a concurrency-safe credential holder.
type Store struct {
	mu    sync.RWMutex
	token string
	state State
	watch chan struct{}
}

// New creates a Store. An empty token starts in StateAbsent.
func New(token string) *Store {
	s := &Store{watch: make(chan struct{})}
	if token != "" {
		s.token = token
		s.state = StateValid
	}
	return s
}

// Token returns the credential and whether it is usable. ok is false in
// StateAbsent and StateExpired.
func (s *Store) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.state == StateValid
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetToken installs a fresh credential, transitioning to StateValid and
// re-arming the expiry notification.
func (s *Store) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rearmLocked()
	s.token = token
	if token == "" {
		s.state = StateAbsent
		return
	}
	s.state = StateValid
}

// Clear removes the credential without signalling expiry (explicit logout).
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rearmLocked()
	s.token = ""
	s.state = StateAbsent
}

// rearmLocked replaces the closed expiry channel when leaving StateExpired.
// Previous watchers were notified; new callers need a live channel. Caller
// holds s.mu.
func (s *Store) rearmLocked() {
	if s.state == StateExpired {
		s.watch = make(chan struct{})
	}
}

// Invalidate marks the credential expired after an authorization failure
// and notifies watchers. Idempotent: a burst of concurrent 401s trips the
// transition exactly once.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateExpired {
		return
	}
	s.token = ""
	s.state = StateExpired
	close(s.watch)
}

// Expired returns a channel closed when the credential expires. Replaces
// the upstream console's forced page reload: the host decides how to react.
func (s *Store) Expired() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.watch
}
