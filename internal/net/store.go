package net

import "sync"

// SessionStore tracks live sessions by session id.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uint64]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[uint64]*Session)}
}

func (st *SessionStore) Add(s *Session) {
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
}

func (st *SessionStore) Remove(id uint64) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

func (st *SessionStore) Get(id uint64) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sessions[id]
}

// ByPlayer returns the live session bound to playerID, if any.
func (st *SessionStore) ByPlayer(playerID int64) *Session {
	st.mu.RLock()
	defer st.mu.RUnlock()
	for _, s := range st.sessions {
		if pid, err := s.PlayerID(); err == nil && pid == playerID {
			return s
		}
	}
	return nil
}

func (st *SessionStore) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// CloseAll closes every tracked session.
func (st *SessionStore) CloseAll() {
	st.mu.RLock()
	all := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		all = append(all, s)
	}
	st.mu.RUnlock()
	for _, s := range all {
		s.Close()
	}
}
