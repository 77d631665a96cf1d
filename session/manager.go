package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("session not found")

// ErrInvalidID is returned for ids that are not safe to use as file names.
var ErrInvalidID = errors.New("invalid session id")

// 会话id会拼进图片文件名，只允许这些字符
var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidID reports whether id may name a session.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

func checkID(id string) error {
	if !ValidID(id) {
		return fmt.Errorf("%w: '%s'", ErrInvalidID, id)
	}
	return nil
}

// Manager keeps the live sessions of a host process.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	saver    Saver
	interval time.Duration
	seed     uint64
	created  uint64
}

// NewManager builds a manager. interval <= 0 means clients tick
// manually. A zero seed lets every engine seed itself from the clock.
func NewManager(saver Saver, interval time.Duration, seed uint64) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		saver:    saver,
		interval: interval,
		seed:     seed,
	}
}

// Create returns the session for id, creating it when needed. An empty
// id gets a fresh uuid; any other id must satisfy ValidID.
func (m *Manager) Create(id string) (*Session, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if err := checkID(id); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	s := New(id, m.nextSeedLocked(), m.interval, m.saver)
	m.sessions[id] = s
	return s, nil
}

// Get returns a live session, or resumes a persisted one.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if ok {
		return s, nil
	}
	if m.saver == nil {
		return nil, ErrNotFound
	}

	state, found, err := m.saver.LoadSnapshot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	if !found {
		return nil, ErrNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// 并发加载时以先放进去的为准
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	s = New(id, m.nextSeedLocked(), m.interval, m.saver)
	if err := s.Restore(state); err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}
	m.sessions[id] = s
	log.Printf("session %s: restored %dx%d, score %d, %s", id, state.Width, state.Height, state.Score, state.Status)
	return s, nil
}

// Delete stops a session and removes its snapshot.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Stop()
	}
	if m.saver != nil {
		if err := m.saver.DeleteSnapshot(ctx, id); err != nil {
			return fmt.Errorf("delete session %s: %w", id, err)
		}
	} else if !ok {
		return ErrNotFound
	}
	return nil
}

// Close stops every session driver.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		s.Stop()
		delete(m.sessions, id)
	}
}

func (m *Manager) nextSeedLocked() uint64 {
	if m.seed == 0 {
		return 0
	}
	m.created++
	return m.seed + m.created
}
