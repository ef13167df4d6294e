// Package session keeps one view.Document per browser session.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/mealboard/internal/view"
)

// Factory builds the document for a new session id.
type Factory func(id string) *view.Document

type entry struct {
	doc      *view.Document
	lastSeen time.Time
}

// Manager maps session ids to documents and expires idle sessions.
type Manager struct {
	factory Factory
	idle    time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewManager creates a manager. Sessions unused for longer than idle are
// removed by Sweep; idle <= 0 disables expiry.
func NewManager(factory Factory, idle time.Duration) *Manager {
	if factory == nil {
		factory = func(id string) *view.Document { return view.NewDocument(id, nil) }
	}
	return &Manager{
		factory:  factory,
		idle:     idle,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Create starts a new session and returns its document.
func (m *Manager) Create() *view.Document {
	id := uuid.NewString()
	doc := m.factory(id)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = &entry{doc: doc, lastSeen: m.now()}
	return doc
}

// Get returns the document of session id and marks it as used.
func (m *Manager) Get(id string) (*view.Document, bool) {
	if id == "" {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = m.now()
	return e.doc, true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep removes sessions idle for longer than the configured timeout and
// returns how many were removed.
func (m *Manager) Sweep() int {
	if m.idle <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idle)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	if m.idle <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				logger.Debug("sessions: expired", slog.Int("count", n), slog.Int("live", m.Len()))
			}
		}
	}
}
