package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/mealboard/internal/view"
)

func TestCreateAndGet(t *testing.T) {
	m := NewManager(nil, time.Minute)

	doc := m.Create()
	require.NotEmpty(t, doc.ID())

	got, ok := m.Get(doc.ID())
	require.True(t, ok)
	assert.Same(t, doc, got)

	_, ok = m.Get("unknown")
	assert.False(t, ok)
	_, ok = m.Get("")
	assert.False(t, ok)
}

func TestFactoryReceivesID(t *testing.T) {
	var seen string
	m := NewManager(func(id string) *view.Document {
		seen = id
		return view.NewDocument(id, nil)
	}, 0)

	doc := m.Create()
	assert.Equal(t, doc.ID(), seen)
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	m := NewManager(nil, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	stale := m.Create()
	now = now.Add(30 * time.Second)
	fresh := m.Create()

	now = now.Add(45 * time.Second)
	assert.Equal(t, 1, m.Sweep())

	_, ok := m.Get(stale.ID())
	assert.False(t, ok)
	_, ok = m.Get(fresh.ID())
	assert.True(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestGetRefreshesLastSeen(t *testing.T) {
	m := NewManager(nil, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	doc := m.Create()
	now = now.Add(50 * time.Second)
	_, _ = m.Get(doc.ID())
	now = now.Add(50 * time.Second)

	assert.Equal(t, 0, m.Sweep())
}

func TestSweepDisabled(t *testing.T) {
	m := NewManager(nil, 0)
	m.Create()
	assert.Equal(t, 0, m.Sweep())
	assert.Equal(t, 1, m.Len())
}
