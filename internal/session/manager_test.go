package session

import (
	"context"
	"testing"
	"time"

	"github.com/jonathan/resume-tailor/internal/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_CreateGetDelete(t *testing.T) {
	m := newTestManager(t, newFakeClock())

	s := m.Create("jane", resumeText)
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, 1, m.Len())

	got, ok := m.Get(s.ID())
	require.True(t, ok)
	assert.Same(t, s, got)

	assert.True(t, m.Delete(s.ID()))
	assert.False(t, m.Delete(s.ID()))
	_, ok = m.Get(s.ID())
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestManager_UniqueIDs(t *testing.T) {
	m := newTestManager(t, newFakeClock())
	a := m.Create("jane", "")
	b := m.Create("jane", "")
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestManager_ExpiresIdleSessions(t *testing.T) {
	clock := newFakeClock()
	m := newTestManager(t, clock)

	idle := m.Create("idle", "")
	active := m.Create("active", "")

	clock.Advance(40 * time.Minute)
	_, ok := m.Get(active.ID())
	require.True(t, ok)

	clock.Advance(30 * time.Minute)
	assert.Equal(t, 1, m.Sweep())

	_, ok = m.Get(idle.ID())
	assert.False(t, ok)
	_, ok = m.Get(active.ID())
	assert.True(t, ok)
}

func TestManager_GetExpiredWithoutSweep(t *testing.T) {
	clock := newFakeClock()
	m := newTestManager(t, clock)

	s := m.Create("jane", "")
	clock.Advance(2 * time.Hour)

	_, ok := m.Get(s.ID())
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestManager_DeleteRemovesDocument(t *testing.T) {
	m := newTestManager(t, newFakeClock())
	gen := generator.New(generator.Options{OutputDir: t.TempDir(), TeXOnly: true})

	s := m.Create("jane", resumeText)
	_, err := s.Analyze("Backend Engineer", jobDescription)
	require.NoError(t, err)
	doc, err := s.Generate(context.Background(), gen, testProfile())
	require.NoError(t, err)
	require.DirExists(t, doc.Dir)

	m.Delete(s.ID())
	assert.NoDirExists(t, doc.Dir)
}

func TestManager_JanitorRuns(t *testing.T) {
	m := NewManager(nil, 20*time.Millisecond)
	defer m.Stop()

	m.Create("jane", "")
	assert.Eventually(t, func() bool { return m.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestManager_StopIsIdempotent(t *testing.T) {
	m := NewManager(nil, time.Minute)
	m.Create("jane", "")

	m.Stop()
	m.Stop()
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, time.Minute, m.TTL())
}
