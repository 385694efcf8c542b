package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(s *Store) *Session {
	viewer := NewViewer(testClauses(), testSpans(3), nil)
	chat := NewChatManager(&fakeRAG{}, WithPromptDelay(time.Millisecond))
	return s.Create(nil, viewer, chat)
}

func TestStore_CreateAndGet(t *testing.T) {
	s := NewStore(time.Hour)
	defer s.Close()

	sess := newTestSession(s)
	got, ok := s.Get(sess.ID)
	require.True(t, ok)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, 1, s.Len())
}

func TestStore_RemoveStopsPlayback(t *testing.T) {
	s := NewStore(time.Hour)
	defer s.Close()

	sess := newTestSession(s)
	sess.Viewer.Play()
	require.True(t, sess.Viewer.State().Playing)

	s.Remove(sess.ID)
	_, ok := s.Get(sess.ID)
	assert.False(t, ok)
	assert.False(t, sess.Viewer.State().Playing)
}

func TestStore_PurgeIdleEvictsOnlyStaleSessions(t *testing.T) {
	s := NewStore(10 * time.Millisecond)
	defer s.Close()

	stale := newTestSession(s)
	time.Sleep(20 * time.Millisecond)
	fresh := newTestSession(s)

	purged := s.PurgeIdle()
	assert.Equal(t, 1, purged)

	_, ok := s.Get(stale.ID)
	assert.False(t, ok)
	_, ok = s.Get(fresh.ID)
	assert.True(t, ok)
}

func TestStore_GetTouchesSession(t *testing.T) {
	s := NewStore(30 * time.Millisecond)
	defer s.Close()

	sess := newTestSession(s)
	for i := 0; i < 3; i++ {
		time.Sleep(15 * time.Millisecond)
		_, ok := s.Get(sess.ID)
		require.True(t, ok)
	}

	assert.Zero(t, s.PurgeIdle())
}
