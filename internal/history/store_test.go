package history

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAndGet(t *testing.T) {
	t.Parallel()
	s := NewStore(10)
	s.Append("s1", RoleUser, "my tomato leaves have brown spots")
	s.Append("s1", RoleBot, "looks like early blight")

	msgs := s.Get("s1")
	require.Len(t, msgs, 2)
	assert.Equal(t, RoleUser, msgs[0].Role)
	assert.Equal(t, "my tomato leaves have brown spots", msgs[0].Content)
	assert.Equal(t, RoleBot, msgs[1].Role)

	_, err := time.Parse(time.RFC3339, msgs[0].Timestamp)
	assert.NoError(t, err)
}

func TestBoundEvictsOldest(t *testing.T) {
	t.Parallel()
	s := NewStore(100)
	for i := 1; i <= 101; i++ {
		s.Append("s1", RoleUser, fmt.Sprintf("message %d", i))
	}

	msgs := s.Get("s1")
	require.Len(t, msgs, 100)
	assert.Equal(t, "message 2", msgs[0].Content)
	assert.Equal(t, "message 101", msgs[99].Content)
}

func TestGetUnknownSession(t *testing.T) {
	t.Parallel()
	s := NewStore(0)
	assert.Empty(t, s.Get("nope"))
	assert.NotNil(t, s.Get("nope"))
}

func TestClear(t *testing.T) {
	t.Parallel()
	s := NewStore(0)
	s.Append("s1", RoleUser, "hello")
	s.Clear("s1")
	assert.Empty(t, s.Get("s1"))

	// Clearing an unknown session must not fault.
	s.Clear("never-seen")
	assert.Empty(t, s.Get("never-seen"))
}

func TestLockSessionRetriesAfterClear(t *testing.T) {
	t.Parallel()
	s := NewStore(0)
	orphaned := s.get("s1")
	s.Clear("s1")

	// The cleared entry is gone from the map; the lock must land on the
	// replacement so the write stays visible.
	sess := s.lockSession("s1")
	assert.NotSame(t, orphaned, sess)
	s.appendLocked(sess, RoleUser, "hello again")
	sess.mu.Unlock()

	msgs := s.Get("s1")
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello again", msgs[0].Content)
	assert.Empty(t, orphaned.msgs)
}

func TestAppendSurvivesConcurrentClear(t *testing.T) {
	t.Parallel()
	s := NewStore(0)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.AppendExchange("s1", "q", "a")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.Clear("s1")
		}
	}()
	wg.Wait()

	// Whatever the interleaving, a final append must not vanish.
	s.Append("s1", RoleUser, "still here")
	msgs := s.Get("s1")
	require.NotEmpty(t, msgs)
	assert.Equal(t, "still here", msgs[len(msgs)-1].Content)
}

func TestGetReturnsSnapshot(t *testing.T) {
	t.Parallel()
	s := NewStore(0)
	s.Append("s1", RoleUser, "first")
	snap := s.Get("s1")
	s.Append("s1", RoleBot, "second")

	require.Len(t, snap, 1)
	assert.Equal(t, "first", snap[0].Content)
}

func TestAppendExchangeAtomicPerSession(t *testing.T) {
	t.Parallel()
	s := NewStore(1000)

	const workers = 8
	const rounds = 20
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				s.AppendExchange("shared", "q", "a")
			}
		}()
	}
	wg.Wait()

	msgs := s.Get("shared")
	require.Len(t, msgs, workers*rounds*2)
	for i, m := range msgs {
		if i%2 == 0 {
			assert.Equal(t, RoleUser, m.Role, "index %d", i)
		} else {
			assert.Equal(t, RoleBot, m.Role, "index %d", i)
		}
	}
}

func TestConcurrentSessionsStayIsolated(t *testing.T) {
	t.Parallel()
	s := NewStore(0)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		id := fmt.Sprintf("session-%d", w)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				s.AppendExchange(id, "query for "+id, "answer for "+id)
			}
		}()
	}
	wg.Wait()

	for w := 0; w < 8; w++ {
		id := fmt.Sprintf("session-%d", w)
		msgs := s.Get(id)
		require.Len(t, msgs, 50)
		for _, m := range msgs {
			switch m.Role {
			case RoleUser:
				assert.Equal(t, "query for "+id, m.Content)
			case RoleBot:
				assert.Equal(t, "answer for "+id, m.Content)
			default:
				t.Fatalf("unexpected role %q", m.Role)
			}
		}
	}
}
