package contact

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiterAllowsUpToMax(t *testing.T) {
	l := NewMemoryLimiter(3, time.Hour)
	for i := 0; i < 3; i++ {
		ok, err := l.Allow("1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d should be allowed", i+1)
	}
	ok, err := l.Allow("1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(1, time.Hour)
	ok, _ := l.Allow("1.2.3.4")
	assert.True(t, ok)
	ok, _ = l.Allow("1.2.3.4")
	assert.False(t, ok)

	ok, _ = l.Allow("5.6.7.8")
	assert.True(t, ok)
}

func TestMemoryLimiterWindowSlides(t *testing.T) {
	l := NewMemoryLimiter(1, 50*time.Millisecond)
	ok, _ := l.Allow("1.2.3.4")
	require.True(t, ok)
	ok, _ = l.Allow("1.2.3.4")
	require.False(t, ok)

	time.Sleep(80 * time.Millisecond)
	ok, _ = l.Allow("1.2.3.4")
	assert.True(t, ok, "expired attempts must not count against the limit")
}

func openTestStore(t *testing.T) *CounterStore {
	t.Helper()
	s, err := OpenCounterStore(filepath.Join(t.TempDir(), "limits.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCounterStoreEnforcesLimit(t *testing.T) {
	s := openTestStore(t)
	for i := 0; i < 2; i++ {
		ok, err := s.Increment("ip:1.2.3.4", time.Hour, 2)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := s.Increment("ip:1.2.3.4", time.Hour, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	// Other keys keep their own counters.
	ok, err = s.Increment("ip:5.6.7.8", time.Hour, 2)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCounterStoreResetsExpiredWindow(t *testing.T) {
	s := openTestStore(t)
	ok, err := s.Increment("global", time.Second, 1)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = s.Increment("global", time.Second, 1)
	require.NoError(t, err)
	require.False(t, ok)

	time.Sleep(1100 * time.Millisecond)
	ok, err = s.Increment("global", time.Second, 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWindowLimiterPrefixesKeys(t *testing.T) {
	s := openTestStore(t)
	ip := &WindowLimiter{Store: s, Prefix: "ip", Max: 1, Window: time.Hour}
	global := &WindowLimiter{Store: s, Prefix: "daily", Max: 1, Window: time.Hour}

	ok, err := ip.Allow("1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)

	// Same raw key under a different prefix is a separate counter.
	ok, err = global.Allow("1.2.3.4")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ip.Allow("1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)
}
