package content

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherInvalidatesOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "Before"}`), 0o644))

	r := NewResolver(dir, nil)
	w, err := NewWatcher(r, dir, nil)
	require.NoError(t, err)
	defer w.Close()

	p, err := r.Profile()
	require.NoError(t, err)
	require.Equal(t, "Before", p.Name)

	require.NoError(t, os.WriteFile(path, []byte(`{"name": "After"}`), 0o644))

	assert.Eventually(t, func() bool {
		p, err := r.Profile()
		return err == nil && p.Name == "After"
	}, 3*time.Second, 50*time.Millisecond)
}

func TestWatcherIgnoresNonJSONFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "Before"}`), 0o644))

	r := NewResolver(dir, nil)
	w, err := NewWatcher(r, dir, nil)
	require.NoError(t, err)
	defer w.Close()

	p, err := r.Profile()
	require.NoError(t, err)
	require.Equal(t, "Before", p.Name)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("scratch"), 0o644))
	time.Sleep(800 * time.Millisecond)

	// The memo was not dropped: editing the json now and reading
	// immediately still serves the cached value.
	require.NoError(t, os.WriteFile(path, []byte(`{"name": "After"}`), 0o644))
	p, err = r.Profile()
	require.NoError(t, err)
	assert.Equal(t, "Before", p.Name)
}
