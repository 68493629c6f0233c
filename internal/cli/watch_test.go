package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternWatcher_FileEvents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chain.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: chain\n"), 0644))

	w, err := newPatternWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	assert.True(t, w.relevant(fsnotify.Event{Name: path, Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: path, Op: fsnotify.Create}))
	assert.False(t, w.relevant(fsnotify.Event{Name: path, Op: fsnotify.Chmod}))
	assert.False(t, w.relevant(fsnotify.Event{Name: filepath.Join(dir, "other.yaml"), Op: fsnotify.Write}))
}

func TestPatternWatcher_DirectoryEvents(t *testing.T) {
	dir := t.TempDir()

	w, err := newPatternWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	assert.True(t, w.relevant(fsnotify.Event{Name: filepath.Join(dir, "a.cue"), Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: filepath.Join(dir, "a.yaml"), Op: fsnotify.Write}))
}

func TestPatternWatcher_MissingSource(t *testing.T) {
	_, err := newPatternWatcher(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
