package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/creativeprojects/onesecmail/lib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	store, err := NewBoltStoreWithLogger(filepath.Join(t.TempDir(), "sub", "store.db"), lib.NewTestLogger(t, "store"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestSaveAndGet(t *testing.T) {
	store := newTestStore(t)

	saved, err := store.Save(" Work ", "abc@1secmail.com")
	require.NoError(t, err)
	assert.Equal(t, "work", saved.Name)

	entry, err := store.Get("WORK")
	require.NoError(t, err)
	assert.Equal(t, "abc@1secmail.com", entry.Address)
	assert.True(t, saved.Created.Equal(entry.Created))

	// replace
	_, err = store.Save("work", "def@1secmail.com")
	require.NoError(t, err)
	entry, err = store.Get("work")
	require.NoError(t, err)
	assert.Equal(t, "def@1secmail.com", entry.Address)
}

func TestSaveEmptyName(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Save("  ", "abc@1secmail.com")
	assert.Error(t, err)
}

func TestGetNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get("nothing")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestListSortedByCreation(t *testing.T) {
	store := newTestStore(t)

	list, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, list)

	for _, name := range []string{"zulu", "alpha", "mike"} {
		_, err = store.Save(name, name+"@1secmail.com")
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	list, err = store.List()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "zulu", list[0].Name)
	assert.Equal(t, "alpha", list[1].Name)
	assert.Equal(t, "mike", list[2].Name)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Save("temp", "abc@1secmail.com")
	require.NoError(t, err)

	require.NoError(t, store.Delete("temp"))
	_, err = store.Get("temp")
	assert.ErrorIs(t, err, ErrEntryNotFound)

	assert.ErrorIs(t, store.Delete("temp"), ErrEntryNotFound)
}

func TestReopenAndBackup(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "store.db")

	store, err := NewBoltStore(filename)
	require.NoError(t, err)
	_, err = store.Save("kept", "abc@1secmail.com")
	require.NoError(t, err)

	backup := filepath.Join(dir, "backup.db")
	require.NoError(t, store.Backup(backup))
	require.NoError(t, store.Close())

	for _, file := range []string{filename, backup} {
		reopened, err := NewBoltStore(file)
		require.NoError(t, err)
		entry, err := reopened.Get("kept")
		require.NoError(t, err)
		assert.Equal(t, "abc@1secmail.com", entry.Address)
		require.NoError(t, reopened.Close())
	}
}

func TestSerialization(t *testing.T) {
	entry := &Entry{Name: "name", Address: "abc@1secmail.com", Created: time.Now().Round(0)}
	data, err := serializeObject(entry)
	require.NoError(t, err)

	back, err := deserializeObject[Entry](data)
	require.NoError(t, err)
	assert.Equal(t, entry.Name, back.Name)
	assert.True(t, entry.Created.Equal(back.Created))

	_, err = serializeObject[Entry](nil)
	assert.Error(t, err)
}
