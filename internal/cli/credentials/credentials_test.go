package credentials

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithNoFileReturnsErrNotLoggedIn(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	store, err := NewStore()
	require.NoError(t, err)

	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	store, err := NewStore()
	require.NoError(t, err)

	sess := &Session{
		ServerURL: "http://localhost:27018",
		Operator:  "alice",
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(sess))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, sess.ServerURL, loaded.ServerURL)
	assert.Equal(t, sess.Operator, loaded.Operator)
	assert.Equal(t, sess.Token, loaded.Token)
}

func TestIsExpired(t *testing.T) {
	future := &Session{ExpiresAt: time.Now().Add(time.Hour)}
	assert.False(t, future.IsExpired())

	past := &Session{ExpiresAt: time.Now().Add(-time.Hour)}
	assert.True(t, past.IsExpired())

	zero := &Session{}
	assert.False(t, zero.IsExpired())
}
