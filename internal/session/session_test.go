package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/dycedu/classroom-go/internal/models"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)

	_, err := store.Load()
	require.ErrorIs(t, err, ErrNoSession)

	tokens := models.TokenPair{Access: "access-token", Refresh: "refresh-token"}
	require.NoError(t, store.Save(tokens))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, tokens, loaded)

	require.NoError(t, store.Clear())
	_, err = store.Load()
	require.ErrorIs(t, err, ErrNoSession)

	// Clearing twice is not an error.
	require.NoError(t, store.Clear())
}

func TestSessionLifecycle(t *testing.T) {
	store := NewMemoryStore()
	sess := New(store, zerolog.Nop())

	require.False(t, sess.Authenticated())

	user := models.User{ID: 7, Email: "amara@example.com", FirstName: "Amara", LastName: "Osei", IsStudent: true}
	tokens := models.TokenPair{Access: "a1", Refresh: "r1"}
	require.NoError(t, sess.Begin(user, tokens))

	require.True(t, sess.Authenticated())
	require.Equal(t, "a1", sess.AccessToken())
	require.Equal(t, "r1", sess.RefreshToken())

	got, ok := sess.User()
	require.True(t, ok)
	require.Equal(t, user, got)
	require.Equal(t, "Amara Osei", got.FullName())

	require.NoError(t, sess.SetAccessToken("a2"))
	require.Equal(t, "a2", sess.AccessToken())
	persisted, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, models.TokenPair{Access: "a2", Refresh: "r1"}, persisted)

	require.NoError(t, sess.End())
	require.False(t, sess.Authenticated())
	_, ok = sess.User()
	require.False(t, ok)
	_, err = store.Load()
	require.ErrorIs(t, err, ErrNoSession)
}

func TestSessionResume(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Save(models.TokenPair{Access: "a1", Refresh: "r1"}))

	sess := New(store, zerolog.Nop())
	require.NoError(t, sess.Resume())
	require.Equal(t, "a1", sess.AccessToken())

	// Identity is unknown until fetched from the collaborator.
	_, ok := sess.User()
	require.False(t, ok)

	sess.SetUser(models.User{ID: 3})
	got, ok := sess.User()
	require.True(t, ok)
	require.Equal(t, uint(3), got.ID)
}

func TestAccessExpiresAt(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "7",
		"exp": expiry.Unix(),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	sess := New(NewMemoryStore(), zerolog.Nop())
	require.NoError(t, sess.Begin(models.User{ID: 7}, models.TokenPair{Access: signed, Refresh: "r"}))

	got, ok := sess.AccessExpiresAt()
	require.True(t, ok)
	require.True(t, got.Equal(expiry))

	require.NoError(t, sess.SetAccessToken("not-a-jwt"))
	_, ok = sess.AccessExpiresAt()
	require.False(t, ok)
}
