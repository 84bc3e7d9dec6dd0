package session

import (
	"os"
	"path/filepath"
	"testing"

	"nestquest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIdentity = models.Identity{
	UID:         "uid-9",
	Email:       "sam@example.com",
	DisplayName: "Sam",
}

func TestFileCredentialStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credential")
	store, err := NewFileCredentialStore(path)
	require.NoError(t, err)

	// Absent file loads as empty, not an error.
	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, store.Save("token-123"))

	token, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "token-123", token)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, store.Clear())
	token, err = store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)

	// Clearing an already-clear store is fine.
	assert.NoError(t, store.Clear())
}

func TestSlotLoadsPersistedCredential(t *testing.T) {
	backing := NewMemoryCredentialStore()
	require.NoError(t, backing.Save("persisted"))

	s, err := newSlot(backing)
	require.NoError(t, err)
	assert.Equal(t, "persisted", s.Read())

	require.NoError(t, s.write("fresh"))
	assert.Equal(t, "fresh", s.Read())

	loaded, err := backing.Load()
	require.NoError(t, err)
	assert.Equal(t, "fresh", loaded)

	require.NoError(t, s.clear())
	assert.Empty(t, s.Read())
	loaded, err = backing.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestLocalSignerMintsVerifiableClaims(t *testing.T) {
	signer, err := newLocalSigner()
	require.NoError(t, err)

	_, err = signer.mint(nil, "user")
	assert.Error(t, err)

	token, err := signer.mint(&testIdentity, "agent")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Two mints never share a token identifier.
	again, err := signer.mint(&testIdentity, "agent")
	require.NoError(t, err)
	assert.NotEqual(t, token, again)
}
