package tokencache_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/kestrelsoft/scheduler/internal/calendar/tokencache"
	sharedCrypto "github.com/kestrelsoft/scheduler/internal/shared/infrastructure/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testEncrypter(t *testing.T) sharedCrypto.Encrypter {
	t.Helper()
	enc, err := sharedCrypto.NewAESGCMFromBase64Key("MDEyMzQ1Njc4OTAxMjM0NTY3ODkwMTIzNDU2Nzg5MDE=")
	require.NoError(t, err)
	return enc
}

func TestCache_SaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	cache, err := tokencache.New(path, testEncrypter(t))
	require.NoError(t, err)

	original := &oauth2.Token{
		AccessToken:  "access-123",
		RefreshToken: "refresh-456",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).Truncate(time.Second),
	}

	require.NoError(t, cache.Save(original))

	loaded, err := cache.Load()
	require.NoError(t, err)
	assert.Equal(t, original.AccessToken, loaded.AccessToken)
	assert.Equal(t, original.RefreshToken, loaded.RefreshToken)
	assert.Equal(t, original.TokenType, loaded.TokenType)
	assert.True(t, original.Expiry.Equal(loaded.Expiry))
}

func TestCache_LoadMissingFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	cache, err := tokencache.New(path, testEncrypter(t))
	require.NoError(t, err)

	_, err = cache.Load()
	assert.Error(t, err)
}

func TestNew_RequiresEncrypter(t *testing.T) {
	_, err := tokencache.New(filepath.Join(t.TempDir(), "token.json"), nil)
	assert.Error(t, err)
}
