// Package tokencache persists a single OAuth token to an encrypted file next
// to the binary, adapting the teacher's multi-user/database token repository
// down to the single local user this application serves.
package tokencache

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	sharedCrypto "github.com/kestrelsoft/scheduler/internal/shared/infrastructure/crypto"
	"github.com/kestrelsoft/scheduler/internal/shared/infrastructure/security"
	"golang.org/x/oauth2"
)

// storedToken is the on-disk, encrypted-field representation of a cached
// OAuth token.
type storedToken struct {
	AccessToken  []byte    `json:"access_token"`
	RefreshToken []byte    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type"`
	Expiry       time.Time `json:"expiry"`
}

// Cache reads and writes a single encrypted OAuth token to a file path.
type Cache struct {
	path      string
	encrypter sharedCrypto.Encrypter
}

// New validates path and constructs a Cache backed by it.
func New(path string, encrypter sharedCrypto.Encrypter) (*Cache, error) {
	if encrypter == nil {
		return nil, errors.New("tokencache: encrypter is required")
	}
	clean, err := security.ValidateFilePath(path)
	if err != nil {
		return nil, err
	}
	return &Cache{path: clean, encrypter: encrypter}, nil
}

// Load reads and decrypts the cached token. It returns os.ErrNotExist when no
// token has been cached yet.
func (c *Cache) Load() (*oauth2.Token, error) {
	raw, err := security.SafeReadFile(c.path)
	if err != nil {
		return nil, err
	}

	var st storedToken
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, err
	}

	access, err := c.encrypter.Decrypt(st.AccessToken)
	if err != nil {
		return nil, err
	}
	refresh := ""
	if len(st.RefreshToken) > 0 {
		refreshBytes, err := c.encrypter.Decrypt(st.RefreshToken)
		if err != nil {
			return nil, err
		}
		refresh = string(refreshBytes)
	}

	return &oauth2.Token{
		AccessToken:  string(access),
		RefreshToken: refresh,
		TokenType:    st.TokenType,
		Expiry:       st.Expiry,
	}, nil
}

// Save encrypts and writes token to the cache file, replacing any existing
// content.
func (c *Cache) Save(token *oauth2.Token) error {
	accessEnc, err := c.encrypter.Encrypt([]byte(token.AccessToken))
	if err != nil {
		return err
	}
	var refreshEnc []byte
	if token.RefreshToken != "" {
		refreshEnc, err = c.encrypter.Encrypt([]byte(token.RefreshToken))
		if err != nil {
			return err
		}
	}

	st := storedToken{
		AccessToken:  accessEnc,
		RefreshToken: refreshEnc,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, raw, 0o600)
}

// TokenSource wraps an oauth2.Config's token source with one that persists
// refreshed tokens back to the cache file.
func (c *Cache) TokenSource(cfg *oauth2.Config) (oauth2.TokenSource, error) {
	token, err := c.Load()
	if err != nil {
		return nil, err
	}
	return &persistingSource{
		inner: cfg.TokenSource(context.Background(), token),
		cache: c,
	}, nil
}

type persistingSource struct {
	inner oauth2.TokenSource
	cache *Cache
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	token, err := s.inner.Token()
	if err != nil {
		return nil, err
	}
	if err := s.cache.Save(token); err != nil {
		return nil, err
	}
	return token, nil
}
