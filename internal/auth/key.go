package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tartampluch/go-birthday-web/internal/config"
	"github.com/zalando/go-keyring"
)

// SecretStore persists a single secret between runs.
type SecretStore interface {
	Get(service, user string) (string, error)
	Set(service, user, secret string) error
}

// OSKeyring implements SecretStore with the operating system keyring.
type OSKeyring struct{}

// Get reads a secret from the OS keyring.
func (OSKeyring) Get(service, user string) (string, error) { return keyring.Get(service, user) }

// Set writes a secret to the OS keyring.
func (OSKeyring) Set(service, user, secret string) error { return keyring.Set(service, user, secret) }

// SigningKey resolves the session signing key.
// An explicit secret wins; otherwise the key stored in the keyring is reused;
// otherwise a new random key is generated and saved for the next start.
// A keyring that cannot be written only costs sessions across restarts.
func SigningKey(explicit string, store SecretStore) ([]byte, error) {
	if explicit != "" {
		return []byte(explicit), nil
	}

	log := slog.With(config.LogKeyComponent, config.CompAuth)

	if store != nil {
		stored, err := store.Get(config.KeyringService, config.KeyringUser)
		switch {
		case err == nil && stored != "":
			log.Debug(config.MsgKeyFromRing)
			return base64.RawURLEncoding.DecodeString(stored)
		case err != nil && !errors.Is(err, keyring.ErrNotFound):
			log.Warn(config.MsgKeyringFail, config.LogKeyError, err)
		}
	}

	key := make([]byte, config.SigningKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSigningKey, err)
	}
	log.Info(config.MsgKeyGenerated)

	if store != nil {
		if err := store.Set(config.KeyringService, config.KeyringUser, base64.RawURLEncoding.EncodeToString(key)); err != nil {
			log.Warn(config.MsgKeyringFail, config.LogKeyError, fmt.Errorf("%s: %w", config.ErrKeyring, err))
		}
	}
	return key, nil
}
