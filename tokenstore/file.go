package tokenstore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/budgetwise/budgetwise-go/internal/util"
)

const (
	storeDirName  = "budgetwise"
	deviceKeyFile = "device.key"
)

// FileStore persists tokens under the user config directory, sealed with
// AES-256-GCM. The sealing key is generated on first use and kept next to
// the tokens with owner-only permissions, so tokens are never written to
// disk in the clear.
type FileStore struct {
	dir string
	key []byte
}

// NewFileStore opens (or initializes) the on-disk store. It fails when no
// user config directory is available or the device key cannot be created.
func NewFileStore() (*FileStore, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return NewFileStoreAt(filepath.Join(base, storeDirName))
}

// NewFileStoreAt opens the store rooted at dir, creating it if needed.
func NewFileStoreAt(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	key, err := loadOrCreateDeviceKey(filepath.Join(dir, deviceKeyFile))
	if err != nil {
		return nil, err
	}

	return &FileStore{dir: dir, key: key}, nil
}

func (s *FileStore) Get(_ context.Context, key string) string {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("key", key).Msg("token store read failed")
		}
		return ""
	}

	value, err := util.Unseal(s.key, strings.TrimSpace(string(data)))
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("token store entry unreadable, discarding")
		_ = os.Remove(s.path(key))
		return ""
	}
	return value
}

func (s *FileStore) Save(_ context.Context, key, value string) {
	sealed, err := util.Seal(s.key, value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("token store seal failed")
		return
	}
	if err := os.WriteFile(s.path(key), []byte(sealed), 0o600); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("token store write failed")
	}
}

func (s *FileStore) Delete(_ context.Context, key string) {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("key", key).Msg("token store delete failed")
	}
}

// path maps a logical key to a file name. Keys are fixed identifiers like
// SessionTokenKey, but anything unexpected is flattened to stay inside dir.
func (s *FileStore) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, key)
	return filepath.Join(s.dir, safe+".token")
}

// loadOrCreateDeviceKey returns the decoded sealing key, generating and
// persisting one (hex, owner-only) on first use.
func loadOrCreateDeviceKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		key, decErr := hex.DecodeString(strings.TrimSpace(string(data)))
		if decErr == nil && len(key) == util.SealKeySize {
			return key, nil
		}
		// Corrupt key means every stored token is unrecoverable anyway.
		log.Warn().Str("path", path).Msg("device key corrupt, regenerating")
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read device key: %w", err)
	}

	key := make([]byte, util.SealKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate device key: %w", err)
	}

	if err := os.WriteFile(path, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("write device key: %w", err)
	}
	return key, nil
}
