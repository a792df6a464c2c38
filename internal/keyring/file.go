package keyring

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/scrypt"
)

// Ensure FileStore satisfies the SecretStore interface at compile time.
var _ SecretStore = (*FileStore)(nil)

const fileStoreSaltSize = 16

// FileStore persists secrets as a single AES-GCM encrypted JSON file.
// The encryption key is derived from a passphrase with scrypt; the salt
// is stored in clear at the head of the file.
type FileStore struct {
	mu         sync.Mutex
	path       string
	passphrase string
}

// NewFileStore creates a store backed by the file at path. The file is
// created lazily on the first Set.
func NewFileStore(path, passphrase string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store path is required")
	}
	if passphrase == "" {
		return nil, errors.New("file store passphrase is required")
	}
	return &FileStore{path: path, passphrase: passphrase}, nil
}

// Get returns the stored value or ErrNotFound.
func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, _, err := s.load()
	if err != nil {
		return "", err
	}
	value, ok := entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores the value under key, replacing any previous value.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, salt, err := s.load()
	if err != nil {
		return err
	}
	entries[key] = value
	return s.save(entries, salt)
}

// Delete removes the value under key. Deleting an absent key is a no-op.
func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, salt, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return s.save(entries, salt)
}

func (s *FileStore) load() (map[string]string, []byte, error) {
	blob, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read secret store: %w", err)
	}
	if len(blob) < fileStoreSaltSize {
		return nil, nil, errors.New("secret store file is truncated")
	}
	salt := blob[:fileStoreSaltSize]
	aead, err := s.aead(salt)
	if err != nil {
		return nil, nil, err
	}
	sealed := blob[fileStoreSaltSize:]
	if len(sealed) < aead.NonceSize() {
		return nil, nil, errors.New("secret store file is truncated")
	}
	nonce := sealed[:aead.NonceSize()]
	plain, err := aead.Open(nil, nonce, sealed[aead.NonceSize():], nil)
	if err != nil {
		return nil, nil, errors.New("decrypt secret store: wrong passphrase or corrupt file")
	}
	entries := make(map[string]string)
	if err := json.Unmarshal(plain, &entries); err != nil {
		return nil, nil, fmt.Errorf("decode secret store: %w", err)
	}
	return entries, salt, nil
}

func (s *FileStore) save(entries map[string]string, salt []byte) error {
	if salt == nil {
		salt = make([]byte, fileStoreSaltSize)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return fmt.Errorf("generate salt: %w", err)
		}
	}
	aead, err := s.aead(salt)
	if err != nil {
		return err
	}
	plain, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode secret store: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}
	blob := append(append(append([]byte{}, salt...), nonce...), aead.Seal(nil, nonce, plain, nil)...)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create secret store dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o600); err != nil {
		return fmt.Errorf("write secret store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace secret store: %w", err)
	}
	return nil
}

func (s *FileStore) aead(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(s.passphrase), salt, 1<<15, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
