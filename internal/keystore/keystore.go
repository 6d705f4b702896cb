// Package keystore owns the signing key lifecycle: generation, rotation and
// public key export. Exactly one key is active at a time; rotating discards
// the previous key, so tokens signed by it stop verifying.
package keystore

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gokulraja-dev/infintree/internal/config"
	"go.uber.org/fx"
)

// Module provides the key store.
var Module = fx.Provide(New)

const keyBits = 2048

type storedKey struct {
	Kid     string    `json:"kid"`
	Created time.Time `json:"created"`
	Private string    `json:"private"`
	Public  JWK       `json:"public"`
}

// Store persists a single active RSA signing key to a JSON file.
type Store struct {
	mu       sync.Mutex
	path     string
	rotation time.Duration
	now      func() time.Time
}

func New(cfg config.Config) *Store {
	return &Store{
		path:     cfg.KeysFile,
		rotation: cfg.KeyRotation,
		now:      time.Now,
	}
}

// NewWithOptions builds a store with an explicit file path, rotation interval
// and clock. Used by tests to control time.
func NewWithOptions(path string, rotation time.Duration, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{path: path, rotation: rotation, now: now}
}

// ActiveKey returns the current signing key, generating a fresh one when no
// key exists yet or the stored key is older than the rotation interval.
func (s *Store) ActiveKey() (string, *rsa.PrivateKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.load()
	if err != nil {
		return "", nil, err
	}

	if stored != nil && s.now().Sub(stored.Created) <= s.rotation {
		key, err := parsePrivateKey(stored.Private)
		if err != nil {
			return "", nil, err
		}
		return stored.Kid, key, nil
	}

	return s.generate()
}

// JWKS returns the public verification key set. The set is empty until the
// first key has been generated.
func (s *Store) JWKS() (JWKS, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.load()
	if err != nil {
		return JWKS{}, err
	}
	if stored == nil {
		return JWKS{Keys: []JWK{}}, nil
	}

	pub := stored.Public
	pub.Kid = stored.Kid
	pub.Use = "sig"
	pub.Alg = "RS256"
	return JWKS{Keys: []JWK{pub}}, nil
}

func (s *Store) generate() (string, *rsa.PrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return "", nil, fmt.Errorf("generate signing key: %w", err)
	}

	pub := publicJWK(&key.PublicKey)
	kid, err := pub.Thumbprint()
	if err != nil {
		return "", nil, err
	}

	encoded, err := encodePrivateKey(key)
	if err != nil {
		return "", nil, err
	}

	stored := storedKey{
		Kid:     kid,
		Created: s.now().UTC(),
		Private: encoded,
		Public:  pub,
	}
	if err := s.save(stored); err != nil {
		return "", nil, err
	}

	return kid, key, nil
}

func (s *Store) load() (*storedKey, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read keys file: %w", err)
	}

	var stored storedKey
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("parse keys file: %w", err)
	}
	return &stored, nil
}

func (s *Store) save(stored storedKey) error {
	raw, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write keys file: %w", err)
	}
	return nil
}

func encodePrivateKey(key *rsa.PrivateKey) (string, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return "", err
	}
	block := pem.Block{Type: "PRIVATE KEY", Bytes: der}
	return string(pem.EncodeToMemory(&block)), nil
}

func parsePrivateKey(encoded string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(encoded))
	if block == nil {
		return nil, errors.New("invalid private key material")
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("stored key is not RSA")
	}
	return key, nil
}
