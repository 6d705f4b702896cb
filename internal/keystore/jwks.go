package keystore

import (
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"math/big"
)

// JWK is an RSA public key in JSON Web Key form.
type JWK struct {
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
	Kid string `json:"kid,omitempty"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`
}

// JWKS is the published verification key set.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// Lookup returns the key with the given id, or false when absent.
func (s JWKS) Lookup(kid string) (JWK, bool) {
	for _, key := range s.Keys {
		if key.Kid == kid {
			return key, true
		}
	}
	return JWK{}, false
}

func publicJWK(key *rsa.PublicKey) JWK {
	return JWK{
		Kty: "RSA",
		N:   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
	}
}

// Thumbprint computes the RFC 7638 SHA-256 thumbprint used as the key id.
func (k JWK) Thumbprint() (string, error) {
	canonical, err := json.Marshal(struct {
		E   string `json:"e"`
		Kty string `json:"kty"`
		N   string `json:"n"`
	}{E: k.E, Kty: k.Kty, N: k.N})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return base64.RawURLEncoding.EncodeToString(sum[:]), nil
}

// PublicKey rebuilds the RSA public key from its JWK form.
func (k JWK) PublicKey() (*rsa.PublicKey, error) {
	if k.Kty != "RSA" {
		return nil, errors.New("unsupported key type")
	}
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, err
	}
	n := new(big.Int).SetBytes(nBytes)
	e := new(big.Int).SetBytes(eBytes)
	if !e.IsInt64() || e.Int64() <= 0 {
		return nil, errors.New("invalid public exponent")
	}
	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}
