package token

import (
	"time"

	"github.com/gokulraja-dev/infintree/internal/config"
	"github.com/gokulraja-dev/infintree/internal/keystore"
	"github.com/golang-jwt/jwt/v5"
)

// Issuer mints signed, time-bound access tokens with the key store's active key.
type Issuer struct {
	keys *keystore.Store
	ttl  time.Duration
	aud  string
	now  func() time.Time
}

func NewIssuer(cfg config.Config, keys *keystore.Store) *Issuer {
	return &Issuer{
		keys: keys,
		ttl:  cfg.TokenTTL,
		aud:  cfg.TokenAudience,
		now:  time.Now,
	}
}

// NewIssuerWithClock is used by tests to control issuance time.
func NewIssuerWithClock(keys *keystore.Store, ttl time.Duration, aud string, now func() time.Time) *Issuer {
	return &Issuer{keys: keys, ttl: ttl, aud: aud, now: now}
}

// Request carries the identity and authorization context embedded in a token.
type Request struct {
	UserID      string
	Email       string
	Role        string
	Permissions []string
	Scope       Scope
}

// Issue signs an access token for the given identity. The active key id is
// embedded in the token header so verifiers can select the right public key.
func (i *Issuer) Issue(req Request) (string, error) {
	kid, key, err := i.keys.ActiveKey()
	if err != nil {
		return "", err
	}

	roles := []string{}
	if req.Role != "" {
		roles = append(roles, req.Role)
	}
	permissions := req.Permissions
	if permissions == nil {
		permissions = []string{}
	}

	now := i.now().UTC()
	claims := Claims{
		Email:       req.Email,
		Roles:       roles,
		Permissions: permissions,
		Scope:       req.Scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   req.UserID,
			Audience:  jwt.ClaimStrings{i.aud},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = kid
	return tok.SignedString(key)
}
