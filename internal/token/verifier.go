package token

import (
	"time"

	"github.com/gokulraja-dev/infintree/internal/config"
	"github.com/gokulraja-dev/infintree/internal/keystore"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the token issuer and verifier.
var Module = fx.Provide(NewIssuer, NewVerifier)

// Verifier validates bearer tokens against the current verification key set.
// Only the active key is retained, so tokens signed before a rotation fail
// closed with the same error as any other invalid token.
type Verifier struct {
	keys   *keystore.Store
	aud    string
	leeway time.Duration
	log    *zap.Logger
}

func NewVerifier(cfg config.Config, keys *keystore.Store, log *zap.Logger) *Verifier {
	return &Verifier{
		keys:   keys,
		aud:    cfg.TokenAudience,
		leeway: cfg.TokenLeeway,
		log:    log.Named("token.verifier"),
	}
}

// NewVerifierWithOptions is used by tests to control audience and leeway.
func NewVerifierWithOptions(keys *keystore.Store, aud string, leeway time.Duration, log *zap.Logger) *Verifier {
	return &Verifier{keys: keys, aud: aud, leeway: leeway, log: log}
}

// Verify checks signature, expiry and audience and returns the claims.
// Every failure collapses into ErrInvalidToken.
func (v *Verifier) Verify(raw string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.aud),
		jwt.WithLeeway(v.leeway),
		jwt.WithExpirationRequired(),
	)

	claims := &Claims{}
	tok, err := parser.ParseWithClaims(raw, claims, v.keyForToken)
	if err != nil {
		v.log.Debug("token rejected", zap.Error(err))
		return nil, ErrInvalidToken
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (v *Verifier) keyForToken(tok *jwt.Token) (any, error) {
	kid, _ := tok.Header["kid"].(string)
	if kid == "" {
		return nil, ErrInvalidToken
	}

	jwks, err := v.keys.JWKS()
	if err != nil {
		return nil, err
	}
	jwk, ok := jwks.Lookup(kid)
	if !ok {
		return nil, ErrInvalidToken
	}
	return jwk.PublicKey()
}
