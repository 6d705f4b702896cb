package token

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gokulraja-dev/infintree/internal/keystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAudience = "infintree"

func newTestStore(t *testing.T) *keystore.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keys.json")
	return keystore.NewWithOptions(path, 30*24*time.Hour, time.Now)
}

func newTestVerifier(keys *keystore.Store, leeway time.Duration) *Verifier {
	return &Verifier{
		keys:   keys,
		aud:    testAudience,
		leeway: leeway,
		log:    zap.NewNop(),
	}
}

func TestIssueVerifyRoundtrip(t *testing.T) {
	keys := newTestStore(t)
	issuer := NewIssuerWithClock(keys, time.Hour, testAudience, time.Now)

	raw, err := issuer.Issue(Request{
		UserID:      "3f2f1f90-0c2e-4a6d-9f2e-0d2e5a3b7c1d",
		Email:       "jane@example.com",
		Role:        "DEPARTMENT_ADMIN",
		Permissions: []string{"document.read", "documents.create"},
		Scope:       DepartmentScope("dep-1"),
	})
	require.NoError(t, err)

	claims, err := newTestVerifier(keys, time.Minute).Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "3f2f1f90-0c2e-4a6d-9f2e-0d2e5a3b7c1d", claims.Subject)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, []string{"DEPARTMENT_ADMIN"}, claims.Roles)
	assert.Equal(t, []string{"document.read", "documents.create"}, claims.Permissions)
	assert.Equal(t, ScopeDepartment, claims.Scope.Type)
	require.NotNil(t, claims.Scope.ID)
	assert.Equal(t, "dep-1", *claims.Scope.ID)
}

func TestIssueWithoutGrantEmitsEmptySlices(t *testing.T) {
	keys := newTestStore(t)
	issuer := NewIssuerWithClock(keys, time.Hour, testAudience, time.Now)

	raw, err := issuer.Issue(Request{
		UserID: "user-1",
		Email:  "nobody@example.com",
		Scope:  SystemScope(),
	})
	require.NoError(t, err)

	claims, err := newTestVerifier(keys, time.Minute).Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{}, claims.Roles)
	assert.Equal(t, []string{}, claims.Permissions)
	assert.Equal(t, ScopeSystem, claims.Scope.Type)
	assert.Nil(t, claims.Scope.ID)
}

func TestExpiredTokenRejected(t *testing.T) {
	keys := newTestStore(t)
	past := func() time.Time { return time.Now().Add(-2 * time.Hour) }
	issuer := NewIssuerWithClock(keys, time.Hour, testAudience, past)

	raw, err := issuer.Issue(Request{UserID: "user-1", Scope: SystemScope()})
	require.NoError(t, err)

	_, err = newTestVerifier(keys, time.Minute).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLeewayToleratesSmallSkew(t *testing.T) {
	keys := newTestStore(t)
	// Token expired 30 seconds ago; a 60 second leeway still accepts it.
	skewed := func() time.Time { return time.Now().Add(-time.Hour - 30*time.Second) }
	issuer := NewIssuerWithClock(keys, time.Hour, testAudience, skewed)

	raw, err := issuer.Issue(Request{UserID: "user-1", Scope: SystemScope()})
	require.NoError(t, err)

	_, err = newTestVerifier(keys, time.Minute).Verify(raw)
	assert.NoError(t, err)

	_, err = newTestVerifier(keys, 0).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestWrongAudienceRejected(t *testing.T) {
	keys := newTestStore(t)
	issuer := NewIssuerWithClock(keys, time.Hour, "someone-else", time.Now)

	raw, err := issuer.Issue(Request{UserID: "user-1", Scope: SystemScope()})
	require.NoError(t, err)

	_, err = newTestVerifier(keys, time.Minute).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUnknownKeyFailsClosed(t *testing.T) {
	signingKeys := newTestStore(t)
	issuer := NewIssuerWithClock(signingKeys, time.Hour, testAudience, time.Now)

	raw, err := issuer.Issue(Request{UserID: "user-1", Scope: SystemScope()})
	require.NoError(t, err)

	// A verifier backed by a different key set has never seen this kid.
	otherKeys := newTestStore(t)
	_, _, err = otherKeys.ActiveKey()
	require.NoError(t, err)

	_, err = newTestVerifier(otherKeys, time.Minute).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageTokenRejected(t *testing.T) {
	keys := newTestStore(t)
	_, err := newTestVerifier(keys, time.Minute).Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
