package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewhub/internal/models"
)

func newTestIssuer(t *testing.T) *CodeIssuer {
	t.Helper()
	issuer, err := NewCodeIssuer("test-secret-that-is-long-enough!")
	require.NoError(t, err)
	return issuer
}

func TestCodeIssuer_IssueCheckRoundtrip(t *testing.T) {
	issuer := newTestIssuer(t)
	user := testUser()

	code := issuer.Issue(user)
	require.NotEmpty(t, code)
	assert.True(t, issuer.Check(user, code))
}

func TestCodeIssuer_Deterministic(t *testing.T) {
	issuer := newTestIssuer(t)
	user := testUser()

	assert.Equal(t, issuer.Issue(user), issuer.Issue(user))
}

func TestCodeIssuer_RejectsWrongCode(t *testing.T) {
	issuer := newTestIssuer(t)

	assert.False(t, issuer.Check(testUser(), "WRONGCODE"))
	assert.False(t, issuer.Check(testUser(), ""))
}

func TestCodeIssuer_LastLoginChangeInvalidates(t *testing.T) {
	issuer := newTestIssuer(t)
	user := testUser()

	code := issuer.Issue(user)
	require.True(t, issuer.Check(user, code))

	// Redeeming a code bumps last_login, which must revoke the old code.
	now := time.Now()
	user.LastLogin = &now
	assert.False(t, issuer.Check(user, code))
	assert.True(t, issuer.Check(user, issuer.Issue(user)))
}

func TestCodeIssuer_CodesDifferPerUser(t *testing.T) {
	issuer := newTestIssuer(t)
	alice := testUser()
	bob := &models.User{
		ID:       "0c1d2e3f-4a5b-6c7d-8e9f-0a1b2c3d4e5f",
		Username: "bob",
		Email:    "bob@example.com",
		Role:     models.RoleUser,
	}

	assert.NotEqual(t, issuer.Issue(alice), issuer.Issue(bob))
	assert.False(t, issuer.Check(bob, issuer.Issue(alice)))
}

func TestCodeIssuer_SecretChangesCode(t *testing.T) {
	first := newTestIssuer(t)
	second, err := NewCodeIssuer("another-secret-also-long-enough!")
	require.NoError(t, err)

	user := testUser()
	assert.False(t, second.Check(user, first.Issue(user)))
}
