package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"reviewhub/internal/models"
)

// CodeIssuer derives single-use confirmation codes from a user's current
// state. The code is never stored: it is an HMAC over a fingerprint of the
// user row, so any change to that fingerprint (such as the last-login update
// on token issuance) invalidates every code issued before it.
type CodeIssuer struct {
	key []byte
}

// NewCodeIssuer derives a dedicated signing key from the server secret so
// confirmation codes and access tokens never share key material.
func NewCodeIssuer(secret string) (*CodeIssuer, error) {
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("reviewhub/confirmation-code"))
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive confirmation key: %w", err)
	}
	return &CodeIssuer{key: key}, nil
}

// stateFingerprint binds a code to the fields whose mutation must revoke it.
func (ci *CodeIssuer) stateFingerprint(user *models.User) []byte {
	lastLogin := int64(0)
	if user.LastLogin != nil {
		lastLogin = user.LastLogin.UnixNano()
	}
	return []byte(fmt.Sprintf("%s|%s|%d", user.ID, user.Email, lastLogin))
}

// Issue returns the confirmation code for the user's current state.
func (ci *CodeIssuer) Issue(user *models.User) string {
	mac := hmac.New(sha256.New, ci.key)
	mac.Write(ci.stateFingerprint(user))
	sum := mac.Sum(nil)
	// 20 bytes of MAC keeps the code short enough to paste from an email.
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(sum[:20])
}

// Check reports whether code matches the user's current state in constant
// time.
func (ci *CodeIssuer) Check(user *models.User, code string) bool {
	return hmac.Equal([]byte(ci.Issue(user)), []byte(code))
}
