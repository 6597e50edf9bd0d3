package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HMACAuthenticator verifies opaque bearer tokens of the form
// "<user_id>:<role>:<hex hmac-sha256 of user_id:role>". Token issuance
// happens upstream with the same shared secret.
type HMACAuthenticator struct {
	Secret []byte
}

func (a *HMACAuthenticator) Authenticate(_ context.Context, credentials string) (Principal, error) {
	parts := strings.Split(credentials, ":")
	if len(parts) != 3 || parts[0] == "" {
		return Principal{}, ErrUnauthenticated
	}
	if !hmac.Equal([]byte(a.sign(parts[0], parts[1])), []byte(parts[2])) {
		return Principal{}, ErrUnauthenticated
	}
	role := Role(parts[1])
	if role != RoleAdmin {
		role = RoleCustomer
	}
	return Principal{UserID: parts[0], Role: role}, nil
}

func (a *HMACAuthenticator) sign(userID, role string) string {
	mac := hmac.New(sha256.New, a.Secret)
	mac.Write([]byte(userID + ":" + role))
	return hex.EncodeToString(mac.Sum(nil))
}

// Token mints a credential for the given identity. Exists for the issuing
// side and for tests.
func (a *HMACAuthenticator) Token(userID string, role Role) string {
	return userID + ":" + string(role) + ":" + a.sign(userID, string(role))
}
