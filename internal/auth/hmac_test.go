package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	a := &HMACAuthenticator{Secret: []byte("test-secret")}

	p, err := a.Authenticate(context.Background(), a.Token("cust-1", RoleCustomer))
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: "cust-1", Role: RoleCustomer}, p)

	p, err = a.Authenticate(context.Background(), a.Token("adm-1", RoleAdmin))
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: "adm-1", Role: RoleAdmin}, p)
}

func TestAuthenticateRejectsTampering(t *testing.T) {
	a := &HMACAuthenticator{Secret: []byte("test-secret")}
	token := a.Token("cust-1", RoleCustomer)

	// swap the user id but keep the signature
	tampered := strings.Replace(token, "cust-1", "cust-2", 1)
	_, err := a.Authenticate(context.Background(), tampered)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// escalate the role but keep the signature
	tampered = strings.Replace(token, string(RoleCustomer), string(RoleAdmin), 1)
	_, err = a.Authenticate(context.Background(), tampered)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// token signed with another secret
	other := &HMACAuthenticator{Secret: []byte("other-secret")}
	_, err = a.Authenticate(context.Background(), other.Token("cust-1", RoleCustomer))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticateMalformedCredentials(t *testing.T) {
	a := &HMACAuthenticator{Secret: []byte("test-secret")}
	for _, cred := range []string{"", "cust-1", "cust-1:customer", ":customer:abc", "a:b:c:d"} {
		_, err := a.Authenticate(context.Background(), cred)
		assert.ErrorIs(t, err, ErrUnauthenticated, "credential %q", cred)
	}
}

func TestUnknownRoleNormalizesToCustomer(t *testing.T) {
	a := &HMACAuthenticator{Secret: []byte("test-secret")}
	p, err := a.Authenticate(context.Background(), a.Token("svc-1", Role("superuser")))
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, p.Role)
}

func TestPrincipalAccess(t *testing.T) {
	cust := Principal{UserID: "cust-1", Role: RoleCustomer}
	assert.True(t, cust.CanAccessOrder("cust-1"))
	assert.False(t, cust.CanAccessOrder("cust-2"))
	assert.False(t, cust.Admin())

	adm := Principal{UserID: "adm-1", Role: RoleAdmin}
	assert.True(t, adm.CanAccessOrder("cust-2"))
	assert.True(t, adm.Admin())
}
