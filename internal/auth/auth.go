package auth

import (
	"context"
	"errors"
)

// Credential checks live outside this service; requests arrive with an
// already-verified identity that the HTTP layer resolves into a Principal.

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type Principal struct {
	UserID string
	Role   Role
}

func (p Principal) Admin() bool { return p.Role == RoleAdmin }

// CanAccessOrder: customers only touch their own orders.
func (p Principal) CanAccessOrder(customerID string) bool {
	return p.Admin() || p.UserID == customerID
}

var ErrUnauthenticated = errors.New("unauthenticated")

// Authenticator resolves request credentials into a Principal.
type Authenticator interface {
	Authenticate(ctx context.Context, credentials string) (Principal, error)
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
