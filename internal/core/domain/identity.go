package domain

import "context"

// Identity is the authenticated caller of a single request. It is built by the
// request authenticator from a validated token plus a fresh user lookup and is
// never shared between requests.
type Identity struct {
	Username    string
	Role        Role
	Authorities []string
}

// NewIdentity builds the identity for a stored user.
func NewIdentity(u *User) *Identity {
	return &Identity{
		Username:    u.Username,
		Role:        u.Role,
		Authorities: []string{u.Role.Authority()},
	}
}

// HasRole reports whether the identity carries role r.
func (i *Identity) HasRole(r Role) bool {
	return i != nil && i.Role == r
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity installed on ctx, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}
