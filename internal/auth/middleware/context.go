package auth

import (
	"context"

	"github.com/mind-engage/mindengage-qformat/internal/rbac"
)

type subjectKey struct{}

// WithPrincipal records who sent the request and the role RBAC checks against.
func WithPrincipal(ctx context.Context, c *Claims) context.Context {
	ctx = context.WithValue(ctx, subjectKey{}, c.Sub)
	return rbac.WithRole(ctx, c.Role)
}

// SubjectFromContext returns the token subject, "" when the request carried none.
func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey{}).(string)
	return s
}
