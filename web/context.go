package web

import (
	"context"

	"github.com/aviatehq/aviate/ports"
)

type ctxKey string

const userKey ctxKey = "user"

// withUser stores the authenticated user in the context.
func withUser(ctx context.Context, u ports.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// currentUser retrieves the authenticated user from the context. The zero
// user is returned outside of authenticated routes.
func currentUser(ctx context.Context) ports.User {
	u, _ := ctx.Value(userKey).(ports.User)
	return u
}
