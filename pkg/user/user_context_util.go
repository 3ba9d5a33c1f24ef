package user

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type contextKey string

const UserKey contextKey = "user"

var ErrNoUser = errors.New("user not found")

// CurrentUser retrieves the user stored in the context. Returns ErrNoUser if none is present.
func CurrentUser(ctx context.Context) (User, error) {
	u, ok := ctx.Value(UserKey).(User)
	if !ok {
		log.Trace("user not found in context")
		return User{}, ErrNoUser
	}
	return u, nil
}

func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, UserKey, u)
}

var ErrForbidden = errors.New("admin role required")

// RequireAdmin returns the current user when it is an admin.
func RequireAdmin(ctx context.Context) (User, error) {
	u, err := CurrentUser(ctx)
	if err != nil {
		return User{}, err
	}
	if !u.IsAdmin() {
		return User{}, ErrForbidden
	}
	return u, nil
}
