// Package state persists the client's durable key/value state: the session
// pair (token + user) and login-form preferences. It is the Go counterpart
// of the browser localStorage the web clients use.
package state

import (
	"context"
)

// Well-known keys. Token and user are always written together; the
// remember keys are an independent login-form convenience preference.
const (
	KeyToken         = "token"
	KeyUser          = "user"
	KeyRememberMe    = "rememberMe"
	KeySavedUsername = "savedUsername"
	KeyLanguage      = "language"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
