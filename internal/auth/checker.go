package auth

import "context"

var _ Checker = (*TokenChecker)(nil)

type Checker interface {
	// Enabled is false when no token is configured, every request passes then.
	Enabled() bool
	IsAuthorized(ctx context.Context, token string) (bool, error)
}
