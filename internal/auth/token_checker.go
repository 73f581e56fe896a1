package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fittrack/internal/telemetry/tracing"

	"golang.org/x/crypto/bcrypt"
)

// TokenChecker compares API tokens against a configured bcrypt hash.
type TokenChecker struct {
	tokenHash []byte
}

func NewTokenChecker(tokenHash string) (*TokenChecker, error) {
	if tokenHash == "" {
		return &TokenChecker{}, nil
	}
	if _, err := bcrypt.Cost([]byte(tokenHash)); err != nil {
		return nil, fmt.Errorf("invalid token hash: %w", err)
	}
	return &TokenChecker{
		tokenHash: []byte(tokenHash),
	}, nil
}

func (c *TokenChecker) Enabled() bool {
	return len(c.tokenHash) > 0
}

func (c *TokenChecker) IsAuthorized(ctx context.Context, token string) (_ bool, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "auth.isAuthorized")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if !c.Enabled() {
		return true, nil
	}
	if token == "" {
		return false, nil
	}

	err = bcrypt.CompareHashAndPassword(c.tokenHash, []byte(token))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// HashToken returns the bcrypt hash to put in the config for the given token.
func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
