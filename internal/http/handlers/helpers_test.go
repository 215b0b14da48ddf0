package handlers_test

import (
	"github.com/carebridge/hospital-api/internal/auth"
)

// staticVerifier returns a token verifier that accepts any token as the given
// identity. Used to exercise handlers behind the auth middleware.
type tokenVerifierFunc func(token string) (*auth.Claims, error)

func (f tokenVerifierFunc) Verify(token string) (*auth.Claims, error) {
	return f(token)
}

func staticVerifier(userID, role string) tokenVerifierFunc {
	return func(string) (*auth.Claims, error) {
		return &auth.Claims{UserID: userID, Email: "tester@example.com", Role: role}, nil
	}
}
