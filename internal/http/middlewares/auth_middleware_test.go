package middlewares_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/carebridge/hospital-api/internal/auth"
	"github.com/carebridge/hospital-api/internal/http/middlewares"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fake verifier implementing middlewares.TokenVerifier

type fakeVerifier struct {
	verifyFn func(token string) (*auth.Claims, error)
}

func (f *fakeVerifier) Verify(token string) (*auth.Claims, error) {
	if f.verifyFn != nil {
		return f.verifyFn(token)
	}
	return nil, errors.New("no verifier configured")
}

func okVerifier(userID, role string) *fakeVerifier {
	return &fakeVerifier{
		verifyFn: func(token string) (*auth.Claims, error) {
			return &auth.Claims{UserID: userID, Email: "a@x.com", Role: role}, nil
		},
	}
}

func protectedRouter(mw *middlewares.AuthMiddleware, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	chain := append([]gin.HandlerFunc{mw.RequireAuth()}, extra...)
	chain = append(chain, func(c *gin.Context) {
		id, _ := middlewares.UserIDFromContext(c)
		role, _ := middlewares.RoleFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userID": id, "role": role})
	})

	r.GET("/protected", chain...)

	return r
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name           string
		header         string
		verifier       *fakeVerifier
		wantStatusCode int
	}{
		{
			name:           "missing_header",
			header:         "",
			verifier:       okVerifier("u1", "admin"),
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "not_bearer",
			header:         "Basic abc123",
			verifier:       okVerifier("u1", "admin"),
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:   "invalid_token",
			header: "Bearer bad-token",
			verifier: &fakeVerifier{
				verifyFn: func(string) (*auth.Claims, error) {
					return nil, auth.ErrInvalidToken
				},
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "valid_token",
			header:         "Bearer good-token",
			verifier:       okVerifier("u1", "admin"),
			wantStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			r := protectedRouter(middlewares.NewAuthMiddleware(tt.verifier))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestRequireAuthStashesIdentity(t *testing.T) {
	r := protectedRouter(middlewares.NewAuthMiddleware(okVerifier("user-42", "nurse")))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer tok")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{"user-42", "nurse"} {
		if !strings.Contains(body, want) {
			t.Errorf("body %s missing %q", body, want)
		}
	}
}
