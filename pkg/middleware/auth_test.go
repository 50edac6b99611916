package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// fakeToken implements Token
type fakeToken struct {
	data map[string]interface{}
}

func (t *fakeToken) Claims(v interface{}) error {
	if mm, ok := v.(*map[string]interface{}); ok {
		*mm = t.data
		return nil
	}
	return fmt.Errorf("unsupported claims type")
}

// fakeVerifier implements Verifier keyed by raw token values
type fakeVerifier struct {
	tokens map[string]map[string]interface{}
}

func (f *fakeVerifier) Verify(ctx context.Context, raw string) (Token, error) {
	if raw == "expiredtoken" {
		return nil, fmt.Errorf("%w: exp in the past", ErrTokenExpired)
	}
	if data, ok := f.tokens[raw]; ok {
		return &fakeToken{data: data}, nil
	}
	return nil, fmt.Errorf("invalid token")
}

func newVerifier() *fakeVerifier {
	return &fakeVerifier{tokens: map[string]map[string]interface{}{
		"goodtoken": {
			"sub":   "user1",
			"email": "test@example.com",
			"role":  "authenticated",
			"aud":   "authenticated",
			"exp":   float64(time.Now().Add(time.Hour).Unix()),
		},
		"nosub": {
			"email": "nosub@example.com",
			"exp":   float64(time.Now().Add(time.Hour).Unix()),
		},
		"staleclaims": {
			"sub": "user2",
			"exp": float64(time.Now().Add(-time.Hour).Unix()),
		},
	}}
}

func serve(t *testing.T, header string) *httptest.ResponseRecorder {
	t.Helper()
	g := gin.New()
	g.GET("/", AuthMiddleware(newVerifier()), func(c *gin.Context) {
		id, ok := IdentityFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id.ID, "email": id.Email, "aud": id.Audience})
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	return rw
}

func TestAuthMiddleware_NoHeader(t *testing.T) {
	rw := serve(t, "")
	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.Contains(t, rw.Body.String(), "Missing or invalid auth header")
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	rw := serve(t, "BadHeader")
	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.Contains(t, rw.Body.String(), "Missing or invalid auth header")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	rw := serve(t, "Bearer junk")
	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.Contains(t, rw.Body.String(), "Invalid token")
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	rw := serve(t, "Bearer expiredtoken")
	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.Contains(t, rw.Body.String(), "Token expired")
}

func TestAuthMiddleware_ExpiredClaims(t *testing.T) {
	// The verifier accepted the token but the exp claim is in the past.
	rw := serve(t, "Bearer staleclaims")
	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.Contains(t, rw.Body.String(), "Token expired")
}

func TestAuthMiddleware_MissingSub(t *testing.T) {
	rw := serve(t, "Bearer nosub")
	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.Contains(t, rw.Body.String(), "Invalid token")
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	rw := serve(t, "Bearer goodtoken")
	require.Equal(t, http.StatusOK, rw.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &got))
	require.Equal(t, "user1", got["id"])
	require.Equal(t, "test@example.com", got["email"])
	require.Equal(t, "authenticated", got["aud"])
}

func TestAudienceClaim_Shapes(t *testing.T) {
	require.Equal(t, "authenticated", audienceClaim("authenticated"))
	require.Equal(t, "authenticated", audienceClaim([]interface{}{"authenticated", "other"}))
	require.Equal(t, "authenticated", audienceClaim([]string{"authenticated"}))
	require.Equal(t, "", audienceClaim(nil))
	require.Equal(t, "", audienceClaim(42))
}
