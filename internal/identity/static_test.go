package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/liftlog/liftlog/pkg/middleware"
)

const (
	testSecret   = "super-secret-jwt-token-with-at-least-32-characters"
	testIssuer   = "https://project.supabase.co/auth/v1"
	testAudience = "authenticated"
)

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestStaticVerifier_ValidToken(t *testing.T) {
	raw := mintToken(t, jwt.MapClaims{
		"sub":   "user-123",
		"email": "lifter@example.com",
		"role":  "authenticated",
		"iss":   testIssuer,
		"aud":   testAudience,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	v := NewStaticVerifier(testSecret, testIssuer, testAudience)
	tok, err := v.Verify(context.Background(), raw)
	require.NoError(t, err)

	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "user-123", claims["sub"])
	require.Equal(t, "lifter@example.com", claims["email"])
}

func TestStaticVerifier_ExpiredToken(t *testing.T) {
	raw := mintToken(t, jwt.MapClaims{
		"sub": "user-123",
		"iss": testIssuer,
		"aud": testAudience,
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	v := NewStaticVerifier(testSecret, testIssuer, testAudience)
	_, err := v.Verify(context.Background(), raw)
	require.Error(t, err)
	require.True(t, errors.Is(err, middleware.ErrTokenExpired))
}

func TestStaticVerifier_WrongAudience(t *testing.T) {
	raw := mintToken(t, jwt.MapClaims{
		"sub": "user-123",
		"iss": testIssuer,
		"aud": "anon",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	v := NewStaticVerifier(testSecret, testIssuer, testAudience)
	_, err := v.Verify(context.Background(), raw)
	require.Error(t, err)
	require.False(t, errors.Is(err, middleware.ErrTokenExpired))
}

func TestStaticVerifier_WrongIssuer(t *testing.T) {
	raw := mintToken(t, jwt.MapClaims{
		"sub": "user-123",
		"iss": "https://evil.example.com",
		"aud": testAudience,
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	v := NewStaticVerifier(testSecret, testIssuer, testAudience)
	_, err := v.Verify(context.Background(), raw)
	require.Error(t, err)
}

func TestStaticVerifier_BadSignature(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-123",
		"iss": testIssuer,
		"aud": testAudience,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := tok.SignedString([]byte("some-other-secret-that-is-long-enough"))
	require.NoError(t, err)

	v := NewStaticVerifier(testSecret, testIssuer, testAudience)
	_, err = v.Verify(context.Background(), raw)
	require.Error(t, err)
}

func TestInsecureVerifier_ParsesPayload(t *testing.T) {
	raw := mintToken(t, jwt.MapClaims{
		"sub": "user-9",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	v := NewInsecureVerifier()
	tok, err := v.Verify(context.Background(), raw)
	require.NoError(t, err)

	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "user-9", claims["sub"])
}

func TestInsecureVerifier_RejectsGarbage(t *testing.T) {
	v := NewInsecureVerifier()
	_, err := v.Verify(context.Background(), "not-a-jwt")
	require.Error(t, err)
}
