package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/liftlog/liftlog/pkg/middleware"
)

// JWKSVerifier verifies tokens against the identity provider's published key
// set. go-oidc caches the remote keys and refetches on unknown key IDs, so
// key rotation is tolerated without a restart.
type JWKSVerifier struct {
	provider *oidc.Provider
	verifier *oidc.IDTokenVerifier
}

// Issuer returns the GoTrue issuer URL for a Supabase project base URL.
func Issuer(supabaseURL string) string {
	return strings.TrimRight(supabaseURL, "/") + "/auth/v1"
}

// NewJWKSVerifier creates a verifier for the given issuer and expected audience.
func NewJWKSVerifier(ctx context.Context, issuer, audience string) (*JWKSVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover identity provider: %w", err)
	}
	verifier := provider.Verifier(&oidc.Config{ClientID: audience})
	return &JWKSVerifier{provider: provider, verifier: verifier}, nil
}

// Verify checks the raw token's signature, issuer, audience and expiry.
func (v *JWKSVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	token, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		var expired *oidc.TokenExpiredError
		if errors.As(err, &expired) {
			return nil, fmt.Errorf("%w: %v", middleware.ErrTokenExpired, err)
		}
		return nil, err
	}
	return token, nil
}
