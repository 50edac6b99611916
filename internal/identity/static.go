package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/liftlog/liftlog/pkg/middleware"
)

// StaticVerifier verifies tokens with a pinned shared secret (HS256). Used
// for deployments that configure the provider's JWT secret directly instead
// of relying on JWKS discovery.
type StaticVerifier struct {
	secret   []byte
	issuer   string
	audience string
}

func NewStaticVerifier(secret, issuer, audience string) *StaticVerifier {
	return &StaticVerifier{secret: []byte(secret), issuer: issuer, audience: audience}
}

func (v *StaticVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	parsed, err := jwt.Parse(raw,
		func(t *jwt.Token) (interface{}, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", middleware.ErrTokenExpired, err)
		}
		return nil, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	return &claimsToken{claims: claims}, nil
}

// claimsToken exposes a claims map through the middleware.Token interface.
type claimsToken struct {
	claims map[string]interface{}
}

func (t *claimsToken) Claims(v interface{}) error {
	b, err := json.Marshal(t.claims)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
