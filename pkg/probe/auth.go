package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/platinummonkey/ragstack/pkg/config"
)

// AuthProbe verifies that the auth settings can sign and verify tokens
type AuthProbe struct {
	method *jwt.SigningMethodHMAC
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthProbe rejects algorithms that are not HMAC based, since only a
// shared secret is configured.
func NewAuthProbe(cfg config.AuthSettings) (*AuthProbe, error) {
	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("auth: unsupported signing algorithm %q (want HS256, HS384 or HS512)", cfg.Algorithm)
	}

	return &AuthProbe{
		method: method,
		secret: []byte(cfg.SecretKey),
		ttl:    cfg.TokenTTL(),
		now:    time.Now,
	}, nil
}

// Name returns "auth"
func (p *AuthProbe) Name() string { return config.SectionAuth }

// Check signs a token and verifies it with the same secret
func (p *AuthProbe) Check(ctx context.Context) error {
	return traced(ctx, p.Name(), func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(p.secret) == 0 {
			return errors.New("secret key is empty")
		}
		if p.ttl <= 0 {
			return fmt.Errorf("token lifetime must be positive, got %s", p.ttl)
		}

		issued := p.now()
		claims := jwt.RegisteredClaims{
			Subject:   "ragstack-probe",
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(p.ttl)),
		}

		signed, err := jwt.NewWithClaims(p.method, claims).SignedString(p.secret)
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}

		parsed, err := jwt.ParseWithClaims(signed, &jwt.RegisteredClaims{},
			func(*jwt.Token) (interface{}, error) { return p.secret, nil },
			jwt.WithValidMethods([]string{p.method.Alg()}),
			jwt.WithTimeFunc(p.now),
		)
		if err != nil {
			return fmt.Errorf("failed to verify token: %w", err)
		}
		if !parsed.Valid {
			return errors.New("signed token did not verify")
		}
		return nil
	})
}

// Close is a no-op
func (p *AuthProbe) Close() error { return nil }
