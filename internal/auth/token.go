package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL - issued tokens expire after this period, no exceptions,
// no server side revocation (admin credentials rotation does NOT invalidate
// outstanding tokens)
const DefaultTTL = 8 * time.Hour

type Claims struct {
	jwt.RegisteredClaims
}

func (c *Claims) Username() string {
	return c.Subject
}

// Codec issues and verifies stateless signed session tokens. Validity is
// determined by the signature and the embedded expiry alone, there is no
// server side session storage.
type Codec struct {
	secret []byte
	ttl    time.Duration
	// ability to inject time func (for unit and dev testing)
	NowFunc func() time.Time
}

func NewCodec(secret []byte, ttl time.Duration) *Codec {
	return &Codec{
		secret:  secret,
		ttl:     ttl,
		NowFunc: time.Now,
	}
}

func (c *Codec) Issue(username string) (string, error) {
	now := c.NowFunc()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			Issuer:    "avarjoyas-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify returns the embedded claims, or ErrInvalidToken for a bad signature,
// malformed structure, unexpected signing method or expired token. A token
// expires the moment the current time is at or past the encoded expiry.
func (c *Codec) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenStr,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return c.secret, nil
		},
		jwt.WithTimeFunc(c.NowFunc),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

type claimsContextKey struct{}

func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*Claims)
	return claims, ok
}
