package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-account-portal/internal/model"
)

const DefaultTTL = 24 * time.Hour

// Codec mints and verifies the signed session tokens. The signing algorithm
// is pinned to HS256 on both sides; tokens carrying any other algorithm are
// rejected during verification.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Mint produces a signed token for the given identity. Expiration is fixed
// at issue time plus the codec TTL; the claims are immutable after signing.
func (c *Codec) Mint(user model.AuthUser) (string, error) {
	now := c.now().UTC()

	claims := jwt.MapClaims{
		"userId":    user.ID,
		"username":  user.Username,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"iat":       now.Unix(),
		"exp":       now.Add(c.ttl).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks signature and expiration and returns the decoded claims.
// Malformed tokens, tampered signatures, wrong algorithms and expired tokens
// are all reported identically as not-ok; callers never see why a token was
// rejected, and no failure escapes as an error or panic.
func (c *Codec) Verify(raw string) (model.AuthClaims, bool) {
	parsed, err := jwt.Parse(raw,
		func(_ *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return c.now() }),
	)
	if err != nil || !parsed.Valid {
		return model.AuthClaims{}, false
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return model.AuthClaims{}, false
	}

	var claims model.AuthClaims
	claims.UserID, _ = claimsMap["userId"].(string)
	claims.Username, _ = claimsMap["username"].(string)
	claims.FirstName, _ = claimsMap["firstName"].(string)
	claims.LastName, _ = claimsMap["lastName"].(string)

	if iat, ok := claimsMap["iat"].(float64); ok {
		claims.IssuedAt = int64(iat)
	}
	if exp, ok := claimsMap["exp"].(float64); ok {
		claims.ExpiresAt = int64(exp)
	}

	if claims.UserID == "" {
		return model.AuthClaims{}, false
	}

	return claims, true
}
