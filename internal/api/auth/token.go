package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge-api/config"
	"github.com/careerbridge/careerbridge-api/internal/api"
)

// secretTokenBytes is the entropy of verification and reset tokens.
const secretTokenBytes = 32

// SecretTokenGenerator produces opaque single-use secrets. Verification and
// reset tokens are different roles of the same primitive and are never
// compared cross-role.
type SecretTokenGenerator interface {
	Generate() (string, error)
}

var _ SecretTokenGenerator = (*HexTokenGenerator)(nil)

// HexTokenGenerator draws from crypto/rand and renders hexadecimal.
type HexTokenGenerator struct{}

func (HexTokenGenerator) Generate() (string, error) {
	buf := make([]byte, secretTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate secret token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Claims is the session token payload.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SessionTokenCodec signs and verifies stateless session credentials. Validity
// is determined entirely by the signature and the embedded expiry; there is no
// server-side session state and no way to revoke an issued token early.
type SessionTokenCodec struct {
	secretKey []byte
	ttl       time.Duration
	issuer    string
	audience  string
}

func NewSessionTokenCodec(cfg config.JWTConfig) *SessionTokenCodec {
	if cfg.SecretKey == "" {
		panic("session token signing key cannot be empty")
	}
	return &SessionTokenCodec{
		secretKey: []byte(cfg.SecretKey),
		ttl:       cfg.SessionTokenTTL,
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
	}
}

// Issue mints a signed session token for the given account.
func (c *SessionTokenCodec) Issue(accountID uuid.UUID, role Role) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: accountID.String(),
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			Subject:   accountID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry, issuer and audience. Malformed, forged and
// expired tokens all collapse into the same unauthenticated failure at the
// boundary.
func (c *SessionTokenCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secretKey, nil
	},
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired token: %w", api.ErrUnauthenticated)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", api.ErrUnauthenticated)
	}
	return claims, nil
}
