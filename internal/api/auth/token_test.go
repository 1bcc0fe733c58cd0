package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/careerbridge/careerbridge-api/config"
	"github.com/careerbridge/careerbridge-api/internal/api"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:       "test-secret",
		SessionTokenTTL: time.Hour,
		Issuer:          "test-issuer",
		Audience:        "test-audience",
	}
}

func TestHexTokenGenerator(t *testing.T) {
	gen := HexTokenGenerator{}

	first, err := gen.Generate()
	assert.NoError(t, err)
	assert.Len(t, first, 64)

	second, err := gen.Generate()
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	codec := NewSessionTokenCodec(testJWTConfig())
	accountID := uuid.New()

	token, err := codec.Issue(accountID, RoleRecruiter)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := codec.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, accountID.String(), claims.UserID)
	assert.Equal(t, string(RoleRecruiter), claims.Role)
}

func TestSessionTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.SessionTokenTTL = -time.Minute
	codec := NewSessionTokenCodec(cfg)

	token, err := codec.Issue(uuid.New(), RoleStudent)
	assert.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
}

func TestSessionTokenWrongKey(t *testing.T) {
	codec := NewSessionTokenCodec(testJWTConfig())

	other := testJWTConfig()
	other.SecretKey = "different-secret"
	otherCodec := NewSessionTokenCodec(other)

	token, err := codec.Issue(uuid.New(), RoleStudent)
	assert.NoError(t, err)

	_, err = otherCodec.Verify(token)
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
}

func TestSessionTokenGarbage(t *testing.T) {
	codec := NewSessionTokenCodec(testJWTConfig())

	_, err := codec.Verify("not-a-token")
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
}

func TestSessionTokenWrongAudience(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Audience = "another-app"
	otherAudience := NewSessionTokenCodec(cfg)

	codec := NewSessionTokenCodec(testJWTConfig())
	token, err := otherAudience.Issue(uuid.New(), RoleStudent)
	assert.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, api.ErrUnauthenticated)
}

func TestNewSessionTokenCodecPanicsOnEmptyKey(t *testing.T) {
	cfg := testJWTConfig()
	cfg.SecretKey = ""
	assert.Panics(t, func() { NewSessionTokenCodec(cfg) })
}
