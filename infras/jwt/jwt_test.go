package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentals/config"
	"rentals/infras/jwt"
)

func newService() jwt.JWT {
	cfg := &config.Config{}
	cfg.App.Name = "rentals"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 60

	return jwt.New(cfg)
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newService()

	pair, err := svc.GenerateTokenPair("user-1", "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(900), pair.ExpiresIn)

	claims, err := svc.ValidateToken(pair.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "user@example.com", claims.Email)

	_, err = svc.ValidateToken(pair.AccessToken, jwt.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, err = svc.ValidateToken("not-a-token", jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestRefreshTokens(t *testing.T) {
	svc := newService()

	pair, err := svc.GenerateTokenPair("user-1", "user@example.com")
	require.NoError(t, err)

	refreshed, err := svc.RefreshTokens(pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(refreshed.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	_, err = svc.RefreshTokens(pair.AccessToken)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
		wantErr  bool
	}{
		{name: "bearer prefix", header: "Bearer abc.def", expected: "abc.def"},
		{name: "raw token", header: "abc.def", expected: "abc.def"},
		{name: "empty header", header: "", wantErr: true},
		{name: "prefix only", header: "Bearer ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := jwt.ExtractTokenFromHeader(tt.header)

			if tt.wantErr {
				assert.ErrorIs(t, err, jwt.ErrMissingToken)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, token)
		})
	}
}

func TestValidateToken_Rejections(t *testing.T) {
	expiredCfg := &config.Config{}
	expiredCfg.App.Name = "rentals"
	expiredCfg.JWT.AccessSecret = "access-secret"
	expiredCfg.JWT.RefreshSecret = "refresh-secret"
	expiredCfg.JWT.AccessExpireMin = -1
	expiredCfg.JWT.RefreshExpireMin = 60

	expired, err := jwt.New(expiredCfg).GenerateTokenPair("user-1", "user@example.com")
	require.NoError(t, err)

	_, err = newService().ValidateToken(expired.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)

	otherCfg := *expiredCfg
	otherCfg.App.Name = "someone-else"
	otherCfg.JWT.AccessExpireMin = 15

	foreign, err := jwt.New(&otherCfg).GenerateTokenPair("user-1", "user@example.com")
	require.NoError(t, err)

	_, err = newService().ValidateToken(foreign.AccessToken, jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}
