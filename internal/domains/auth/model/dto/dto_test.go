package dto_test

import (
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentals/infras/jwt"
	"rentals/internal/domains/auth/model/dto"
	"rentals/shared/validator"
)

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		ExpiresIn:    900,
	}

	var response dto.LoginResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.Token)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
	assert.Equal(t, int64(900), response.ExpiresIn)
}

func TestRefreshTokenResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "new-access-token",
		RefreshToken: "new-refresh-token",
	}

	var response dto.RefreshTokenResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
}

func TestRegisterRequest_ToUserModel(t *testing.T) {
	req := dto.RegisterRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "engine-notes",
	}

	user := req.ToUserModel("hashed", "profiles/ada.png")

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, user.ID, user.CreatedBy)
	assert.Equal(t, "hashed", user.Password)
	assert.Equal(t, "profiles/ada.png", user.ProfileImagePath)
	assert.NotNil(t, user.WishList)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestRegisterRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *dto.RegisterRequest)
		message string
	}{
		{name: "valid", mutate: func(*dto.RegisterRequest) {}},
		{name: "no image", mutate: func(r *dto.RegisterRequest) { r.ProfileImage = nil }, message: "profileImage is required"},
		{name: "bad email", mutate: func(r *dto.RegisterRequest) { r.Email = "ada" }, message: "email must be a valid email address"},
		{name: "short password", mutate: func(r *dto.RegisterRequest) { r.Password = "short" }, message: "password must be at least 8"},
		{name: "long password", mutate: func(r *dto.RegisterRequest) { r.Password = strings.Repeat("x", 73) }, message: "password must be at most 72"},
		{name: "large image", mutate: func(r *dto.RegisterRequest) { r.ProfileImage.Size = 6 << 20 }, message: "profileImage must not exceed 5 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := dto.RegisterRequest{
				FirstName:    "Ada",
				LastName:     "Lovelace",
				Email:        "ada@example.com",
				Password:     "engine-notes",
				ProfileImage: &multipart.FileHeader{Filename: "ada.png", Size: 10},
			}
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)
			if tt.message == "" {
				require.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
		})
	}
}
