package dto

import (
	"mime/multipart"
	"rentals/infras/jwt"
	userModel "rentals/internal/domains/user/model"
	userDto "rentals/internal/domains/user/model/dto"
	gModel "rentals/shared/model"
	"rentals/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type RegisterRequest struct {
	FirstName    string                `json:"firstName"    validate:"required,max=100"`
	LastName     string                `json:"lastName"     validate:"required,max=100"`
	Email        string                `json:"email"        validate:"required,email"`
	Password     string                `json:"password"     validate:"required,min=8,max=72"`
	ProfileImage *multipart.FileHeader `json:"profileImage" validate:"required,maxfilesize=5" swaggerignore:"true"`
}

func (r *RegisterRequest) ToUserModel(hashedPassword, profileImagePath string) userModel.User {
	id := uuid.NewString()
	now := timezone.Now()

	return userModel.User{
		ID:               id,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            r.Email,
		Password:         hashedPassword,
		ProfileImagePath: profileImagePath,
		WishList:         pq.StringArray{},
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  id,
			ModifiedBy: id,
		},
	}
}

type RegisterResponse struct {
	Message string               `json:"message"`
	User    userDto.UserResponse `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token        string               `json:"token"`
	RefreshToken string               `json:"refresh_token"`
	ExpiresIn    int64                `json:"expires_in"`
	User         userDto.UserResponse `json:"user"`
}

func (l *LoginResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	l.Token = tokenPair.AccessToken
	l.RefreshToken = tokenPair.RefreshToken
	l.ExpiresIn = tokenPair.ExpiresIn
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (r *RefreshTokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	r.AccessToken = tokenPair.AccessToken
	r.RefreshToken = tokenPair.RefreshToken
	r.ExpiresIn = tokenPair.ExpiresIn
}
