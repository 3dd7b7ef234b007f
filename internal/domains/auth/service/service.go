package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"net/http"
	"rentals/config"
	"rentals/infras/jwt"
	"rentals/infras/otel"
	"rentals/infras/storage"
	"rentals/internal/domains/auth/model/dto"
	userModel "rentals/internal/domains/user/model"
	userRepo "rentals/internal/domains/user/repository"
	"rentals/shared/constant"
	gDto "rentals/shared/dto"
	"rentals/shared/failure"
	"rentals/shared/password"
	gRepo "rentals/shared/repository"
	"rentals/shared/validator"

	"github.com/rs/zerolog/log"
)

const (
	msgRegistered         = "User registered successfully"
	msgRegistrationFailed = "Registration failed!"
	msgUserExists         = "User already exists"
	msgUploadFailed       = "File upload error"
	msgUserMissing        = "User doesn't exist!"
	msgInvalidCredentials = "Invalid Credentials!"
	msgLoginFailed        = "Login failed"
	msgInvalidRefresh     = "invalid refresh token"
)

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.RegisterResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
}

type serviceImpl struct {
	userRepo   userRepo.User
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
	store      storage.ObjectStore
}

func New(userRepo userRepo.User, cfg *config.Config, otel otel.Otel, jwt jwt.JWT, store storage.ObjectStore) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
		store:      store,
	}
}

func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res dto.RegisterResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	exists, err := s.userRepo.Exist(ctx, emailFilter(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return res, failure.Wrap(http.StatusInternalServerError, msgRegistrationFailed, err)
	}

	if exists {
		return res, failure.BadRequestFromString(msgUserExists)
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, failure.Wrap(http.StatusInternalServerError, msgRegistrationFailed, err)
	}

	imagePath, err := s.store.Save(ctx, userModel.ProfileDirectory, req.ProfileImage)
	if err != nil {
		log.Error().Err(err).Msg("failed to store profile image")

		return res, failure.Wrap(http.StatusBadRequest, msgUploadFailed, err)
	}

	user := req.ToUserModel(hashedPassword, imagePath)

	if err = s.userRepo.Insert(ctx, user); err != nil {
		log.Error().Err(err).Msg("failed to create user")

		go func() {
			if err := s.store.Delete(context.WithoutCancel(ctx), imagePath); err != nil {
				log.Warn().Err(err).Str("path", imagePath).Msg("failed to delete orphaned profile image")
			}
		}()

		if errors.Is(err, gRepo.ErrDuplicate) {
			return res, failure.BadRequestFromString(msgUserExists)
		}

		return res, failure.Wrap(http.StatusInternalServerError, msgRegistrationFailed, err)
	}

	res.Message = msgRegistered
	res.User.FromModel(user)

	return res, nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	user, err := s.userRepo.Get(ctx, emailFilter(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, failure.Wrap(http.StatusInternalServerError, msgLoginFailed, err)
	}

	if user.ID == constant.Empty {
		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, failure.Conflict(msgUserMissing)
	}

	if err = password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.BadRequestFromString(msgInvalidCredentials)
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, failure.Wrap(http.StatusInternalServerError, msgLoginFailed, err)
	}

	res.FromTokenPair(tokenPair)
	res.User.FromModel(user)

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	tokenPair, err := s.jwtService.RefreshTokens(req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized(msgInvalidRefresh)
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func emailFilter(email string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    email,
				Table:    userModel.TableName,
			},
		},
	}
}
