package auth

import (
	"context"
	"net/http"
	"rentals/infras/otel"
	"rentals/internal/domains/auth/model/dto"
	"rentals/internal/domains/auth/service"
	"rentals/shared/constant"
	"rentals/shared/failure"
	"rentals/shared/validator"
	"rentals/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Auth
	otel    otel.Otel
}

func New(service service.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)
		r.Post("/refresh-token", handler.RefreshToken)
	})
}

// Register handles user registration
// @Summary Register a new user
// @Description Register a new user with a profile image.
// @Tags Auth
// @Accept mpfd
// @Produce json
// @Param firstName formData string true "First name"
// @Param lastName formData string true "Last name"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param profileImage formData file true "Profile image"
// @Success 201 {object} dto.RegisterResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /auth/register [post]
func (handler *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Register")
	defer scope.End()

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, failure.BadRequest(err))

		return
	}

	req := dto.RegisterRequest{
		FirstName: r.FormValue("firstName"),
		LastName:  r.FormValue("lastName"),
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password"),
	}

	if files := r.MultipartForm.File[constant.FormProfileImage]; len(files) > 0 {
		req.ProfileImage = files[0]
	}

	res, err := handler.service.Register(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("email", req.Email).Msg("failed to register user")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("user registered")

	response.WithJSON(w, http.StatusCreated, res)
}

// Login exchanges credentials for a token pair.
// @Summary Login a user
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /auth/login [post]
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	serveJSON(handler, w, r, "Login", handler.service.Login)
}

// RefreshToken rotates a token pair.
// @Summary Refresh user token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} dto.RefreshTokenResponse
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /auth/refresh-token [post]
func (handler *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	serveJSON(handler, w, r, "RefreshToken", handler.service.RefreshToken)
}

// serveJSON decodes a JSON body into Req, calls the service and answers 200 with its result.
func serveJSON[Req, Res any](
	handler *Handler, w http.ResponseWriter, r *http.Request, op string,
	call func(context.Context, Req) (Res, error),
) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+op)
	defer scope.End()

	var req Req

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("op", op).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := call(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("op", op).Msg("auth request failed")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
