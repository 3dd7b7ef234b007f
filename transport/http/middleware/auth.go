package middleware

import (
	"context"
	"errors"
	"net/http"
	"rentals/infras/jwt"
	"rentals/infras/otel"
	"rentals/permissions"
	"rentals/shared/constant"
	"rentals/shared/failure"
	"rentals/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	msgNoToken      = "No token provided!"
	msgInvalidToken = "Token is not valid!"
)

// Auth guards routes the permissions table does not mark public.
type Auth interface {
	Auth(http.Handler) http.Handler
}

type authImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
}

func NewAuthMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData) Auth {
	return &authImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
	}
}

// Auth validates the access token and puts its subject on the request context.
// The header carries the token with or without the "Bearer " prefix.
func (m *authImpl) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")

		method := request.Method
		path := request.URL.Path

		if rctx := chi.RouteContext(ctx); rctx != nil && rctx.Routes != nil {
			if pattern := rctx.Routes.Find(chi.NewRouteContext(), method, request.URL.Path); pattern != "" {
				path = pattern
			}
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     method,
		})

		if m.permission.IsPublic(path, method) {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		tokenString, err := jwt.ExtractTokenFromHeader(request.Header.Get(constant.RequestHeaderAuthorization))
		if err != nil {
			err := failure.Forbidden(msgNoToken)
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString, jwt.AccessToken)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("rejected bearer token")

			response.WithError(writer, failure.Wrap(http.StatusUnauthorized, msgInvalidToken, reason(err)))

			scope.TraceError(err)
			scope.End()

			return
		}

		ctx = context.WithValue(ctx, constant.ContextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, constant.ContextKeyUserEmail, claims.Email)
		ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

		scope.End()

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func reason(err error) error {
	switch {
	case errors.Is(err, jwt.ErrExpiredToken):
		return errors.New("token has expired")
	case errors.Is(err, jwt.ErrInvalidClaim):
		return errors.New("invalid token claims")
	default:
		return errors.New("invalid token")
	}
}
