package user

import (
	"encoding/json"
	"fmt"
	"net/http"
	"rentals/infras/otel"
	bookingService "rentals/internal/domains/booking/service"
	"rentals/internal/domains/user/model/dto"
	"rentals/internal/domains/user/service"
	"rentals/shared/constant"
	"rentals/shared/failure"
	"rentals/transport/http/response"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const msgProfileUpdated = "Profile updated"

type Handler struct {
	service  service.User
	bookings bookingService.Booking
	otel     otel.Otel
}

func New(service service.User, bookings bookingService.Booking, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		bookings: bookings,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/users", func(routerGroup chi.Router) {
		routerGroup.Get("/{userId}/trips", handler.GetTrips)
		routerGroup.Get("/{userId}/reservations", handler.GetReservations)
		routerGroup.Get("/{userId}/properties", handler.GetProperties)
		routerGroup.Get("/{userId}/profile", handler.GetProfile)
		routerGroup.Patch("/{userId}/{listingId}", handler.ToggleWishList)
		routerGroup.Patch("/{userId}", handler.UpdateProfile)
	})
}

// GetTrips lists the bookings a user made.
// @Summary Get trips
// @Tags User
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {array} object "Bookings with customer, host and listing populated"
// @Failure 404 {object} response.Error
// @Router /users/{userId}/trips [get]
func (handler *Handler) GetTrips(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTrips")
	defer scope.End()

	userID := chi.URLParam(r, constant.RequestParamUserID)

	res, err := handler.bookings.Trips(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("userID", userID).Msg("failed to get trips")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetReservations lists the bookings made on a host's listings.
// @Summary Get reservations
// @Tags User
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {array} object "Bookings with customer, host and listing populated"
// @Failure 404 {object} response.Error
// @Router /users/{userId}/reservations [get]
func (handler *Handler) GetReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservations")
	defer scope.End()

	userID := chi.URLParam(r, constant.RequestParamUserID)

	res, err := handler.bookings.Reservations(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("userID", userID).Msg("failed to get reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetProperties lists the listings a user created.
// @Summary Get properties
// @Tags User
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {array} object "Listings with creator populated"
// @Failure 404 {object} response.Error
// @Router /users/{userId}/properties [get]
func (handler *Handler) GetProperties(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProperties")
	defer scope.End()

	userID := chi.URLParam(r, constant.RequestParamUserID)

	res, err := handler.service.GetProperties(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("userID", userID).Msg("failed to get properties")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetProfile returns a user's public profile.
// @Summary Get a profile
// @Tags User
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /users/{userId}/profile [get]
func (handler *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetProfile")
	defer scope.End()

	userID := chi.URLParam(r, constant.RequestParamUserID)

	res, err := handler.service.Get(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("userID", userID).Msg("failed to get profile")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// ToggleWishList adds a listing to the caller's wish list or removes it.
// @Summary Toggle a wish list entry
// @Tags User
// @Produce json
// @Param userId path string true "User ID"
// @Param listingId path string true "Listing ID"
// @Success 200 {object} dto.WishListResponse
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /users/{userId}/{listingId} [patch]
// @Security BearerAuth
func (handler *Handler) ToggleWishList(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ToggleWishList")
	defer scope.End()

	userID := chi.URLParam(r, constant.RequestParamUserID)
	listingID := chi.URLParam(r, constant.RequestParamListingID)
	subject, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res, err := handler.service.ToggleWishList(ctx, userID, subject, listingID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("userID", userID).Str("listingID", listingID).Msg("failed to toggle wish list")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateProfile edits the caller's own profile.
// @Summary Update a profile
// @Tags User
// @Accept mpfd
// @Produce json
// @Param userId path string true "User ID"
// @Param firstName formData string false "First name"
// @Param lastName formData string false "Last name"
// @Param email formData string false "Email"
// @Param profileImage formData file false "Profile image"
// @Success 200 {object} dto.ProfileUpdatedResponse
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /users/{userId} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateProfile")
	defer scope.End()

	userID := chi.URLParam(r, constant.RequestParamUserID)
	subject, _ := ctx.Value(constant.ContextKeyUserID).(string)

	req, err := readProfile(r)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to read request body")

		response.WithError(w, err)

		return
	}

	user, err := handler.service.UpdateProfile(ctx, userID, subject, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("userID", userID).Msg("failed to update profile")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Profile updated by user " + subject)

	response.WithJSON(w, http.StatusOK, dto.ProfileUpdatedResponse{Message: msgProfileUpdated, User: user})
}

func readProfile(r *http.Request) (dto.UpdateProfileRequest, error) {
	req := dto.UpdateProfileRequest{}
	contentType := r.Header.Get(constant.RequestHeaderContentType)

	switch {
	case strings.HasPrefix(contentType, constant.ContentTypeMultipartFormData):
		if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
			return req, failure.Wrap(http.StatusBadRequest, "File upload error", err)
		}

		req.FirstName = r.FormValue("firstName")
		req.LastName = r.FormValue("lastName")
		req.Email = r.FormValue("email")

		if files := r.MultipartForm.File[constant.FormProfileImage]; len(files) > 0 {
			req.ProfileImage = files[0]
		}
	case r.ContentLength == 0:
	default:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err))
		}
	}

	return req, nil
}
