package booking

import (
	"net/http"
	"rentals/infras/otel"
	"rentals/internal/domains/booking/model/dto"
	"rentals/internal/domains/booking/service"
	"rentals/shared/constant"
	"rentals/shared/validator"
	"rentals/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/bookings/create", handler.CreateBooking)
}

// CreateBooking records a stay. The customer defaults to the caller.
// @Summary Create a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} dto.BookingResponse
// @Failure 400 {object} response.Error
// @Router /bookings/create [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	caller, _ := ctx.Value(constant.ContextKeyUserID).(string)
	logCtx := log.With().Str("caller", caller).Logger()

	var req dto.CreateBookingRequest

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		logCtx.Error().Err(err).Msg("invalid booking request")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, caller, req)
	if err != nil {
		scope.TraceError(err)
		logCtx.Error().Err(err).Str("listingId", req.ListingID).Msg("failed to create booking")

		response.WithError(w, err)

		return
	}

	scope.SetAttribute("booking.id", res.ID)

	response.WithJSON(w, http.StatusCreated, res)
}
