package listing

import (
	"mime/multipart"
	"net/http"
	"rentals/infras/otel"
	"rentals/internal/domains/listing/model/dto"
	"rentals/internal/domains/listing/service"
	"rentals/shared/constant"
	gDto "rentals/shared/dto"
	"rentals/shared/failure"
	"rentals/transport/http/response"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Listing
	otel    otel.Otel
}

func New(service service.Listing, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/properties", func(routerGroup chi.Router) {
		routerGroup.Post("/create", handler.CreateListing)
		routerGroup.Get("/", handler.GetListings)
		routerGroup.Get("/search/{search}", handler.SearchListings)
		routerGroup.Get("/{listingId}", handler.GetListingByID)
		routerGroup.Patch("/{listingId}", handler.UpdateListing)
	})
}

// CreateListing handles the creation of a new listing.
// @Summary Create a new listing
// @Description Create a listing owned by the authenticated user. Photos are stored in upload order.
// @Tags Listing
// @Accept mpfd
// @Produce json
// @Param category formData string true "Category"
// @Param type formData string true "Place type"
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param price formData string true "Nightly price"
// @Param amenities formData string false "Amenities as a JSON array string"
// @Param listingPhotos formData file true "Listing photos"
// @Success 201 {object} dto.ListingResponse
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /properties/create [post]
// @Security BearerAuth
func (handler *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateListing")
	defer scope.End()

	fields, photos, err := readBody(r)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to read request body")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res, err := handler.service.Create(ctx, user, dto.NewCreateListingRequest(fields, photos))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create listing")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Listing created successfully by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

// UpdateListing applies a partial update to a listing owned by the caller.
// @Summary Update a listing
// @Description Merge the provided fields into the listing, append uploaded photos and drop removedPhotos.
// @Tags Listing
// @Accept mpfd
// @Produce json
// @Param listingId path string true "Listing ID"
// @Param removedPhotos formData string false "Stored photo paths to remove, as a JSON array string"
// @Param listingPhotos formData file false "Photos to append"
// @Success 200 {object} dto.ListingResponse
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /properties/{listingId} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateListing")
	defer scope.End()

	listingID := chi.URLParam(r, constant.RequestParamListingID)

	fields, photos, err := readBody(r)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to read request body")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	res, err := handler.service.Update(ctx, listingID, user, dto.NewUpdateListingRequest(fields, photos))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("listingID", listingID).Msg("failed to update listing")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Listing updated successfully by user " + user)

	response.WithJSON(w, http.StatusOK, res)
}

// GetListingByID retrieves a listing with its creator populated.
// @Summary Get a listing by ID
// @Tags Listing
// @Produce json
// @Param listingId path string true "Listing ID"
// @Success 200 {object} dto.ListingResponse
// @Failure 404 {object} response.Error
// @Router /properties/{listingId} [get]
func (handler *Handler) GetListingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListingByID")
	defer scope.End()

	listingID := chi.URLParam(r, constant.RequestParamListingID)

	res, err := handler.service.Get(ctx, listingID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("listingID", listingID).Msg("failed to get listing")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetListings lists listings, optionally narrowed to one category.
// @Summary Get listings
// @Tags Listing
// @Produce json
// @Param category query string false "Category filter"
// @Param sort_by query string false "created_at, price, title or guest_count"
// @Param sort_dir query string false "ASC or DESC"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {array} dto.ListingResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /properties [get]
func (handler *Handler) GetListings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListings")
	defer scope.End()

	queryParams, err := gDto.ParseQueryParams(r.URL.Query())
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.GetAll(ctx, queryParams, r.URL.Query().Get(constant.RequestParamCategory))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get listings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// SearchListings matches the term against category and title.
// @Summary Search listings
// @Description Case-insensitive match on category or title; "all" returns every listing.
// @Tags Listing
// @Produce json
// @Param search path string true "Search term"
// @Success 200 {array} dto.ListingResponse
// @Failure 404 {object} response.Error
// @Router /properties/search/{search} [get]
func (handler *Handler) SearchListings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SearchListings")
	defer scope.End()

	term := chi.URLParam(r, constant.RequestParamSearch)

	res, err := handler.service.Search(ctx, term)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("term", term).Msg("failed to search listings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// readBody accepts a multipart form, a urlencoded form or a JSON object. Only multipart carries photos.
func readBody(r *http.Request) (dto.Fields, []*multipart.FileHeader, error) {
	contentType := r.Header.Get(constant.RequestHeaderContentType)

	switch {
	case strings.HasPrefix(contentType, constant.ContentTypeMultipartFormData):
		if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
			return dto.Fields{}, nil, failure.Wrap(http.StatusBadRequest, "File upload error", err)
		}

		return dto.FieldsFromForm(r.MultipartForm.Value), r.MultipartForm.File[constant.FormListingPhotos], nil
	case strings.HasPrefix(contentType, constant.ContentTypeFormURLEncoded):
		if err := r.ParseForm(); err != nil {
			return dto.Fields{}, nil, failure.BadRequest(err)
		}

		return dto.FieldsFromForm(r.PostForm), nil, nil
	case r.ContentLength == 0:
		return dto.FieldsFromForm(nil), nil, nil
	default:
		fields, err := dto.FieldsFromJSON(r.Body)

		return fields, nil, err
	}
}
