package dto_test

import (
	"math"
	"mime/multipart"
	"rentals/internal/domains/listing/model"
	"rentals/internal/domains/listing/model/dto"
	"rentals/shared/validator"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() map[string][]string {
	return map[string][]string{
		"category":    {"Beach"},
		"type":        {"House"},
		"title":       {"T"},
		"description": {"D"},
		"price":       {"100"},
		"guestCount":  {"4"},
		"amenities":   {`["wifi","pool"]`},
	}
}

func photos(n int) []*multipart.FileHeader {
	headers := make([]*multipart.FileHeader, n)
	for i := range headers {
		headers[i] = &multipart.FileHeader{Filename: "p.jpg", Size: 1}
	}

	return headers
}

func TestFieldsFromJSON(t *testing.T) {
	body := `{"title":"Loft","price":120.5,"guestCount":"3","amenities":["wifi"],"removedPhotos":"[\"a\"]","city":null}`

	fields, err := dto.FieldsFromJSON(strings.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, "Loft", fields.Get("title"))
	assert.Equal(t, "120.5", fields.Get("price"))
	assert.Equal(t, "3", fields.Get("guestCount"))
	assert.Equal(t, dto.Sequence("wifi"), fields.List("amenities"))
	assert.Equal(t, dto.EncodedString(`["a"]`), fields.List("removedPhotos"))

	_, ok := fields.Lookup("city")
	assert.False(t, ok)

	_, err = dto.FieldsFromJSON(strings.NewReader("{"))
	require.Error(t, err)
}

func TestCreateListingRequest_Validation(t *testing.T) {
	tests := []struct {
		name    string
		drop    string
		photos  int
		message string
	}{
		{name: "valid", photos: 1},
		{name: "missing category", drop: "category", photos: 1, message: "category is required"},
		{name: "missing type", drop: "type", photos: 1, message: "type is required"},
		{name: "missing title", drop: "title", photos: 1, message: "title is required"},
		{name: "missing description", drop: "description", photos: 1, message: "description is required"},
		{name: "missing price", drop: "price", photos: 1, message: "price is required"},
		{name: "missing photos", photos: 0, message: "listingPhotos is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			delete(form, tt.drop)

			var files []*multipart.FileHeader
			if tt.photos > 0 {
				files = photos(tt.photos)
			}

			req := dto.NewCreateListingRequest(dto.FieldsFromForm(form), files)

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

func TestCreateListingRequest_ValidationPhotoSize(t *testing.T) {
	files := photos(2)
	files[1].Size = 11 << 20

	req := dto.NewCreateListingRequest(dto.FieldsFromForm(validForm()), files)

	err := validator.ValidateStruct(&req)
	require.Error(t, err)
	assert.Equal(t, "listingPhotos[1] must not exceed 10 MB", err.Error())
}

func TestCreateListingRequest_ToModel(t *testing.T) {
	req := dto.NewCreateListingRequest(dto.FieldsFromForm(validForm()), photos(2))

	listing := req.ToModel("user-1", []string{"listings/1.jpg", "listings/2.jpg"})

	assert.NotEmpty(t, listing.ID)
	assert.Equal(t, "user-1", listing.Creator)
	assert.Equal(t, "user-1", listing.CreatedBy)
	assert.InDelta(t, 100.0, listing.Price, 0)
	assert.Equal(t, 4, listing.GuestCount)
	assert.Equal(t, 0, listing.BedCount)
	assert.Equal(t, []string{"wifi", "pool"}, []string(listing.Amenities))
	assert.Equal(t, []string{"listings/1.jpg", "listings/2.jpg"}, []string(listing.ListingPhotoPaths))
	assert.False(t, listing.CreatedAt.IsZero())
}

func TestCreateListingRequest_LenientInput(t *testing.T) {
	form := validForm()
	form["amenities"] = []string{"wifi, pool"}
	form["bedCount"] = []string{"many"}

	req := dto.NewCreateListingRequest(dto.FieldsFromForm(form), photos(1))
	listing := req.ToModel("user-1", []string{"listings/1.jpg"})

	assert.Equal(t, []string{"wifi, pool"}, []string(listing.Amenities))
	assert.Equal(t, 0, listing.BedCount)

	delete(form, "amenities")
	req = dto.NewCreateListingRequest(dto.FieldsFromForm(form), photos(1))
	listing = req.ToModel("user-1", nil)

	assert.NotNil(t, listing.Amenities)
	assert.Empty(t, listing.Amenities)
}

func TestCreateListingRequest_OutOfRangeCounts(t *testing.T) {
	form := validForm()
	form["guestCount"] = []string{"1e20"}
	form["bedCount"] = []string{"-1e20"}
	form["bathroomCount"] = []string{"3000000000"}

	req := dto.NewCreateListingRequest(dto.FieldsFromForm(form), photos(1))
	listing := req.ToModel("user-1", nil)

	assert.Equal(t, math.MaxInt32, listing.GuestCount)
	assert.Equal(t, math.MinInt32, listing.BedCount)
	assert.Equal(t, math.MaxInt32, listing.BathroomCount)

	err := listing.Validate()
	require.Error(t, err)
	assert.Equal(t, "bedCount must not be negative", err.Error())

	update := dto.NewUpdateListingRequest(dto.FieldsFromForm(map[string][]string{"guestCount": {"9e18"}}), nil)
	require.NotNil(t, update.Patch.GuestCount)
	assert.Equal(t, math.MaxInt32, *update.Patch.GuestCount)
}

func TestNewUpdateListingRequest(t *testing.T) {
	form := map[string][]string{
		"title":         {"New title"},
		"price":         {"0"},
		"amenities":     {"wifi", "pool"},
		"removedPhotos": {`["listings/b.jpg"]`},
	}

	req := dto.NewUpdateListingRequest(dto.FieldsFromForm(form), photos(1))

	require.NotNil(t, req.Patch.Title)
	assert.Equal(t, "New title", *req.Patch.Title)
	require.NotNil(t, req.Patch.Price)
	assert.InDelta(t, 0.0, *req.Patch.Price, 0)
	require.NotNil(t, req.Patch.Amenities)
	assert.Equal(t, []string{"wifi", "pool"}, *req.Patch.Amenities)
	assert.Nil(t, req.Patch.Category)
	assert.Nil(t, req.Patch.GuestCount)
	assert.Equal(t, []string{"listings/b.jpg"}, req.RemovedPhotos)
	assert.Len(t, req.ListingPhotos, 1)
}

func TestNewUpdateListingRequest_MalformedRemovedPhotos(t *testing.T) {
	form := map[string][]string{
		"removedPhotos": {"listings/b.jpg"},
	}

	req := dto.NewUpdateListingRequest(dto.FieldsFromForm(form), nil)

	assert.Empty(t, req.RemovedPhotos)
	assert.True(t, req.Patch.IsEmpty())
}

func TestListingResponse_FromDetail(t *testing.T) {
	first, email := "Ada", "ada@example.com"

	detail := model.ListingDetail{
		Listing: model.Listing{
			ID:                "listing-1",
			Creator:           "user-1",
			Title:             "Loft",
			Price:             80,
			ListingPhotoPaths: []string{"listings/a.jpg"},
		},
		CreatorFirstName: &first,
		CreatorEmail:     &email,
	}

	res := dto.FromDetails([]model.ListingDetail{detail})
	require.Len(t, res, 1)

	assert.Equal(t, "listing-1", res[0].ID)
	assert.Equal(t, dto.CreatorResponse{ID: "user-1", FirstName: "Ada", Email: "ada@example.com"}, res[0].Creator)
	assert.Equal(t, []string{"listings/a.jpg"}, res[0].ListingPhotoPaths)
	assert.NotNil(t, res[0].Amenities)
}
