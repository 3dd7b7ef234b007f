package dto

import (
	"mime/multipart"
	"rentals/internal/domains/listing/model"
	"rentals/shared/constant"
	gDto "rentals/shared/dto"
	gModel "rentals/shared/model"
	"rentals/shared/timezone"

	"github.com/google/uuid"
)

type CreateListingRequest struct {
	Category      string                  `json:"category"      validate:"required"`
	Type          string                  `json:"type"          validate:"required"`
	StreetAddress string                  `json:"streetAddress"`
	AptSuite      string                  `json:"aptSuite"`
	City          string                  `json:"city"`
	Province      string                  `json:"province"`
	Country       string                  `json:"country"`
	GuestCount    string                  `json:"guestCount"`
	BedroomCount  string                  `json:"bedroomCount"`
	BedCount      string                  `json:"bedCount"`
	BathroomCount string                  `json:"bathroomCount"`
	Amenities     StringList              `json:"amenities"     swaggertype:"array,string"`
	Title         string                  `json:"title"         validate:"required"`
	Description   string                  `json:"description"   validate:"required"`
	Highlight     string                  `json:"highlight"`
	HighlightDesc string                  `json:"highlightDesc"`
	Price         string                  `json:"price"         validate:"required"`
	ListingPhotos []*multipart.FileHeader `json:"listingPhotos" validate:"required,min=1,dive,maxfilesize=10" swaggerignore:"true"`
}

func NewCreateListingRequest(fields Fields, photos []*multipart.FileHeader) CreateListingRequest {
	return CreateListingRequest{
		Category:      fields.Get(model.FieldCategory),
		Type:          fields.Get(model.FieldType),
		StreetAddress: fields.Get("streetAddress"),
		AptSuite:      fields.Get("aptSuite"),
		City:          fields.Get(model.FieldCity),
		Province:      fields.Get(model.FieldProvince),
		Country:       fields.Get(model.FieldCountry),
		GuestCount:    fields.Get("guestCount"),
		BedroomCount:  fields.Get("bedroomCount"),
		BedCount:      fields.Get("bedCount"),
		BathroomCount: fields.Get("bathroomCount"),
		Amenities:     fields.List(constant.FormAmenities),
		Title:         fields.Get(model.FieldTitle),
		Description:   fields.Get(model.FieldDescription),
		Highlight:     fields.Get(model.FieldHighlight),
		HighlightDesc: fields.Get("highlightDesc"),
		Price:         fields.Get(model.FieldPrice),
		ListingPhotos: photos,
	}
}

// ToModel builds the listing record. photoPaths are the stored photos in upload order.
func (c *CreateListingRequest) ToModel(creator string, photoPaths []string) model.Listing {
	amenities := []string{}
	if c.Amenities.Present() {
		amenities = c.Amenities.DecodeOrRaw(constant.FormAmenities)
	}

	now := timezone.Now()

	return model.Listing{
		ID:                uuid.NewString(),
		Creator:           creator,
		Category:          c.Category,
		Type:              c.Type,
		StreetAddress:     c.StreetAddress,
		AptSuite:          c.AptSuite,
		City:              c.City,
		Province:          c.Province,
		Country:           c.Country,
		GuestCount:        coerceInt("guestCount", c.GuestCount),
		BedroomCount:      coerceInt("bedroomCount", c.BedroomCount),
		BedCount:          coerceInt("bedCount", c.BedCount),
		BathroomCount:     coerceInt("bathroomCount", c.BathroomCount),
		Amenities:         model.StringArray(amenities),
		ListingPhotoPaths: model.StringArray(photoPaths),
		Title:             c.Title,
		Description:       c.Description,
		Highlight:         c.Highlight,
		HighlightDesc:     c.HighlightDesc,
		Price:             coerceFloat(model.FieldPrice, c.Price),
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  creator,
			ModifiedBy: creator,
		},
	}
}

// UpdateListingRequest carries a partial update: the field patch, photos to append and stored paths to drop.
type UpdateListingRequest struct {
	Patch         model.Patch             `json:"-"`
	RemovedPhotos []string                `json:"removedPhotos"`
	ListingPhotos []*multipart.FileHeader `json:"listingPhotos" swaggerignore:"true" validate:"omitempty,dive,maxfilesize=10"`
}

func NewUpdateListingRequest(fields Fields, photos []*multipart.FileHeader) UpdateListingRequest {
	patch := model.Patch{
		Category:      fields.lookupString(model.FieldCategory),
		Type:          fields.lookupString(model.FieldType),
		StreetAddress: fields.lookupString("streetAddress"),
		AptSuite:      fields.lookupString("aptSuite"),
		City:          fields.lookupString(model.FieldCity),
		Province:      fields.lookupString(model.FieldProvince),
		Country:       fields.lookupString(model.FieldCountry),
		GuestCount:    fields.lookupInt("guestCount"),
		BedroomCount:  fields.lookupInt("bedroomCount"),
		BedCount:      fields.lookupInt("bedCount"),
		BathroomCount: fields.lookupInt("bathroomCount"),
		Title:         fields.lookupString(model.FieldTitle),
		Description:   fields.lookupString(model.FieldDescription),
		Highlight:     fields.lookupString(model.FieldHighlight),
		HighlightDesc: fields.lookupString("highlightDesc"),
		Price:         fields.lookupFloat(model.FieldPrice),
	}

	if amenities := fields.List(constant.FormAmenities); amenities.Present() {
		items := amenities.DecodeOrRaw(constant.FormAmenities)
		patch.Amenities = &items
	}

	return UpdateListingRequest{
		Patch:         patch,
		RemovedPhotos: fields.List(constant.FormRemovedPhotos).DecodeOrEmpty(constant.FormRemovedPhotos),
		ListingPhotos: photos,
	}
}

type CreatorResponse struct {
	ID               string `json:"id"`
	FirstName        string `json:"firstName,omitempty"`
	LastName         string `json:"lastName,omitempty"`
	Email            string `json:"email,omitempty"`
	ProfileImagePath string `json:"profileImagePath,omitempty"`
}

type ListingResponse struct {
	ID                string          `json:"id"`
	Creator           CreatorResponse `json:"creator"`
	Category          string          `json:"category"`
	Type              string          `json:"type"`
	StreetAddress     string          `json:"streetAddress"`
	AptSuite          string          `json:"aptSuite"`
	City              string          `json:"city"`
	Province          string          `json:"province"`
	Country           string          `json:"country"`
	GuestCount        int             `json:"guestCount"`
	BedroomCount      int             `json:"bedroomCount"`
	BedCount          int             `json:"bedCount"`
	BathroomCount     int             `json:"bathroomCount"`
	Amenities         []string        `json:"amenities"`
	ListingPhotoPaths []string        `json:"listingPhotoPaths"`
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	Highlight         string          `json:"highlight"`
	HighlightDesc     string          `json:"highlightDesc"`
	Price             float64         `json:"price"`
	gDto.Metadata
}

func (r *ListingResponse) FromModel(m model.Listing) {
	r.ID = m.ID
	r.Creator = CreatorResponse{ID: m.Creator}
	r.Category = m.Category
	r.Type = m.Type
	r.StreetAddress = m.StreetAddress
	r.AptSuite = m.AptSuite
	r.City = m.City
	r.Province = m.Province
	r.Country = m.Country
	r.GuestCount = m.GuestCount
	r.BedroomCount = m.BedroomCount
	r.BedCount = m.BedCount
	r.BathroomCount = m.BathroomCount
	r.Amenities = model.StringArray(m.Amenities)
	r.ListingPhotoPaths = model.StringArray(m.ListingPhotoPaths)
	r.Title = m.Title
	r.Description = m.Description
	r.Highlight = m.Highlight
	r.HighlightDesc = m.HighlightDesc
	r.Price = m.Price
	r.Metadata.FromModel(m.Metadata)
}

// FromDetail fills the response and populates the creator from the joined user row.
func (r *ListingResponse) FromDetail(d model.ListingDetail) {
	r.FromModel(d.Listing)

	r.Creator.FirstName = deref(d.CreatorFirstName)
	r.Creator.LastName = deref(d.CreatorLastName)
	r.Creator.Email = deref(d.CreatorEmail)
	r.Creator.ProfileImagePath = deref(d.CreatorProfileImagePath)
}

func FromDetails(details []model.ListingDetail) []ListingResponse {
	res := make([]ListingResponse, len(details))
	for i, d := range details {
		res[i].FromDetail(d)
	}

	return res
}

func deref(s *string) string {
	if s == nil {
		return constant.Empty
	}

	return *s
}
