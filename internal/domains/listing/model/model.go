package model

import (
	"fmt"
	"rentals/shared/constant"
	"rentals/shared/failure"
	"rentals/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "listings"
	EntityName = "listing"

	// PhotoDirectory is where listing photos live inside the object store.
	PhotoDirectory = "listings"

	// CachePrefix namespaces every cached listing read.
	CachePrefix = "listing"

	FieldID                = "id"
	FieldCreator           = "creator"
	FieldCategory          = "category"
	FieldType              = "type"
	FieldStreetAddress     = "street_address"
	FieldAptSuite          = "apt_suite"
	FieldCity              = "city"
	FieldProvince          = "province"
	FieldCountry           = "country"
	FieldGuestCount        = "guest_count"
	FieldBedroomCount      = "bedroom_count"
	FieldBedCount          = "bed_count"
	FieldBathroomCount     = "bathroom_count"
	FieldAmenities         = "amenities"
	FieldListingPhotoPaths = "listing_photo_paths"
	FieldTitle             = "title"
	FieldDescription       = "description"
	FieldHighlight         = "highlight"
	FieldHighlightDesc     = "highlight_desc"
	FieldPrice             = "price"
)

type Listing struct {
	ID                string         `db:"id"`
	Creator           string         `db:"creator"`
	Category          string         `db:"category"`
	Type              string         `db:"type"`
	StreetAddress     string         `db:"street_address"`
	AptSuite          string         `db:"apt_suite"`
	City              string         `db:"city"`
	Province          string         `db:"province"`
	Country           string         `db:"country"`
	GuestCount        int            `db:"guest_count"`
	BedroomCount      int            `db:"bedroom_count"`
	BedCount          int            `db:"bed_count"`
	BathroomCount     int            `db:"bathroom_count"`
	Amenities         pq.StringArray `db:"amenities"`
	ListingPhotoPaths pq.StringArray `db:"listing_photo_paths"`
	Title             string         `db:"title"`
	Description       string         `db:"description"`
	Highlight         string         `db:"highlight"`
	HighlightDesc     string         `db:"highlight_desc"`
	Price             float64        `db:"price"`
	model.Metadata
}

// ListingDetail is a listing read together with its creator's public profile.
type ListingDetail struct {
	Listing
	CreatorFirstName        *string `db:"creator_first_name"         table:"users" column:"first_name"`
	CreatorLastName         *string `db:"creator_last_name"          table:"users" column:"last_name"`
	CreatorEmail            *string `db:"creator_email"              table:"users" column:"email"`
	CreatorProfileImagePath *string `db:"creator_profile_image_path" table:"users" column:"profile_image_path"`
}

func (ListingDetail) GetJoinQuery() string {
	return "LEFT JOIN users ON users.id = listings.creator"
}

// Validate enforces the numeric invariants a stored listing must keep.
func (l Listing) Validate() error {
	counts := []struct {
		name  string
		value int
	}{
		{"guestCount", l.GuestCount},
		{"bedroomCount", l.BedroomCount},
		{"bedCount", l.BedCount},
		{"bathroomCount", l.BathroomCount},
	}

	for _, c := range counts {
		if c.value < 0 {
			return failure.BadRequestFromString(fmt.Sprintf("%s must not be negative", c.name))
		}
	}

	if l.Price < 0 {
		return failure.BadRequestFromString("price must not be negative")
	}

	return nil
}

// Document is the full set of mutable columns, written back as one whole-document save.
func (l Listing) Document() map[string]any {
	return map[string]any{
		FieldCategory:            l.Category,
		FieldType:                l.Type,
		FieldStreetAddress:       l.StreetAddress,
		FieldAptSuite:            l.AptSuite,
		FieldCity:                l.City,
		FieldProvince:            l.Province,
		FieldCountry:             l.Country,
		FieldGuestCount:          l.GuestCount,
		FieldBedroomCount:        l.BedroomCount,
		FieldBedCount:            l.BedCount,
		FieldBathroomCount:       l.BathroomCount,
		FieldAmenities:           StringArray(l.Amenities),
		FieldListingPhotoPaths:   StringArray(l.ListingPhotoPaths),
		FieldTitle:               l.Title,
		FieldDescription:         l.Description,
		FieldHighlight:           l.Highlight,
		FieldHighlightDesc:       l.HighlightDesc,
		FieldPrice:               l.Price,
		constant.FieldModifiedAt: l.ModifiedAt,
		constant.FieldModifiedBy: l.ModifiedBy,
	}
}

// StringArray never returns nil so text[] columns are written as '{}' rather than NULL.
func StringArray(items []string) pq.StringArray {
	if items == nil {
		return pq.StringArray{}
	}

	return pq.StringArray(items)
}
