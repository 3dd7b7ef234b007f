package model

import (
	"rentals/shared/model"
	"time"

	"github.com/lib/pq"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	// CachePrefix namespaces cached trip and reservation lists.
	CachePrefix = "booking"

	FieldID         = "id"
	FieldCustomerID = "customer_id"
	FieldHostID     = "host_id"
	FieldListingID  = "listing_id"
	FieldStartDate  = "start_date"
	FieldEndDate    = "end_date"
	FieldTotalPrice = "total_price"
)

// Booking is immutable once stored. Its ids are not checked against users or listings.
type Booking struct {
	ID         string    `db:"id"`
	CustomerID string    `db:"customer_id"`
	HostID     string    `db:"host_id"`
	ListingID  string    `db:"listing_id"`
	StartDate  time.Time `db:"start_date"`
	EndDate    time.Time `db:"end_date"`
	TotalPrice float64   `db:"total_price"`
	model.Metadata
}

// BookingDetail is a booking read with its customer, host and listing populated.
type BookingDetail struct {
	Booking
	CustomerFirstName        *string        `db:"customer_first_name"         table:"customers" column:"first_name"`
	CustomerLastName         *string        `db:"customer_last_name"          table:"customers" column:"last_name"`
	CustomerEmail            *string        `db:"customer_email"              table:"customers" column:"email"`
	CustomerProfileImagePath *string        `db:"customer_profile_image_path" table:"customers" column:"profile_image_path"`
	HostFirstName            *string        `db:"host_first_name"             table:"hosts"     column:"first_name"`
	HostLastName             *string        `db:"host_last_name"              table:"hosts"     column:"last_name"`
	HostEmail                *string        `db:"host_email"                  table:"hosts"     column:"email"`
	HostProfileImagePath     *string        `db:"host_profile_image_path"     table:"hosts"     column:"profile_image_path"`
	ListingTitle             *string        `db:"listing_title"               table:"listings"  column:"title"`
	ListingCategory          *string        `db:"listing_category"            table:"listings"  column:"category"`
	ListingType              *string        `db:"listing_type"                table:"listings"  column:"type"`
	ListingCity              *string        `db:"listing_city"                table:"listings"  column:"city"`
	ListingProvince          *string        `db:"listing_province"            table:"listings"  column:"province"`
	ListingCountry           *string        `db:"listing_country"             table:"listings"  column:"country"`
	ListingPrice             *float64       `db:"listing_price"               table:"listings"  column:"price"`
	ListingPhotoPaths        pq.StringArray `db:"listing_photo_paths"         table:"listings"  column:"listing_photo_paths"`
}

func (BookingDetail) GetJoinQuery() string {
	return "LEFT JOIN users customers ON customers.id = bookings.customer_id " +
		"LEFT JOIN users hosts ON hosts.id = bookings.host_id " +
		"LEFT JOIN listings ON listings.id = bookings.listing_id"
}
