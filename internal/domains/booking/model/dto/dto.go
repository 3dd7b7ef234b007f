package dto

import (
	"errors"
	"fmt"
	"rentals/internal/domains/booking/model"
	listingDto "rentals/internal/domains/listing/model/dto"
	"rentals/shared/constant"
	gDto "rentals/shared/dto"
	gModel "rentals/shared/model"
	"rentals/shared/timezone"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidRange = errors.New("endDate must not be before startDate")
)

// dateLayouts accepts ISO days, full timestamps and the browser's Date.toDateString output.
var dateLayouts = []string{
	constant.DayFormat,
	constant.DateFormat,
	"Mon Jan 02 2006",
}

type CreateBookingRequest struct {
	CustomerID string  `json:"customerId"`
	HostID     string  `json:"hostId"     validate:"required"`
	ListingID  string  `json:"listingId"  validate:"required"`
	StartDate  string  `json:"startDate"  validate:"required"`
	EndDate    string  `json:"endDate"    validate:"required"`
	TotalPrice float64 `json:"totalPrice" validate:"gte=0"`
}

// ToModel binds the booking to the subject when the body names no customer.
func (c *CreateBookingRequest) ToModel(subject string) (model.Booking, error) {
	start, err := parseDate(c.StartDate)
	if err != nil {
		return model.Booking{}, fmt.Errorf("startDate: %w", err)
	}

	end, err := parseDate(c.EndDate)
	if err != nil {
		return model.Booking{}, fmt.Errorf("endDate: %w", err)
	}

	if end.Before(start) {
		return model.Booking{}, ErrInvalidRange
	}

	customer := c.CustomerID
	if customer == constant.Empty {
		customer = subject
	}

	now := timezone.Now()

	return model.Booking{
		ID:         uuid.NewString(),
		CustomerID: customer,
		HostID:     c.HostID,
		ListingID:  c.ListingID,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: c.TotalPrice,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  subject,
			ModifiedBy: subject,
		},
	}, nil
}

func parseDate(value string) (time.Time, error) {
	day, err := timezone.Day(value, dateLayouts...)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}

	return day, nil
}

type BookingResponse struct {
	ID         string  `json:"id"`
	CustomerID string  `json:"customerId"`
	HostID     string  `json:"hostId"`
	ListingID  string  `json:"listingId"`
	StartDate  string  `json:"startDate"`
	EndDate    string  `json:"endDate"`
	TotalPrice float64 `json:"totalPrice"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(m model.Booking) {
	r.ID = m.ID
	r.CustomerID = m.CustomerID
	r.HostID = m.HostID
	r.ListingID = m.ListingID
	r.StartDate = m.StartDate.Format(constant.DayFormat)
	r.EndDate = m.EndDate.Format(constant.DayFormat)
	r.TotalPrice = m.TotalPrice
	r.Metadata.FromModel(m.Metadata)
}

const EventBookingCreated = "booking.created"

// BookingEvent is published to the bookings topic, keyed by listing.
type BookingEvent struct {
	Type       string          `json:"type"`
	OccurredAt string          `json:"occurredAt"`
	Booking    BookingResponse `json:"booking"`
}

func NewBookingCreatedEvent(booking BookingResponse, occurredAt time.Time) BookingEvent {
	return BookingEvent{
		Type:       EventBookingCreated,
		OccurredAt: occurredAt.Format(constant.DateFormat),
		Booking:    booking,
	}
}

type ListingSummary struct {
	ID                string   `json:"id"`
	Title             string   `json:"title,omitempty"`
	Category          string   `json:"category,omitempty"`
	Type              string   `json:"type,omitempty"`
	City              string   `json:"city,omitempty"`
	Province          string   `json:"province,omitempty"`
	Country           string   `json:"country,omitempty"`
	Price             float64  `json:"price"`
	ListingPhotoPaths []string `json:"listingPhotoPaths"`
}

// BookingDetailResponse is a trip or reservation with its parties and listing populated.
type BookingDetailResponse struct {
	BookingResponse
	Customer listingDto.CreatorResponse `json:"customer"`
	Host     listingDto.CreatorResponse `json:"host"`
	Listing  ListingSummary             `json:"listing"`
}

func (r *BookingDetailResponse) FromDetail(d model.BookingDetail) {
	r.FromModel(d.Booking)

	r.Customer = listingDto.CreatorResponse{
		ID:               d.CustomerID,
		FirstName:        deref(d.CustomerFirstName),
		LastName:         deref(d.CustomerLastName),
		Email:            deref(d.CustomerEmail),
		ProfileImagePath: deref(d.CustomerProfileImagePath),
	}

	r.Host = listingDto.CreatorResponse{
		ID:               d.HostID,
		FirstName:        deref(d.HostFirstName),
		LastName:         deref(d.HostLastName),
		Email:            deref(d.HostEmail),
		ProfileImagePath: deref(d.HostProfileImagePath),
	}

	r.Listing = ListingSummary{
		ID:                d.ListingID,
		Title:             deref(d.ListingTitle),
		Category:          deref(d.ListingCategory),
		Type:              deref(d.ListingType),
		City:              deref(d.ListingCity),
		Province:          deref(d.ListingProvince),
		Country:           deref(d.ListingCountry),
		ListingPhotoPaths: []string(d.ListingPhotoPaths),
	}

	if d.ListingPrice != nil {
		r.Listing.Price = *d.ListingPrice
	}

	if r.Listing.ListingPhotoPaths == nil {
		r.Listing.ListingPhotoPaths = []string{}
	}
}

func FromDetails(details []model.BookingDetail) []BookingDetailResponse {
	res := make([]BookingDetailResponse, len(details))
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
