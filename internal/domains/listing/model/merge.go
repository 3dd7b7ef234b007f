package model

import (
	"reflect"
	"slices"
)

// PatchPolicy decides which present patch fields overwrite the stored value.
type PatchPolicy int

const (
	// PatchSkipZero applies a field only when it is present and not its zero value, so "" and 0 never clear a field.
	PatchSkipZero PatchPolicy = iota
	// PatchApplyPresent applies every present field, zero values included.
	PatchApplyPresent
)

// PolicyFromConfig maps the configuration switch onto a policy.
func PolicyFromConfig(applyZeroPatches bool) PatchPolicy {
	if applyZeroPatches {
		return PatchApplyPresent
	}

	return PatchSkipZero
}

// Patch holds the fields a client sent. A nil field was absent from the request.
type Patch struct {
	Category      *string
	Type          *string
	StreetAddress *string
	AptSuite      *string
	City          *string
	Province      *string
	Country       *string
	GuestCount    *int
	BedroomCount  *int
	BedCount      *int
	BathroomCount *int
	Amenities     *[]string
	Title         *string
	Description   *string
	Highlight     *string
	HighlightDesc *string
	Price         *float64
}

func apply[T comparable](dst *T, value *T, policy PatchPolicy) {
	if value == nil {
		return
	}

	var zero T
	if policy == PatchSkipZero && *value == zero {
		return
	}

	*dst = *value
}

// Merge applies patch and reconciles photos on a copy of current: newPhotos are appended in upload
// order, then every path in removed is filtered out. It returns the merged listing and the distinct
// paths that were actually dropped from the sequence.
func Merge(current Listing, patch Patch, newPhotos, removed []string, policy PatchPolicy) (Listing, []string) {
	merged := current
	merged.Amenities = slices.Clone(current.Amenities)

	photos := slices.Concat([]string(current.ListingPhotoPaths), newPhotos)

	var dropped []string

	photos = slices.DeleteFunc(photos, func(path string) bool {
		if !slices.Contains(removed, path) {
			return false
		}

		if !slices.Contains(dropped, path) {
			dropped = append(dropped, path)
		}

		return true
	})

	merged.ListingPhotoPaths = StringArray(photos)

	apply(&merged.Category, patch.Category, policy)
	apply(&merged.Type, patch.Type, policy)
	apply(&merged.StreetAddress, patch.StreetAddress, policy)
	apply(&merged.AptSuite, patch.AptSuite, policy)
	apply(&merged.City, patch.City, policy)
	apply(&merged.Province, patch.Province, policy)
	apply(&merged.Country, patch.Country, policy)
	apply(&merged.GuestCount, patch.GuestCount, policy)
	apply(&merged.BedroomCount, patch.BedroomCount, policy)
	apply(&merged.BedCount, patch.BedCount, policy)
	apply(&merged.BathroomCount, patch.BathroomCount, policy)
	apply(&merged.Title, patch.Title, policy)
	apply(&merged.Description, patch.Description, policy)
	apply(&merged.Highlight, patch.Highlight, policy)
	apply(&merged.HighlightDesc, patch.HighlightDesc, policy)
	apply(&merged.Price, patch.Price, policy)

	if patch.Amenities != nil {
		merged.Amenities = StringArray(slices.Clone(*patch.Amenities))
	}

	return merged, dropped
}

// IsEmpty reports whether the patch carries no field at all.
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Changed reports whether any persisted column differs between two versions of a listing.
func Changed(before, after Listing) bool {
	return !reflect.DeepEqual(before.Document(), after.Document())
}
