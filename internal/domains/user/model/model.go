package model

import (
	"rentals/shared/model"
	"slices"

	"github.com/lib/pq"
)

const (
	TableName  = "users"
	EntityName = "user"

	// ProfileDirectory is where profile images live inside the object store.
	ProfileDirectory = "profiles"

	CachePrefix = "user"

	FieldID               = "id"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldEmail            = "email"
	FieldPassword         = "password"
	FieldProfileImagePath = "profile_image_path"
	FieldWishList         = "wish_list"
)

type User struct {
	ID               string         `db:"id"`
	FirstName        string         `db:"first_name"`
	LastName         string         `db:"last_name"`
	Email            string         `db:"email"`
	Password         string         `db:"password"`
	ProfileImagePath string         `db:"profile_image_path"`
	WishList         pq.StringArray `db:"wish_list"`
	model.Metadata
}

// ToggleWish removes listingID from the wish list when present and appends it otherwise.
func (u User) ToggleWish(listingID string) (pq.StringArray, bool) {
	if slices.Contains(u.WishList, listingID) {
		return slices.DeleteFunc(slices.Clone(u.WishList), func(id string) bool { return id == listingID }), false
	}

	return append(slices.Clone(u.WishList), listingID), true
}
