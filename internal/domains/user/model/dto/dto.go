package dto

import (
	"mime/multipart"
	"rentals/internal/domains/user/model"
	gDto "rentals/shared/dto"
)

type UserResponse struct {
	ID               string   `json:"id"`
	FirstName        string   `json:"firstName"`
	LastName         string   `json:"lastName"`
	Email            string   `json:"email"`
	ProfileImagePath string   `json:"profileImagePath"`
	WishList         []string `json:"wishList"`
	gDto.Metadata
}

func (r *UserResponse) FromModel(user model.User) {
	r.ID = user.ID
	r.FirstName = user.FirstName
	r.LastName = user.LastName
	r.Email = user.Email
	r.ProfileImagePath = user.ProfileImagePath

	r.WishList = []string{}
	if user.WishList != nil {
		r.WishList = user.WishList
	}

	r.Metadata.FromModel(user.Metadata)
}

// UpdateProfileRequest is a self-service profile edit. Empty fields are left as they are.
type UpdateProfileRequest struct {
	FirstName    string                `json:"firstName"    validate:"omitempty,max=100"`
	LastName     string                `json:"lastName"     validate:"omitempty,max=100"`
	Email        string                `json:"email"        validate:"omitempty,email"`
	ProfileImage *multipart.FileHeader `json:"profileImage" swaggerignore:"true"`
}

// ProfileChanges is the column view of a profile edit; zero fields are not written.
type ProfileChanges struct {
	FirstName        string `db:"first_name"`
	LastName         string `db:"last_name"`
	Email            string `db:"email"`
	ProfileImagePath string `db:"profile_image_path"`
}

func (r *UpdateProfileRequest) ToChanges(profileImagePath string) ProfileChanges {
	return ProfileChanges{
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            r.Email,
		ProfileImagePath: profileImagePath,
	}
}

// Apply returns user with the non-empty changes written over it.
func (c ProfileChanges) Apply(user model.User) model.User {
	for dst, src := range map[*string]string{
		&user.FirstName:        c.FirstName,
		&user.LastName:         c.LastName,
		&user.Email:            c.Email,
		&user.ProfileImagePath: c.ProfileImagePath,
	} {
		if src != "" {
			*dst = src
		}
	}

	return user
}

type WishListResponse struct {
	Message  string   `json:"message"`
	Added    bool     `json:"added"`
	WishList []string `json:"wishList"`
}

type ProfileUpdatedResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}
