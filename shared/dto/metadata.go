package dto

import (
	"rentals/shared/constant"
	"rentals/shared/model"
	"rentals/shared/timezone"
)

// Metadata is the audit block embedded in every response, rendered in the app timezone.
type Metadata struct {
	CreatedAt  string `json:"createdAt"`
	ModifiedAt string `json:"updatedAt"`
	CreatedBy  string `json:"createdBy,omitempty"`
	ModifiedBy string `json:"updatedBy,omitempty"`
}

func (m *Metadata) FromModel(row model.Metadata) {
	*m = Metadata{
		CreatedAt:  timezone.Format(row.CreatedAt, constant.DateFormat),
		ModifiedAt: timezone.Format(row.ModifiedAt, constant.DateFormat),
		CreatedBy:  row.CreatedBy,
		ModifiedBy: row.ModifiedBy,
	}
}
