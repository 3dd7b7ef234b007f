package permissions

import (
	_ "embed"
	"encoding/json"
	"rentals/shared/failure"
	"slices"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission marks a route pattern; Skip routes are served without a bearer token.
type Permission struct {
	Path   string `json:"path"`
	Method string `json:"method"`
	Skip   bool   `json:"skip"`
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`
}

func (r *PermissionData) FindPermissions(path, method string) Permission {
	idx := slices.IndexFunc(r.Endpoints, func(rp Permission) bool {
		return rp.Path == path && rp.Method == method
	})

	if idx == -1 {
		return Permission{}
	}

	return r.Endpoints[idx]
}

// IsPublic reports whether the route needs no authentication.
func (r *PermissionData) IsPublic(path, method string) bool {
	if r == nil {
		return false
	}

	return r.Skip || r.FindPermissions(path, method).Skip
}

func Get() *PermissionData {
	return parse(permissionsData)
}

func parse(data []byte) *PermissionData {
	var permissions PermissionData

	err := json.Unmarshal(data, &permissions)
	if err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return &permissions
}

// RequireOwner authorizes a mutation only when the acting subject is the resource owner.
func RequireOwner(subject, owner string) error {
	if subject != owner {
		return failure.ResourceRestrictedError
	}

	return nil
}
