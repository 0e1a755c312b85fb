package utils

import (
	"net/http"

	"stayvia/globals"
	"stayvia/models"
)

// GetProfileFromRequest returns the identity resolved by middleware.Identify,
// or nil for an anonymous request.
func GetProfileFromRequest(r *http.Request) *models.Profile {
	p, ok := r.Context().Value(globals.ProfileKey).(*models.Profile)
	if !ok || p == nil || p.ID == "" {
		return nil
	}
	return p
}
