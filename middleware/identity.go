package middleware

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"stayvia/backend"
	"stayvia/booking"
	"stayvia/globals"
	"stayvia/models"
	"stayvia/utils"
)

// Identity resolves the caller through the backend's /profile endpoint.
// stayvia never checks credentials itself; it forwards them.
type Identity struct {
	backend *backend.Client
}

func NewIdentity(b *backend.Client) *Identity {
	return &Identity{backend: b}
}

// CredentialsOf copies the session credentials of r.
func CredentialsOf(r *http.Request) backend.Credentials {
	return backend.Credentials{
		Cookie:        r.Header.Get("Cookie"),
		Authorization: r.Header.Get("Authorization"),
	}
}

// Optional stores the caller's credentials and, when the backend accepts
// them, the caller's profile. Anonymous callers pass through.
func (id *Identity) Optional(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		creds := CredentialsOf(r)
		ctx := backend.ContextWithCredentials(r.Context(), creds)
		if creds != (backend.Credentials{}) {
			profile, err := id.backend.WithCredentials(creds).Profile(ctx)
			switch {
			case err == nil:
				ctx = context.WithValue(ctx, globals.ProfileKey, &profile)
			case backend.KindOf(err) != backend.KindUnauthorized:
				utils.Log(ctx).WithError(err).Warn("profile lookup failed; treating caller as anonymous")
			}
		}
		next(w, r.WithContext(ctx), ps)
	}
}

// Require is Optional plus a 401 auth_required for anonymous callers.
func (id *Identity) Require(next httprouter.Handle) httprouter.Handle {
	return id.Optional(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if utils.GetProfileFromRequest(r) == nil {
			utils.RespondWithErrorBody(w, http.StatusUnauthorized, booking.AuthRequired().Body())
			return
		}
		next(w, r, ps)
	})
}

// WithProfile returns ctx carrying p, as Optional would.
func WithProfile(ctx context.Context, p *models.Profile) context.Context {
	return context.WithValue(ctx, globals.ProfileKey, p)
}
