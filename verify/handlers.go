package verify

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"stayvia/backend"
	"stayvia/utils"
)

type Handlers struct {
	backend   *backend.Client
	publicURL string
}

func NewHandlers(b *backend.Client, publicURL string) *Handlers {
	return &Handlers{backend: b, publicURL: publicURL}
}

// Verify handles GET /api/verify?tx=...|booking=...
func (h *Handlers) Verify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ref, err := ParseRef(r.URL.Query())
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "ref_missing", MsgRefMissing)
		return
	}
	ctx := r.Context()
	b, err := Lookup(ctx, h.backend.For(ctx), ref)
	var verr *Error
	switch {
	case err == nil:
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"booking": b, "view": View(b, h.publicURL)})
	case errors.As(err, &verr) && verr.Kind == NotFound:
		utils.RespondWithError(w, http.StatusNotFound, string(NotFound), verr.Message)
	case errors.As(err, &verr):
		utils.Log(ctx).WithError(err).Warn("booking verification failed")
		utils.RespondWithError(w, http.StatusBadGateway, string(Failed), verr.Message)
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "ref_missing", MsgRefMissing)
	}
}
