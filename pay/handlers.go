package pay

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"stayvia/booking"
	"stayvia/drafts"
	"stayvia/utils"
)

const msgDraftMissing = "Your checkout session has expired. Please start the booking again."

// GetDraft renders the AwaitingPayment page for a handoff token.
func (s *Service) GetDraft(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	profile := utils.GetProfileFromRequest(r)
	if profile == nil {
		utils.RespondWithErrorBody(w, http.StatusUnauthorized, booking.AuthRequired().Body())
		return
	}
	v, err := s.View(r.Context(), profile.ID, ps.ByName("token"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, v)
}

// Pay commits the draft behind the handoff token.
func (s *Service) Pay(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	profile := utils.GetProfileFromRequest(r)
	if profile == nil {
		utils.RespondWithErrorBody(w, http.StatusUnauthorized, booking.AuthRequired().Body())
		return
	}
	ctx := r.Context()
	res, err := s.Commit(ctx, profile.ID, ps.ByName("token"), s.backend.For(ctx))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

func (s *Service) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		local  *LocalError
		commit *CommitError
	)
	switch {
	case errors.Is(err, drafts.ErrDraftMissing):
		utils.RespondWithError(w, http.StatusNotFound, "draft_missing", msgDraftMissing)
	case errors.Is(err, ErrInFlight):
		utils.RespondWithJSON(w, http.StatusConflict, utils.M{
			"state": Processing,
			"busy":  true,
			"error": utils.ErrorBody{Kind: "in_flight", Message: err.Error()},
		})
	case errors.Is(err, ErrAlreadyConfirmed):
		utils.RespondWithError(w, http.StatusConflict, "already_confirmed", err.Error())
	case errors.As(err, &local):
		utils.RespondWithJSON(w, http.StatusUnprocessableEntity, utils.M{
			"state": AwaitingPayment,
			"error": utils.ErrorBody{Kind: "invalid_draft", Message: local.Message},
		})
	case errors.As(err, &commit):
		status := http.StatusBadGateway
		body := utils.ErrorBody{Kind: string(commit.Kind), Message: commit.Message}
		switch {
		case commit.Kind == CommitAuth:
			status = http.StatusUnauthorized
			body = booking.AuthRequired().Body()
		case commit.Timeout:
			status = http.StatusGatewayTimeout
		case commit.Kind == CommitNetwork:
			status = http.StatusServiceUnavailable
		}
		utils.RespondWithJSON(w, status, utils.M{"state": AwaitingPayment, "busy": false, "error": body})
	default:
		utils.Log(r.Context()).WithError(err).Error("checkout failed")
		utils.RespondWithError(w, http.StatusInternalServerError, "internal", "Something went wrong. Please try again.")
	}
}
