// Package bookings serves the booking widget endpoints and the signed-in
// user's booking list.
package bookings

import (
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"stayvia/backend"
	"stayvia/booking"
	"stayvia/drafts"
	"stayvia/models"
	"stayvia/utils"
)

const msgCanceled = "Your booking has been canceled. The refund will be processed in 4 to 7 working days."

type Handlers struct {
	backend     *backend.Client
	handoff     *drafts.Handoff
	verifyPrice bool
	now         func() time.Time
}

// NewHandlers builds the handlers. loc decides which calendar day is
// "today" for date checks. With verifyPrice set, drafts are priced from
// the backend's listing rather than the price the browser sent.
func NewHandlers(b *backend.Client, h *drafts.Handoff, verifyPrice bool, loc *time.Location) *Handlers {
	if loc == nil {
		loc = time.Local
	}
	return &Handlers{
		backend:     b,
		handoff:     h,
		verifyPrice: verifyPrice,
		now:         func() time.Time { return time.Now().In(loc) },
	}
}

func (h *Handlers) widget(w http.ResponseWriter, r *http.Request) (*booking.Widget, bool) {
	var req booking.Request
	if err := utils.DecodeJSON(r, &req, false); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return nil, false
	}
	item, err := req.Item()
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return nil, false
	}
	return booking.FromRequest(item, req, h.now), true
}

// Quote prices the posted widget state without validating it.
func (h *Handlers) Quote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	wg, ok := h.widget(w, r)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"quote": wg.Quote(),
		"today": wg.Today(),
		"unit":  wg.Item().Kind.Unit(),
	})
}

// CreateDraft validates the widget and stashes the draft for checkout.
func (h *Handlers) CreateDraft(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	wg, ok := h.widget(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	profile := utils.GetProfileFromRequest(r)
	wg.Prefill(profile)

	draft, err := wg.Submit(profile)
	if err != nil {
		var ve *booking.ValidationError
		if !errors.As(err, &ve) {
			utils.Log(ctx).WithError(err).Error("submit booking widget")
			utils.RespondWithError(w, http.StatusInternalServerError, "internal", "Booking failed. Please try again.")
			return
		}
		status := http.StatusUnprocessableEntity
		if ve.Kind == booking.KindAuthRequired {
			status = http.StatusUnauthorized
		}
		utils.Log(ctx).WithField("kind", ve.Kind).Debug("booking widget rejected")
		utils.RespondWithErrorBody(w, status, ve.Body())
		return
	}

	if h.verifyPrice {
		item, err := h.backend.For(ctx).Item(ctx, draft.Kind, draft.ItemID)
		if err != nil {
			respondBackendError(w, r, err, "Could not load the listing. Please try again.")
			return
		}
		draft.UnitPrice = item.Price
		if item.Title != "" {
			draft.ItemTitle = item.Title
		}
	}

	token, expires, err := h.handoff.Stash(ctx, profile.ID, draft)
	if err != nil {
		utils.Log(ctx).WithError(err).Error("stash checkout draft")
		utils.RespondWithError(w, http.StatusServiceUnavailable, "draft_unavailable", "Could not start checkout. Please try again.")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"token":     token,
		"draft":     draft,
		"quote":     draft.Quote(),
		"expiresAt": expires,
	})
}

type listedBooking struct {
	models.Booking
	CanReview bool `json:"canReview"`
}

func (h *Handlers) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	list, err := h.backend.For(ctx).ListBookings(ctx)
	if err != nil {
		respondBackendError(w, r, err, "Failed to load bookings.")
		return
	}
	now := h.now()
	out := make([]listedBooking, 0, len(list))
	for _, b := range list {
		out = append(out, listedBooking{Booking: b, CanReview: b.CanReview(now)})
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"bookings": out})
}

func (h *Handlers) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	if err := h.backend.For(ctx).CancelBooking(ctx, ps.ByName("id")); err != nil {
		respondBackendError(w, r, err, "Failed to cancel. Please try again.")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"canceled": true, "message": msgCanceled})
}

func (h *Handlers) Review(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var review models.ReviewRequest
	if err := utils.DecodeJSON(r, &review, false); err != nil {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "invalid_review", err.Error())
		return
	}
	ctx := r.Context()
	if err := h.backend.For(ctx).SubmitReview(ctx, ps.ByName("id"), review); err != nil {
		respondBackendError(w, r, err, "Failed to save. Please try again.")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"reviewSubmitted": true})
}

// Me returns the caller's profile.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	p := utils.GetProfileFromRequest(r)
	if p == nil {
		utils.RespondWithErrorBody(w, http.StatusUnauthorized, booking.AuthRequired().Body())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

func respondBackendError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	msg := backend.MessageOf(err)
	switch backend.KindOf(err) {
	case backend.KindUnauthorized:
		utils.RespondWithErrorBody(w, http.StatusUnauthorized, booking.AuthRequired().Body())
		return
	case backend.KindNotFound:
		if msg == "" {
			msg = "Not found."
		}
		utils.RespondWithError(w, http.StatusNotFound, "not_found", msg)
		return
	case backend.KindNetwork:
		utils.Log(r.Context()).WithError(err).Warn("backend unreachable")
		utils.RespondWithError(w, http.StatusServiceUnavailable, "network", "Could not reach the booking service. Check your connection and try again.")
		return
	}
	utils.Log(r.Context()).WithError(err).Warn("backend call failed")
	if msg == "" {
		msg = fallback
	}
	utils.RespondWithError(w, http.StatusBadGateway, "server", msg)
}
