package receipts

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"stayvia/backend"
	"stayvia/booking"
	"stayvia/models"
	"stayvia/utils"
)

// Handlers serves receipt artifacts for a booking id. Bookings are always
// re-read from the backend; nothing here changes them.
type Handlers struct {
	backend   *backend.Client
	sender    Sender
	publicURL string
	now       func() time.Time
}

func NewHandlers(b *backend.Client, sender Sender, publicURL string, loc *time.Location) *Handlers {
	if loc == nil {
		loc = time.Local
	}
	return &Handlers{
		backend:   b,
		sender:    sender,
		publicURL: publicURL,
		now:       func() time.Time { return time.Now().In(loc) },
	}
}

func (h *Handlers) load(r *http.Request, ps httprouter.Params) (Receipt, error) {
	ctx := r.Context()
	b, err := h.backend.For(ctx).VerifyBooking(ctx, "booking", ps.ByName("bookingId"))
	if err != nil {
		return Receipt{}, err
	}
	return New(b, utils.GetProfileFromRequest(r), h.publicURL), nil
}

func (h *Handlers) PDF(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rec, err := h.load(r, ps)
	if err != nil {
		respondLookupError(w, r, err)
		return
	}
	doc, err := PDF(rec, h.now())
	if err != nil {
		utils.Log(r.Context()).WithError(err).Error("receipt pdf")
		utils.RespondWithError(w, http.StatusInternalServerError, "pdf_failed", "Could not generate the receipt PDF.")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=Receipt_"+rec.Booking.TransactionID+".pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (h *Handlers) QR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rec, err := h.load(r, ps)
	if err != nil {
		respondLookupError(w, r, err)
		return
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	png, err := QRCode(rec.VerifyURL, size)
	if err != nil {
		utils.Log(r.Context()).WithError(err).Error("receipt qr")
		utils.RespondWithError(w, http.StatusInternalServerError, "qr_failed", "Could not generate the QR code.")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// callerSheet and callerClipboard stand in for the browser: they record
// what the caller should share or copy.
type callerSheet struct {
	native  bool
	content *Content
}

func (s *callerSheet) Available() bool { return s.native }

func (s *callerSheet) Share(_ context.Context, c Content) error {
	s.content = &c
	return nil
}

type callerClipboard struct {
	text string
}

func (c *callerClipboard) WriteText(_ context.Context, text string) error {
	c.text = text
	return nil
}

// Share answers with what the caller should do: hand the content to its
// native share sheet, or copy the text when it has none.
func (h *Handlers) Share(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		Native bool `json:"native"`
	}
	if err := utils.DecodeJSON(r, &body, true); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	rec, err := h.load(r, ps)
	if err != nil {
		respondLookupError(w, r, err)
		return
	}
	sheet := &callerSheet{native: body.Native}
	clip := &callerClipboard{}
	outcome, err := Share(r.Context(), sheet, clip, ShareContent(rec))
	if err != nil {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"outcome": outcome, "error": err.Error()})
		return
	}
	resp := utils.M{"outcome": outcome}
	if sheet.content != nil {
		resp["content"] = sheet.content
	}
	if clip.text != "" {
		resp["clipboardText"] = clip.text
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CopyID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rec, err := h.load(r, ps)
	if err != nil {
		respondLookupError(w, r, err)
		return
	}
	clip := &callerClipboard{}
	if err := CopyBookingID(r.Context(), clip, rec.Booking.ID); err != nil {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "nothing_to_copy", err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"clipboardText": clip.text})
}

// Email sends the receipt to the signed-in user's own address, and only for
// one of their own bookings. Delivery problems are reported in the body with
// status 200; the booking is confirmed either way.
func (h *Handlers) Email(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := r.Context()
	profile := utils.GetProfileFromRequest(r)
	if profile == nil {
		utils.RespondWithErrorBody(w, http.StatusUnauthorized, booking.AuthRequired().Body())
		return
	}
	own, err := h.backend.For(ctx).ListBookings(ctx)
	if err != nil {
		respondLookupError(w, r, err)
		return
	}
	id := ps.ByName("bookingId")
	idx := slices.IndexFunc(own, func(b models.Booking) bool { return b.ID == id })
	if idx < 0 {
		utils.RespondWithError(w, http.StatusNotFound, "not_found", "Booking not found.")
		return
	}
	rec := New(own[idx], profile, h.publicURL)
	if profile.Email == "" {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"sent": false, "error": "No email address to send the receipt to."})
		return
	}
	if err := h.sender.Send(ctx, rec, profile.Email); err != nil {
		utils.Log(ctx).WithError(err).WithField("booking", id).Warn("receipt email failed")
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"sent": false, "error": "Could not send the receipt email. Please try again."})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"sent": true, "email": profile.Email})
}

func respondLookupError(w http.ResponseWriter, r *http.Request, err error) {
	switch backend.KindOf(err) {
	case backend.KindNotFound:
		msg := backend.MessageOf(err)
		if msg == "" {
			msg = "Booking not found."
		}
		utils.RespondWithError(w, http.StatusNotFound, "not_found", msg)
	case backend.KindUnauthorized:
		utils.RespondWithErrorBody(w, http.StatusUnauthorized, booking.AuthRequired().Body())
	default:
		utils.Log(r.Context()).WithError(err).Warn("receipt lookup failed")
		utils.RespondWithError(w, http.StatusBadGateway, "failed", "Failed to load booking.")
	}
}
