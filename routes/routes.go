package routes

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stayvia/middleware"
)

func AddUtilityRoutes(router *httprouter.Router) {
	router.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		fmt.Fprint(w, "200")
	})
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())
}

func AddCheckoutRoutes(router *httprouter.Router, s Services) {
	router.POST("/api/checkout/quote", s.Identity.Optional(s.Bookings.Quote))
	router.POST("/api/checkout/drafts",
		middleware.Chain(
			s.Limiter.Limit,
			s.Identity.Optional,
		)(s.Bookings.CreateDraft),
	)
	router.GET("/api/checkout/drafts/:token", s.Identity.Optional(s.Checkout.GetDraft))
	router.POST("/api/checkout/drafts/:token/pay",
		middleware.Chain(
			s.Limiter.Limit,
			s.Identity.Optional,
		)(s.Checkout.Pay),
	)
}

func AddBookingRoutes(router *httprouter.Router, s Services) {
	router.GET("/api/me", s.Identity.Optional(s.Bookings.Me))
	router.GET("/api/bookings", s.Identity.Require(s.Bookings.List))
	router.DELETE("/api/bookings/:id",
		middleware.Chain(
			s.Limiter.Limit,
			s.Identity.Require,
		)(s.Bookings.Cancel),
	)
	router.POST("/api/bookings/:id/review",
		middleware.Chain(
			s.Limiter.Limit,
			s.Identity.Require,
		)(s.Bookings.Review),
	)
}

func AddReceiptRoutes(router *httprouter.Router, s Services) {
	router.GET("/api/receipts/:bookingId/pdf", s.Identity.Optional(s.Receipts.PDF))
	router.GET("/api/receipts/:bookingId/qr.png", s.Identity.Optional(s.Receipts.QR))
	router.POST("/api/receipts/:bookingId/share", s.Identity.Optional(s.Receipts.Share))
	router.POST("/api/receipts/:bookingId/copy", s.Identity.Optional(s.Receipts.CopyID))
	router.POST("/api/receipts/:bookingId/email",
		middleware.Chain(
			s.Limiter.Limit,
			s.Identity.Require,
		)(s.Receipts.Email),
	)
}

func AddVerifyRoutes(router *httprouter.Router, s Services) {
	router.GET("/api/verify", s.Identity.Optional(s.Verify.Verify))
}
