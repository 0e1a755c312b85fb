package routes

import (
	"github.com/julienschmidt/httprouter"

	"stayvia/bookings"
	"stayvia/middleware"
	"stayvia/pay"
	"stayvia/ratelim"
	"stayvia/receipts"
	"stayvia/verify"
)

// Services are the handlers the routes are bound to.
type Services struct {
	Identity *middleware.Identity
	Limiter  *ratelim.RateLimiter
	Bookings *bookings.Handlers
	Checkout *pay.Service
	Receipts *receipts.Handlers
	Verify   *verify.Handlers
}

func RoutesWrapper(router *httprouter.Router, s Services) {
	AddUtilityRoutes(router)
	AddCheckoutRoutes(router, s)
	AddBookingRoutes(router, s)
	AddReceiptRoutes(router, s)
	AddVerifyRoutes(router, s)
}
