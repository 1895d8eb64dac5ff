package routes

import (
	"github.com/craftingshard/tour-website-sub000/auth"
	"github.com/craftingshard/tour-website-sub000/booking"
	"github.com/craftingshard/tour-website-sub000/middleware"
	"github.com/craftingshard/tour-website-sub000/notify"
	"github.com/craftingshard/tour-website-sub000/ratelim"
	"github.com/craftingshard/tour-website-sub000/reviews"
	"github.com/craftingshard/tour-website-sub000/staff"
	"github.com/craftingshard/tour-website-sub000/tours"
	"github.com/craftingshard/tour-website-sub000/utils"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", ratelim.RateLimit(auth.Register))
	router.POST("/api/auth/login", ratelim.RateLimit(auth.Login))
}

func AddTourRoutes(router *httprouter.Router) {
	router.GET("/api/tours", middleware.OptionalAuth(tours.GetTours))
	router.GET("/api/tours/:id", tours.GetTour)
	router.POST("/api/tours", middleware.Authenticate(tours.CreateTour))
	router.PUT("/api/tours/:id/flags", middleware.Authenticate(tours.SetFlags))
	router.PUT("/api/tours/:id/approve", middleware.Authenticate(staff.ApproveTour))
}

func AddBookingRoutes(router *httprouter.Router, ledger *booking.Ledger) {
	router.POST("/api/bookings", ratelim.RateLimit(middleware.Authenticate(ledger.CreateBooking)))
	router.GET("/api/bookings/mine", middleware.Authenticate(ledger.MyBookings))
	router.DELETE("/api/bookings/tour/:tourId", middleware.Authenticate(ledger.CancelBooking))
	router.GET("/api/bookings/booking/:id", middleware.Authenticate(booking.GetBooking))
	router.GET("/api/bookings/booking/:id/receipt", middleware.Authenticate(booking.PrintReceipt))
	router.GET("/api/bookings/verify", booking.VerifyReceipt)
	router.GET("/ws/bookings/:tourId", booking.HandleWS)
}

func AddStaffRoutes(router *httprouter.Router) {
	router.GET("/api/staff/bookings", middleware.Authenticate(booking.ListBookings))
	router.PUT("/api/staff/bookings/:id/confirm-payment", middleware.Authenticate(staff.ConfirmPayment))
	router.PUT("/api/staff/bookings/:id/status", middleware.Authenticate(staff.UpdateBookingStatus))
	router.POST("/api/staff/refunds", middleware.Authenticate(staff.RecordRefund))
	router.GET("/api/staff/refunds", middleware.Authenticate(staff.ListRefunds))
}

func AddReviewRoutes(router *httprouter.Router) {
	router.GET("/api/reviews/:tourId", ratelim.RateLimit(reviews.GetReviews))
	router.POST("/api/reviews/:tourId", ratelim.RateLimit(middleware.Authenticate(reviews.AddReview)))
	router.DELETE("/api/reviews/:tourId/:reviewId", ratelim.RateLimit(middleware.Authenticate(reviews.DeleteReview)))
}

func AddNotificationRoutes(router *httprouter.Router) {
	router.GET("/api/notifications", middleware.Authenticate(notify.GetNotifications))
	router.PUT("/api/notifications/:id/read", middleware.Authenticate(notify.MarkRead))
}

func AddUtilityRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/csrf", rateLimiter.Limit(middleware.Authenticate(utils.CSRF)))
}
