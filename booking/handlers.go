package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/craftingshard/tour-website-sub000/db"
	"github.com/craftingshard/tour-website-sub000/directory"
	"github.com/craftingshard/tour-website-sub000/middleware"
	"github.com/craftingshard/tour-website-sub000/models"
	"github.com/craftingshard/tour-website-sub000/rbac"
	"github.com/craftingshard/tour-website-sub000/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type createPayload struct {
	TourID        string `json:"tourId"`
	CustomerPhone string `json:"customerPhone"`
	Amount        int64  `json:"amount"`
	Method        string `json:"method"`
	People        int    `json:"people"`
	StartDate     int64  `json:"startDate"`
	EndDate       int64  `json:"endDate,omitempty"`
	Notes         string `json:"notes,omitempty"`
	Paid          bool   `json:"paid"`
	BankName      string `json:"bankName,omitempty"`
	BankRef       string `json:"bankRef,omitempty"`
}

// CreateBooking validates the request in fail-fast order (dates, then the
// duplicate invariant), writes the booking, and fires the notification side
// channel. The duplicate check and the insert are not atomic; see
// db.EnsureIndexes for the supporting index.
func (l *Ledger) CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var p createPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if p.TourID == "" || p.People < 1 || !validMethod(p.Method) {
		utils.RespondWithError(w, http.StatusBadRequest, "missing or invalid fields")
		return
	}

	if err := ValidateDates(p.StartDate, p.EndDate, time.Now()); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var tour models.Tour
	if err := db.ToursCollection.FindOne(ctx, bson.M{"id": p.TourID}).Decode(&tour); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "tour not found")
		return
	}

	existing, err := utils.FindAndDecode[models.Booking](ctx, db.BookingsCollection,
		bson.M{"userId": userID, "tourId": p.TourID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if HasActiveDuplicate(existing, p.StartDate) {
		utils.RespondWithError(w, http.StatusConflict, ErrDuplicateBooking.Error())
		return
	}

	b := models.Booking{
		ID:            genID(),
		UserID:        userID,
		TourID:        p.TourID,
		CustomerPhone: p.CustomerPhone,
		Amount:        p.Amount,
		Method:        p.Method,
		People:        p.People,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		Paid:          p.Paid,
		Status:        InitialStatus(p.Paid),
		Notes:         p.Notes,
		BankName:      p.BankName,
		BankRef:       p.BankRef,
		CreatedAt:     time.Now().UnixMilli(),
	}

	if _, err := db.BookingsCollection.InsertOne(ctx, b); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	// Fire and forget. A failed notification must not fail the booking.
	go l.notifier.BookingCreated(context.Background(), b, tour)

	l.markBooked(userID, p.TourID)
	Broadcast(b.TourID, b)

	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{"ok": true, "booking": b})
}

// CancelBooking transitions the caller's most recent open booking for the
// tour to cancelled. Paid is left untouched; refunds are a staff workflow.
func (l *Ledger) CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tourID := ps.ByName("tourId")
	if tourID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing tourId")
		return
	}

	list, err := utils.FindAndDecode[models.Booking](ctx, db.BookingsCollection,
		bson.M{"userId": userID, "tourId": tourID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	target, found := LatestOpenBooking(list)
	if !found {
		utils.RespondWithError(w, http.StatusNotFound, ErrNothingToCancel.Error())
		return
	}

	res := db.BookingsCollection.FindOneAndUpdate(ctx,
		bson.M{"id": target.ID},
		bson.M{"$set": bson.M{"status": models.StatusCancelled}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.Booking
	if err := res.Decode(&updated); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "booking not found")
		return
	}

	l.unmarkBooked(userID, tourID)
	Broadcast(updated.TourID, updated)

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "booking": updated})
}

// MyBookings lists the caller's bookings, newest first.
func (l *Ledger) MyBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})

	list, err := utils.FindAndDecode[models.Booking](ctx, db.BookingsCollection,
		bson.M{"userId": userID}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"ok":       true,
		"bookings": list,
		"booked":   l.BookedTours(userID),
	})
}

// ListBookings is the staff table view, filterable by tour and status.
func ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	uid, ok := middleware.UserID(ctx)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if _, err := directory.Authorize(ctx, uid, rbac.ActionRead, rbac.ResourceBookings); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	filter := bson.M{}
	if tourID := r.URL.Query().Get("tourId"); tourID != "" {
		filter["tourId"] = tourID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	skip, limit := utils.ParsePagination(r, 50, 200)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})

	list, err := utils.FindAndDecode[models.Booking](ctx, db.BookingsCollection, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "bookings": list})
}

// GetBooking returns one booking by id. Customers may only fetch their own;
// staff with booking read access can fetch any.
func GetBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	uid, ok := middleware.UserID(ctx)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var b models.Booking
	err := db.BookingsCollection.FindOne(ctx, bson.M{"id": ps.ByName("id")}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "booking not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	if b.UserID != uid {
		if _, err := directory.Authorize(ctx, uid, rbac.ActionRead, rbac.ResourceBookings); err != nil {
			utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
			return
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "booking": b})
}
