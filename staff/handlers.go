package staff

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/craftingshard/tour-website-sub000/booking"
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

// authorize resolves the caller and checks the matrix, writing the error
// response itself. Returns the directory record on success.
func authorize(w http.ResponseWriter, ctx context.Context, action rbac.Action, resource string) (*models.AdminUser, bool) {
	uid, ok := middleware.UserID(ctx)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	user, err := directory.Authorize(ctx, uid, action, resource)
	if err == directory.ErrPermissionDenied {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return nil, false
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "directory error")
		return nil, false
	}
	return user, true
}

// ConfirmPayment marks a booking's funds as received and confirms it.
// Guarded: only callable while paid is still false, so a double click on
// the admin table cannot re-confirm.
func ConfirmPayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, ok := authorize(w, ctx, rbac.ActionUpdate, rbac.ResourceBookings)
	if !ok {
		return
	}

	bookingID := ps.ByName("id")
	var b models.Booking
	err := db.BookingsCollection.FindOne(ctx, bson.M{"id": bookingID}).Decode(&b)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "booking not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if b.Paid {
		utils.RespondWithError(w, http.StatusConflict, "payment already confirmed")
		return
	}

	res := db.BookingsCollection.FindOneAndUpdate(ctx,
		bson.M{"id": bookingID, "paid": false},
		bson.M{"$set": bson.M{
			"paid":        true,
			"status":      models.StatusConfirmed,
			"confirmedAt": time.Now().UnixMilli(),
			"confirmedBy": user.UID,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.Booking
	if err := res.Decode(&updated); err != nil {
		utils.RespondWithError(w, http.StatusConflict, "payment already confirmed")
		return
	}

	booking.Broadcast(updated.TourID, updated)
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "booking": updated})
}

// UpdateBookingStatus applies one step of the state machine.
func UpdateBookingStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, ok := authorize(w, ctx, rbac.ActionUpdate, rbac.ResourceBookings); !ok {
		return
	}

	var body struct {
		Status models.BookingStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	bookingID := ps.ByName("id")
	var b models.Booking
	if err := db.BookingsCollection.FindOne(ctx, bson.M{"id": bookingID}).Decode(&b); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "booking not found")
		return
	}

	if !CanTransition(b.Status, body.Status) {
		utils.RespondWithError(w, http.StatusConflict,
			"invalid transition "+string(b.Status)+" -> "+string(body.Status))
		return
	}

	res := db.BookingsCollection.FindOneAndUpdate(ctx,
		bson.M{"id": bookingID},
		bson.M{"$set": bson.M{"status": body.Status}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.Booking
	if err := res.Decode(&updated); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "booking not found")
		return
	}

	booking.Broadcast(updated.TourID, updated)
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "booking": updated})
}

// ApproveTour flips a tour to approved. Only false -> true passes through
// here; approval is never revoked by this operation.
func ApproveTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, ok := authorize(w, ctx, rbac.ActionUpdate, rbac.ResourceTours)
	if !ok {
		return
	}

	tourID := ps.ByName("id")
	res := db.ToursCollection.FindOneAndUpdate(ctx,
		bson.M{"id": tourID, "approved": false},
		bson.M{"$set": bson.M{
			"approved":   true,
			"approvedBy": user.UID,
			"approvedAt": time.Now().UnixMilli(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.Tour
	if err := res.Decode(&updated); err != nil {
		// Either the tour is missing or already approved; disambiguate.
		count, cerr := db.ToursCollection.CountDocuments(ctx, bson.M{"id": tourID})
		if cerr == nil && count > 0 {
			utils.RespondWithError(w, http.StatusConflict, "tour already approved")
			return
		}
		utils.RespondWithError(w, http.StatusNotFound, "tour not found")
		return
	}

	// Keep the mirror's approval flag in step. Best effort: the mirror is a
	// legacy read path, the authoritative record has already been updated.
	if _, err := db.AdminToursCollection.UpdateOne(ctx,
		bson.M{"id": tourID},
		bson.M{"$set": bson.M{"approved": true, "approvedBy": user.UID, "approvedAt": updated.ApprovedAt}},
	); err != nil {
		log.Printf("[staff] mirror approval update for tour %s failed: %v", tourID, err)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "tour": updated})
}

type refundPayload struct {
	BookingID string `json:"bookingId,omitempty"`
	Amount    int64  `json:"amount"`
	Reason    string `json:"reason"`
	Method    string `json:"method"`
	Reference string `json:"reference,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// RecordRefund stores a refund entry and, when linked to a booking, cancels
// that booking and stamps the refund amount and date. The two writes are
// sequential and non-transactional; a failure after the first is logged as
// an operational alert and never silently retried.
func RecordRefund(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, ok := authorize(w, ctx, rbac.ActionUpdate, rbac.ResourceBookings)
	if !ok {
		return
	}

	var p refundPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if p.Amount <= 0 || !ValidRefundReason(p.Reason) {
		utils.RespondWithError(w, http.StatusBadRequest, "missing or invalid refund fields")
		return
	}

	if p.BookingID != "" {
		var b models.Booking
		if err := db.BookingsCollection.FindOne(ctx, bson.M{"id": p.BookingID}).Decode(&b); err != nil {
			utils.RespondWithError(w, http.StatusNotFound, "booking not found")
			return
		}
	}

	now := time.Now().UnixMilli()
	refund := models.Refund{
		ID:        utils.GetUUID(),
		BookingID: p.BookingID,
		Amount:    p.Amount,
		Reason:    p.Reason,
		Method:    p.Method,
		Reference: p.Reference,
		Notes:     p.Notes,
		CreatedBy: user.UID,
		CreatedAt: now,
	}

	if _, err := db.RefundsCollection.InsertOne(ctx, refund); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	if p.BookingID != "" {
		res := db.BookingsCollection.FindOneAndUpdate(ctx,
			bson.M{"id": p.BookingID},
			bson.M{"$set": bson.M{
				"status":       models.StatusCancelled,
				"refundAmount": p.Amount,
				"refundDate":   now,
			}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		)
		var updated models.Booking
		if err := res.Decode(&updated); err != nil {
			// Refund entry exists but the booking was not updated. Partial
			// state: operational alert, not a rollback.
			log.Printf("[staff] ALERT refund %s recorded but booking %s not updated: %v",
				refund.ID, p.BookingID, err)
		} else {
			booking.Broadcast(updated.TourID, updated)
		}
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{"ok": true, "refund": refund})
}

// ListRefunds is the staff refund history view.
func ListRefunds(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, ok := authorize(w, ctx, rbac.ActionRead, rbac.ResourceBookings); !ok {
		return
	}

	filter := bson.M{}
	if bookingID := r.URL.Query().Get("bookingId"); bookingID != "" {
		filter["bookingId"] = bookingID
	}

	skip, limit := utils.ParsePagination(r, 50, 200)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})

	refunds, err := utils.FindAndDecode[models.Refund](ctx, db.RefundsCollection, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "refunds": refunds})
}
