package notify

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/craftingshard/tour-website-sub000/db"
	"github.com/craftingshard/tour-website-sub000/middleware"
	"github.com/craftingshard/tour-website-sub000/models"
	"github.com/craftingshard/tour-website-sub000/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Dispatcher writes notification documents as a fire-and-forget side
// channel. Delivery failure never fails the operation that triggered it.
type Dispatcher struct{}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// BookingCreated emits one role-addressed notification for admins and, when
// the tour has a known creator, one user-addressed notification.
func (d *Dispatcher) BookingCreated(ctx context.Context, b models.Booking, tour models.Tour) {
	now := time.Now().UnixMilli()
	msg := fmt.Sprintf("New booking for %q on %s (%d people)",
		tour.Title, time.UnixMilli(b.StartDate).Format("2006-01-02"), b.People)

	docs := []models.Notification{{
		ID:        utils.GetUUID(),
		Role:      "admin",
		Title:     "New booking",
		Message:   msg,
		TourID:    b.TourID,
		BookingID: b.ID,
		CreatedAt: now,
	}}
	if tour.CreatedBy != "" {
		docs = append(docs, models.Notification{
			ID:        utils.GetUUID(),
			UserID:    tour.CreatedBy,
			Title:     "New booking",
			Message:   msg,
			TourID:    b.TourID,
			BookingID: b.ID,
			CreatedAt: now,
		})
	}

	for _, n := range docs {
		if _, err := db.NotificationsCollection.InsertOne(ctx, n); err != nil {
			log.Printf("[notify] insert notification for booking %s failed: %v", b.ID, err)
		}
	}
}

// GetNotifications lists notifications addressed to the caller's uid, or to
// a role when ?role= is passed (admin table view).
func GetNotifications(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	uid, ok := middleware.UserID(ctx)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filter := bson.M{"userId": uid}
	if role := r.URL.Query().Get("role"); role != "" {
		filter = bson.M{"role": role}
	}

	skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})

	items, err := utils.FindAndDecode[models.Notification](ctx, db.NotificationsCollection, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "notifications": items})
}

// MarkRead flips a single notification to read.
func MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id := ps.ByName("id")
	if id == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "missing id")
		return
	}

	res, err := db.NotificationsCollection.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "notification not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}
