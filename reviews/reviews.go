package reviews

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/craftingshard/tour-website-sub000/db"
	"github.com/craftingshard/tour-website-sub000/directory"
	"github.com/craftingshard/tour-website-sub000/middleware"
	"github.com/craftingshard/tour-website-sub000/models"
	"github.com/craftingshard/tour-website-sub000/mq"
	"github.com/craftingshard/tour-website-sub000/rbac"
	"github.com/craftingshard/tour-website-sub000/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrTooFrequent   = errors.New("please wait before posting another review")
	ErrInvalidRating = errors.New("rating must be between 1 and 10 in half-point steps")
)

// Anti-spam window: a user's reviews must be at least this far apart,
// measured against their most recent review anywhere, not per tour.
const minReviewGap = 5 * time.Minute

// ValidRating accepts 1..10 in half-point granularity.
func ValidRating(r float64) bool {
	if r < 1 || r > 10 {
		return false
	}
	doubled := r * 2
	return doubled == math.Trunc(doubled)
}

// TooSoon reports whether a new review at nowMs violates the anti-spam
// window given the user's most recent review timestamp.
func TooSoon(lastMs, nowMs int64) bool {
	return nowMs-lastMs < minReviewGap.Milliseconds()
}

// GetReviews lists reviews for one tour, newest first.
func GetReviews(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	tourID := ps.ByName("tourId")

	skip, limit := utils.ParsePagination(r, 10, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})

	list, err := utils.FindAndDecode[models.Review](ctx, db.ReviewsCollection, bson.M{"tourId": tourID}, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve reviews")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "reviews": list})
}

// AddReview accepts a review for a tour after the anti-spam check, masks
// the comment, stores it, and emits a review event for the rating worker.
func AddReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	tourID := ps.ByName("tourId")
	var body struct {
		Rating  float64 `json:"rating"`
		Comment string  `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if !ValidRating(body.Rating) {
		utils.RespondWithError(w, http.StatusBadRequest, ErrInvalidRating.Error())
		return
	}

	count, err := db.ToursCollection.CountDocuments(ctx, bson.M{"id": tourID})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "tour not found")
		return
	}

	// Most recent review by this user across all tours.
	var last models.Review
	err = db.ReviewsCollection.FindOne(ctx,
		bson.M{"userId": userID},
		options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	).Decode(&last)
	if err != nil && err != mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	now := time.Now().UnixMilli()
	if err == nil && TooSoon(last.CreatedAt, now) {
		utils.RespondWithError(w, http.StatusTooManyRequests, ErrTooFrequent.Error())
		return
	}

	review := models.Review{
		ID:        utils.GenerateRandomString(16),
		TourID:    tourID,
		UserID:    userID,
		UserName:  middleware.Username(ctx),
		Rating:    body.Rating,
		Comment:   MaskBadWords(body.Comment),
		CreatedAt: now,
	}

	if _, err := db.ReviewsCollection.InsertOne(ctx, review); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to insert review")
		return
	}

	go mq.EmitReview(context.Background(), models.ReviewEvent{
		TourID: tourID, ReviewID: review.ID, Method: "POST",
	})

	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{"ok": true, "review": review})
}

// DeleteReview is moderation-only: the caller needs delete permission on
// the reviews resource (managers and admins per the matrix).
func DeleteReview(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	uid, ok := middleware.UserID(ctx)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if _, err := directory.Authorize(ctx, uid, rbac.ActionDelete, rbac.ResourceReviews); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	reviewID := ps.ByName("reviewId")
	var review models.Review
	if err := db.ReviewsCollection.FindOne(ctx, bson.M{"id": reviewID}).Decode(&review); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "review not found")
		return
	}

	if _, err := db.ReviewsCollection.DeleteOne(ctx, bson.M{"id": reviewID}); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete review")
		return
	}

	go mq.EmitReview(context.Background(), models.ReviewEvent{
		TourID: review.TourID, ReviewID: reviewID, Method: "DELETE",
	})

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}
