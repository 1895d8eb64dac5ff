package tours

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
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

// CreateTour stores a new tour pending approval. Partners and staff may
// create; the tour stays invisible to customers until approved.
func CreateTour(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	uid, ok := middleware.UserID(ctx)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if _, err := directory.Authorize(ctx, uid, rbac.ActionCreate, rbac.ResourceTours); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var body struct {
		Title    string `json:"title"`
		Location string `json:"location"`
		Price    int64  `json:"price"`
		Summary  string `json:"summary"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(body.Title) == "" || body.Price < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	tour := models.Tour{
		ID:        utils.GenerateRandomString(16),
		Title:     strings.TrimSpace(body.Title),
		Location:  strings.TrimSpace(body.Location),
		Price:     body.Price,
		Summary:   body.Summary,
		Approved:  false,
		CreatedBy: uid,
		CreatedAt: time.Now().UnixMilli(),
	}

	if _, err := db.ToursCollection.InsertOne(ctx, tour); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	// Write-through to the legacy admin mirror. The rating field on both
	// copies is owned by the aggregator from here on.
	if _, err := db.AdminToursCollection.InsertOne(ctx, tour); err != nil {
		log.Printf("[tours] mirror insert for tour %s failed: %v", tour.ID, err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{"ok": true, "tour": tour})
}

// GetTours lists approved tours for customers, with optional hot/featured
// filters. Staff can pass ?all=true to include unapproved tours.
func GetTours(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{"approved": true}
	q := r.URL.Query()
	if q.Get("all") == "true" {
		uid, ok := middleware.UserID(ctx)
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if _, err := directory.Authorize(ctx, uid, rbac.ActionRead, rbac.ResourceTours); err != nil {
			utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
			return
		}
		delete(filter, "approved")
	}
	if q.Get("hot") == "true" {
		filter["hot"] = true
	}
	if q.Get("featured") == "true" {
		filter["featured"] = true
	}
	if loc := q.Get("location"); loc != "" {
		filter["location"] = loc
	}

	skip, limit := utils.ParsePagination(r, 20, 100)
	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "createdAt", Value: -1}})

	list, err := utils.FindAndDecode[models.Tour](ctx, db.ToursCollection, filter, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "tours": list})
}

// GetTour returns one tour by id.
func GetTour(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var tour models.Tour
	err := db.ToursCollection.FindOne(ctx, bson.M{"id": ps.ByName("id")}).Decode(&tour)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "tour not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "tour": tour})
}

// SetFlags toggles the hot/featured flags on a tour (staff edit surface).
func SetFlags(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	uid, ok := middleware.UserID(ctx)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if _, err := directory.Authorize(ctx, uid, rbac.ActionUpdate, rbac.ResourceTours); err != nil {
		utils.RespondWithError(w, http.StatusForbidden, "Forbidden")
		return
	}

	var body struct {
		Hot      *bool `json:"hot,omitempty"`
		Featured *bool `json:"featured,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	set := bson.M{"updatedAt": time.Now().UnixMilli()}
	if body.Hot != nil {
		set["hot"] = *body.Hot
	}
	if body.Featured != nil {
		set["featured"] = *body.Featured
	}

	res, err := db.ToursCollection.UpdateOne(ctx, bson.M{"id": ps.ByName("id")}, bson.M{"$set": set})
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "tour not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true})
}
