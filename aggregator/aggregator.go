package aggregator

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"time"

	"github.com/craftingshard/tour-website-sub000/db"
	"github.com/craftingshard/tour-website-sub000/models"
	"github.com/craftingshard/tour-website-sub000/mq"
	"github.com/craftingshard/tour-website-sub000/rdx"
	"github.com/craftingshard/tour-website-sub000/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Round1 rounds to one decimal place, the precision of the denormalized
// tour rating.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Averages computes the per-tour mean rating over the full review set.
// Recomputing from scratch keeps the pipeline idempotent and order
// independent; cost is O(total reviews) per run, a known scaling limit.
func Averages(reviews []models.Review) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range reviews {
		sums[r.TourID] += r.Rating
		counts[r.TourID]++
	}

	out := make(map[string]float64, len(sums))
	for tourID, sum := range sums {
		out[tourID] = Round1(sum / float64(counts[tourID]))
	}
	return out
}

// Worker subscribes to review events and republishes tour ratings.
type Worker struct{}

func NewWorker() *Worker {
	return &Worker{}
}

// Start blocks on the review channel; run it in a goroutine from main.
func (w *Worker) Start(ctx context.Context) {
	sub := rdx.Conn.Subscribe(ctx, mq.ReviewChannel)
	ch := sub.Channel()

	log.Println("[aggregator] listening for review events")

	for msg := range ch {
		var event models.ReviewEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[aggregator] bad event payload: %v", err)
			continue
		}

		if err := w.Recompute(ctx, event.TourID); err != nil {
			log.Printf("[aggregator] recompute after %s on tour %s: %v",
				event.Method, event.TourID, err)
		}
	}
}

// Recompute reloads the full review set, recalculates every tour average,
// and fans the ratings out to both the authoritative tours collection and
// the admin mirror in one batched write per collection. The aggregator is
// the single writer of the rating field on both views.
//
// changedTourID names the tour whose review set triggered the run; if it
// has no reviews left (last review deleted) its rating is reset to zero.
func (w *Worker) Recompute(ctx context.Context, changedTourID string) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	reviews, err := utils.FindAndDecode[models.Review](ctx, db.ReviewsCollection, bson.M{})
	if err != nil {
		return err
	}

	avgs := Averages(reviews)
	if changedTourID != "" {
		if _, ok := avgs[changedTourID]; !ok {
			avgs[changedTourID] = 0
		}
	}
	if len(avgs) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(avgs))
	for tourID, avg := range avgs {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"id": tourID}).
			SetUpdate(bson.M{"$set": bson.M{"rating": avg}}))
	}

	// Best effort, not transactional: either write may fail independently.
	// Reruns converge because the computation is a pure function of the
	// review set.
	if _, err := db.ToursCollection.BulkWrite(ctx, writes); err != nil {
		log.Printf("[aggregator] tours bulk write: %v", err)
	}
	if _, err := db.AdminToursCollection.BulkWrite(ctx, writes); err != nil {
		log.Printf("[aggregator] admin mirror bulk write: %v", err)
	}
	return nil
}
