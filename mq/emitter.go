package mq

import (
	"context"
	"encoding/json"
	"log"

	"github.com/craftingshard/tour-website-sub000/models"
	"github.com/craftingshard/tour-website-sub000/rdx"
)

// ReviewChannel carries review create/delete events to the rating worker.
const ReviewChannel = "review-events"

// EmitReview publishes a review change. Publication is best effort: the
// aggregator recomputes from the full review set, so a dropped event only
// delays convergence until the next one.
func EmitReview(ctx context.Context, event models.ReviewEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[mq] marshal review event: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, ReviewChannel, data).Err(); err != nil {
		log.Printf("[mq] publish review event: %v", err)
		return
	}
}
