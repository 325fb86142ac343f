package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/travelagency/booking-api/internal/core/domain"
)

const collectionBookingEvents = "booking_events"

// BookingEventRepository implements ports.BookingEventRepository using MongoDB.
type BookingEventRepository struct {
	col *mongo.Collection
}

func NewBookingEventRepository(db *mongo.Database) *BookingEventRepository {
	return &BookingEventRepository{col: db.Collection(collectionBookingEvents)}
}

// Insert persists an event to the booking_events audit collection. The event
// id is the document id, so a redelivered event is a duplicate-key no-op.
func (r *BookingEventRepository) Insert(ctx context.Context, event *domain.BookingEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"_id":        event.ID,
		"type":       string(event.Type),
		"bookingId":  event.BookingID,
		"packageId":  event.PackageID,
		"clientId":   event.ClientID,
		"agencyId":   event.AgencyID,
		"actorId":    event.ActorID,
		"actorRole":  string(event.ActorRole),
		"occurredAt": event.OccurredAt.UTC(),
		"recordedAt": time.Now().UTC(),
	}
	if event.From != "" {
		doc["from"] = event.From
	}
	if event.To != "" {
		doc["to"] = event.To
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert booking event: %w", err)
	}
	return nil
}

func (r *BookingEventRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "bookingId", Value: 1}, {Key: "occurredAt", Value: 1}},
	})
	return err
}
