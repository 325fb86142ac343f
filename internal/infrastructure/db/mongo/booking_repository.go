package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/travelagency/booking-api/internal/core/domain"
	"github.com/travelagency/booking-api/internal/core/ports"
)

const collectionBookings = "bookings"

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(collectionBookings)}
}

type mongoTransition struct {
	Field string    `bson:"field"`
	From  string    `bson:"from"`
	To    string    `bson:"to"`
	By    string    `bson:"by"`
	At    time.Time `bson:"at"`
}

type mongoBooking struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Package        primitive.ObjectID `bson:"package"`
	Client         primitive.ObjectID `bson:"client"`
	Agency         primitive.ObjectID `bson:"agency"`
	StartDate      time.Time          `bson:"startDate"`
	EndDate        time.Time          `bson:"endDate"`
	NumberOfPeople int                `bson:"numberOfPeople"`
	TotalPrice     float64            `bson:"totalPrice"`
	Status         string             `bson:"status"`
	PaymentStatus  string             `bson:"paymentStatus"`
	StatusHistory  []mongoTransition  `bson:"statusHistory"`
	Version        int64              `bson:"version"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

func bookingToDoc(b *domain.Booking) (*mongoBooking, error) {
	refs := make([]primitive.ObjectID, 3)
	for i, id := range []string{b.PackageID, b.ClientID, b.AgencyID} {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid reference %q", domain.ErrValidation, id)
		}
		refs[i] = oid
	}
	history := make([]mongoTransition, 0, len(b.History))
	for _, t := range b.History {
		history = append(history, transitionToDoc(t))
	}
	return &mongoBooking{
		Package:        refs[0],
		Client:         refs[1],
		Agency:         refs[2],
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		NumberOfPeople: b.NumberOfPeople,
		TotalPrice:     b.TotalPrice,
		Status:         string(b.Status),
		PaymentStatus:  string(b.PaymentStatus),
		StatusHistory:  history,
		Version:        b.Version,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}, nil
}

func transitionToDoc(t domain.BookingTransition) mongoTransition {
	return mongoTransition{Field: t.Field, From: t.From, To: t.To, By: t.ActorID, At: t.At}
}

func (mb *mongoBooking) toDomain() *domain.Booking {
	history := make([]domain.BookingTransition, 0, len(mb.StatusHistory))
	for _, t := range mb.StatusHistory {
		history = append(history, domain.BookingTransition{Field: t.Field, From: t.From, To: t.To, ActorID: t.By, At: t.At})
	}
	status := domain.BookingStatus(mb.Status)
	if status == "" {
		status = domain.BookingPending
	}
	payment := domain.PaymentStatus(mb.PaymentStatus)
	if payment == "" {
		payment = domain.PaymentPending
	}
	return &domain.Booking{
		ID:             mb.ID.Hex(),
		PackageID:      hexOrEmpty(mb.Package),
		ClientID:       hexOrEmpty(mb.Client),
		AgencyID:       hexOrEmpty(mb.Agency),
		StartDate:      mb.StartDate,
		EndDate:        mb.EndDate,
		NumberOfPeople: mb.NumberOfPeople,
		TotalPrice:     mb.TotalPrice,
		Status:         status,
		PaymentStatus:  payment,
		History:        history,
		Version:        mb.Version,
		CreatedAt:      mb.CreatedAt,
		UpdatedAt:      mb.UpdatedAt,
	}
}

// bookingQuery translates a listing filter. ok is false when the filter can
// never match.
func bookingQuery(f ports.BookingFilter) (q bson.M, ok bool) {
	q = bson.M{}
	if f.ClientID != "" {
		oid, err := primitive.ObjectIDFromHex(f.ClientID)
		if err != nil {
			return nil, false
		}
		q["client"] = oid
	}
	if f.AgencyID != "" {
		oid, err := primitive.ObjectIDFromHex(f.AgencyID)
		if err != nil {
			return nil, false
		}
		q["agency"] = oid
	}
	return q, true
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := bookingToDoc(b)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()
	doc.Version = 0

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	b.ID = doc.ID.Hex()
	b.Version = 0
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrBookingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mb mongoBooking
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mb); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return mb.toDomain(), nil
}

func (r *BookingRepository) List(ctx context.Context, f ports.BookingFilter) ([]*domain.Booking, error) {
	q, ok := bookingQuery(f)
	if !ok {
		return []*domain.Booking{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	var docs []mongoBooking
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}

	out := make([]*domain.Booking, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// ApplyTransition sets both status fields, appends the history entry and
// bumps the version in a single conditional update.
func (r *BookingRepository) ApplyTransition(ctx context.Context, b *domain.Booking, t domain.BookingTransition) error {
	oid, err := primitive.ObjectIDFromHex(b.ID)
	if err != nil {
		return domain.ErrBookingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"status":        string(b.Status),
			"paymentStatus": string(b.PaymentStatus),
			"updatedAt":     b.UpdatedAt,
		},
		"$push": bson.M{"statusHistory": transitionToDoc(t)},
		"$inc":  bson.M{"version": 1},
	}

	res, err := r.col.UpdateOne(ctx, versionFilter(oid, b.Version), update)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	if res.MatchedCount == 0 {
		return resolveMiss(ctx, r.col, oid, domain.ErrBookingNotFound, domain.ErrVersionConflict)
	}
	b.Version++
	return nil
}

// EnsureIndexes creates indexes for the role-scoped listings.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "client", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "agency", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "package", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
