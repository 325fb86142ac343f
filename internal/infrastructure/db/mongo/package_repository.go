package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/travelagency/booking-api/internal/core/domain"
	"github.com/travelagency/booking-api/internal/core/ports"
)

const collectionPackages = "packages"

type PackageRepository struct {
	col *mongo.Collection
}

func NewPackageRepository(db *mongo.Database) *PackageRepository {
	return &PackageRepository{col: db.Collection(collectionPackages)}
}

type mongoPackage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Destination string             `bson:"destination"`
	Duration    int                `bson:"duration"`
	Price       float64            `bson:"price"`
	Features    []string           `bson:"features"`
	IsActive    bool               `bson:"isActive"`
	Agency      primitive.ObjectID `bson:"agency"`
	Version     int64              `bson:"version"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func packageToDoc(p *domain.Package) (*mongoPackage, error) {
	agency, err := primitive.ObjectIDFromHex(p.AgencyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid agency id", domain.ErrValidation)
	}
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return &mongoPackage{
		Title:       p.Title,
		Description: p.Description,
		Destination: p.Destination,
		Duration:    p.Duration,
		Price:       p.Price,
		Features:    features,
		IsActive:    p.IsActive,
		Agency:      agency,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

func (mp *mongoPackage) toDomain() *domain.Package {
	return &domain.Package{
		ID:          mp.ID.Hex(),
		Title:       mp.Title,
		Description: mp.Description,
		Destination: mp.Destination,
		Duration:    mp.Duration,
		Price:       mp.Price,
		Features:    mp.Features,
		IsActive:    mp.IsActive,
		AgencyID:    hexOrEmpty(mp.Agency),
		Version:     mp.Version,
		CreatedAt:   mp.CreatedAt,
		UpdatedAt:   mp.UpdatedAt,
	}
}

// packageQuery translates a listing filter. ok is false when the filter can
// never match (a malformed agency id).
func packageQuery(f ports.PackageFilter) (q bson.M, ok bool) {
	q = bson.M{}
	if f.ActiveOnly {
		q["isActive"] = true
	}
	if f.AgencyID != "" {
		oid, err := primitive.ObjectIDFromHex(f.AgencyID)
		if err != nil {
			return nil, false
		}
		q["agency"] = oid
	}
	if f.Destination != "" {
		q["destination"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Destination), Options: "i"}
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		q["price"] = price
	}
	if f.Duration > 0 {
		q["duration"] = f.Duration
	}
	return q, true
}

func (r *PackageRepository) Create(ctx context.Context, p *domain.Package) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := packageToDoc(p)
	if err != nil {
		return err
	}
	doc.ID = primitive.NewObjectID()
	doc.Version = 0

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert package: %w", err)
	}
	p.ID = doc.ID.Hex()
	p.Version = 0
	p.Features = doc.Features
	return nil
}

func (r *PackageRepository) FindByID(ctx context.Context, id string) (*domain.Package, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPackageNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPackage
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrPackageNotFound
		}
		return nil, fmt.Errorf("find package: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *PackageRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Package, error) {
	oids := objectIDs(ids)
	out := make(map[string]*domain.Package, len(oids))
	if len(oids) == 0 {
		return out, nil
	}
	pkgs, err := r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, err
	}
	for _, p := range pkgs {
		out[p.ID] = p
	}
	return out, nil
}

func (r *PackageRepository) List(ctx context.Context, f ports.PackageFilter) ([]*domain.Package, error) {
	q, ok := packageQuery(f)
	if !ok {
		return []*domain.Package{}, nil
	}
	return r.find(ctx, q)
}

func (r *PackageRepository) find(ctx context.Context, q bson.M) ([]*domain.Package, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.col.Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("find packages: %w", err)
	}
	var docs []mongoPackage
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode packages: %w", err)
	}

	out := make([]*domain.Package, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *PackageRepository) Update(ctx context.Context, p *domain.Package) error {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return domain.ErrPackageNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	features := p.Features
	if features == nil {
		features = []string{}
	}
	update := bson.M{
		"$set": bson.M{
			"title":       p.Title,
			"description": p.Description,
			"destination": p.Destination,
			"duration":    p.Duration,
			"price":       p.Price,
			"features":    features,
			"isActive":    p.IsActive,
			"updatedAt":   p.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := r.col.UpdateOne(ctx, versionFilter(oid, p.Version), update)
	if err != nil {
		return fmt.Errorf("update package: %w", err)
	}
	if res.MatchedCount == 0 {
		return resolveMiss(ctx, r.col, oid, domain.ErrPackageNotFound, domain.ErrVersionConflict)
	}
	p.Version++
	return nil
}

// EnsureIndexes creates indexes for the catalogue and agency listings.
func (r *PackageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "agency", Value: 1}, {Key: "createdAt", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
