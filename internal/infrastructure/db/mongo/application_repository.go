package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studybridge/apply-platform/internal/core/domain"
)

const applicationsCollection = "applications"

// ApplicationRepository implements ports.ApplicationRepository using MongoDB.
type ApplicationRepository struct {
	coll *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{coll: db.Collection(applicationsCollection)}
}

type mongoApplication struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	UserID       string             `bson:"user_id"`
	Reference    string             `bson:"reference"`
	UniversityID string             `bson:"university_id"`
	Program      string             `bson:"program"`
	Status       string             `bson:"status"`
	Progress     int                `bson:"progress"`
	SubmittedAt  *time.Time         `bson:"submitted_at,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func (ma mongoApplication) toDomain() *domain.Application {
	return &domain.Application{
		ID:           ma.ID.Hex(),
		UserID:       ma.UserID,
		Reference:    ma.Reference,
		UniversityID: ma.UniversityID,
		Program:      ma.Program,
		Status:       domain.ApplicationStatus(ma.Status),
		Progress:     ma.Progress,
		SubmittedAt:  ma.SubmittedAt,
		CreatedAt:    ma.CreatedAt,
		UpdatedAt:    ma.UpdatedAt,
	}
}

func (r *ApplicationRepository) Create(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoApplication{
		UserID:       app.UserID,
		Reference:    app.Reference,
		UniversityID: app.UniversityID,
		Program:      app.Program,
		Status:       string(app.Status),
		Progress:     app.Progress,
		CreatedAt:    app.CreatedAt,
		UpdatedAt:    app.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert application: %w", err)
	}

	created := *app
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ApplicationRepository) FindByReference(ctx context.Context, userID, reference string) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ma mongoApplication
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID, "reference": reference}).Decode(&ma)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return ma.toDomain(), nil
}

func (r *ApplicationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer cursor.Close(ctx)

	var apps []*domain.Application
	for cursor.Next(ctx) {
		var ma mongoApplication
		if err := cursor.Decode(&ma); err != nil {
			return nil, fmt.Errorf("decode application: %w", err)
		}
		apps = append(apps, ma.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// Update replaces the mutable fields of the referenced document.
func (r *ApplicationRepository) Update(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"status":     string(app.Status),
		"progress":   app.Progress,
		"updated_at": app.UpdatedAt,
	}
	if app.SubmittedAt != nil {
		set["submitted_at"] = app.SubmittedAt
	}

	var ma mongoApplication
	err := r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"user_id": app.UserID, "reference": app.Reference},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ma)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("update application: %w", err)
	}
	return ma.toDomain(), nil
}

// EnsureIndexes creates lookup indexes on the applications collection.
func (r *ApplicationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{
			Keys:    bson.D{{Key: "reference", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
