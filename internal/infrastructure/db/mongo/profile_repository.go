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
	"github.com/studybridge/apply-platform/internal/core/ports"
)

const profilesCollection = "profiles"

// ProfileRepository implements ports.ProfileRepository using MongoDB.
// Every write is a single upsert so concurrent submissions for the same
// user never interleave a read-modify-write; the storage layer decides the
// winner.
type ProfileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{coll: db.Collection(profilesCollection)}
}

type mongoProfile struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	UserID string             `bson:"user_id"`

	Phone       string `bson:"phone,omitempty"`
	DateOfBirth string `bson:"date_of_birth,omitempty"`
	Address     string `bson:"address,omitempty"`
	Bio         string `bson:"bio,omitempty"`
	Nationality string `bson:"nationality,omitempty"`

	FieldOfStudy       string                     `bson:"field_of_study,omitempty"`
	StudyLevel         string                     `bson:"study_level,omitempty"`
	EnglishProficiency *domain.EnglishProficiency `bson:"english_proficiency,omitempty"`
	AvailableFunds     *float64                   `bson:"available_funds,omitempty"`
	VisaRefusalHistory *domain.VisaRefusalHistory `bson:"visa_refusal_history,omitempty"`
	IntendedStartDate  *time.Time                 `bson:"intended_start_date,omitempty"`
	Education          *domain.Education          `bson:"education,omitempty"`
	StandardizedTests  []string                   `bson:"standardized_tests,omitempty"`

	CurrentStep    int   `bson:"current_step"`
	CompletedSteps []int `bson:"completed_steps,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (mp mongoProfile) toDomain() *domain.Profile {
	return &domain.Profile{
		ID:                 mp.ID.Hex(),
		UserID:             mp.UserID,
		Phone:              mp.Phone,
		DateOfBirth:        mp.DateOfBirth,
		Address:            mp.Address,
		Bio:                mp.Bio,
		Nationality:        mp.Nationality,
		FieldOfStudy:       mp.FieldOfStudy,
		StudyLevel:         mp.StudyLevel,
		EnglishProficiency: mp.EnglishProficiency,
		AvailableFunds:     mp.AvailableFunds,
		VisaRefusalHistory: mp.VisaRefusalHistory,
		IntendedStartDate:  mp.IntendedStartDate,
		Education:          mp.Education,
		StandardizedTests:  mp.StandardizedTests,
		CurrentStep:        mp.CurrentStep,
		CompletedSteps:     mp.CompletedSteps,
		CreatedAt:          mp.CreatedAt,
		UpdatedAt:          mp.UpdatedAt,
	}
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoProfile
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return mp.toDomain(), nil
}

// CreateEmpty upserts the default document for a fresh account. Safe to call
// more than once; an existing profile is left untouched.
func (r *ProfileRepository) CreateEmpty(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$setOnInsert": bson.M{
			"current_step":    domain.FirstStep,
			"completed_steps": []int{},
			"created_at":      now,
			"updated_at":      now,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("create empty profile: %w", err)
	}
	return nil
}

// Upsert merges the non-nil update fields into the document.
func (r *ProfileRepository) Upsert(ctx context.Context, userID string, update ports.ProfileUpdate) (*domain.Profile, error) {
	set := setFields(update)
	return r.upsert(ctx, userID, bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"current_step":    domain.FirstStep,
			"completed_steps": []int{},
			"created_at":      time.Now().UTC(),
		},
	})
}

// SaveStep merges the step data, moves the cursor, and unions the step into
// completed_steps — one conditional update, no read beforehand.
func (r *ProfileRepository) SaveStep(ctx context.Context, userID string, step int, update ports.ProfileUpdate) (*domain.Profile, error) {
	set := setFields(update)
	set["current_step"] = step
	return r.upsert(ctx, userID, bson.M{
		"$set":         set,
		"$addToSet":    bson.M{"completed_steps": step},
		"$setOnInsert": bson.M{"created_at": time.Now().UTC()},
	})
}

// Complete force-sets the terminal progress state alongside the final merge.
func (r *ProfileRepository) Complete(ctx context.Context, userID string, update ports.ProfileUpdate) (*domain.Profile, error) {
	set := setFields(update)
	set["current_step"] = domain.FinalStep
	set["completed_steps"] = domain.AllSteps()
	return r.upsert(ctx, userID, bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"created_at": time.Now().UTC()},
	})
}

func (r *ProfileRepository) upsert(ctx context.Context, userID string, update bson.M) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoProfile
	err := r.coll.FindOneAndUpdate(
		ctx,
		bson.M{"user_id": userID},
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&mp)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return mp.toDomain(), nil
}

// setFields translates the typed partial update into a $set document.
// Only non-nil fields are written; updated_at always moves.
func setFields(update ports.ProfileUpdate) bson.M {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Phone != nil {
		set["phone"] = *update.Phone
	}
	if update.DateOfBirth != nil {
		set["date_of_birth"] = *update.DateOfBirth
	}
	if update.Address != nil {
		set["address"] = *update.Address
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.Nationality != nil {
		set["nationality"] = *update.Nationality
	}
	if update.FieldOfStudy != nil {
		set["field_of_study"] = *update.FieldOfStudy
	}
	if update.StudyLevel != nil {
		set["study_level"] = *update.StudyLevel
	}
	if update.EnglishProficiency != nil {
		set["english_proficiency"] = update.EnglishProficiency
	}
	if update.AvailableFunds != nil {
		set["available_funds"] = *update.AvailableFunds
	}
	if update.VisaRefusalHistory != nil {
		set["visa_refusal_history"] = update.VisaRefusalHistory
	}
	if update.IntendedStartDate != nil {
		set["intended_start_date"] = update.IntendedStartDate.UTC()
	}
	if update.Education != nil {
		set["education"] = update.Education
	}
	if update.StandardizedTests != nil {
		set["standardized_tests"] = update.StandardizedTests
	}
	return set
}

// EnsureIndexes creates the unique user_id index on the profiles collection.
func (r *ProfileRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
