package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"slice-url/internal/entities"
)

type userDocument struct {
	ID                       bson.ObjectID     `bson:"_id,omitempty"`
	Email                    string            `bson:"email"`
	Username                 string            `bson:"username"`
	FullName                 string            `bson:"fullName"`
	Password                 string            `bson:"password"`
	AuthType                 entities.AuthType `bson:"authType"`
	IsAccountConfirmed       bool              `bson:"isAccountConfirmed"`
	AccountConfirmationToken string            `bson:"accountConfirmationToken"`
	CreatedAt                time.Time         `bson:"createdAt"`
}

func (d *userDocument) toEntity() *entities.User {
	return &entities.User{
		ID:                       d.ID.Hex(),
		Email:                    d.Email,
		Username:                 d.Username,
		FullName:                 d.FullName,
		PasswordHash:             d.Password,
		AuthType:                 d.AuthType,
		IsAccountConfirmed:       d.IsAccountConfirmed,
		AccountConfirmationToken: d.AccountConfirmationToken,
		CreatedAt:                d.CreatedAt,
	}
}

type mongoUserRepository struct {
	users *mongo.Collection
}

// NewMongoUserRepository creates a user repository backed by MongoDB
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{users: db.Collection(ColUsers)}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	doc := userDocument{
		Email:                    user.Email,
		Username:                 user.Username,
		FullName:                 user.FullName,
		Password:                 user.PasswordHash,
		AuthType:                 user.AuthType,
		IsAccountConfirmed:       user.IsAccountConfirmed,
		AccountConfirmationToken: user.AccountConfirmationToken,
		CreatedAt:                time.Now().UTC(),
	}

	result, err := r.users.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if oid, ok := result.InsertedID.(bson.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toEntity(), nil
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter any) (*entities.User, error) {
	var doc userDocument
	err := r.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *mongoUserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*entities.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"username": username},
	}})
}

func (r *mongoUserRepository) updateOne(ctx context.Context, id string, set bson.M) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := r.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) Confirm(ctx context.Context, id string) error {
	return r.updateOne(ctx, id, bson.M{
		"isAccountConfirmed":       true,
		"accountConfirmationToken": "",
	})
}

func (r *mongoUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.updateOne(ctx, id, bson.M{"password": passwordHash})
}

func (r *mongoUserRepository) UpdateProfile(ctx context.Context, id, username, fullName string) (*entities.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.M{}
	if username != "" {
		set["username"] = username
	}
	if fullName != "" {
		set["fullName"] = fullName
	}
	if len(set) == 0 {
		return r.findOne(ctx, bson.M{"_id": oid})
	}

	var doc userDocument
	err = r.users.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return doc.toEntity(), nil
}

type mongoVisitRepository struct {
	visitors *mongo.Collection
}

// NewMongoVisitRepository creates a visit repository backed by MongoDB
func NewMongoVisitRepository(db *mongo.Database) VisitRepository {
	return &mongoVisitRepository{visitors: db.Collection(ColVisitors)}
}

func (r *mongoVisitRepository) Record(ctx context.Context, visit entities.Visit) (int64, error) {
	_, err := r.visitors.InsertOne(ctx, bson.M{
		"current_time": visit.Time.UTC(),
		"user_agent":   visit.UserAgent,
		"source":       visit.Source,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to record visit: %w", err)
	}

	total, err := r.visitors.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}
	return total, nil
}
