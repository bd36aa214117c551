package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/auth-flow-api/internal/model"
)

var (
	ErrDuplicateEmail = errors.New("email already registered")
	ErrUserNotFound   = errors.New("user not found")
	ErrCodeNotFound   = errors.New("verification code not found or expired")
	ErrTokenNotFound  = errors.New("reset token not found or expired")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// ConsumeVerificationCode marks the user holding an unexpired matching code
	// as verified and clears both verification fields in a single conditional
	// update, so concurrent attempts with the same code produce exactly one
	// winner.
	ConsumeVerificationCode(ctx context.Context, code string) (*model.User, error)

	// SetResetToken stores a password reset token and its expiry on the user.
	SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) (*model.User, error)

	// ConsumeResetToken replaces the password hash of the user holding an
	// unexpired matching reset token and clears both reset fields, again as a
	// single conditional update.
	ConsumeResetToken(ctx context.Context, token, passwordHash string) (*model.User, error)

	// RecordLogin updates the user's last login timestamp.
	RecordLogin(ctx context.Context, id string, at time.Time) (*model.User, error)
}

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

// NewUserMongoRepository creates a new MongoDB repository for users.
func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "verification_code", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "reset_password_token", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return user, nil
}

func (r *userMongoRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	return r.findOne(ctx, bson.M{"_id": objectID}, ErrUserNotFound)
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, ErrUserNotFound)
}

func (r *userMongoRepository) ConsumeVerificationCode(ctx context.Context, code string) (*model.User, error) {
	filter := bson.M{
		"verification_code":            code,
		"verification_code_expires_at": bson.M{"$gt": time.Now()},
	}
	update := bson.M{
		"$set": bson.M{
			"verified":   true,
			"updated_at": time.Now(),
		},
		"$unset": bson.M{
			"verification_code":            "",
			"verification_code_expires_at": "",
		},
	}

	return r.findOneAndUpdate(ctx, filter, update, ErrCodeNotFound)
}

func (r *userMongoRepository) SetResetToken(
	ctx context.Context,
	id, token string,
	expiresAt time.Time,
) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	update := bson.M{
		"$set": bson.M{
			"reset_password_token":      token,
			"reset_password_expires_at": expiresAt,
			"updated_at":                time.Now(),
		},
	}

	return r.findOneAndUpdate(ctx, bson.M{"_id": objectID}, update, ErrUserNotFound)
}

func (r *userMongoRepository) ConsumeResetToken(
	ctx context.Context,
	token, passwordHash string,
) (*model.User, error) {
	filter := bson.M{
		"reset_password_token":      token,
		"reset_password_expires_at": bson.M{"$gt": time.Now()},
	}
	update := bson.M{
		"$set": bson.M{
			"password_hash": passwordHash,
			"updated_at":    time.Now(),
		},
		"$unset": bson.M{
			"reset_password_token":      "",
			"reset_password_expires_at": "",
		},
	}

	return r.findOneAndUpdate(ctx, filter, update, ErrTokenNotFound)
}

func (r *userMongoRepository) RecordLogin(ctx context.Context, id string, at time.Time) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	update := bson.M{
		"$set": bson.M{
			"last_login_at": at,
			"updated_at":    time.Now(),
		},
	}

	return r.findOneAndUpdate(ctx, bson.M{"_id": objectID}, update, ErrUserNotFound)
}

func (r *userMongoRepository) findOne(ctx context.Context, filter bson.M, notFound error) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, filter)
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, err
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) findOneAndUpdate(
	ctx context.Context,
	filter, update bson.M,
	notFound error,
) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		filter,
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := result.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, err
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}
