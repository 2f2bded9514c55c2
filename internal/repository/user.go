package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/shoplane-io/shoplane-api/internal/model"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*model.User, error)
}

// UpdateUserParams defines the optional parameters for updating a user.
// Only the fields that are not nil will be set; the Clear flags unset the
// corresponding OTP pair in the same write, so every lifecycle transition is
// a single atomic update.
type UpdateUserParams struct {
	FirstName    *string
	LastName     *string
	DOB          *time.Time
	Gender       *string
	Experience   *string
	ProfileImage *string
	PasswordHash *string
	Verified     *bool
	Role         *string

	OTP             *string
	OTPExpiresAt    *time.Time
	ResetOTP        *string
	ResetOTPExpires *time.Time

	ClearVerificationOTP bool
	ClearResetOTP        bool
}

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

// NewUserMongoRepository creates the user repository and ensures the unique
// email index exists. Email uniqueness is enforced here, not in flow logic;
// concurrent registrations for the same email race and the index decides.
func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
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
		return nil, err
	}

	result := r.db.Collection(userCollection).FindOne(ctx, bson.M{"_id": objectID})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, bson.M{"email": email})
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userMongoRepository) UpdateUser(
	ctx context.Context,
	id string,
	params UpdateUserParams,
) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	// Build update query
	setMap := bson.M{}
	if params.FirstName != nil {
		setMap["first_name"] = *params.FirstName
	}
	if params.LastName != nil {
		setMap["last_name"] = *params.LastName
	}
	if params.DOB != nil {
		setMap["dob"] = *params.DOB
	}
	if params.Gender != nil {
		setMap["gender"] = *params.Gender
	}
	if params.Experience != nil {
		setMap["experience"] = *params.Experience
	}
	if params.ProfileImage != nil {
		setMap["profile_image"] = *params.ProfileImage
	}
	if params.PasswordHash != nil {
		setMap["password_hash"] = *params.PasswordHash
	}
	if params.Verified != nil {
		setMap["verified"] = *params.Verified
	}
	if params.Role != nil {
		setMap["role"] = *params.Role
	}
	if params.OTP != nil {
		setMap["otp"] = *params.OTP
	}
	if params.OTPExpiresAt != nil {
		setMap["otp_expires_at"] = *params.OTPExpiresAt
	}
	if params.ResetOTP != nil {
		setMap["reset_otp"] = *params.ResetOTP
	}
	if params.ResetOTPExpires != nil {
		setMap["reset_otp_expires_at"] = *params.ResetOTPExpires
	}

	unsetMap := bson.M{}
	if params.ClearVerificationOTP {
		unsetMap["otp"] = ""
		unsetMap["otp_expires_at"] = ""
	}
	if params.ClearResetOTP {
		unsetMap["reset_otp"] = ""
		unsetMap["reset_otp_expires_at"] = ""
	}

	if len(setMap) == 0 && len(unsetMap) == 0 {
		return nil, errors.New("no user fields to update")
	}

	setMap["updated_at"] = time.Now()

	update := bson.M{"$set": setMap}
	if len(unsetMap) > 0 {
		update["$unset"] = unsetMap
	}

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}
