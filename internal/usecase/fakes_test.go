package usecase

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/shoplane-io/shoplane-api/internal/config"
	"github.com/shoplane-io/shoplane-api/internal/model"
	"github.com/shoplane-io/shoplane-api/internal/repository"
)

// fakeUserRepo is an in-memory UserRepository. It reproduces the store
// behaviors the flows depend on: ErrNoDocuments on a miss and a duplicate
// key write error on an email collision.
type fakeUserRepo struct {
	users map[string]*model.User // keyed by id hex

	createErr error
	updateErr error

	// When positive, GetUserByEmail misses that many times before reading
	// the map, as if a concurrent insert had not committed yet.
	getByEmailMisses int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func duplicateKeyErr() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}

	for _, existing := range f.users {
		if existing.Email == user.Email {
			return nil, duplicateKeyErr()
		}
	}

	user.ID = bson.NewObjectID()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	f.users[user.ID.Hex()] = user

	return user, nil
}

func (f *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getByEmailMisses > 0 {
		f.getByEmailMisses--
		return nil, mongo.ErrNoDocuments
	}

	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (f *fakeUserRepo) UpdateUser(
	_ context.Context,
	id string,
	params repository.UpdateUserParams,
) (*model.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}

	user, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.FirstName != nil {
		user.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		user.LastName = *params.LastName
	}
	if params.DOB != nil {
		user.DOB = params.DOB
	}
	if params.Gender != nil {
		user.Gender = *params.Gender
	}
	if params.Experience != nil {
		user.Experience = *params.Experience
	}
	if params.ProfileImage != nil {
		user.ProfileImage = *params.ProfileImage
	}
	if params.PasswordHash != nil {
		user.PasswordHash = *params.PasswordHash
	}
	if params.Verified != nil {
		user.Verified = *params.Verified
	}
	if params.Role != nil {
		user.Role = *params.Role
	}
	if params.OTP != nil {
		user.OTP = *params.OTP
	}
	if params.OTPExpiresAt != nil {
		user.OTPExpiresAt = *params.OTPExpiresAt
	}
	if params.ResetOTP != nil {
		user.ResetOTP = *params.ResetOTP
	}
	if params.ResetOTPExpires != nil {
		user.ResetOTPExpires = *params.ResetOTPExpires
	}

	if params.ClearVerificationOTP {
		user.OTP = ""
		user.OTPExpiresAt = time.Time{}
	}
	if params.ClearResetOTP {
		user.ResetOTP = ""
		user.ResetOTPExpires = time.Time{}
	}

	user.UpdatedAt = time.Now()

	return user, nil
}

type sentMail struct {
	to       []string
	subject  string
	htmlBody string
}

// fakeMailer records outbound mail and can be told to fail.
type fakeMailer struct {
	sent    []sentMail
	sendErr error
}

func (f *fakeMailer) SendHTML(to []string, subject, htmlBody string) error {
	if f.sendErr != nil {
		return f.sendErr
	}

	f.sent = append(f.sent, sentMail{to: to, subject: subject, htmlBody: htmlBody})
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Token: config.TokenConfig{
			Secret:    "test-secret",
			ExpiresIn: 7 * 24 * time.Hour,
			Issuer:    "shoplane-api",
		},
		OTP: config.OTPConfig{
			ExpiresIn:       10 * time.Minute,
			ResendExpiresIn: 5 * time.Minute,
		},
	}
}
