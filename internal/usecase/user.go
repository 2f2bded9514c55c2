package usecase

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/shoplane-io/shoplane-api/internal/model"
	"github.com/shoplane-io/shoplane-api/internal/repository"
)

// UserUsecase defines profile and role administration operations.
type UserUsecase interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, params UpdateProfileParams) (*model.User, error)
	UpdateRole(ctx context.Context, id, role string) (*model.User, error)
}

// UpdateProfileParams lists the only fields a client may change through the
// profile endpoint. Credentials, role, and verification state are not
// reachable from here.
type UpdateProfileParams struct {
	FirstName    *string
	LastName     *string
	DOB          *time.Time
	Gender       *string
	Experience   *string
	ProfileImage *string
}

var ErrInvalidRole = errors.New("invalid role")

type userUsecase struct {
	userRepo repository.UserRepository
}

// NewUserUsecase creates a new instance of UserUsecase.
func NewUserUsecase(userRepo repository.UserRepository) UserUsecase {
	return &userUsecase{userRepo: userRepo}
}

func (u *userUsecase) GetUser(ctx context.Context, id string) (*model.User, error) {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return nil, ErrUserNotFound
	}

	user, err := u.userRepo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}

func (u *userUsecase) UpdateProfile(
	ctx context.Context,
	id string,
	params UpdateProfileParams,
) (*model.User, error) {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return nil, ErrUserNotFound
	}

	user, err := u.userRepo.UpdateUser(ctx, id, repository.UpdateUserParams{
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		DOB:          params.DOB,
		Gender:       params.Gender,
		Experience:   params.Experience,
		ProfileImage: params.ProfileImage,
	})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}

func (u *userUsecase) UpdateRole(ctx context.Context, id, role string) (*model.User, error) {
	if role != model.RoleUser && role != model.RoleAdmin {
		return nil, ErrInvalidRole
	}

	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return nil, ErrUserNotFound
	}

	user, err := u.userRepo.UpdateUser(ctx, id, repository.UpdateUserParams{Role: &role})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}

		return nil, err
	}

	return user, nil
}
