package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shoplane-io/shoplane-api/internal/model"
)

func TestGetUser(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUsecase(repo)

	_, err := uc.GetUser(context.Background(), "not-a-hex-id")
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = uc.GetUser(context.Background(), "64b64c3f9d3f1a2b3c4d5e6f")
	require.ErrorIs(t, err, ErrUserNotFound)

	user, err := repo.CreateUser(context.Background(), &model.User{Email: "a@x.com"})
	require.NoError(t, err)

	got, err := uc.GetUser(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, "a@x.com", got.Email)
}

func TestUpdateProfile_AllowList(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUsecase(repo)

	user, err := repo.CreateUser(context.Background(), &model.User{
		Email:        "a@x.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	})
	require.NoError(t, err)

	firstName := "New"
	gender := "female"
	updated, err := uc.UpdateProfile(context.Background(), user.ID.Hex(), UpdateProfileParams{
		FirstName: &firstName,
		Gender:    &gender,
	})
	require.NoError(t, err)
	require.Equal(t, "New", updated.FirstName)
	require.Equal(t, "female", updated.Gender)

	// Credentials and role are unreachable through the profile path.
	require.Equal(t, "hash", updated.PasswordHash)
	require.Equal(t, model.RoleUser, updated.Role)
}

func TestUpdateRole(t *testing.T) {
	repo := newFakeUserRepo()
	uc := NewUserUsecase(repo)

	user, err := repo.CreateUser(context.Background(), &model.User{
		Email: "a@x.com",
		Role:  model.RoleUser,
	})
	require.NoError(t, err)

	_, err = uc.UpdateRole(context.Background(), user.ID.Hex(), "superuser")
	require.ErrorIs(t, err, ErrInvalidRole)

	updated, err := uc.UpdateRole(context.Background(), user.ID.Hex(), model.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, updated.Role)
}
