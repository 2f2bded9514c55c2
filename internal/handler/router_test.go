package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/shoplane-io/shoplane-api/internal/config"
	"github.com/shoplane-io/shoplane-api/internal/model"
	"github.com/shoplane-io/shoplane-api/internal/repository"
	"github.com/shoplane-io/shoplane-api/internal/uploader"
	"github.com/shoplane-io/shoplane-api/internal/usecase"
	"github.com/shoplane-io/shoplane-api/shared/auth"
	"github.com/shoplane-io/shoplane-api/shared/validator"
)

type fakeUserUC struct {
	user *model.User
}

func (f *fakeUserUC) GetUser(_ context.Context, _ string) (*model.User, error) {
	return f.user, nil
}

func (f *fakeUserUC) UpdateProfile(_ context.Context, _ string, _ usecase.UpdateProfileParams) (*model.User, error) {
	return f.user, nil
}

func (f *fakeUserUC) UpdateRole(_ context.Context, _, _ string) (*model.User, error) {
	return f.user, nil
}

type fakeProductUC struct{}

func (f *fakeProductUC) SearchProducts(_ context.Context, _ string) ([]*model.Product, error) {
	return nil, nil
}

func (f *fakeProductUC) GetProduct(_ context.Context, _ string) (*model.Product, error) {
	return nil, usecase.ErrProductNotFound
}

func (f *fakeProductUC) CreateProduct(_ context.Context, p *model.Product) (*model.Product, error) {
	return p, nil
}

func (f *fakeProductUC) UpdateProduct(_ context.Context, _ string, _ repository.UpdateProductParams) (*model.Product, error) {
	return nil, usecase.ErrProductNotFound
}

func (f *fakeProductUC) DeleteProduct(_ context.Context, _ string) error {
	return usecase.ErrProductNotFound
}

func newRouterForTest(t *testing.T) (http.Handler, *config.Config, auth.JWTAuthenticator) {
	t.Helper()

	cfg := &config.Config{
		UploadDir: t.TempDir(),
		Token: config.TokenConfig{
			Secret:    "test-secret",
			ExpiresIn: time.Hour,
			Issuer:    "shoplane-api",
		},
	}

	logger := zerolog.Nop()
	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Issuer, cfg.Token.Issuer)

	v, err := validator.New()
	require.NoError(t, err)

	up, err := uploader.NewDiskUploader(cfg.UploadDir)
	require.NoError(t, err)

	user := &model.User{ID: bson.NewObjectID(), Email: "a@x.com", Role: model.RoleUser}

	authHandler := NewAuthHandler(&fakeAuthUC{}, &fakeResetUC{}, v, &logger)
	userHandler := NewUserHandler(&fakeUserUC{user: user}, v, &logger)
	productHandler := NewProductHandler(&fakeProductUC{}, up, v, &logger)

	return NewRouter(cfg, &logger, jwtAuth, authHandler, userHandler, productHandler), cfg, jwtAuth
}

func signToken(t *testing.T, jwtAuth auth.JWTAuthenticator, cfg *config.Config, role string) string {
	t.Helper()

	now := time.Now()
	token, err := jwtAuth.GenerateToken(auth.AccessTokenClaims{
		UserID: "user-1",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			Issuer:    cfg.Token.Issuer,
			Audience:  jwt.ClaimStrings{cfg.Token.Issuer},
		},
	}, cfg.Token.Secret)
	require.NoError(t, err)

	return token
}

func TestRouter_UserRoutesRequireToken(t *testing.T) {
	router, cfg, jwtAuth := newRouterForTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/users/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/users/abc", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/users/abc", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwtAuth, cfg, model.RoleUser))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RoleEndpointRequiresAdmin(t *testing.T) {
	router, cfg, jwtAuth := newRouterForTest(t)

	body := `{"role":"admin"}`

	req := httptest.NewRequest(http.MethodPatch, "/api/users/abc/role", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwtAuth, cfg, model.RoleUser))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPatch, "/api/users/abc/role", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwtAuth, cfg, model.RoleAdmin))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_OTPEndpointsRateLimited(t *testing.T) {
	router, _, _ := newRouterForTest(t)

	body := `{"email":"a@x.com"}`

	var last int
	for range 4 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/forgot-password", strings.NewReader(body))
		req.RemoteAddr = "203.0.113.5:1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		last = rec.Code
	}

	require.Equal(t, http.StatusTooManyRequests, last)
}

func TestRouter_Healthz(t *testing.T) {
	router, _, _ := newRouterForTest(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
