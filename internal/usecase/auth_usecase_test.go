package usecase

import (
	"context"
	"testing"
	"time"

	"petid/config"
	"petid/internal/delivery/dto"
	"petid/internal/domain/entity"
	"petid/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeUserRepo matches emails exactly, like the unique index it stands in
// for: case-insensitivity must come from the usecase, not the lookup.
type fakeUserRepo struct {
	users map[string]*entity.User
}

func (r *fakeUserRepo) Create(db *gorm.DB, user *entity.User) error {
	if _, exists := r.users[user.Email]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	}
	user.ID = uuid.New()
	r.users[user.Email] = user
	return nil
}

func (r *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	return r.users[email], nil
}

func (r *fakeUserRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(db *gorm.DB, user *entity.User) error { return nil }

func newAuthFixture(t *testing.T) (*fakeUserRepo, AuthUsecase) {
	t.Helper()

	userRepo := &fakeUserRepo{users: map[string]*entity.User{}}

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  time.Minute,
		RefreshExpiry: time.Hour,
	})

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	uc := NewAuthUsecase(txDB(t), log, userRepo, &fakeDoctorRepo{}, &fakeAuditService{}, jwtService, redisClient)
	return userRepo, uc
}

func TestRegisterOwnerNormalizesEmail(t *testing.T) {
	userRepo, uc := newAuthFixture(t)

	resp, err := uc.RegisterOwner(context.Background(), &dto.RegisterOwnerRequest{
		Email:     "  Jane.Doe@Example.COM ",
		Password:  "Sup3rSecret!",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)

	assert.Equal(t, "jane.doe@example.com", resp.Email)
	assert.Contains(t, userRepo.users, "jane.doe@example.com")
}

func TestLoginEmailCaseInsensitive(t *testing.T) {
	_, uc := newAuthFixture(t)

	_, err := uc.RegisterOwner(context.Background(), &dto.RegisterOwnerRequest{
		Email:     "jane.doe@example.com",
		Password:  "Sup3rSecret!",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)

	tokens, err := uc.Login(context.Background(), &dto.LoginRequest{
		Email:    "JANE.DOE@Example.com",
		Password: "Sup3rSecret!",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestRegisterOwnerDuplicateEmailDiffersOnlyByCase(t *testing.T) {
	_, uc := newAuthFixture(t)

	_, err := uc.RegisterOwner(context.Background(), &dto.RegisterOwnerRequest{
		Email:     "jane.doe@example.com",
		Password:  "Sup3rSecret!",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)

	_, err = uc.RegisterOwner(context.Background(), &dto.RegisterOwnerRequest{
		Email:     "Jane.Doe@EXAMPLE.com",
		Password:  "Sup3rSecret!",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	_, uc := newAuthFixture(t)

	_, err := uc.RegisterOwner(context.Background(), &dto.RegisterOwnerRequest{
		Email:     "jane.doe@example.com",
		Password:  "Sup3rSecret!",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)

	_, err = uc.Login(context.Background(), &dto.LoginRequest{
		Email:    "jane.doe@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
