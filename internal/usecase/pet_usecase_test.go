package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"petid/internal/delivery/dto"
	"petid/internal/domain/entity"
	"petid/pkg/slug"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// txDB returns a gorm handle whose transaction control statements run against
// a mock connection. The repositories in these tests are fakes, so the mock
// only ever sees BEGIN/COMMIT/ROLLBACK and savepoint traffic; a generous pool
// of expectations covers however many of those a test needs.
func txDB(t *testing.T) *gorm.DB {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 4; i++ {
		mock.ExpectBegin()
		mock.ExpectExec("SAVEPOINT").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("SAVEPOINT").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()
		mock.ExpectRollback()
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

type fakeObjectStore struct {
	objects map[string]string
	deleted []string
}

func (s *fakeObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if s.objects == nil {
		s.objects = map[string]string{}
	}
	s.objects[key] = string(data)
	return nil
}

func (s *fakeObjectStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "https://cdn.example.com/" + key, nil
}

func (s *fakeObjectStore) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.objects, key)
	return nil
}

type petFixture struct {
	ownerID uuid.UUID
	pet     *entity.Pet
	petRepo *fakePetRepo
	audit   *fakeAuditService
	store   *fakeObjectStore
	uc      PetUsecase
}

func newPetFixture(t *testing.T) *petFixture {
	t.Helper()

	ownerID := uuid.New()
	pet := &entity.Pet{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    "Rex",
		Species: "Dog",
		QRSlug:  "a3f1c09b2d4e48f8a1b2c3d4e5f60718",
		Owner: entity.User{
			Email:       "owner@example.com",
			FirstName:   "Jane",
			LastName:    "Doe",
			PhoneNumber: "555-0100",
		},
	}

	petRepo := &fakePetRepo{pets: map[uuid.UUID]*entity.Pet{pet.ID: pet}}
	audit := &fakeAuditService{}
	store := &fakeObjectStore{}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	uc := NewPetUsecase(txDB(t), log, petRepo, audit, store, "https://petid.example.com")
	return &petFixture{
		ownerID: ownerID,
		pet:     pet,
		petRepo: petRepo,
		audit:   audit,
		store:   store,
		uc:      uc,
	}
}

func slugConflict() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "pets_qr_slug_key"}
}

func TestCreatePet(t *testing.T) {
	f := newPetFixture(t)

	resp, err := f.uc.CreatePet(context.Background(), f.ownerID, &dto.CreatePetRequest{
		Name:      "Luna",
		Species:   "Cat",
		Breed:     "Siamese",
		BirthDate: "2023-04-12",
	})
	require.NoError(t, err)

	assert.Equal(t, "Luna", resp.Name)
	assert.Equal(t, "2023-04-12", resp.BirthDate)
	assert.False(t, resp.IsLost)
	assert.True(t, slug.Valid(resp.QRSlug))
	assert.Contains(t, f.audit.actions, entity.AuditActionPetCreate)
}

func TestCreatePetRetriesOnSlugCollision(t *testing.T) {
	f := newPetFixture(t)
	f.petRepo.createErrs = []error{slugConflict()}

	resp, err := f.uc.CreatePet(context.Background(), f.ownerID, &dto.CreatePetRequest{Name: "Luna"})
	require.NoError(t, err)

	require.Len(t, f.petRepo.slugs, 2)
	assert.NotEqual(t, f.petRepo.slugs[0], f.petRepo.slugs[1])
	assert.Equal(t, f.petRepo.slugs[1], resp.QRSlug)
	assert.Contains(t, f.audit.actions, entity.AuditActionPetCreate)
}

func TestCreatePetSlugSpaceExhausted(t *testing.T) {
	f := newPetFixture(t)
	f.petRepo.createErrs = []error{slugConflict(), slugConflict(), slugConflict()}

	_, err := f.uc.CreatePet(context.Background(), f.ownerID, &dto.CreatePetRequest{Name: "Luna"})

	assert.ErrorIs(t, err, ErrSlugExhausted)
	assert.Len(t, f.petRepo.slugs, 3)
	assert.Empty(t, f.audit.actions)
}

func TestCreatePetDoesNotRetryOtherErrors(t *testing.T) {
	f := newPetFixture(t)
	insertErr := errors.New("connection reset by peer")
	f.petRepo.createErrs = []error{insertErr}

	_, err := f.uc.CreatePet(context.Background(), f.ownerID, &dto.CreatePetRequest{Name: "Luna"})

	assert.ErrorIs(t, err, insertErr)
	assert.Len(t, f.petRepo.slugs, 1)
}

func TestCreatePetBirthDate(t *testing.T) {
	f := newPetFixture(t)
	f.uc.(*petUsecase).now = func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		name      string
		birthDate string
		wantErr   error
	}{
		{"past", "2026-08-27", nil},
		{"today", "2026-08-28", nil},
		{"tomorrow", "2026-08-29", ErrBirthDateInFuture},
		{"wrong layout", "28-08-2026", ErrInvalidDateFormat},
		{"empty", "", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := f.uc.CreatePet(context.Background(), f.ownerID, &dto.CreatePetRequest{
				Name:      "Luna",
				BirthDate: tc.birthDate,
			})
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.birthDate, resp.BirthDate)
		})
	}
}

func TestToggleLostTwiceRestoresOriginal(t *testing.T) {
	f := newPetFixture(t)
	require.False(t, f.pet.IsLost)

	resp, err := f.uc.ToggleLost(context.Background(), f.ownerID, f.pet.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsLost)

	resp, err = f.uc.ToggleLost(context.Background(), f.ownerID, f.pet.ID)
	require.NoError(t, err)
	assert.False(t, resp.IsLost)
	assert.False(t, f.pet.IsLost)

	assert.Equal(t, []string{entity.AuditActionPetToggleLost, entity.AuditActionPetToggleLost}, f.audit.actions)
	assert.Len(t, f.petRepo.updated, 2)
}

func TestToggleLostDeniesOtherOwner(t *testing.T) {
	f := newPetFixture(t)

	_, err := f.uc.ToggleLost(context.Background(), uuid.New(), f.pet.ID)

	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, f.petRepo.updated)
}

func TestUploadAvatar(t *testing.T) {
	f := newPetFixture(t)

	resp, err := f.uc.UploadAvatar(context.Background(), f.ownerID, f.pet.ID,
		strings.NewReader("png bytes"), 9, "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(f.pet.AvatarKey, fmt.Sprintf("pets/avatars/%s/", f.pet.ID)))
	assert.Equal(t, "https://cdn.example.com/"+f.pet.AvatarKey, resp.AvatarURL)
	assert.Empty(t, f.store.deleted)
}

func TestUploadAvatarRemovesReplacedObject(t *testing.T) {
	f := newPetFixture(t)
	f.pet.AvatarKey = "pets/avatars/" + f.pet.ID.String() + "/old-object"
	oldKey := f.pet.AvatarKey

	_, err := f.uc.UploadAvatar(context.Background(), f.ownerID, f.pet.ID,
		strings.NewReader("png bytes"), 9, "image/png")
	require.NoError(t, err)

	assert.NotEqual(t, oldKey, f.pet.AvatarKey)
	assert.Equal(t, []string{oldKey}, f.store.deleted)
	assert.Contains(t, f.store.objects, f.pet.AvatarKey)
}

func TestResolveCardIncludesOwnerContact(t *testing.T) {
	f := newPetFixture(t)

	card, err := f.uc.ResolveCard(context.Background(), f.pet.QRSlug)
	require.NoError(t, err)

	assert.Equal(t, "Rex", card.Name)
	assert.Equal(t, "Jane Doe", card.OwnerName)
	assert.Equal(t, "555-0100", card.OwnerPhone)
}

func TestResolveCardUnknownSlug(t *testing.T) {
	f := newPetFixture(t)

	_, err := f.uc.ResolveCard(context.Background(), "ffffffffffffffffffffffffffffffff")
	assert.ErrorIs(t, err, ErrPetNotFound)
}
