package usecase

import (
	"context"
	"testing"

	"petid/internal/delivery/dto"
	"petid/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type countingRecordRepo struct {
	fakeRecordRepo
	authored map[uuid.UUID]int64
}

func (r *countingRecordRepo) CountByDoctor(db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	return r.authored[doctorID], nil
}

type grantFixture struct {
	pet        *entity.Pet
	ownerID    uuid.UUID
	doctorID   uuid.UUID
	doctorRepo *fakeDoctorRepo
	audit      *fakeAuditService
	uc         GrantUsecase
}

func newGrantFixture(t *testing.T) *grantFixture {
	t.Helper()

	ownerID := uuid.New()
	doctorID := uuid.New()
	pet := &entity.Pet{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    "Rex",
		Doctors: []entity.DoctorProfile{{
			UserID:         doctorID,
			Specialization: "Dermatology",
			User:           entity.User{Email: "vet@example.com", FirstName: "Ada", LastName: "Reyes"},
		}},
	}

	petRepo := &fakePetRepo{pets: map[uuid.UUID]*entity.Pet{pet.ID: pet}}
	doctorRepo := &fakeDoctorRepo{
		grants:   map[uuid.UUID]map[uuid.UUID]bool{doctorID: {pet.ID: true}},
		profiles: pet.Doctors,
		grantedPets: map[uuid.UUID][]entity.Pet{
			doctorID: {*pet},
		},
	}
	recordRepo := &countingRecordRepo{authored: map[uuid.UUID]int64{doctorID: 4}}
	audit := &fakeAuditService{}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	uc := NewGrantUsecase(txDB(t), log, petRepo, doctorRepo, recordRepo, audit)
	return &grantFixture{
		pet:        pet,
		ownerID:    ownerID,
		doctorID:   doctorID,
		doctorRepo: doctorRepo,
		audit:      audit,
		uc:         uc,
	}
}

func TestGrantDoctor(t *testing.T) {
	f := newGrantFixture(t)
	newDoctor := uuid.New()
	f.doctorRepo.profiles = append(f.doctorRepo.profiles, entity.DoctorProfile{UserID: newDoctor})

	err := f.uc.GrantDoctor(context.Background(), f.ownerID, f.pet.ID, &dto.GrantRequest{DoctorID: newDoctor})
	require.NoError(t, err)

	assert.True(t, f.doctorRepo.grants[newDoctor][f.pet.ID])
	assert.Equal(t, []string{entity.AuditActionGrantCreate}, f.audit.actions)
}

func TestGrantDoctorUnknownDoctor(t *testing.T) {
	f := newGrantFixture(t)

	err := f.uc.GrantDoctor(context.Background(), f.ownerID, f.pet.ID, &dto.GrantRequest{DoctorID: uuid.New()})

	assert.ErrorIs(t, err, ErrDoctorNotFound)
	assert.Empty(t, f.audit.actions)
}

func TestGrantDoctorProfileRemovedConcurrently(t *testing.T) {
	f := newGrantFixture(t)
	f.doctorRepo.addPetErr = &pgconn.PgError{Code: "23503", ConstraintName: "doctor_pets_doctor_id_fkey"}

	err := f.uc.GrantDoctor(context.Background(), f.ownerID, f.pet.ID, &dto.GrantRequest{DoctorID: f.doctorID})

	assert.ErrorIs(t, err, ErrDoctorNotFound)
	assert.Empty(t, f.audit.actions)
}

func TestGrantDoctorDeniesOtherOwner(t *testing.T) {
	f := newGrantFixture(t)

	err := f.uc.GrantDoctor(context.Background(), uuid.New(), f.pet.ID, &dto.GrantRequest{DoctorID: f.doctorID})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRevokeDoctor(t *testing.T) {
	f := newGrantFixture(t)

	err := f.uc.RevokeDoctor(context.Background(), f.ownerID, f.pet.ID, f.doctorID)
	require.NoError(t, err)

	assert.False(t, f.doctorRepo.grants[f.doctorID][f.pet.ID])
	assert.Equal(t, []string{entity.AuditActionGrantRevoke}, f.audit.actions)
}

func TestRevokeDoctorNotGranted(t *testing.T) {
	f := newGrantFixture(t)

	err := f.uc.RevokeDoctor(context.Background(), f.ownerID, f.pet.ID, uuid.New())

	assert.ErrorIs(t, err, ErrGrantNotFound)
	assert.Empty(t, f.audit.actions)
}

func TestListPetDoctors(t *testing.T) {
	f := newGrantFixture(t)

	doctors, err := f.uc.ListPetDoctors(context.Background(), f.ownerID, f.pet.ID)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Dermatology", doctors[0].Specialization)
	assert.Equal(t, "vet@example.com", doctors[0].Email)
}

func TestListPetDoctorsDeniesOtherOwner(t *testing.T) {
	f := newGrantFixture(t)

	_, err := f.uc.ListPetDoctors(context.Background(), uuid.New(), f.pet.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListPetDoctorsUnknownPet(t *testing.T) {
	f := newGrantFixture(t)

	_, err := f.uc.ListPetDoctors(context.Background(), f.ownerID, uuid.New())
	assert.ErrorIs(t, err, ErrPetNotFound)
}

func TestListDoctorsDirectory(t *testing.T) {
	f := newGrantFixture(t)

	doctors, err := f.uc.ListDoctors(context.Background())
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, "Ada", doctors[0].FirstName)
}

func TestDoctorDashboard(t *testing.T) {
	f := newGrantFixture(t)

	dashboard, err := f.uc.Dashboard(context.Background(), f.doctorID)
	require.NoError(t, err)
	require.Len(t, dashboard.Pets, 1)
	assert.Equal(t, f.pet.Name, dashboard.Pets[0].Name)
	assert.Equal(t, int64(4), dashboard.TotalRecords)
}

func TestDoctorDashboardEmpty(t *testing.T) {
	f := newGrantFixture(t)

	dashboard, err := f.uc.Dashboard(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, dashboard.Pets)
	assert.Zero(t, dashboard.TotalRecords)
}
