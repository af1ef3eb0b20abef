package usecase

import (
	"context"
	"testing"
	"time"

	"petid/internal/delivery/dto"
	"petid/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeDoctorRepo struct {
	grants      map[uuid.UUID]map[uuid.UUID]bool // doctorID -> petID
	profiles    []entity.DoctorProfile
	grantedPets map[uuid.UUID][]entity.Pet
	addPetErr   error
}

func (r *fakeDoctorRepo) Create(db *gorm.DB, profile *entity.DoctorProfile) error { return nil }
func (r *fakeDoctorRepo) FindByUserID(db *gorm.DB, doctorID uuid.UUID) (*entity.DoctorProfile, error) {
	for i := range r.profiles {
		if r.profiles[i].UserID == doctorID {
			return &r.profiles[i], nil
		}
	}
	return nil, nil
}
func (r *fakeDoctorRepo) FindAll(db *gorm.DB) ([]entity.DoctorProfile, error) {
	return r.profiles, nil
}
func (r *fakeDoctorRepo) AddPet(db *gorm.DB, doctorID, petID uuid.UUID) error {
	if r.addPetErr != nil {
		return r.addPetErr
	}
	if r.grants == nil {
		r.grants = map[uuid.UUID]map[uuid.UUID]bool{}
	}
	if r.grants[doctorID] == nil {
		r.grants[doctorID] = map[uuid.UUID]bool{}
	}
	r.grants[doctorID][petID] = true
	return nil
}
func (r *fakeDoctorRepo) RemovePet(db *gorm.DB, doctorID, petID uuid.UUID) error {
	delete(r.grants[doctorID], petID)
	return nil
}
func (r *fakeDoctorRepo) HasPet(db *gorm.DB, doctorID, petID uuid.UUID) (bool, error) {
	return r.grants[doctorID][petID], nil
}
func (r *fakeDoctorRepo) FindGrantedPets(db *gorm.DB, doctorID uuid.UUID) ([]entity.Pet, error) {
	return r.grantedPets[doctorID], nil
}

type fakeRecordRepo struct {
	records map[uuid.UUID][]entity.MedicalRecord
	nextID  int64
}

func (r *fakeRecordRepo) Create(db *gorm.DB, record *entity.MedicalRecord) error {
	r.nextID++
	record.ID = r.nextID
	if r.records == nil {
		r.records = map[uuid.UUID][]entity.MedicalRecord{}
	}
	r.records[record.PetID] = append(r.records[record.PetID], *record)
	return nil
}
func (r *fakeRecordRepo) FindByID(db *gorm.DB, id int64) (*entity.MedicalRecord, error) {
	for _, records := range r.records {
		for i := range records {
			if records[i].ID == id {
				record := records[i]
				return &record, nil
			}
		}
	}
	return nil, nil
}
func (r *fakeRecordRepo) FindByPet(db *gorm.DB, petID uuid.UUID) ([]entity.MedicalRecord, error) {
	return r.records[petID], nil
}
func (r *fakeRecordRepo) CountByDoctor(db *gorm.DB, doctorID uuid.UUID) (int64, error) {
	return 0, nil
}
func (r *fakeRecordRepo) Update(db *gorm.DB, record *entity.MedicalRecord) error {
	records := r.records[record.PetID]
	for i := range records {
		if records[i].ID == record.ID {
			records[i] = *record
		}
	}
	return nil
}
func (r *fakeRecordRepo) Delete(db *gorm.DB, id int64) error {
	for petID, records := range r.records {
		for i := range records {
			if records[i].ID == id {
				r.records[petID] = append(records[:i], records[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

type recordFixture struct {
	pet        *entity.Pet
	ownerID    uuid.UUID
	doctorID   uuid.UUID
	doctorRepo *fakeDoctorRepo
	recordRepo *fakeRecordRepo
	audit      *fakeAuditService
	uc         MedicalRecordUsecase
}

func newRecordFixture(t *testing.T) *recordFixture {
	t.Helper()

	ownerID := uuid.New()
	doctorID := uuid.New()
	pet := &entity.Pet{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Name:    "Rex",
	}

	petRepo := &fakePetRepo{pets: map[uuid.UUID]*entity.Pet{pet.ID: pet}}
	doctorRepo := &fakeDoctorRepo{grants: map[uuid.UUID]map[uuid.UUID]bool{
		doctorID: {pet.ID: true},
	}}
	recordRepo := &fakeRecordRepo{
		nextID: 1,
		records: map[uuid.UUID][]entity.MedicalRecord{
			pet.ID: {{
				ID:        1,
				PetID:     pet.ID,
				DoctorID:  &doctorID,
				Diagnosis: "Otitis externa",
				Treatment: "Ear drops twice daily",
				Date:      time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
			}},
		},
	}
	audit := &fakeAuditService{}

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	uc := NewMedicalRecordUsecase(txDB(t), log, petRepo, doctorRepo, recordRepo, audit)
	return &recordFixture{
		pet:        pet,
		ownerID:    ownerID,
		doctorID:   doctorID,
		doctorRepo: doctorRepo,
		recordRepo: recordRepo,
		audit:      audit,
		uc:         uc,
	}
}

func TestListByPetAsOwner(t *testing.T) {
	f := newRecordFixture(t)

	records, err := f.uc.ListByPet(context.Background(), f.ownerID, entity.RoleIDOwner, f.pet.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Otitis externa", records[0].Diagnosis)
}

func TestListByPetAsGrantedDoctor(t *testing.T) {
	f := newRecordFixture(t)

	records, err := f.uc.ListByPet(context.Background(), f.doctorID, entity.RoleIDDoctor, f.pet.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestListByPetDeniesOtherOwner(t *testing.T) {
	f := newRecordFixture(t)

	_, err := f.uc.ListByPet(context.Background(), uuid.New(), entity.RoleIDOwner, f.pet.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListByPetDeniesUngrantedDoctor(t *testing.T) {
	f := newRecordFixture(t)

	_, err := f.uc.ListByPet(context.Background(), uuid.New(), entity.RoleIDDoctor, f.pet.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListByPetDeniesRevokedDoctor(t *testing.T) {
	f := newRecordFixture(t)
	f.doctorRepo.grants[f.doctorID][f.pet.ID] = false

	_, err := f.uc.ListByPet(context.Background(), f.doctorID, entity.RoleIDDoctor, f.pet.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListByPetUnknownPet(t *testing.T) {
	f := newRecordFixture(t)

	_, err := f.uc.ListByPet(context.Background(), f.ownerID, entity.RoleIDOwner, uuid.New())
	assert.ErrorIs(t, err, ErrPetNotFound)
}

func TestAddRecordStampsServerDate(t *testing.T) {
	f := newRecordFixture(t)
	f.uc.(*medicalRecordUsecase).now = func() time.Time {
		return time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)
	}

	resp, err := f.uc.Add(context.Background(), f.doctorID, entity.RoleIDDoctor, f.pet.ID, &dto.CreateMedicalRecordRequest{
		Diagnosis: "Fractured claw",
		Treatment: "Bandage, rest",
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-08-28", resp.Date)
	require.NotNil(t, resp.DoctorID)
	assert.Equal(t, f.doctorID, *resp.DoctorID)
	assert.Equal(t, []string{entity.AuditActionRecordCreate}, f.audit.actions)
	assert.Len(t, f.recordRepo.records[f.pet.ID], 2)
}

func TestAddRecordDeniesUngrantedDoctor(t *testing.T) {
	f := newRecordFixture(t)

	_, err := f.uc.Add(context.Background(), uuid.New(), entity.RoleIDDoctor, f.pet.ID, &dto.CreateMedicalRecordRequest{
		Diagnosis: "Fractured claw",
		Treatment: "Bandage, rest",
	})

	assert.ErrorIs(t, err, ErrForbidden)
	assert.Len(t, f.recordRepo.records[f.pet.ID], 1)
}

func TestAddRecordDeniesOwnerRole(t *testing.T) {
	f := newRecordFixture(t)

	_, err := f.uc.Add(context.Background(), f.ownerID, entity.RoleIDOwner, f.pet.ID, &dto.CreateMedicalRecordRequest{
		Diagnosis: "Fractured claw",
		Treatment: "Bandage, rest",
	})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestEditRecordByGrantedDoctor(t *testing.T) {
	f := newRecordFixture(t)

	// A different granted doctor may edit: access follows the current
	// grant list, not record authorship.
	otherDoctor := uuid.New()
	f.doctorRepo.grants[otherDoctor] = map[uuid.UUID]bool{f.pet.ID: true}

	resp, err := f.uc.Edit(context.Background(), otherDoctor, entity.RoleIDDoctor, 1, &dto.UpdateMedicalRecordRequest{
		Diagnosis: "Otitis media",
		Treatment: "Oral antibiotics",
	})
	require.NoError(t, err)

	assert.Equal(t, "Otitis media", resp.Diagnosis)
	assert.Equal(t, "Otitis media", f.recordRepo.records[f.pet.ID][0].Diagnosis)
	assert.Equal(t, []string{entity.AuditActionRecordUpdate}, f.audit.actions)
}

func TestEditRecordDeniesRevokedDoctor(t *testing.T) {
	f := newRecordFixture(t)
	f.doctorRepo.grants[f.doctorID][f.pet.ID] = false

	_, err := f.uc.Edit(context.Background(), f.doctorID, entity.RoleIDDoctor, 1, &dto.UpdateMedicalRecordRequest{
		Diagnosis: "Otitis media",
		Treatment: "Oral antibiotics",
	})

	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "Otitis externa", f.recordRepo.records[f.pet.ID][0].Diagnosis)
}

func TestEditRecordUnknown(t *testing.T) {
	f := newRecordFixture(t)

	_, err := f.uc.Edit(context.Background(), f.doctorID, entity.RoleIDDoctor, 99, &dto.UpdateMedicalRecordRequest{
		Diagnosis: "Otitis media",
		Treatment: "Oral antibiotics",
	})

	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeleteRecord(t *testing.T) {
	f := newRecordFixture(t)

	err := f.uc.Delete(context.Background(), f.doctorID, entity.RoleIDDoctor, 1)
	require.NoError(t, err)

	assert.Empty(t, f.recordRepo.records[f.pet.ID])
	assert.Equal(t, []string{entity.AuditActionRecordDelete}, f.audit.actions)
}

func TestDeleteRecordDeniesOwnerRole(t *testing.T) {
	f := newRecordFixture(t)

	err := f.uc.Delete(context.Background(), f.ownerID, entity.RoleIDOwner, 1)

	assert.ErrorIs(t, err, ErrForbidden)
	assert.Len(t, f.recordRepo.records[f.pet.ID], 1)
}
