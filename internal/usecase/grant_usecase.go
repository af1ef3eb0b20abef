package usecase

import (
	"context"
	"errors"

	"petid/internal/converter"
	"petid/internal/delivery/dto"
	"petid/internal/domain/entity"
	"petid/internal/domain/permission"
	"petid/internal/domain/repository"
	"petid/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrGrantNotFound  = errors.New("doctor has no access to this pet")
)

type GrantUsecase interface {
	GrantDoctor(ctx context.Context, ownerID uuid.UUID, petID uuid.UUID, req *dto.GrantRequest) error
	RevokeDoctor(ctx context.Context, ownerID uuid.UUID, petID uuid.UUID, doctorID uuid.UUID) error
	ListPetDoctors(ctx context.Context, ownerID uuid.UUID, petID uuid.UUID) ([]dto.DoctorResponse, error)
	ListDoctors(ctx context.Context) ([]dto.DoctorResponse, error)
	Dashboard(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorDashboardResponse, error)
}

type grantUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	petRepo      repository.PetRepository
	doctorRepo   repository.DoctorProfileRepository
	recordRepo   repository.MedicalRecordRepository
	auditService service.AuditService
}

func NewGrantUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	petRepo repository.PetRepository,
	doctorRepo repository.DoctorProfileRepository,
	recordRepo repository.MedicalRecordRepository,
	auditService service.AuditService,
) GrantUsecase {
	return &grantUsecase{
		db:           db,
		log:          log,
		petRepo:      petRepo,
		doctorRepo:   doctorRepo,
		recordRepo:   recordRepo,
		auditService: auditService,
	}
}

// GrantDoctor adds a doctor to a pet's grant list. Granting a doctor who is
// already on the list is a no-op, not an error.
func (u *grantUsecase) GrantDoctor(ctx context.Context, ownerID uuid.UUID, petID uuid.UUID, req *dto.GrantRequest) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	pet, err := u.authorizeGrantedPet(tx, ownerID, petID, permission.ActionCreate)
	if err != nil {
		return err
	}

	profile, err := u.doctorRepo.FindByUserID(tx, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return err
	}
	if profile == nil {
		return ErrDoctorNotFound
	}

	if err := u.doctorRepo.AddPet(tx, req.DoctorID, pet.ID); err != nil {
		// The profile can disappear between the lookup above and the
		// insert; the constraint is the authority.
		if isForeignKeyError(err, "doctor_pets_doctor_id_fkey") {
			return ErrDoctorNotFound
		}
		u.log.Warnf("Failed to grant doctor access: %+v", err)
		return err
	}

	u.auditService.LogCreate(tx, &ownerID, entity.AuditActionGrantCreate, "grant", pet.ID.String(), map[string]interface{}{
		"doctor_id": req.DoctorID.String(),
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

// RevokeDoctor removes the doctor from the grant list. Records the doctor
// already wrote stay on the pet's history.
func (u *grantUsecase) RevokeDoctor(ctx context.Context, ownerID uuid.UUID, petID uuid.UUID, doctorID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	pet, err := u.authorizeGrantedPet(tx, ownerID, petID, permission.ActionDelete)
	if err != nil {
		return err
	}

	granted, err := u.doctorRepo.HasPet(tx, doctorID, pet.ID)
	if err != nil {
		u.log.Warnf("Failed to check grant membership: %+v", err)
		return err
	}
	if !granted {
		return ErrGrantNotFound
	}

	if err := u.doctorRepo.RemovePet(tx, doctorID, pet.ID); err != nil {
		u.log.Warnf("Failed to revoke doctor access: %+v", err)
		return err
	}

	u.auditService.LogDelete(tx, &ownerID, entity.AuditActionGrantRevoke, "grant", pet.ID.String(), map[string]interface{}{
		"doctor_id": doctorID.String(),
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

func (u *grantUsecase) ListPetDoctors(ctx context.Context, ownerID uuid.UUID, petID uuid.UUID) ([]dto.DoctorResponse, error) {
	db := u.db.WithContext(ctx)

	pet, err := u.authorizeGrantedPet(db, ownerID, petID, permission.ActionRead)
	if err != nil {
		return nil, err
	}

	return converter.DoctorProfilesToResponses(pet.Doctors), nil
}

// ListDoctors is the directory every owner picks from; it is intentionally
// unfiltered.
func (u *grantUsecase) ListDoctors(ctx context.Context) ([]dto.DoctorResponse, error) {
	profiles, err := u.doctorRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	return converter.DoctorProfilesToResponses(profiles), nil
}

func (u *grantUsecase) Dashboard(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorDashboardResponse, error) {
	db := u.db.WithContext(ctx)

	pets, err := u.doctorRepo.FindGrantedPets(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to list granted pets: %+v", err)
		return nil, err
	}

	total, err := u.recordRepo.CountByDoctor(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to count records: %+v", err)
		return nil, err
	}

	responses := make([]dto.PetResponse, len(pets))
	for i := range pets {
		responses[i] = *converter.PetToResponse(&pets[i], "")
	}

	return &dto.DoctorDashboardResponse{
		Pets:         responses,
		TotalRecords: total,
	}, nil
}

// authorizeGrantedPet confirms the caller owns the pet before any grant-list
// access is allowed.
func (u *grantUsecase) authorizeGrantedPet(db *gorm.DB, ownerID uuid.UUID, petID uuid.UUID, action permission.Action) (*entity.Pet, error) {
	if _, ok := permission.Check(entity.RoleIDOwner, permission.ResourceGrant, action); !ok {
		return nil, ErrForbidden
	}

	pet, err := u.petRepo.FindByID(db, petID)
	if err != nil {
		u.log.Warnf("Failed to find pet by ID: %+v", err)
		return nil, err
	}
	if pet == nil {
		return nil, ErrPetNotFound
	}
	if pet.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	return pet, nil
}
