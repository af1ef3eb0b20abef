package usecase

import (
	"context"
	"errors"
	"time"

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

var ErrRecordNotFound = errors.New("medical record not found")

type MedicalRecordUsecase interface {
	ListByPet(ctx context.Context, userID uuid.UUID, roleID int, petID uuid.UUID) ([]dto.MedicalRecordResponse, error)
	Add(ctx context.Context, doctorID uuid.UUID, roleID int, petID uuid.UUID, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	Edit(ctx context.Context, doctorID uuid.UUID, roleID int, recordID int64, req *dto.UpdateMedicalRecordRequest) (*dto.MedicalRecordResponse, error)
	Delete(ctx context.Context, doctorID uuid.UUID, roleID int, recordID int64) error
}

type medicalRecordUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	petRepo      repository.PetRepository
	doctorRepo   repository.DoctorProfileRepository
	recordRepo   repository.MedicalRecordRepository
	auditService service.AuditService
	now          func() time.Time
}

func NewMedicalRecordUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	petRepo repository.PetRepository,
	doctorRepo repository.DoctorProfileRepository,
	recordRepo repository.MedicalRecordRepository,
	auditService service.AuditService,
) MedicalRecordUsecase {
	return &medicalRecordUsecase{
		db:           db,
		log:          log,
		petRepo:      petRepo,
		doctorRepo:   doctorRepo,
		recordRepo:   recordRepo,
		auditService: auditService,
		now:          time.Now,
	}
}

// ListByPet serves both roles: the owner reads records of their own pets, a
// doctor reads records of pets currently on their grant list.
func (u *medicalRecordUsecase) ListByPet(ctx context.Context, userID uuid.UUID, roleID int, petID uuid.UUID) ([]dto.MedicalRecordResponse, error) {
	db := u.db.WithContext(ctx)

	if err := u.authorizePetAccess(db, userID, roleID, petID, permission.ActionRead); err != nil {
		return nil, err
	}

	records, err := u.recordRepo.FindByPet(db, petID)
	if err != nil {
		u.log.Warnf("Failed to list medical records: %+v", err)
		return nil, err
	}

	return converter.MedicalRecordsToResponses(records), nil
}

func (u *medicalRecordUsecase) Add(ctx context.Context, doctorID uuid.UUID, roleID int, petID uuid.UUID, req *dto.CreateMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.authorizePetAccess(tx, doctorID, roleID, petID, permission.ActionCreate); err != nil {
		return nil, err
	}

	record := &entity.MedicalRecord{
		PetID:        petID,
		DoctorID:     &doctorID,
		Diagnosis:    req.Diagnosis,
		Treatment:    req.Treatment,
		Prescription: req.Prescription,
		Notes:        req.Notes,
		// The visit date is stamped server-side, never taken from the
		// request body.
		Date: u.now(),
	}

	if err := u.recordRepo.Create(tx, record); err != nil {
		u.log.Warnf("Failed to create medical record: %+v", err)
		return nil, err
	}

	u.auditService.LogCreate(tx, &doctorID, entity.AuditActionRecordCreate, "medical_record", record.PetID.String(), map[string]interface{}{
		"record_id": record.ID,
		"diagnosis": record.Diagnosis,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.MedicalRecordToResponse(record), nil
}

func (u *medicalRecordUsecase) Edit(ctx context.Context, doctorID uuid.UUID, roleID int, recordID int64, req *dto.UpdateMedicalRecordRequest) (*dto.MedicalRecordResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	record, err := u.authorizeRecordAccess(tx, doctorID, roleID, recordID, permission.ActionUpdate)
	if err != nil {
		return nil, err
	}

	record.Diagnosis = req.Diagnosis
	record.Treatment = req.Treatment
	record.Prescription = req.Prescription
	record.Notes = req.Notes

	if err := u.recordRepo.Update(tx, record); err != nil {
		u.log.Warnf("Failed to update medical record: %+v", err)
		return nil, err
	}

	u.auditService.LogUpdate(tx, &doctorID, entity.AuditActionRecordUpdate, "medical_record", record.PetID.String(), nil, map[string]interface{}{
		"record_id": record.ID,
		"diagnosis": record.Diagnosis,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.MedicalRecordToResponse(record), nil
}

func (u *medicalRecordUsecase) Delete(ctx context.Context, doctorID uuid.UUID, roleID int, recordID int64) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	record, err := u.authorizeRecordAccess(tx, doctorID, roleID, recordID, permission.ActionDelete)
	if err != nil {
		return err
	}

	if err := u.recordRepo.Delete(tx, record.ID); err != nil {
		u.log.Warnf("Failed to delete medical record: %+v", err)
		return err
	}

	u.auditService.LogDelete(tx, &doctorID, entity.AuditActionRecordDelete, "medical_record", record.PetID.String(), map[string]interface{}{
		"record_id": record.ID,
		"diagnosis": record.Diagnosis,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}

// authorizePetAccess evaluates the relationship mandated by the permission
// table: owners must own the pet, doctors must hold a current grant. A record
// keeps no tie to its author for authorization purposes.
func (u *medicalRecordUsecase) authorizePetAccess(db *gorm.DB, userID uuid.UUID, roleID int, petID uuid.UUID, action permission.Action) error {
	rel, ok := permission.Check(roleID, permission.ResourceMedicalRecord, action)
	if !ok {
		return ErrForbidden
	}

	pet, err := u.petRepo.FindByID(db, petID)
	if err != nil {
		u.log.Warnf("Failed to find pet by ID: %+v", err)
		return err
	}
	if pet == nil {
		return ErrPetNotFound
	}

	switch rel {
	case permission.RelOwner:
		if pet.OwnerID != userID {
			return ErrForbidden
		}
	case permission.RelGranted:
		granted, err := u.doctorRepo.HasPet(db, userID, petID)
		if err != nil {
			u.log.Warnf("Failed to check grant membership: %+v", err)
			return err
		}
		if !granted {
			return ErrForbidden
		}
	default:
		return ErrForbidden
	}

	return nil
}

func (u *medicalRecordUsecase) authorizeRecordAccess(db *gorm.DB, userID uuid.UUID, roleID int, recordID int64, action permission.Action) (*entity.MedicalRecord, error) {
	record, err := u.recordRepo.FindByID(db, recordID)
	if err != nil {
		u.log.Warnf("Failed to find medical record: %+v", err)
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}

	if err := u.authorizePetAccess(db, userID, roleID, record.PetID, action); err != nil {
		return nil, err
	}

	return record, nil
}
