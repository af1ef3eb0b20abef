package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"petid/internal/converter"
	"petid/internal/delivery/dto"
	"petid/internal/domain/entity"
	"petid/internal/domain/permission"
	"petid/internal/domain/repository"
	"petid/internal/infrastructure/storage"
	"petid/internal/service"
	"petid/pkg/qr"
	"petid/pkg/slug"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPetNotFound       = errors.New("pet not found")
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
	ErrBirthDateInFuture = errors.New("birthday cannot be in the future")
	ErrSlugExhausted     = errors.New("could not allocate a unique QR slug")
)

const (
	birthDateLayout = "2006-01-02"
	// slugAttempts bounds the generate-and-retry loop on slug collisions.
	// With a 128-bit token space a second attempt is already unheard of.
	slugAttempts  = 3
	slugSavepoint = "pet_slug_insert"

	avatarURLExpiry = 24 * time.Hour
)

type PetUsecase interface {
	CreatePet(ctx context.Context, ownerID uuid.UUID, req *dto.CreatePetRequest) (*dto.PetResponse, error)
	UpdatePet(ctx context.Context, ownerID uuid.UUID, petID uuid.UUID, req *dto.UpdatePetRequest) (*dto.PetResponse, error)
	GetPet(ctx context.Context, ownerID uuid.UUID, petID uuid.UUID) (*dto.PetResponse, error)
	ListOwnPets(ctx context.Context, ownerID uuid.UUID) ([]dto.PetResponse, error)
	ToggleLost(ctx context.Context, ownerID uuid.UUID, petID uuid.UUID) (*dto.PetResponse, error)
	ResolveCard(ctx context.Context, qrSlug string) (*dto.PetCardResponse, error)
	GenerateQR(ctx context.Context, ownerID uuid.UUID, petID uuid.UUID) (png []byte, filename string, err error)
	UploadAvatar(ctx context.Context, ownerID uuid.UUID, petID uuid.UUID, r io.Reader, size int64, contentType string) (*dto.PetResponse, error)
}

type petUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	petRepo      repository.PetRepository
	auditService service.AuditService
	objectStore  storage.ObjectStore
	baseURL      string
	now          func() time.Time
}

func NewPetUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	petRepo repository.PetRepository,
	auditService service.AuditService,
	objectStore storage.ObjectStore,
	baseURL string,
) PetUsecase {
	return &petUsecase{
		db:           db,
		log:          log,
		petRepo:      petRepo,
		auditService: auditService,
		objectStore:  objectStore,
		baseURL:      baseURL,
		now:          time.Now,
	}
}

func (u *petUsecase) CreatePet(ctx context.Context, ownerID uuid.UUID, req *dto.CreatePetRequest) (*dto.PetResponse, error) {
	if _, ok := permission.Check(entity.RoleIDOwner, permission.ResourcePet, permission.ActionCreate); !ok {
		return nil, ErrForbidden
	}

	birthDate, err := u.parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	pet := &entity.Pet{
		OwnerID:   ownerID,
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		Color:     req.Color,
		BirthDate: birthDate,
	}

	if err := u.createWithSlugRetry(tx, pet); err != nil {
		return nil, err
	}

	u.auditService.LogCreate(tx, &ownerID, entity.AuditActionPetCreate, "pet", pet.ID.String(), map[string]interface{}{
		"name":    pet.Name,
		"qr_slug": pet.QRSlug,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.PetToResponse(pet, ""), nil
}

func (u *petUsecase) UpdatePet(ctx context.Context, ownerID uuid.UUID, petID uuid.UUID, req *dto.UpdatePetRequest) (*dto.PetResponse, error) {
	birthDate, err := u.parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	pet, err := u.authorizeOwnedPet(tx, ownerID, petID, permission.ActionUpdate)
	if err != nil {
		return nil, err
	}

	pet.Name = req.Name
	pet.Species = req.Species
	pet.Breed = req.Breed
	pet.Color = req.Color
	pet.BirthDate = birthDate
	// pet.QRSlug deliberately untouched.

	if err := u.petRepo.Update(tx, pet); err != nil {
		u.log.Warnf("Failed to update pet: %+v", err)
		return nil, err
	}

	u.auditService.LogUpdate(tx, &ownerID, entity.AuditActionPetUpdate, "pet", pet.ID.String(), nil, map[string]interface{}{
		"name": pet.Name,
	})

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.PetToResponse(pet, u.presignAvatar(ctx, pet)), nil
}

func (u *petUsecase) GetPet(ctx context.Context, ownerID uuid.UUID, petID uuid.UUID) (*dto.PetResponse, error) {
	pet, err := u.authorizeOwnedPet(u.db.WithContext(ctx), ownerID, petID, permission.ActionRead)
	if err != nil {
		return nil, err
	}

	return converter.PetToResponse(pet, u.presignAvatar(ctx, pet)), nil
}

func (u *petUsecase) ListOwnPets(ctx context.Context, ownerID uuid.UUID) ([]dto.PetResponse, error) {
	pets, err := u.petRepo.FindByOwner(u.db.WithContext(ctx), ownerID)
	if err != nil {
		u.log.Warnf("Failed to list pets: %+v", err)
		return nil, err
	}

	responses := make([]dto.PetResponse, len(pets))
	for i := range pets {
		responses[i] = *converter.PetToResponse(&pets[i], u.presignAvatar(ctx, &pets[i]))
	}
	return responses, nil
}

func (u *petUsecase) ToggleLost(ctx context.Context, ownerID uuid.UUID, petID uuid.UUID) (*dto.PetResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	pet, err := u.authorizeOwnedPet(tx, ownerID, petID, permission.ActionUpdate)
	if err != nil {
		return nil, err
	}

	pet.IsLost = !pet.IsLost

	if err := u.petRepo.Update(tx, pet); err != nil {
		u.log.Warnf("Failed to toggle lost status: %+v", err)
		return nil, err
	}

	u.auditService.LogUpdate(tx, &ownerID, entity.AuditActionPetToggleLost, "pet", pet.ID.String(),
		map[string]interface{}{"is_lost": !pet.IsLost},
		map[string]interface{}{"is_lost": pet.IsLost},
	)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.PetToResponse(pet, u.presignAvatar(ctx, pet)), nil
}

// ResolveCard is the single unauthenticated read path: an opaque slug maps
// to display attributes only.
func (u *petUsecase) ResolveCard(ctx context.Context, qrSlug string) (*dto.PetCardResponse, error) {
	pet, err := u.petRepo.FindBySlug(u.db.WithContext(ctx), qrSlug)
	if err != nil {
		u.log.Warnf("Failed to resolve pet by slug: %+v", err)
		return nil, err
	}
	if pet == nil {
		return nil, ErrPetNotFound
	}

	return converter.PetToCardResponse(pet, u.presignAvatar(ctx, pet)), nil
}

func (u *petUsecase) GenerateQR(ctx context.Context, ownerID uuid.UUID, petID uuid.UUID) ([]byte, string, error) {
	pet, err := u.authorizeOwnedPet(u.db.WithContext(ctx), ownerID, petID, permission.ActionRead)
	if err != nil {
		return nil, "", err
	}

	png, err := qr.EncodeCard(u.baseURL, pet.QRSlug)
	if err != nil {
		u.log.Warnf("Failed to encode QR code: %+v", err)
		return nil, "", err
	}

	return png, fmt.Sprintf("%s_qr_code.png", pet.Name), nil
}

func (u *petUsecase) UploadAvatar(ctx context.Context, ownerID uuid.UUID, petID uuid.UUID, r io.Reader, size int64, contentType string) (*dto.PetResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	pet, err := u.authorizeOwnedPet(tx, ownerID, petID, permission.ActionUpdate)
	if err != nil {
		return nil, err
	}

	// Keys carry a random suffix so a replacement never overwrites the
	// object a stale presigned URL may still point at.
	oldKey := pet.AvatarKey
	key := fmt.Sprintf("pets/avatars/%s/%s", pet.ID.String(), uuid.New().String())
	if err := u.objectStore.Put(ctx, key, r, size, contentType); err != nil {
		u.log.Warnf("Failed to store avatar: %+v", err)
		return nil, err
	}

	pet.AvatarKey = key
	if err := u.petRepo.Update(tx, pet); err != nil {
		u.log.Warnf("Failed to update pet avatar: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if oldKey != "" {
		if err := u.objectStore.Delete(ctx, oldKey); err != nil {
			u.log.Warnf("Failed to remove replaced avatar %s: %+v", oldKey, err)
		}
	}

	return converter.PetToResponse(pet, u.presignAvatar(ctx, pet)), nil
}

// createWithSlugRetry inserts the pet, drawing a fresh slug on each unique
// violation. Every attempt runs under its own savepoint: Postgres aborts the
// whole transaction on a constraint error, so without the savepoint a second
// insert would only ever see a 25P02 and the retry would never happen.
func (u *petUsecase) createWithSlugRetry(tx *gorm.DB, pet *entity.Pet) error {
	for attempt := 0; attempt < slugAttempts; attempt++ {
		pet.QRSlug = slug.New()
		tx.SavePoint(slugSavepoint)
		err := u.petRepo.Create(tx, pet)
		if err == nil {
			return nil
		}
		if isDuplicateKeyError(err, "qr_slug") {
			if err := tx.RollbackTo(slugSavepoint).Error; err != nil {
				u.log.Warnf("Failed to roll back to savepoint: %+v", err)
				return err
			}
			u.log.Warnf("QR slug collision on attempt %d: %s", attempt+1, pet.QRSlug)
			continue
		}
		u.log.Warnf("Failed to create pet: %+v", err)
		return err
	}
	return ErrSlugExhausted
}

// authorizeOwnedPet loads the pet and enforces the owner relationship the
// permission table demands. Unknown pet -> ErrPetNotFound; wrong owner ->
// ErrForbidden. The two must never collapse into each other.
func (u *petUsecase) authorizeOwnedPet(db *gorm.DB, ownerID uuid.UUID, petID uuid.UUID, action permission.Action) (*entity.Pet, error) {
	rel, ok := permission.Check(entity.RoleIDOwner, permission.ResourcePet, action)
	if !ok {
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

	if rel == permission.RelOwner && pet.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	return pet, nil
}

func (u *petUsecase) parseBirthDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	birthDate, err := time.Parse(birthDateLayout, value)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	today := u.now().Format(birthDateLayout)
	if birthDate.Format(birthDateLayout) > today {
		return nil, ErrBirthDateInFuture
	}

	return &birthDate, nil
}

func (u *petUsecase) presignAvatar(ctx context.Context, pet *entity.Pet) string {
	if pet.AvatarKey == "" || u.objectStore == nil {
		return ""
	}
	url, err := u.objectStore.PresignGet(ctx, pet.AvatarKey, avatarURLExpiry)
	if err != nil {
		u.log.Warnf("Failed to presign avatar for pet %s: %+v", pet.ID, err)
		return ""
	}
	return url
}
