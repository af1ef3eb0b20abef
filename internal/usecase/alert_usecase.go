package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petid/internal/delivery/dto"
	"petid/internal/domain/entity"
	"petid/internal/domain/repository"
	"petid/internal/infrastructure/mail"
	"petid/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrLocationMissing    = errors.New("location data missing")
	ErrDescriptionMissing = errors.New("location description is required")
	ErrRateLimited        = errors.New("too many alerts, try again later")
	ErrAlertDelivery      = errors.New("alert delivery failed")
)

type AlertUsecase interface {
	SendLocationAlert(ctx context.Context, petID uuid.UUID, clientIP string, req *dto.LocationAlertRequest) error
	SendManualAlert(ctx context.Context, petID uuid.UUID, clientIP string, req *dto.ManualLocationAlertRequest) error
}

type alertUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	petRepo      repository.PetRepository
	auditService service.AuditService
	limiter      service.RateLimiter
	mailer       mail.Mailer
	now          func() time.Time
}

func NewAlertUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	petRepo repository.PetRepository,
	auditService service.AuditService,
	limiter service.RateLimiter,
	mailer mail.Mailer,
) AlertUsecase {
	return &alertUsecase{
		db:           db,
		log:          log,
		petRepo:      petRepo,
		auditService: auditService,
		limiter:      limiter,
		mailer:       mailer,
		now:          time.Now,
	}
}

// SendLocationAlert emails the owner the coordinates reported by whoever
// scanned the pet's card. The caller is anonymous; the only gates are input
// validation and the per-pet-per-IP rate limit.
func (u *alertUsecase) SendLocationAlert(ctx context.Context, petID uuid.UUID, clientIP string, req *dto.LocationAlertRequest) error {
	if req.Latitude == nil || req.Longitude == nil {
		return ErrLocationMissing
	}

	pet, err := u.findPet(ctx, petID, clientIP)
	if err != nil {
		return err
	}

	alert := service.FoundAlert{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Timestamp: u.timestamp(req.Timestamp),
	}

	subject, body := service.BuildFoundAlertEmail(pet, alert)
	return u.deliver(ctx, pet, subject, body, map[string]interface{}{
		"type":      "location",
		"latitude":  alert.Latitude,
		"longitude": alert.Longitude,
		"client_ip": clientIP,
	})
}

// SendManualAlert is the coordinate-free variant: a free-text description,
// optionally with the finder's contact details.
func (u *alertUsecase) SendManualAlert(ctx context.Context, petID uuid.UUID, clientIP string, req *dto.ManualLocationAlertRequest) error {
	if req.LocationDescription == "" {
		return ErrDescriptionMissing
	}

	pet, err := u.findPet(ctx, petID, clientIP)
	if err != nil {
		return err
	}

	alert := service.ManualAlert{
		LocationDescription: req.LocationDescription,
		ContactInfo:         req.ContactInfo,
		Timestamp:           u.timestamp(req.Timestamp),
	}

	subject, body := service.BuildManualAlertEmail(pet, alert)
	return u.deliver(ctx, pet, subject, body, map[string]interface{}{
		"type":      "manual",
		"client_ip": clientIP,
	})
}

func (u *alertUsecase) findPet(ctx context.Context, petID uuid.UUID, clientIP string) (*entity.Pet, error) {
	pet, err := u.petRepo.FindByID(u.db.WithContext(ctx), petID)
	if err != nil {
		u.log.Warnf("Failed to find pet by ID: %+v", err)
		return nil, err
	}
	if pet == nil {
		return nil, ErrPetNotFound
	}

	allowed, err := u.limiter.Allow(ctx, fmt.Sprintf("%s:%s", petID, clientIP))
	if err != nil {
		u.log.Warnf("Rate limiter unavailable: %+v", err)
		return nil, err
	}
	if !allowed {
		return nil, ErrRateLimited
	}

	return pet, nil
}

func (u *alertUsecase) deliver(ctx context.Context, pet *entity.Pet, subject, body string, metadata map[string]interface{}) error {
	if err := u.mailer.Send(pet.Owner.Email, subject, body); err != nil {
		u.log.Warnf("Failed to send alert email for pet %s: %+v", pet.ID, err)
		return ErrAlertDelivery
	}

	// Alerts come from anonymous finders, so the audit row has no actor.
	u.auditService.LogCreate(u.db.WithContext(ctx), nil, entity.AuditActionAlertSend, "pet", pet.ID.String(), metadata)

	return nil
}

func (u *alertUsecase) timestamp(value string) string {
	if value != "" {
		return value
	}
	return u.now().Format("2006-01-02 15:04:05")
}
