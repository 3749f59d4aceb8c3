package stores

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/stablemesh/go-breeder-network/internal/repo"
	"github.com/stablemesh/go-breeder-network/internal/services"
)

// GormAnimalStore implements services.AnimalStore on the shared database.
type GormAnimalStore struct {
	DB *gorm.DB
}

// GetAnimal returns the animal by id, or repo.ErrNotFound.
func (s *GormAnimalStore) GetAnimal(ctx context.Context, animalID string) (*services.Animal, error) {
	var rec AnimalRecord
	err := s.DB.WithContext(ctx).First(&rec, "id = ?", animalID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}
	a := toAnimal(&rec)
	return &a, nil
}

// ListShareableAnimals returns the tenant's animals flagged shareable.
func (s *GormAnimalStore) ListShareableAnimals(ctx context.Context, tenantID string) ([]services.Animal, error) {
	var recs []AnimalRecord
	err := s.DB.WithContext(ctx).
		Where("tenant_id = ? AND shareable = ?", tenantID, true).
		Order("created_at ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]services.Animal, 0, len(recs))
	for i := range recs {
		out = append(out, toAnimal(&recs[i]))
	}
	return out, nil
}

// ListTraits returns the trait rows for one animal.
func (s *GormAnimalStore) ListTraits(ctx context.Context, animalID string) ([]services.AnimalTrait, error) {
	var recs []AnimalTraitRecord
	err := s.DB.WithContext(ctx).
		Where("animal_id = ?", animalID).
		Order("id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]services.AnimalTrait, 0, len(recs))
	for _, r := range recs {
		out = append(out, services.AnimalTrait{
			AnimalID: r.AnimalID,
			Category: r.Category,
			Locus:    r.Locus,
			Value:    r.Value,
		})
	}
	return out, nil
}

func toAnimal(r *AnimalRecord) services.Animal {
	return services.Animal{
		ID:             r.ID,
		TenantID:       r.TenantID,
		Name:           r.Name,
		Species:        r.Species,
		Sex:            r.Sex,
		Breed:          r.Breed,
		RegistrationID: r.RegistrationID,
		Notes:          r.Notes,
		Shareable:      r.Shareable,
	}
}

// GormTenantDirectory implements services.TenantDirectory.
type GormTenantDirectory struct {
	DB *gorm.DB
}

// GetTenant returns the profile for a tenant id, or repo.ErrNotFound.
func (s *GormTenantDirectory) GetTenant(ctx context.Context, tenantID string) (*services.TenantProfile, error) {
	var rec TenantRecord
	err := s.DB.WithContext(ctx).First(&rec, "id = ?", tenantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}
	return &services.TenantProfile{
		ID:          rec.ID,
		DisplayName: rec.DisplayName,
		Location:    rec.Location,
		Visibility:  rec.Visibility,
	}, nil
}

// GormPlanStore implements services.BreedingPlanStore.
type GormPlanStore struct {
	DB *gorm.DB
}

// GetPlan returns the plan by id, or repo.ErrNotFound.
func (s *GormPlanStore) GetPlan(ctx context.Context, planID string) (*services.BreedingPlan, error) {
	var rec BreedingPlanRecord
	err := s.DB.WithContext(ctx).First(&rec, "id = ?", planID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}
	return &services.BreedingPlan{ID: rec.ID, TenantID: rec.TenantID}, nil
}

// GormThreadStore implements services.ThreadStore.
type GormThreadStore struct {
	DB *gorm.DB
}

// CreateThread opens a new thread and returns its id.
func (s *GormThreadStore) CreateThread(ctx context.Context, subject string, participantTenantIDs []string) (string, error) {
	rec := ThreadRecord{
		ID:           uuid.NewString(),
		Subject:      subject,
		Participants: participantTenantIDs,
	}
	if err := s.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return "", err
	}
	return rec.ID, nil
}

// PostMessage appends a message to a thread.
func (s *GormThreadStore) PostMessage(ctx context.Context, threadID, senderTenantID, body string) (*services.ThreadMessage, error) {
	rec := ThreadMessageRecord{
		ID:             uuid.NewString(),
		ThreadID:       threadID,
		SenderTenantID: senderTenantID,
		Body:           body,
	}
	if err := s.DB.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, err
	}
	return &services.ThreadMessage{
		ID:             rec.ID,
		ThreadID:       rec.ThreadID,
		SenderTenantID: rec.SenderTenantID,
		Body:           rec.Body,
		CreatedAt:      rec.CreatedAt,
	}, nil
}

// ListMessages returns a thread's messages, oldest first.
func (s *GormThreadStore) ListMessages(ctx context.Context, threadID string) ([]services.ThreadMessage, error) {
	var recs []ThreadMessageRecord
	err := s.DB.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC, id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]services.ThreadMessage, 0, len(recs))
	for _, r := range recs {
		out = append(out, services.ThreadMessage{
			ID:             r.ID,
			ThreadID:       r.ThreadID,
			SenderTenantID: r.SenderTenantID,
			Body:           r.Body,
			CreatedAt:      r.CreatedAt,
		})
	}
	return out, nil
}

// LogNotifier implements services.Notifier by writing a structured log line.
// It stands in for an email or push pipeline.
type LogNotifier struct{}

// Notify logs the notification.
func (LogNotifier) Notify(_ context.Context, tenantID, event, subjectID string, payload map[string]string) error {
	ev := log.Info().
		Str("tenant_id", tenantID).
		Str("event", event).
		Str("subject_id", subjectID)
	for k, v := range payload {
		ev = ev.Str("payload_"+k, v)
	}
	ev.Msg("notification dispatched")
	return nil
}
