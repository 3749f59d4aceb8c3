// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// BreedingDataAgreement model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stablemesh/go-breeder-network/internal/domain"
)

// CreateAgreement inserts a new agreement row. A second agreement for the
// same (breeding plan, animal access) pair violates the unique index and is
// reported as ErrDuplicate regardless of the first agreement's status.
func CreateAgreement(ctx context.Context, db *gorm.DB, ag *domain.BreedingDataAgreement) error {
	if ag.ID == "" {
		ag.ID = uuid.NewString()
	}
	ag.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(ag).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetAgreement fetches an agreement by id.
func GetAgreement(ctx context.Context, db *gorm.DB, id string) (*domain.BreedingDataAgreement, error) {
	var ag domain.BreedingDataAgreement
	if err := db.WithContext(ctx).Where("id = ?", id).First(&ag).Error; err != nil {
		return nil, err
	}
	return &ag, nil
}

// ListAgreementsForTenant returns every agreement the tenant participates in,
// as requester or approver, newest first.
func ListAgreementsForTenant(ctx context.Context, db *gorm.DB, tenantID string) ([]domain.BreedingDataAgreement, error) {
	var out []domain.BreedingDataAgreement
	err := db.WithContext(ctx).
		Where("requesting_tenant_id = ? OR approving_tenant_id = ?", tenantID, tenantID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// TransitionAgreement moves an agreement from PENDING to the given terminal
// status, stamping RespondedAt and the response message. Conditional on the
// row still being PENDING; ErrNotFound means missing or already decided.
func TransitionAgreement(ctx context.Context, db *gorm.DB, id string, to domain.AgreementStatus, message string, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.BreedingDataAgreement{}).
		Where("id = ? AND status = ?", id, domain.AgreementPending).
		Updates(map[string]any{
			"status":           to,
			"response_message": message,
			"responded_at":     at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
