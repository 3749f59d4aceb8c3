// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// BreedingInquiry model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stablemesh/go-breeder-network/internal/domain"
)

// CreateInquiry inserts a new inquiry row.
func CreateInquiry(ctx context.Context, db *gorm.DB, q *domain.BreedingInquiry) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(q).Error
}

// GetInquiry fetches an inquiry by id.
func GetInquiry(ctx context.Context, db *gorm.DB, id string) (*domain.BreedingInquiry, error) {
	var q domain.BreedingInquiry
	if err := db.WithContext(ctx).Where("id = ?", id).First(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

// ListInquiriesBySender returns all inquiries sent by a tenant, newest first.
func ListInquiriesBySender(ctx context.Context, db *gorm.DB, senderTenantID string) ([]domain.BreedingInquiry, error) {
	var out []domain.BreedingInquiry
	err := db.WithContext(ctx).
		Where("sender_tenant_id = ?", senderTenantID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListInquiriesByRecipient returns all inquiries received by a tenant,
// newest first.
func ListInquiriesByRecipient(ctx context.Context, db *gorm.DB, recipientTenantID string) ([]domain.BreedingInquiry, error) {
	var out []domain.BreedingInquiry
	err := db.WithContext(ctx).
		Where("recipient_tenant_id = ?", recipientTenantID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// CountInquiriesSince returns how many inquiries the tenant has sent at or
// after the given instant. Used for the rolling-window sending limit.
func CountInquiriesSince(ctx context.Context, db *gorm.DB, senderTenantID string, since time.Time) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.BreedingInquiry{}).
		Where("sender_tenant_id = ? AND created_at >= ?", senderTenantID, since).
		Count(&total).Error
	return total, err
}

// TransitionInquiry moves an inquiry from PENDING to the given terminal
// status and stamps RespondedAt. The transition is conditional on the row
// still being PENDING; ErrNotFound means it was missing or already decided.
func TransitionInquiry(ctx context.Context, db *gorm.DB, id string, to domain.InquiryStatus, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.BreedingInquiry{}).
		Where("id = ? AND status = ?", id, domain.InquiryPending).
		Updates(map[string]any{
			"status":       to,
			"responded_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
