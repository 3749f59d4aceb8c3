// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for access-scoped
// conversations and the notification dedupe ledger.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stablemesh/go-breeder-network/internal/domain"
)

// CreateConversation inserts the conversation bound to an access grant.
// Returns ErrDuplicate when the access already has one (unique index), which
// callers treat as "lost the creation race, re-fetch".
func CreateConversation(ctx context.Context, db *gorm.DB, c *domain.AccessConversation) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetConversationByAccess fetches the conversation bound to an access id.
func GetConversationByAccess(ctx context.Context, db *gorm.DB, accessID string) (*domain.AccessConversation, error) {
	var c domain.AccessConversation
	err := db.WithContext(ctx).
		Where("animal_access_id = ?", accessID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// RecordNotification inserts the dedupe row for a (subject, event) pair.
// ErrDuplicate means this event was already emitted and the caller must not
// dispatch again.
func RecordNotification(ctx context.Context, db *gorm.DB, subjectID, event, tenantID string) error {
	rec := &domain.NotificationRecord{
		ID:        uuid.NewString(),
		SubjectID: subjectID,
		Event:     event,
		TenantID:  tenantID,
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}
