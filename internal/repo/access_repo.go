// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// AnimalAccess ("shadow animal") model.
//
// State transitions are all conditional single-row updates guarded by the
// current status, so double application is a no-op detected via RowsAffected.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stablemesh/go-breeder-network/internal/domain"
)

// CreateAccess inserts a new access row.
func CreateAccess(ctx context.Context, db *gorm.DB, a *domain.AnimalAccess) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(a).Error
}

// GetAccess fetches an access row by id.
func GetAccess(ctx context.Context, db *gorm.DB, id string) (*domain.AnimalAccess, error) {
	var a domain.AnimalAccess
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// FindActiveAccess returns the single ACTIVE access row for the
// (owner, accessor, animal) triple, or ErrNotFound.
func FindActiveAccess(ctx context.Context, db *gorm.DB, ownerTenantID, accessorTenantID, animalID string) (*domain.AnimalAccess, error) {
	var a domain.AnimalAccess
	err := db.WithContext(ctx).
		Where("owner_tenant_id = ? AND accessor_tenant_id = ? AND animal_id = ? AND status = ?",
			ownerTenantID, accessorTenantID, animalID, domain.AccessActive).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CountAccessesForAccessor returns the total access rows visible to an
// accessor tenant, all statuses included.
func CountAccessesForAccessor(ctx context.Context, db *gorm.DB, accessorTenantID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.AnimalAccess{}).
		Where("accessor_tenant_id = ?", accessorTenantID).
		Count(&total).Error
	return total, err
}

// ListAccessesForAccessorPage returns a page of access rows for an accessor
// tenant, newest first. Revoked and owner-deleted rows are included so the
// accessor keeps its history.
func ListAccessesForAccessorPage(ctx context.Context, db *gorm.DB, accessorTenantID string, offset, limit int) ([]domain.AnimalAccess, error) {
	var out []domain.AnimalAccess
	err := db.WithContext(ctx).
		Where("accessor_tenant_id = ?", accessorTenantID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountAccessesForOwner returns the total access rows granted by an owner.
func CountAccessesForOwner(ctx context.Context, db *gorm.DB, ownerTenantID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.AnimalAccess{}).
		Where("owner_tenant_id = ?", ownerTenantID).
		Count(&total).Error
	return total, err
}

// ListAccessesForOwnerPage returns a page of access rows granted by an owner
// tenant, newest first.
func ListAccessesForOwnerPage(ctx context.Context, db *gorm.DB, ownerTenantID string, offset, limit int) ([]domain.AnimalAccess, error) {
	var out []domain.AnimalAccess
	err := db.WithContext(ctx).
		Where("owner_tenant_id = ?", ownerTenantID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// RevokeAccess transitions an access ACTIVE -> REVOKED and stamps RevokedAt.
// Returns ErrNotFound when the row is missing or not ACTIVE, so revoking an
// already-terminal grant is rejected rather than silently reapplied.
func RevokeAccess(ctx context.Context, db *gorm.DB, id string, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.AnimalAccess{}).
		Where("id = ? AND status = ?", id, domain.AccessActive).
		Updates(map[string]any{
			"status":     domain.AccessRevoked,
			"revoked_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// RevokeAccessesForShareCode cascades a share-code revocation: every ACTIVE
// access that originated from the code transitions to REVOKED.
func RevokeAccessesForShareCode(ctx context.Context, db *gorm.DB, shareCodeID string, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.AnimalAccess{}).
		Where("share_code_id = ? AND status = ?", shareCodeID, domain.AccessActive).
		Updates(map[string]any{
			"status":     domain.AccessRevoked,
			"revoked_at": at,
		}).Error
}

// UpdateAccessTier sets the access tier in place. Tier ordering is not
// enforced here; the owner is trusted (see AccessService.UpgradeTier).
func UpdateAccessTier(ctx context.Context, db *gorm.DB, id string, tier domain.AccessTier) error {
	res := db.WithContext(ctx).
		Model(&domain.AnimalAccess{}).
		Where("id = ?", id).
		Update("tier", tier)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListActiveAccessesForAnimal returns all ACTIVE access rows that reference
// the given animal, across accessor tenants.
func ListActiveAccessesForAnimal(ctx context.Context, db *gorm.DB, animalID string) ([]domain.AnimalAccess, error) {
	var out []domain.AnimalAccess
	err := db.WithContext(ctx).
		Where("animal_id = ? AND status = ?", animalID, domain.AccessActive).
		Find(&out).Error
	return out, err
}

// MarkAccessOwnerDeleted transitions an ACTIVE access to OWNER_DELETED and
// writes the point-in-time snapshot of the animal's identity.
func MarkAccessOwnerDeleted(ctx context.Context, db *gorm.DB, id, name, species, sex string) error {
	res := db.WithContext(ctx).
		Model(&domain.AnimalAccess{}).
		Where("id = ? AND status = ?", id, domain.AccessActive).
		Updates(map[string]any{
			"status":                  domain.AccessOwnerDeleted,
			"animal_name_snapshot":    name,
			"animal_species_snapshot": species,
			"animal_sex_snapshot":     sex,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MakeAccessPermanent clears the access expiry, flips its origin to
// BREEDING_AGREEMENT, and detaches the originating share code. Called as the
// approval side effect of a breeding data agreement, inside the approval
// transaction.
func MakeAccessPermanent(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.AnimalAccess{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"expires_at":    nil,
			"origin":        domain.OriginBreedingAgreement,
			"share_code_id": nil,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
