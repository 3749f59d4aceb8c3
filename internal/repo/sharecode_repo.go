// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the ShareCode
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a code is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - Creating a code whose code string collides with an existing one
//     returns ErrDuplicate so the caller can regenerate.
//
// The one deliberately non-thin function is ClaimShareCodeUse: redemption
// needs the status/expiry/max-use checks and the use-count increment to
// happen as a single atomic unit, which is exactly one conditional UPDATE
// here.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stablemesh/go-breeder-network/internal/domain"
)

// CreateShareCode inserts a new ShareCode row together with its per-animal
// grant rows. The caller provides the code string; a collision with an
// existing code returns ErrDuplicate.
func CreateShareCode(ctx context.Context, db *gorm.DB, sc *domain.ShareCode) error {
	if sc.ID == "" {
		sc.ID = uuid.NewString()
	}
	sc.CreatedAt = time.Now().UTC()
	for i := range sc.Animals {
		if sc.Animals[i].ID == "" {
			sc.Animals[i].ID = uuid.NewString()
		}
		sc.Animals[i].ShareCodeID = sc.ID
	}
	if err := db.WithContext(ctx).Create(sc).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// GetShareCode fetches a share code by id, including its animal grants.
func GetShareCode(ctx context.Context, db *gorm.DB, id string) (*domain.ShareCode, error) {
	var sc domain.ShareCode
	err := db.WithContext(ctx).
		Preload("Animals").
		Where("id = ?", id).
		First(&sc).Error
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

// GetShareCodeByCode fetches a share code by its opaque code string,
// including its animal grants.
func GetShareCodeByCode(ctx context.Context, db *gorm.DB, code string) (*domain.ShareCode, error) {
	var sc domain.ShareCode
	err := db.WithContext(ctx).
		Preload("Animals").
		Where("code = ?", code).
		First(&sc).Error
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

// ListShareCodesForOwner returns all codes issued by ownerTenantID, newest
// first. Terminal codes are included: issuance history is an audit trail.
func ListShareCodesForOwner(ctx context.Context, db *gorm.DB, ownerTenantID string) ([]domain.ShareCode, error) {
	var out []domain.ShareCode
	err := db.WithContext(ctx).
		Preload("Animals").
		Where("owner_tenant_id = ?", ownerTenantID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ClaimShareCodeUse atomically checks that the code is redeemable at `now`
// and increments its use count. The status, expiry, and max-use guards are
// part of the UPDATE's WHERE clause, so two concurrent redemptions can never
// both pass a remaining-use check: at most one claims the final use.
//
// Returns true when the claim succeeded; false means the code is not
// currently redeemable and the caller should re-read the row to classify why.
func ClaimShareCodeUse(ctx context.Context, db *gorm.DB, id string, now time.Time) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.ShareCode{}).
		Where("id = ? AND status = ?", id, domain.ShareCodeActive).
		Where("expires_at IS NULL OR expires_at > ?", now).
		Where("max_uses IS NULL OR use_count < max_uses").
		Update("use_count", gorm.Expr("use_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ExpireShareCode transitions a code ACTIVE -> EXPIRED. The transition is
// conditional on the current status, so a concurrent revoke wins and is not
// overwritten. Expired codes stay expired; calling this again is a no-op.
func ExpireShareCode(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).
		Model(&domain.ShareCode{}).
		Where("id = ? AND status = ?", id, domain.ShareCodeActive).
		Update("status", domain.ShareCodeExpired).Error
}

// RevokeShareCode transitions a code ACTIVE -> REVOKED and stamps RevokedAt.
// Returns ErrNotFound when the code is missing or already terminal.
func RevokeShareCode(ctx context.Context, db *gorm.DB, id string, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.ShareCode{}).
		Where("id = ? AND status = ?", id, domain.ShareCodeActive).
		Updates(map[string]any{
			"status":     domain.ShareCodeRevoked,
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
