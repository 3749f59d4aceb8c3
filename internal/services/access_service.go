// Package services – AccessService
//
// This file implements the animal access registry: listing grants from
// either side of the relationship (with tier projection applied at read
// time), the owner- and accessor-side revocations, owner tier upgrades, and
// the owner-deleted snapshot transition. It enforces party checks so that
// each operation can only be called by the side it belongs to.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/stablemesh/go-breeder-network/internal/domain"
	"github.com/stablemesh/go-breeder-network/internal/repo"
	"github.com/stablemesh/go-breeder-network/internal/utils"
)

// AccessService owns the lifecycle of animal access grants.
type AccessService struct {
	DB      *gorm.DB
	Animals AnimalStore
}

// AccessView is one access row rendered for a caller, with the animal data
// already tier-projected (or reduced to the deletion snapshot).
type AccessView struct {
	ID               string              `json:"id"`
	OwnerTenantID    string              `json:"owner_tenant_id"`
	AccessorTenantID string              `json:"accessor_tenant_id"`
	Tier             domain.AccessTier   `json:"tier"`
	Origin           domain.AccessOrigin `json:"origin"`
	Status           domain.AccessStatus `json:"status"`
	ExpiresAt        *time.Time          `json:"expires_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	Animal           *AnimalView         `json:"animal,omitempty"`
}

// ListForAccessor returns a page of the tenant's received accesses, each
// carrying the tier-filtered projection of the owner animal. Rows of every
// status are returned: revoked and owner-deleted history stays visible, the
// latter rendered from its snapshot.
func (s *AccessService) ListForAccessor(ctx context.Context, tenantID string, page, pageSize int) ([]AccessView, int64, error) {
	offset, limit := utils.PageBounds(page, pageSize)

	total, err := repo.CountAccessesForAccessor(ctx, s.DB, tenantID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []AccessView{}, 0, nil
	}
	rows, err := repo.ListAccessesForAccessorPage(ctx, s.DB, tenantID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	views := make([]AccessView, 0, len(rows))
	for i := range rows {
		v, err := s.renderAccess(ctx, &rows[i])
		if err != nil {
			return nil, 0, err
		}
		views = append(views, *v)
	}
	return views, total, nil
}

// ListForOwner returns a page of the accesses the tenant has granted
// ("what I have shared"). The owner sees its own animals at full detail.
func (s *AccessService) ListForOwner(ctx context.Context, tenantID string, page, pageSize int) ([]AccessView, int64, error) {
	offset, limit := utils.PageBounds(page, pageSize)

	total, err := repo.CountAccessesForOwner(ctx, s.DB, tenantID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []AccessView{}, 0, nil
	}
	rows, err := repo.ListAccessesForOwnerPage(ctx, s.DB, tenantID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	views := make([]AccessView, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		v := baseView(row)
		if row.Status == domain.AccessOwnerDeleted {
			v.Animal = SnapshotView(row)
		} else if a, err := s.Animals.GetAnimal(ctx, row.AnimalID); err == nil {
			traits, err := s.Animals.ListTraits(ctx, row.AnimalID)
			if err != nil {
				return nil, 0, err
			}
			v.Animal = ProjectAnimal(a, traits, domain.TierFull)
		}
		views = append(views, *v)
	}
	return views, total, nil
}

// renderAccess builds the accessor-side view of one row: the snapshot for
// owner-deleted rows, otherwise the live animal projected at the granted
// tier.
func (s *AccessService) renderAccess(ctx context.Context, row *domain.AnimalAccess) (*AccessView, error) {
	v := baseView(row)
	if row.Status == domain.AccessOwnerDeleted {
		v.Animal = SnapshotView(row)
		return v, nil
	}
	a, err := s.Animals.GetAnimal(ctx, row.AnimalID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Source row gone without the snapshot transition; render the
			// bare grant rather than failing the whole listing.
			return v, nil
		}
		return nil, err
	}
	traits, err := s.Animals.ListTraits(ctx, row.AnimalID)
	if err != nil {
		return nil, err
	}
	v.Animal = ProjectAnimal(a, traits, row.Tier)
	return v, nil
}

func baseView(row *domain.AnimalAccess) *AccessView {
	return &AccessView{
		ID:               row.ID,
		OwnerTenantID:    row.OwnerTenantID,
		AccessorTenantID: row.AccessorTenantID,
		Tier:             row.Tier,
		Origin:           row.Origin,
		Status:           row.Status,
		ExpiresAt:        row.ExpiresAt,
		CreatedAt:        row.CreatedAt,
	}
}

// RemoveByAccessor soft-revokes an access from the accessor's side. Fails
// with ErrNotAccessor when the caller is not the grant's accessor tenant and
// ErrAccessNotActive when the row is already terminal.
func (s *AccessService) RemoveByAccessor(ctx context.Context, accessID, accessorTenantID string) error {
	acc, err := s.getAccess(ctx, accessID)
	if err != nil {
		return err
	}
	if acc.AccessorTenantID != accessorTenantID {
		return ErrNotAccessor
	}
	return s.revoke(ctx, accessID)
}

// RevokeByOwner hard-revokes an access from the owner's side. Fails with
// ErrNotAccessOwner when the caller is not the grant's owner tenant.
func (s *AccessService) RevokeByOwner(ctx context.Context, accessID, ownerTenantID string) error {
	acc, err := s.getAccess(ctx, accessID)
	if err != nil {
		return err
	}
	if acc.OwnerTenantID != ownerTenantID {
		return ErrNotAccessOwner
	}
	return s.revoke(ctx, accessID)
}

func (s *AccessService) revoke(ctx context.Context, accessID string) error {
	err := repo.RevokeAccess(ctx, s.DB, accessID, time.Now().UTC())
	if errors.Is(err, repo.ErrNotFound) {
		return ErrAccessNotActive
	}
	return err
}

// UpgradeTier sets the access tier. Owner-only; the new tier must be a known
// value but is otherwise owner-trusted (no ordering constraint is enforced).
func (s *AccessService) UpgradeTier(ctx context.Context, accessID, ownerTenantID string, newTier domain.AccessTier) error {
	if !domain.ValidTier(newTier) {
		return ErrInvalidTier
	}
	acc, err := s.getAccess(ctx, accessID)
	if err != nil {
		return err
	}
	if acc.OwnerTenantID != ownerTenantID {
		return ErrNotAccessOwner
	}
	return repo.UpdateAccessTier(ctx, s.DB, accessID, newTier)
}

// OnAnimalDeleted transitions every ACTIVE access referencing the animal to
// OWNER_DELETED, capturing the identity snapshot. Owner-only; the transition
// is irreversible, so only the animal's own tenant may trigger it. Must be
// invoked before the source row disappears from the animal store, while the
// identity can still be read.
func (s *AccessService) OnAnimalDeleted(ctx context.Context, animalID, ownerTenantID string) error {
	a, err := s.Animals.GetAnimal(ctx, animalID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAnimalNotFound
		}
		return err
	}
	if a.TenantID != ownerTenantID {
		return ErrNotAccessOwner
	}
	rows, err := repo.ListActiveAccessesForAnimal(ctx, s.DB, animalID)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			if err := repo.MarkAccessOwnerDeleted(ctx, tx, row.ID, a.Name, a.Species, a.Sex); err != nil {
				return err
			}
		}
		return nil
	})
}

// getAccess maps a missing row onto the service-level sentinel.
func (s *AccessService) getAccess(ctx context.Context, accessID string) (*domain.AnimalAccess, error) {
	acc, err := repo.GetAccess(ctx, s.DB, accessID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAccessNotFound
		}
		return nil, err
	}
	return acc, nil
}
