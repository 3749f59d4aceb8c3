// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the network
// search index.
//
// The index is a derived structure: a tenant's rows are always replaced
// wholesale inside one transaction, never merged, so a rebuild either fully
// lands or leaves the previous generation intact.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stablemesh/go-breeder-network/internal/domain"
)

// ReplaceIndexEntries deletes every index row for tenantID and inserts the
// given entries in a single transaction. Passing an empty slice clears the
// tenant from the index entirely (zero visible animals).
func ReplaceIndexEntries(ctx context.Context, db *gorm.DB, tenantID string, entries []domain.SearchIndexEntry) error {
	now := time.Now().UTC()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ?", tenantID).
			Delete(&domain.SearchIndexEntry{}).Error; err != nil {
			return err
		}
		for i := range entries {
			entries[i].ID = uuid.NewString()
			entries[i].TenantID = tenantID
			entries[i].UpdatedAt = now
			if err := tx.Create(&entries[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ListIndexEntriesByPartition returns all tenants' index rows for one
// (species, sex) partition.
func ListIndexEntriesByPartition(ctx context.Context, db *gorm.DB, species, sex string) ([]domain.SearchIndexEntry, error) {
	var out []domain.SearchIndexEntry
	err := db.WithContext(ctx).
		Where("species = ? AND sex = ?", species, sex).
		Find(&out).Error
	return out, err
}

// ListIndexEntriesForTenant returns one tenant's index rows, ordered by
// partition for deterministic reads.
func ListIndexEntriesForTenant(ctx context.Context, db *gorm.DB, tenantID string) ([]domain.SearchIndexEntry, error) {
	var out []domain.SearchIndexEntry
	err := db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("species, sex").
		Find(&out).Error
	return out, err
}
