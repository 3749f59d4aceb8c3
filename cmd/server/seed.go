package main

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/stablemesh/go-breeder-network/internal/domain"
	"github.com/stablemesh/go-breeder-network/internal/stores"
)

// seedDemoData inserts a pair of tenants with a few animals so the API is
// explorable out of the box. It is a no-op when the tenants table already
// has rows.
func seedDemoData(db *gorm.DB) error {
	var n int64
	if err := db.Model(&stores.TenantRecord{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	tenants := []stores.TenantRecord{
		{ID: "demo-tenant", DisplayName: "Willow Creek Kennel", Location: "Portland, OR", Visibility: domain.VisibilityVisible},
		{ID: "north-ridge", DisplayName: "North Ridge Retrievers", Location: "Boise, ID", Visibility: domain.VisibilityVisible},
	}
	animals := []stores.AnimalRecord{
		{ID: "demo-dog-1", TenantID: "demo-tenant", Name: "Aster", Species: "dog", Sex: "female", Breed: "Labrador Retriever", RegistrationID: "LR-10482", Shareable: true},
		{ID: "demo-dog-2", TenantID: "demo-tenant", Name: "Birch", Species: "dog", Sex: "male", Breed: "Labrador Retriever", Shareable: true},
		{ID: "nr-dog-1", TenantID: "north-ridge", Name: "Cedar", Species: "dog", Sex: "male", Breed: "Golden Retriever", Shareable: true},
	}
	traits := []stores.AnimalTraitRecord{
		{AnimalID: "demo-dog-1", Category: "genetic", Locus: "prcd-PRA", Value: "clear"},
		{AnimalID: "demo-dog-1", Category: "health", Locus: "hips", Value: "OFA Good"},
		{AnimalID: "demo-dog-2", Category: "genetic", Locus: "prcd-PRA", Value: "carrier"},
		{AnimalID: "nr-dog-1", Category: "genetic", Locus: "prcd-PRA", Value: "clear"},
		{AnimalID: "nr-dog-1", Category: "health", Locus: "elbows", Value: "OFA Normal"},
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenants).Error; err != nil {
			return err
		}
		if err := tx.Create(&animals).Error; err != nil {
			return err
		}
		return tx.Create(&traits).Error
	})
	if err != nil {
		return err
	}
	log.Info().Int("tenants", len(tenants)).Int("animals", len(animals)).Msg("seeded demo data")
	return nil
}
