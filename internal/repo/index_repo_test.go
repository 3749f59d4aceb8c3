package repo

import (
	"context"
	"testing"

	"github.com/stablemesh/go-breeder-network/internal/domain"
)

func TestReplaceIndexEntries_WholesaleReplace(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	gen1 := []domain.SearchIndexEntry{
		{Species: "dog", Sex: "female", AnimalCount: 2, GeneticTraits: domain.TraitSets{"E": {"Ee"}}},
		{Species: "dog", Sex: "male", AnimalCount: 1},
	}
	if err := ReplaceIndexEntries(ctx, db, "t1", gen1); err != nil {
		t.Fatalf("first generation: %v", err)
	}

	// Another tenant's rows are untouched by t1 rebuilds.
	if err := ReplaceIndexEntries(ctx, db, "t2", []domain.SearchIndexEntry{
		{Species: "dog", Sex: "female", AnimalCount: 5},
	}); err != nil {
		t.Fatalf("t2 generation: %v", err)
	}

	gen2 := []domain.SearchIndexEntry{
		{Species: "dog", Sex: "female", AnimalCount: 3},
	}
	if err := ReplaceIndexEntries(ctx, db, "t1", gen2); err != nil {
		t.Fatalf("second generation: %v", err)
	}

	rows, err := ListIndexEntriesForTenant(ctx, db, "t1")
	if err != nil {
		t.Fatalf("list t1: %v", err)
	}
	if len(rows) != 1 || rows[0].AnimalCount != 3 {
		t.Fatalf("old generation survived: %+v", rows)
	}

	part, err := ListIndexEntriesByPartition(ctx, db, "dog", "female")
	if err != nil {
		t.Fatalf("list partition: %v", err)
	}
	if len(part) != 2 {
		t.Fatalf("partition should span tenants: %+v", part)
	}
}

func TestReplaceIndexEntries_EmptyClearsTenant(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := ReplaceIndexEntries(ctx, db, "t1", []domain.SearchIndexEntry{
		{Species: "dog", Sex: "female", AnimalCount: 1},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := ReplaceIndexEntries(ctx, db, "t1", nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	rows, err := ListIndexEntriesForTenant(ctx, db, "t1")
	if err != nil || len(rows) != 0 {
		t.Fatalf("tenant not cleared: %+v, %v", rows, err)
	}
}

func TestReplaceIndexEntries_TraitSetsRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	genetic := domain.TraitSets{}
	genetic.Add("E", "Ee")
	genetic.Add("E", "EE")
	health := domain.TraitSets{}
	health.Add("HIP", "OFA Good")

	if err := ReplaceIndexEntries(ctx, db, "t1", []domain.SearchIndexEntry{
		{Species: "dog", Sex: "female", AnimalCount: 2, GeneticTraits: genetic, HealthClearances: health},
	}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	rows, err := ListIndexEntriesForTenant(ctx, db, "t1")
	if err != nil || len(rows) != 1 {
		t.Fatalf("list: %+v, %v", rows, err)
	}
	if !rows[0].GeneticTraits.Contains("E", "EE") || !rows[0].HealthClearances.Contains("HIP", "OFA Good") {
		t.Fatalf("trait sets lost in storage: %+v", rows[0])
	}
}
