// Package services – NetworkService
//
// This file implements the two halves of cross-tenant discovery: rebuilding
// an owner tenant's slice of the privacy-preserving search index, and
// querying the aggregate to produce breeder-level results under the tenant
// visibility policy.
//
// The builder is agnostic to visibility: a HIDDEN tenant's animals are still
// aggregated internally, and exclusion happens at query time. The query side
// never touches source animal rows; it reads only aggregate partitions, so a
// result cannot carry anything below tenant granularity.
//
// Observability: the public methods are OpenTelemetry-instrumented.
package services

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/stablemesh/go-breeder-network/internal/domain"
	"github.com/stablemesh/go-breeder-network/internal/repo"
	"github.com/stablemesh/go-breeder-network/internal/search"
)

// anonymousBreederName is the display identity shown for ANONYMOUS tenants.
const anonymousBreederName = "A breeder"

// NetworkService rebuilds and queries the network search index.
type NetworkService struct {
	DB      *gorm.DB
	Animals AnimalStore
	Tenants TenantDirectory
}

// BreederResult is one breeder-level search hit. MatchCount is the number of
// animals in the tenant's matching partitions; no animal-level breakdown
// exists anywhere in the result.
type BreederResult struct {
	TenantID          string   `json:"tenant_id"`
	BreederName       string   `json:"breeder_name"`
	BreederLocation   *string  `json:"breeder_location"`
	MatchCount        int      `json:"match_count"`
	MatchedCategories []string `json:"matched_categories"`
}

// SearchResult is the full response of a network search.
type SearchResult struct {
	Results       []BreederResult `json:"results"`
	TotalBreeders int             `json:"total_breeders"`
}

// RebuildForTenant recomputes the owner tenant's index rows from its
// currently shareable animals and replaces the previous generation in one
// transaction. Partitions that no longer have visible animals disappear;
// calling this repeatedly (or concurrently for the same tenant) converges on
// the same rows (last write wins).
func (s *NetworkService) RebuildForTenant(ctx context.Context, tenantID string) error {
	tr := otel.Tracer("services/NetworkService")
	ctx, span := tr.Start(ctx, "RebuildForTenant",
		trace.WithAttributes(attribute.String("tenant.id", tenantID)),
	)
	defer span.End()

	animals, err := s.Animals.ListShareableAnimals(ctx, tenantID)
	if err != nil {
		return err
	}

	srcAnimals := make([]search.Animal, 0, len(animals))
	traitsByAnimal := make(map[string][]search.Trait, len(animals))
	for _, a := range animals {
		srcAnimals = append(srcAnimals, search.Animal{ID: a.ID, Species: a.Species, Sex: a.Sex})
		rows, err := s.Animals.ListTraits(ctx, a.ID)
		if err != nil {
			return err
		}
		for _, t := range rows {
			traitsByAnimal[a.ID] = append(traitsByAnimal[a.ID], search.Trait{
				Category: t.Category,
				Locus:    t.Locus,
				Value:    t.Value,
			})
		}
	}

	aggs := search.BuildAggregates(srcAnimals, traitsByAnimal)
	entries := make([]domain.SearchIndexEntry, 0, len(aggs))
	for _, agg := range aggs {
		entries = append(entries, domain.SearchIndexEntry{
			Species:          agg.Species,
			Sex:              agg.Sex,
			AnimalCount:      agg.AnimalCount,
			GeneticTraits:    agg.GeneticTraits,
			HealthClearances: agg.HealthClearances,
		})
	}
	return repo.ReplaceIndexEntries(ctx, s.DB, tenantID, entries)
}

// Search matches the criteria against the aggregate index and returns one
// breeder-level result per owner tenant whose partitions satisfy every
// requested criterion. The caller's own tenant is excluded, HIDDEN tenants
// are dropped, and ANONYMOUS tenants are masked to a generic identity with
// no location. Results are ordered by breeder name (locale-aware), tenant id
// as the tiebreaker.
func (s *NetworkService) Search(ctx context.Context, callerTenantID string, criteria search.Criteria) (*SearchResult, error) {
	tr := otel.Tracer("services/NetworkService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.String("caller.tenant_id", callerTenantID),
			attribute.String("criteria.species", criteria.Species),
			attribute.String("criteria.sex", criteria.Sex),
		),
	)
	defer span.End()

	criteria = criteria.Normalize()
	rows, err := repo.ListIndexEntriesByPartition(ctx, s.DB, criteria.Species, criteria.Sex)
	if err != nil {
		return nil, err
	}

	type hit struct {
		count      int
		categories map[string]struct{}
	}
	hits := make(map[string]*hit)
	for i := range rows {
		row := &rows[i]
		if row.TenantID == callerTenantID {
			continue
		}
		matched, cats := criteria.MatchSets(row.GeneticTraits, row.HealthClearances)
		if !matched {
			continue
		}
		h, ok := hits[row.TenantID]
		if !ok {
			h = &hit{categories: make(map[string]struct{})}
			hits[row.TenantID] = h
		}
		h.count += row.AnimalCount
		for _, c := range cats {
			h.categories[c] = struct{}{}
		}
	}

	results := make([]BreederResult, 0, len(hits))
	for tenantID, h := range hits {
		profile, err := s.Tenants.GetTenant(ctx, tenantID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				continue // orphaned index rows; skip rather than fail the search
			}
			return nil, err
		}

		r := BreederResult{
			TenantID:          tenantID,
			MatchCount:        h.count,
			MatchedCategories: sortedKeys(h.categories),
		}
		switch profile.Visibility {
		case domain.VisibilityHidden:
			continue
		case domain.VisibilityAnonymous:
			r.BreederName = anonymousBreederName
			r.BreederLocation = nil
		default:
			r.BreederName = profile.DisplayName
			loc := profile.Location
			r.BreederLocation = &loc
		}
		results = append(results, r)
	}

	sortBreederResults(results)
	return &SearchResult{Results: results, TotalBreeders: len(results)}, nil
}

// sortBreederResults orders results by breeder name using English collation,
// falling back to tenant id so ties (e.g. several anonymous breeders) stay
// deterministic.
func sortBreederResults(results []BreederResult) {
	c := collate.New(language.English, collate.IgnoreCase)
	sort.Slice(results, func(i, j int) bool {
		cmp := c.CompareString(results[i].BreederName, results[j].BreederName)
		if cmp != 0 {
			return cmp < 0
		}
		return results[i].TenantID < results[j].TenantID
	})
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
