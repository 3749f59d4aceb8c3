// Package search provides the pure aggregation and matching logic behind the
// breeder network index. It is intentionally small and dependency-free, in
// the same spirit as a library package:
//
//   - No logging and no persistence (callers own both)
//   - Deterministic output: partitions and trait sets are sorted, so repeated
//     builds over the same input produce identical aggregates
//   - The aggregate value domain is limited to species/sex labels, counts,
//     and genotype/clearance strings; animal identifiers never enter it
//
// The two halves are BuildAggregates (source rows -> per-partition trait
// sets) and the Criteria matchers (aggregate- and animal-granularity).
package search

import (
	"sort"
	"strings"

	"github.com/stablemesh/go-breeder-network/internal/domain"
)

// Trait category labels used by the external trait store.
const (
	CategoryGenetic = "genetic"
	CategoryHealth  = "health"
)

// Animal is the minimal animal read model the aggregator needs.
type Animal struct {
	ID      string
	Species string
	Sex     string
}

// Trait is one locus/clearance observation for an animal.
type Trait struct {
	Category string // CategoryGenetic or CategoryHealth
	Locus    string // locus code ("E", "A") or clearance code ("HIP")
	Value    string // genotype ("Ee") or clearance result ("clear")
}

// Aggregate is one (species, sex) partition of an owner's visible animals:
// a count plus the sets of trait values observed in the partition.
type Aggregate struct {
	Species          string
	Sex              string
	AnimalCount      int
	GeneticTraits    domain.TraitSets
	HealthClearances domain.TraitSets
}

// BuildAggregates groups animals by (species, sex) and collects, per
// partition, the animal count and the distinct genetic genotype and health
// clearance values observed. traits maps animal id -> that animal's trait
// rows; animals without trait rows still count toward their partition.
//
// The result is sorted by (species, sex) and contains only partitions with
// at least one animal, so a caller replacing an owner's index rows with the
// result never leaves a stale zero-animal partition behind.
func BuildAggregates(animals []Animal, traits map[string][]Trait) []Aggregate {
	type key struct{ species, sex string }
	parts := make(map[key]*Aggregate)

	for _, a := range animals {
		species := normalizeLabel(a.Species)
		sex := normalizeLabel(a.Sex)
		if species == "" || sex == "" {
			continue
		}
		k := key{species, sex}
		agg, ok := parts[k]
		if !ok {
			agg = &Aggregate{
				Species:          species,
				Sex:              sex,
				GeneticTraits:    domain.TraitSets{},
				HealthClearances: domain.TraitSets{},
			}
			parts[k] = agg
		}
		agg.AnimalCount++

		for _, tr := range traits[a.ID] {
			locus := strings.TrimSpace(tr.Locus)
			value := strings.TrimSpace(tr.Value)
			switch tr.Category {
			case CategoryGenetic:
				agg.GeneticTraits.Add(locus, value)
			case CategoryHealth:
				agg.HealthClearances.Add(locus, value)
			}
		}
	}

	out := make([]Aggregate, 0, len(parts))
	for _, agg := range parts {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Species != out[j].Species {
			return out[i].Species < out[j].Species
		}
		return out[i].Sex < out[j].Sex
	})
	return out
}

// normalizeLabel trims whitespace from a species/sex label. Case is
// preserved: the trait store owns its vocabulary.
func normalizeLabel(s string) string { return strings.TrimSpace(s) }
