package search

import (
	"strings"

	"github.com/stablemesh/go-breeder-network/internal/domain"
)

// LocusCriterion asks for one locus with a set of acceptable genotypes.
type LocusCriterion struct {
	Locus               string   `json:"locus"`
	AcceptableGenotypes []string `json:"acceptable_genotypes"`
}

// ClearanceCriterion asks for one health clearance code with a set of
// acceptable results.
type ClearanceCriterion struct {
	Code              string   `json:"code"`
	AcceptableResults []string `json:"acceptable_results"`
}

// Criteria is a network search request. Species and Sex are exact partition
// filters; every genetics and clearance criterion must be satisfied for a
// partition (or animal) to match.
type Criteria struct {
	Species    string               `json:"species"`
	Sex        string               `json:"sex"`
	Genetics   []LocusCriterion     `json:"genetics,omitempty"`
	Clearances []ClearanceCriterion `json:"clearances,omitempty"`
}

// Normalize trims label whitespace in place and returns the criteria.
func (c Criteria) Normalize() Criteria {
	c.Species = strings.TrimSpace(c.Species)
	c.Sex = strings.TrimSpace(c.Sex)
	return c
}

// MatchSets reports whether the given trait sets satisfy every criterion,
// and returns the matched category keys (locus and clearance codes) when
// they do. An empty criteria list matches trivially with no categories.
func (c Criteria) MatchSets(genetic, health domain.TraitSets) (bool, []string) {
	var categories []string
	for _, g := range c.Genetics {
		if !genetic.ContainsAny(g.Locus, g.AcceptableGenotypes) {
			return false, nil
		}
		categories = append(categories, g.Locus)
	}
	for _, h := range c.Clearances {
		if !health.ContainsAny(h.Code, h.AcceptableResults) {
			return false, nil
		}
		categories = append(categories, h.Code)
	}
	return true, categories
}

// MatchAnimal reports whether a single animal satisfies the criteria at
// animal granularity: partition labels must match exactly (when set) and
// every criterion must be met by the animal's own trait rows. Used on the
// owner side of an inquiry, where animal-level resolution is permitted.
func (c Criteria) MatchAnimal(a Animal, traits []Trait) (bool, []string) {
	if c.Species != "" && normalizeLabel(a.Species) != c.Species {
		return false, nil
	}
	if c.Sex != "" && normalizeLabel(a.Sex) != c.Sex {
		return false, nil
	}
	genetic := domain.TraitSets{}
	health := domain.TraitSets{}
	for _, tr := range traits {
		switch tr.Category {
		case CategoryGenetic:
			genetic.Add(strings.TrimSpace(tr.Locus), strings.TrimSpace(tr.Value))
		case CategoryHealth:
			health.Add(strings.TrimSpace(tr.Locus), strings.TrimSpace(tr.Value))
		}
	}
	return c.MatchSets(genetic, health)
}
