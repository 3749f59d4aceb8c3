package search

import (
	"reflect"
	"testing"

	"github.com/stablemesh/go-breeder-network/internal/domain"
)

func TestCriteria_Normalize(t *testing.T) {
	c := Criteria{Species: " dog ", Sex: "\tfemale "}.Normalize()
	if c.Species != "dog" || c.Sex != "female" {
		t.Fatalf("labels not trimmed: %+v", c)
	}
}

func TestCriteria_MatchSets(t *testing.T) {
	genetic := domain.TraitSets{}
	genetic.Add("E", "Ee")
	genetic.Add("B", "bb")
	health := domain.TraitSets{}
	health.Add("HIP", "OFA Good")

	// Empty criteria matches trivially with no categories.
	ok, cats := Criteria{}.MatchSets(genetic, health)
	if !ok || cats != nil {
		t.Fatalf("empty criteria = %v, %v", ok, cats)
	}

	// All criteria satisfied: every category is reported.
	c := Criteria{
		Genetics: []LocusCriterion{
			{Locus: "E", AcceptableGenotypes: []string{"EE", "Ee"}},
		},
		Clearances: []ClearanceCriterion{
			{Code: "HIP", AcceptableResults: []string{"OFA Good", "OFA Excellent"}},
		},
	}
	ok, cats = c.MatchSets(genetic, health)
	if !ok || !reflect.DeepEqual(cats, []string{"E", "HIP"}) {
		t.Fatalf("match = %v, %v", ok, cats)
	}

	// One unsatisfied criterion fails the whole match.
	c.Genetics = append(c.Genetics, LocusCriterion{Locus: "K", AcceptableGenotypes: []string{"KB"}})
	if ok, cats = c.MatchSets(genetic, health); ok || cats != nil {
		t.Fatalf("missing locus should fail, got %v, %v", ok, cats)
	}

	// Acceptable value absent from the set fails too.
	c = Criteria{Clearances: []ClearanceCriterion{{Code: "HIP", AcceptableResults: []string{"OFA Excellent"}}}}
	if ok, _ = c.MatchSets(genetic, health); ok {
		t.Fatalf("wrong clearance result should fail")
	}
}

func TestCriteria_MatchAnimal(t *testing.T) {
	a := Animal{ID: "a1", Species: "dog", Sex: "female"}
	traits := []Trait{
		{Category: CategoryGenetic, Locus: "E", Value: "Ee"},
		{Category: CategoryHealth, Locus: "HIP", Value: "OFA Good"},
	}

	c := Criteria{
		Species:  "dog",
		Sex:      "female",
		Genetics: []LocusCriterion{{Locus: "E", AcceptableGenotypes: []string{"Ee"}}},
	}
	ok, cats := c.MatchAnimal(a, traits)
	if !ok || !reflect.DeepEqual(cats, []string{"E"}) {
		t.Fatalf("match = %v, %v", ok, cats)
	}

	// Partition labels are exact filters when set.
	c.Sex = "male"
	if ok, _ = c.MatchAnimal(a, traits); ok {
		t.Fatalf("sex mismatch should fail")
	}
	c.Sex = ""
	c.Species = "cat"
	if ok, _ = c.MatchAnimal(a, traits); ok {
		t.Fatalf("species mismatch should fail")
	}

	// Unset labels do not filter.
	c = Criteria{Clearances: []ClearanceCriterion{{Code: "HIP", AcceptableResults: []string{"OFA Good"}}}}
	if ok, _ = c.MatchAnimal(a, traits); !ok {
		t.Fatalf("labelless criteria should match on traits alone")
	}

	// Animal labels are trimmed before comparison.
	padded := Animal{ID: "a2", Species: " dog ", Sex: " female "}
	c = Criteria{Species: "dog", Sex: "female"}
	if ok, _ = c.MatchAnimal(padded, nil); !ok {
		t.Fatalf("padded labels should still match")
	}
}
