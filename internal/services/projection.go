// Package services – tier projection.
//
// Tier-based field filtering is a privacy boundary, not a UI concern: the
// source animal record always contains full detail, and the single pure
// function in this file is the only place that decides which slice of it an
// accessor sees. Every read path that renders an access row goes through
// ProjectAnimal, so a field the tier does not grant has no way to leak.
package services

import "github.com/stablemesh/go-breeder-network/internal/domain"

// TraitValue is one disclosed trait row in a projected animal view.
type TraitValue struct {
	Locus string `json:"locus"`
	Value string `json:"value"`
}

// AnimalView is the tier-filtered projection of an animal. Fields beyond the
// identity block are nil unless the tier grants them; omitempty keeps them
// out of rendered JSON entirely.
type AnimalView struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Species string `json:"species"`
	Sex     string `json:"sex"`
	Breed   string `json:"breed,omitempty"`

	Genetics         []TraitValue `json:"genetics,omitempty"`          // GENETICS and above
	HealthClearances []TraitValue `json:"health_clearances,omitempty"` // HEALTH and above
	RegistrationID   string       `json:"registration_id,omitempty"`   // FULL only
	Notes            string       `json:"notes,omitempty"`             // FULL only
}

// ProjectAnimal returns the partial view of an animal visible at the given
// tier. BASIC exposes identity/descriptive fields only; GENETICS adds
// genetic trait rows; HEALTH adds health clearances; FULL adds registration
// detail and notes. Unknown tiers degrade to BASIC.
func ProjectAnimal(a *Animal, traits []AnimalTrait, tier domain.AccessTier) *AnimalView {
	v := &AnimalView{
		ID:      a.ID,
		Name:    a.Name,
		Species: a.Species,
		Sex:     a.Sex,
		Breed:   a.Breed,
	}
	rank := domain.TierRank(tier)

	if rank >= domain.TierRank(domain.TierGenetics) {
		for _, tr := range traits {
			if tr.Category == "genetic" {
				v.Genetics = append(v.Genetics, TraitValue{Locus: tr.Locus, Value: tr.Value})
			}
		}
	}
	if rank >= domain.TierRank(domain.TierHealth) {
		for _, tr := range traits {
			if tr.Category == "health" {
				v.HealthClearances = append(v.HealthClearances, TraitValue{Locus: tr.Locus, Value: tr.Value})
			}
		}
	}
	if rank >= domain.TierRank(domain.TierFull) {
		v.RegistrationID = a.RegistrationID
		v.Notes = a.Notes
	}
	return v
}

// SnapshotView renders the read-only remnant of an owner-deleted access: the
// identity captured at deletion time, never trait data.
func SnapshotView(acc *domain.AnimalAccess) *AnimalView {
	v := &AnimalView{ID: acc.AnimalID}
	if acc.AnimalNameSnapshot != nil {
		v.Name = *acc.AnimalNameSnapshot
	}
	if acc.AnimalSpeciesSnapshot != nil {
		v.Species = *acc.AnimalSpeciesSnapshot
	}
	if acc.AnimalSexSnapshot != nil {
		v.Sex = *acc.AnimalSexSnapshot
	}
	return v
}
