// Package services – external collaborator contracts.
//
// The network core sits on top of several stores it does not own: the
// animal/trait store, the tenant directory, the breeding plan store, and the
// generic message-thread and notification facilities. This file defines the
// narrow interfaces the services consume; gorm-backed reference
// implementations live in internal/stores, and tests substitute in-memory
// fakes.
package services

import (
	"context"
	"time"

	"github.com/stablemesh/go-breeder-network/internal/domain"
)

// Animal is the read model of one animal record in the external store. The
// full record always carries full detail; tier projection (projection.go) is
// what limits which of these fields an accessor ever sees.
type Animal struct {
	ID             string `json:"id"`
	TenantID       string `json:"tenant_id"`
	Name           string `json:"name"`
	Species        string `json:"species"`
	Sex            string `json:"sex"`
	Breed          string `json:"breed"`
	RegistrationID string `json:"registration_id"`
	Notes          string `json:"notes"`
	Shareable      bool   `json:"shareable"`
}

// AnimalTrait is one locus/clearance row for an animal.
type AnimalTrait struct {
	AnimalID string `json:"animal_id"`
	Category string `json:"category"` // "genetic" or "health"
	Locus    string `json:"locus"`
	Value    string `json:"value"`
}

// AnimalStore reads animal and trait records.
type AnimalStore interface {
	// GetAnimal returns the animal by id, or repo.ErrNotFound.
	GetAnimal(ctx context.Context, animalID string) (*Animal, error)

	// ListShareableAnimals returns the tenant's animals flagged shareable.
	ListShareableAnimals(ctx context.Context, tenantID string) ([]Animal, error)

	// ListTraits returns the trait rows for one animal.
	ListTraits(ctx context.Context, animalID string) ([]AnimalTrait, error)
}

// TenantProfile is the directory view of a tenant: its display identity and
// network visibility policy.
type TenantProfile struct {
	ID          string                   `json:"id"`
	DisplayName string                   `json:"display_name"`
	Location    string                   `json:"location"`
	Visibility  domain.NetworkVisibility `json:"visibility"`
}

// TenantDirectory reads tenant profiles.
type TenantDirectory interface {
	// GetTenant returns the profile for a tenant id, or repo.ErrNotFound.
	GetTenant(ctx context.Context, tenantID string) (*TenantProfile, error)
}

// BreedingPlan is the minimal view of an external breeding plan record.
type BreedingPlan struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
}

// BreedingPlanStore reads breeding plan records.
type BreedingPlanStore interface {
	// GetPlan returns the plan by id, or repo.ErrNotFound.
	GetPlan(ctx context.Context, planID string) (*BreedingPlan, error)
}

// ThreadMessage is one message inside a generic thread.
type ThreadMessage struct {
	ID             string    `json:"id"`
	ThreadID       string    `json:"thread_id"`
	SenderTenantID string    `json:"sender_tenant_id"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

// ThreadStore creates and reads generic message threads.
type ThreadStore interface {
	// CreateThread opens a new thread and returns its id.
	CreateThread(ctx context.Context, subject string, participantTenantIDs []string) (string, error)

	// PostMessage appends a message to a thread.
	PostMessage(ctx context.Context, threadID, senderTenantID, body string) (*ThreadMessage, error)

	// ListMessages returns a thread's messages, oldest first.
	ListMessages(ctx context.Context, threadID string) ([]ThreadMessage, error)
}

// Notifier dispatches a notification to a tenant. Dispatch is best effort:
// callers log and swallow errors, and deduplicate per (subject, event)
// before calling.
type Notifier interface {
	Notify(ctx context.Context, tenantID, event, subjectID string, payload map[string]string) error
}
