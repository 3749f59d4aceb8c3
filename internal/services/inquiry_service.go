// Package services – InquiryService
//
// Breeding inquiries carry the privacy asymmetry of the search index into
// the messaging layer: the recipient (whose animals matched) sees which of
// their own animals matched and why, while the sender only ever sees
// breeder-level facts. The two views are structurally distinct types so the
// sender's JSON cannot leak animal identifiers even by accident.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stablemesh/go-breeder-network/internal/domain"
	"github.com/stablemesh/go-breeder-network/internal/repo"
	"github.com/stablemesh/go-breeder-network/internal/search"
)

// EventInquiryReceived is emitted to the recipient when a new inquiry lands.
const EventInquiryReceived = "inquiry_received"

// EventInquiryResponded is emitted to the sender when the recipient responds
// or declines.
const EventInquiryResponded = "inquiry_responded"

// InquiryService sends and answers breeding inquiries.
type InquiryService struct {
	DB       *gorm.DB
	Animals  AnimalStore
	Tenants  TenantDirectory
	Threads  ThreadStore
	Notifier Notifier

	// RateLimit is the maximum number of inquiries a tenant may send within
	// RateWindow. Zero disables the limit.
	RateLimit  int
	RateWindow time.Duration
}

// SendInquiryInput is the request to send a breeding inquiry.
type SendInquiryInput struct {
	SenderTenantID    string
	RecipientTenantID string
	Criteria          search.Criteria
	Message           string
}

// MatchingAnimal is the recipient-side description of one of their own
// animals that satisfied the inquiry criteria.
type MatchingAnimal struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Species string `json:"species"`
	Sex     string `json:"sex"`
	Breed   string `json:"breed,omitempty"`
}

// ReceivedInquiry is the recipient's view of an inquiry. It names the
// recipient's own matching animals; nothing here is about the sender's herd.
type ReceivedInquiry struct {
	ID                string               `json:"id"`
	SenderTenantID    string               `json:"sender_tenant_id"`
	SenderName        string               `json:"sender_name"`
	Criteria          domain.JSONText      `json:"criteria"`
	MatchingAnimals   []MatchingAnimal     `json:"matching_animals"`
	MatchedCategories []string             `json:"matched_categories"`
	Message           string               `json:"message"`
	Status            domain.InquiryStatus `json:"status"`
	ThreadID          string               `json:"thread_id"`
	RespondedAt       *time.Time           `json:"responded_at,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
}

// SentInquiry is the sender's view of an inquiry they sent. It deliberately
// has no matching-animal fields: the sender learns only that the recipient
// breeder matched, never which animals.
type SentInquiry struct {
	ID                string               `json:"id"`
	RecipientTenantID string               `json:"recipient_tenant_id"`
	RecipientName     string               `json:"recipient_name"`
	Criteria          domain.JSONText      `json:"criteria"`
	Message           string               `json:"message"`
	Status            domain.InquiryStatus `json:"status"`
	ThreadID          string               `json:"thread_id"`
	RespondedAt       *time.Time           `json:"responded_at,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
}

// Send records a new inquiry from sender to recipient. The matching animal
// set is re-resolved at send time against the recipient's current shareable
// animals, so the stored snapshot reflects the moment of sending rather than
// a possibly stale index row. A thread is opened for the two tenants and the
// recipient is notified once per inquiry.
func (s *InquiryService) Send(ctx context.Context, in SendInquiryInput) (*SentInquiry, error) {
	if in.SenderTenantID == in.RecipientTenantID {
		return nil, ErrSelfInquiry
	}
	if _, err := s.Tenants.GetTenant(ctx, in.RecipientTenantID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}

	if s.RateLimit > 0 {
		since := time.Now().UTC().Add(-s.RateWindow)
		n, err := repo.CountInquiriesSince(ctx, s.DB, in.SenderTenantID, since)
		if err != nil {
			return nil, err
		}
		if n >= int64(s.RateLimit) {
			return nil, ErrInquiryRateLimited
		}
	}

	criteria := in.Criteria.Normalize()
	matchIDs, matchedCats, err := s.resolveMatches(ctx, in.RecipientTenantID, criteria)
	if err != nil {
		return nil, err
	}

	rawCriteria, err := json.Marshal(criteria)
	if err != nil {
		return nil, err
	}

	threadID, err := s.Threads.CreateThread(ctx, "Breeding inquiry",
		[]string{in.SenderTenantID, in.RecipientTenantID})
	if err != nil {
		return nil, err
	}
	if msg := strings.TrimSpace(in.Message); msg != "" {
		if _, err := s.Threads.PostMessage(ctx, threadID, in.SenderTenantID, msg); err != nil {
			return nil, err
		}
	}

	q := &domain.BreedingInquiry{
		ID:                uuid.NewString(),
		SenderTenantID:    in.SenderTenantID,
		RecipientTenantID: in.RecipientTenantID,
		Criteria:          domain.JSONText(rawCriteria),
		MatchingAnimalIDs: matchIDs,
		MatchedCategories: matchedCats,
		Message:           in.Message,
		Status:            domain.InquiryPending,
		ThreadID:          threadID,
	}
	if err := repo.CreateInquiry(ctx, s.DB, q); err != nil {
		return nil, err
	}

	emitNotification(ctx, s.DB, s.Notifier, in.RecipientTenantID, EventInquiryReceived, q.ID,
		map[string]string{"inquiry_id": q.ID, "sender_tenant_id": in.SenderTenantID})

	return s.renderSent(ctx, q), nil
}

// resolveMatches runs the criteria against the recipient's current shareable
// animals and returns the matching ids plus the union of matched categories.
func (s *InquiryService) resolveMatches(ctx context.Context, tenantID string, c search.Criteria) (domain.StringList, domain.StringList, error) {
	animals, err := s.Animals.ListShareableAnimals(ctx, tenantID)
	if err != nil {
		return nil, nil, err
	}

	var ids domain.StringList
	catSet := make(map[string]struct{})
	for _, a := range animals {
		rows, err := s.Animals.ListTraits(ctx, a.ID)
		if err != nil {
			return nil, nil, err
		}
		traits := make([]search.Trait, 0, len(rows))
		for _, t := range rows {
			traits = append(traits, search.Trait{Category: t.Category, Locus: t.Locus, Value: t.Value})
		}
		matched, cats := c.MatchAnimal(search.Animal{ID: a.ID, Species: a.Species, Sex: a.Sex}, traits)
		if !matched {
			continue
		}
		ids = append(ids, a.ID)
		for _, cat := range cats {
			catSet[cat] = struct{}{}
		}
	}
	return ids, domain.StringList(sortedKeys(catSet)), nil
}

// GetReceived returns the recipient's view of one inquiry.
func (s *InquiryService) GetReceived(ctx context.Context, tenantID, inquiryID string) (*ReceivedInquiry, error) {
	q, err := s.getInquiry(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	if q.RecipientTenantID != tenantID {
		return nil, ErrNotRecipient
	}
	return s.renderReceived(ctx, q), nil
}

// ListReceived returns the recipient's view of all inquiries sent to them,
// newest first.
func (s *InquiryService) ListReceived(ctx context.Context, tenantID string) ([]ReceivedInquiry, error) {
	rows, err := repo.ListInquiriesByRecipient(ctx, s.DB, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]ReceivedInquiry, 0, len(rows))
	for i := range rows {
		out = append(out, *s.renderReceived(ctx, &rows[i]))
	}
	return out, nil
}

// ListSent returns the sender's view of all inquiries they sent, newest
// first.
func (s *InquiryService) ListSent(ctx context.Context, tenantID string) ([]SentInquiry, error) {
	rows, err := repo.ListInquiriesBySender(ctx, s.DB, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]SentInquiry, 0, len(rows))
	for i := range rows {
		out = append(out, *s.renderSent(ctx, &rows[i]))
	}
	return out, nil
}

// Respond marks a pending inquiry as responded (accept=true) or declined,
// on behalf of the recipient. Only PENDING inquiries transition; the sender
// is notified once.
func (s *InquiryService) Respond(ctx context.Context, tenantID, inquiryID string, accept bool) (*ReceivedInquiry, error) {
	q, err := s.getInquiry(ctx, inquiryID)
	if err != nil {
		return nil, err
	}
	if q.RecipientTenantID != tenantID {
		return nil, ErrNotRecipient
	}
	if q.Status != domain.InquiryPending {
		return nil, ErrInquiryNotPending
	}

	to := domain.InquiryResponded
	if !accept {
		to = domain.InquiryDeclined
	}
	now := time.Now().UTC()
	if err := repo.TransitionInquiry(ctx, s.DB, q.ID, to, now); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInquiryNotPending
		}
		return nil, err
	}
	q.Status = to
	q.RespondedAt = &now

	emitNotification(ctx, s.DB, s.Notifier, q.SenderTenantID, EventInquiryResponded, q.ID,
		map[string]string{"inquiry_id": q.ID, "status": string(to)})

	return s.renderReceived(ctx, q), nil
}

func (s *InquiryService) getInquiry(ctx context.Context, id string) (*domain.BreedingInquiry, error) {
	q, err := repo.GetInquiry(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInquiryNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *InquiryService) renderReceived(ctx context.Context, q *domain.BreedingInquiry) *ReceivedInquiry {
	out := &ReceivedInquiry{
		ID:                q.ID,
		SenderTenantID:    q.SenderTenantID,
		SenderName:        s.displayName(ctx, q.SenderTenantID),
		Criteria:          q.Criteria,
		MatchingAnimals:   []MatchingAnimal{},
		MatchedCategories: q.MatchedCategories,
		Message:           q.Message,
		Status:            q.Status,
		ThreadID:          q.ThreadID,
		RespondedAt:       q.RespondedAt,
		CreatedAt:         q.CreatedAt,
	}
	for _, id := range q.MatchingAnimalIDs {
		a, err := s.Animals.GetAnimal(ctx, id)
		if err != nil {
			continue // animal deleted since the inquiry was sent
		}
		out.MatchingAnimals = append(out.MatchingAnimals, MatchingAnimal{
			ID:      a.ID,
			Name:    a.Name,
			Species: a.Species,
			Sex:     a.Sex,
			Breed:   a.Breed,
		})
	}
	return out
}

func (s *InquiryService) renderSent(ctx context.Context, q *domain.BreedingInquiry) *SentInquiry {
	return &SentInquiry{
		ID:                q.ID,
		RecipientTenantID: q.RecipientTenantID,
		RecipientName:     s.displayName(ctx, q.RecipientTenantID),
		Criteria:          q.Criteria,
		Message:           q.Message,
		Status:            q.Status,
		ThreadID:          q.ThreadID,
		RespondedAt:       q.RespondedAt,
		CreatedAt:         q.CreatedAt,
	}
}

// displayName resolves a tenant's name for inquiry views, honoring the
// ANONYMOUS visibility mask.
func (s *InquiryService) displayName(ctx context.Context, tenantID string) string {
	p, err := s.Tenants.GetTenant(ctx, tenantID)
	if err != nil {
		return anonymousBreederName
	}
	if p.Visibility == domain.VisibilityAnonymous {
		return anonymousBreederName
	}
	return p.DisplayName
}
