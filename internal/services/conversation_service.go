// Package services – ConversationService
//
// Each access grant carries at most one conversation between its two
// tenants, backed by a generic message thread. Creation is lazy and
// race-safe: concurrent first messages converge on a single conversation
// row via the unique index on the access id.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stablemesh/go-breeder-network/internal/domain"
	"github.com/stablemesh/go-breeder-network/internal/repo"
)

// ConversationService manages per-access conversations.
type ConversationService struct {
	DB      *gorm.DB
	Animals AnimalStore
	Tenants TenantDirectory
	Threads ThreadStore
}

// ConversationView is one conversation with its context and messages.
type ConversationView struct {
	ID             string            `json:"id"`
	AnimalAccessID string            `json:"animal_access_id"`
	ThreadID       string            `json:"thread_id"`
	AnimalName     string            `json:"animal_name"`
	Counterpart    CounterpartView   `json:"counterpart"`
	Messages       []ConversationMsg `json:"messages"`
	CreatedAt      time.Time         `json:"created_at"`
}

// CounterpartView is the other tenant in a conversation as seen by the
// caller.
type CounterpartView struct {
	TenantID    string `json:"tenant_id"`
	DisplayName string `json:"display_name"`
}

// ConversationMsg is one message annotated with whether the caller sent it.
type ConversationMsg struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	IsMine    bool      `json:"is_mine"`
	CreatedAt time.Time `json:"created_at"`
}

// GetOrCreate returns the conversation for an access grant, creating it on
// first use. Both the owner and the accessor of the grant may open it; the
// boolean reports whether this call created the conversation.
func (s *ConversationService) GetOrCreate(ctx context.Context, tenantID, accessID string) (*ConversationView, bool, error) {
	acc, err := s.getParticipantAccess(ctx, tenantID, accessID)
	if err != nil {
		return nil, false, err
	}

	conv, err := repo.GetConversationByAccess(ctx, s.DB, accessID)
	if err == nil {
		view, err := s.render(ctx, tenantID, acc, conv)
		return view, false, err
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, false, err
	}

	threadID, err := s.Threads.CreateThread(ctx, "Animal access conversation",
		[]string{acc.OwnerTenantID, acc.AccessorTenantID})
	if err != nil {
		return nil, false, err
	}
	conv = &domain.AccessConversation{
		ID:             uuid.NewString(),
		AnimalAccessID: accessID,
		ThreadID:       threadID,
	}
	if err := repo.CreateConversation(ctx, s.DB, conv); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			// lost the race; use the winner's row
			conv, err = repo.GetConversationByAccess(ctx, s.DB, accessID)
			if err != nil {
				return nil, false, err
			}
			view, err := s.render(ctx, tenantID, acc, conv)
			return view, false, err
		}
		return nil, false, err
	}

	view, err := s.render(ctx, tenantID, acc, conv)
	return view, true, err
}

// SendMessage appends a message to the access grant's conversation, creating
// the conversation if needed. Blank messages are rejected.
func (s *ConversationService) SendMessage(ctx context.Context, tenantID, accessID, body string) (*ConversationMsg, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}

	view, _, err := s.GetOrCreate(ctx, tenantID, accessID)
	if err != nil {
		return nil, err
	}
	msg, err := s.Threads.PostMessage(ctx, view.ThreadID, tenantID, body)
	if err != nil {
		return nil, err
	}
	return &ConversationMsg{ID: msg.ID, Body: msg.Body, IsMine: true, CreatedAt: msg.CreatedAt}, nil
}

// Get returns the existing conversation for an access grant, or
// ErrConversationNotFound if none has been opened yet.
func (s *ConversationService) Get(ctx context.Context, tenantID, accessID string) (*ConversationView, error) {
	acc, err := s.getParticipantAccess(ctx, tenantID, accessID)
	if err != nil {
		return nil, err
	}
	conv, err := repo.GetConversationByAccess(ctx, s.DB, accessID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return s.render(ctx, tenantID, acc, conv)
}

// getParticipantAccess loads the grant and verifies the caller is one of its
// two tenants. Revoked and owner-deleted grants keep their conversation
// readable, so status is not checked here.
func (s *ConversationService) getParticipantAccess(ctx context.Context, tenantID, accessID string) (*domain.AnimalAccess, error) {
	acc, err := repo.GetAccess(ctx, s.DB, accessID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAccessNotFound
		}
		return nil, err
	}
	if acc.OwnerTenantID != tenantID && acc.AccessorTenantID != tenantID {
		return nil, ErrNotParticipant
	}
	return acc, nil
}

func (s *ConversationService) render(ctx context.Context, tenantID string, acc *domain.AnimalAccess, conv *domain.AccessConversation) (*ConversationView, error) {
	counterpartID := acc.OwnerTenantID
	if tenantID == acc.OwnerTenantID {
		counterpartID = acc.AccessorTenantID
	}

	view := &ConversationView{
		ID:             conv.ID,
		AnimalAccessID: conv.AnimalAccessID,
		ThreadID:       conv.ThreadID,
		AnimalName:     s.animalName(ctx, acc),
		Counterpart:    CounterpartView{TenantID: counterpartID, DisplayName: s.counterpartName(ctx, counterpartID)},
		Messages:       []ConversationMsg{},
		CreatedAt:      conv.CreatedAt,
	}

	msgs, err := s.Threads.ListMessages(ctx, conv.ThreadID)
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		view.Messages = append(view.Messages, ConversationMsg{
			ID:        m.ID,
			Body:      m.Body,
			IsMine:    m.SenderTenantID == tenantID,
			CreatedAt: m.CreatedAt,
		})
	}
	return view, nil
}

// animalName prefers the live record and falls back to the snapshot taken
// when the owner deleted the animal.
func (s *ConversationService) animalName(ctx context.Context, acc *domain.AnimalAccess) string {
	if a, err := s.Animals.GetAnimal(ctx, acc.AnimalID); err == nil {
		return a.Name
	}
	if acc.AnimalNameSnapshot != nil {
		return *acc.AnimalNameSnapshot
	}
	return ""
}

func (s *ConversationService) counterpartName(ctx context.Context, tenantID string) string {
	p, err := s.Tenants.GetTenant(ctx, tenantID)
	if err != nil {
		return tenantID
	}
	return p.DisplayName
}
