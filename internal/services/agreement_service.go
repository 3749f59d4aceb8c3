// Package services – AgreementService
//
// A breeding data agreement ties an animal access grant to a breeding plan.
// The accessor (the tenant using the animal in a plan) requests it; only the
// animal's owner can approve. Approval has one side effect on the grant: it
// becomes permanent, surviving share code revocation and expiry.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stablemesh/go-breeder-network/internal/domain"
	"github.com/stablemesh/go-breeder-network/internal/repo"
)

// EventAgreementRequested is emitted to the approving owner on creation.
const EventAgreementRequested = "agreement_requested"

// EventAgreementResolved is emitted to the requester on approval or
// rejection.
const EventAgreementResolved = "agreement_resolved"

// AgreementService manages breeding data agreements.
type AgreementService struct {
	DB       *gorm.DB
	Plans    BreedingPlanStore
	Notifier Notifier
}

// CreateAgreementInput is the request to open an agreement.
type CreateAgreementInput struct {
	RequestingTenantID string
	BreedingPlanID     string
	AnimalAccessID     string
	AnimalRole         string
	RequestMessage     string
}

// Create opens a PENDING agreement for the (plan, access) pair. The caller
// must be the accessor on the grant and must own the plan; the approver is
// derived from the grant's owner side. At most one agreement per pair ever
// exists, regardless of status.
func (s *AgreementService) Create(ctx context.Context, in CreateAgreementInput) (*domain.BreedingDataAgreement, error) {
	acc, err := repo.GetAccess(ctx, s.DB, in.AnimalAccessID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAccessNotFound
		}
		return nil, err
	}
	if acc.AccessorTenantID != in.RequestingTenantID {
		return nil, ErrNotRequester
	}
	if acc.Status != domain.AccessActive {
		return nil, ErrAccessNotActive
	}

	plan, err := s.Plans.GetPlan(ctx, in.BreedingPlanID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.TenantID != in.RequestingTenantID {
		return nil, ErrNotRequester
	}

	ag := &domain.BreedingDataAgreement{
		ID:                 uuid.NewString(),
		BreedingPlanID:     in.BreedingPlanID,
		AnimalAccessID:     in.AnimalAccessID,
		RequestingTenantID: in.RequestingTenantID,
		ApprovingTenantID:  acc.OwnerTenantID,
		AnimalRole:         in.AnimalRole,
		Status:             domain.AgreementPending,
		RequestMessage:     in.RequestMessage,
	}
	if err := repo.CreateAgreement(ctx, s.DB, ag); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateAgreement
		}
		return nil, err
	}

	emitNotification(ctx, s.DB, s.Notifier, ag.ApprovingTenantID, EventAgreementRequested, ag.ID,
		map[string]string{"agreement_id": ag.ID, "requesting_tenant_id": in.RequestingTenantID})

	return ag, nil
}

// Get returns an agreement visible to the caller (requester or approver).
func (s *AgreementService) Get(ctx context.Context, tenantID, agreementID string) (*domain.BreedingDataAgreement, error) {
	ag, err := s.getAgreement(ctx, agreementID)
	if err != nil {
		return nil, err
	}
	if ag.RequestingTenantID != tenantID && ag.ApprovingTenantID != tenantID {
		return nil, ErrAgreementNotFound
	}
	return ag, nil
}

// List returns all agreements where the tenant is requester or approver,
// newest first.
func (s *AgreementService) List(ctx context.Context, tenantID string) ([]domain.BreedingDataAgreement, error) {
	return repo.ListAgreementsForTenant(ctx, s.DB, tenantID)
}

// Approve moves a PENDING agreement to APPROVED on behalf of the owner and,
// in the same transaction, makes the underlying access grant permanent. The
// requester is notified once.
func (s *AgreementService) Approve(ctx context.Context, tenantID, agreementID, responseMessage string) (*domain.BreedingDataAgreement, error) {
	ag, err := s.getAgreement(ctx, agreementID)
	if err != nil {
		return nil, err
	}
	if ag.ApprovingTenantID != tenantID {
		return nil, ErrNotApprover
	}
	if ag.Status != domain.AgreementPending {
		return nil, ErrAgreementNotPending
	}

	now := time.Now().UTC()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.TransitionAgreement(ctx, tx, ag.ID, domain.AgreementApproved, responseMessage, now); err != nil {
			return err
		}
		return repo.MakeAccessPermanent(ctx, tx, ag.AnimalAccessID)
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAgreementNotPending
		}
		return nil, err
	}
	ag.Status = domain.AgreementApproved
	ag.ResponseMessage = responseMessage
	ag.RespondedAt = &now

	emitNotification(ctx, s.DB, s.Notifier, ag.RequestingTenantID, EventAgreementResolved, ag.ID,
		map[string]string{"agreement_id": ag.ID, "status": string(domain.AgreementApproved)})

	return ag, nil
}

// Reject moves a PENDING agreement to REJECTED. The access grant is left
// untouched; the requester keeps whatever time-limited access they had.
func (s *AgreementService) Reject(ctx context.Context, tenantID, agreementID, responseMessage string) (*domain.BreedingDataAgreement, error) {
	ag, err := s.getAgreement(ctx, agreementID)
	if err != nil {
		return nil, err
	}
	if ag.ApprovingTenantID != tenantID {
		return nil, ErrNotApprover
	}
	if ag.Status != domain.AgreementPending {
		return nil, ErrAgreementNotPending
	}

	now := time.Now().UTC()
	if err := repo.TransitionAgreement(ctx, s.DB, ag.ID, domain.AgreementRejected, responseMessage, now); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAgreementNotPending
		}
		return nil, err
	}
	ag.Status = domain.AgreementRejected
	ag.ResponseMessage = responseMessage
	ag.RespondedAt = &now

	emitNotification(ctx, s.DB, s.Notifier, ag.RequestingTenantID, EventAgreementResolved, ag.ID,
		map[string]string{"agreement_id": ag.ID, "status": string(domain.AgreementRejected)})

	return ag, nil
}

func (s *AgreementService) getAgreement(ctx context.Context, id string) (*domain.BreedingDataAgreement, error) {
	ag, err := repo.GetAgreement(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAgreementNotFound
		}
		return nil, err
	}
	return ag, nil
}
