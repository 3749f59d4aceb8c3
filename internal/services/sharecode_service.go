// Package services – ShareCodeService
//
// This file implements the ShareCodeService, which owns the share code
// lifecycle: issuing codes over a tenant's animals, redeeming them into
// shadow access rows, revoking them (with cascade), and read-only
// validation. Codes are bearer secrets in a short human-shareable grammar;
// redemption's status/expiry/max-use checks and the use-count increment are
// one conditional UPDATE so concurrent redemptions cannot over-redeem.
//
// Service-level errors (ErrCannotRedeemOwnCode, ErrCodeExpired, …) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stablemesh/go-breeder-network/internal/domain"
	"github.com/stablemesh/go-breeder-network/internal/repo"
)

// codeAlphabet deliberately omits 0/O/1/I: codes are read aloud and typed.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// codeGenAttempts bounds regeneration on (astronomically unlikely) code
// string collisions before giving up.
const codeGenAttempts = 5

// ShareCodeService issues, redeems, revokes, and validates share codes.
type ShareCodeService struct {
	DB      *gorm.DB
	Animals AnimalStore

	// Code grammar: Segments groups of SegmentLen characters, dash-joined.
	// Zero values fall back to 3 and 4 ("XXXX-XXXX-XXXX").
	Segments   int
	SegmentLen int
}

// GenerateInput carries the owner's issuance request.
type GenerateInput struct {
	AnimalIDs     []string                     `json:"animal_ids"`
	DefaultTier   domain.AccessTier            `json:"default_tier"`
	TierOverrides map[string]domain.AccessTier `json:"tier_overrides,omitempty"`
	ExpiresAt     *time.Time                   `json:"expires_at,omitempty"`
	MaxUses       *int                         `json:"max_uses,omitempty"`
}

// Generate issues a new ACTIVE share code covering the given animals at the
// default tier, with optional per-animal overrides, expiry, and use budget.
//
// Fails with ErrNoAnimals on an empty animal set, ErrAnimalNotOwned when any
// animal does not belong to ownerTenantID, and ErrInvalidTier for unknown
// tier values.
func (s *ShareCodeService) Generate(ctx context.Context, ownerTenantID string, in GenerateInput) (*domain.ShareCode, error) {
	if len(in.AnimalIDs) == 0 {
		return nil, ErrNoAnimals
	}
	if !domain.ValidTier(in.DefaultTier) {
		return nil, ErrInvalidTier
	}
	for _, t := range in.TierOverrides {
		if !domain.ValidTier(t) {
			return nil, ErrInvalidTier
		}
	}

	animals := make([]domain.ShareCodeAnimal, 0, len(in.AnimalIDs))
	seen := make(map[string]struct{}, len(in.AnimalIDs))
	for _, id := range in.AnimalIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		a, err := s.Animals.GetAnimal(ctx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrAnimalNotFound
			}
			return nil, err
		}
		if a.TenantID != ownerTenantID {
			return nil, ErrAnimalNotOwned
		}

		sca := domain.ShareCodeAnimal{AnimalID: id}
		if ov, ok := in.TierOverrides[id]; ok {
			tier := ov
			sca.TierOverride = &tier
		}
		animals = append(animals, sca)
	}

	// Retry on code-string collision; the unique index is the arbiter.
	for attempt := 0; attempt < codeGenAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, err
		}
		sc := &domain.ShareCode{
			OwnerTenantID: ownerTenantID,
			Code:          code,
			DefaultTier:   in.DefaultTier,
			Status:        domain.ShareCodeActive,
			ExpiresAt:     in.ExpiresAt,
			MaxUses:       in.MaxUses,
			Animals:       animals,
		}
		err = repo.CreateShareCode(ctx, s.DB, sc)
		if err == nil {
			return sc, nil
		}
		if !errors.Is(err, repo.ErrDuplicate) {
			return nil, err
		}
	}
	return nil, errors.New("could not allocate a unique share code")
}

// Redeem grants the accessor tenant shadow access to each animal covered by
// the code that it does not already have ACTIVE access to, at the resolved
// tier, and returns only the newly created rows. The code's use count
// advances by exactly one per redemption event regardless of how many
// animals were newly granted.
//
// Fails with ErrCannotRedeemOwnCode, ErrCodeRevoked, ErrCodeExpired (marking
// the code EXPIRED first), or ErrCodeMaxUsesReached.
func (s *ShareCodeService) Redeem(ctx context.Context, code, accessorTenantID string) ([]domain.AnimalAccess, error) {
	tr := otel.Tracer("services/ShareCodeService")
	ctx, span := tr.Start(ctx, "Redeem",
		trace.WithAttributes(attribute.String("accessor.tenant_id", accessorTenantID)),
	)
	defer span.End()

	sc, err := repo.GetShareCodeByCode(ctx, s.DB, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrShareCodeNotFound
		}
		return nil, err
	}
	if sc.OwnerTenantID == accessorTenantID {
		return nil, ErrCannotRedeemOwnCode
	}

	now := time.Now().UTC()
	var created []domain.AnimalAccess
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claimed, err := repo.ClaimShareCodeUse(ctx, tx, sc.ID, now)
		if err != nil {
			return err
		}
		if !claimed {
			return errClaimFailed
		}
		for _, sca := range sc.Animals {
			if _, err := repo.FindActiveAccess(ctx, tx, sc.OwnerTenantID, accessorTenantID, sca.AnimalID); err == nil {
				continue // already granted; per-animal no-op
			} else if !errors.Is(err, repo.ErrNotFound) {
				return err
			}
			acc := domain.AnimalAccess{
				OwnerTenantID:    sc.OwnerTenantID,
				AccessorTenantID: accessorTenantID,
				AnimalID:         sca.AnimalID,
				Tier:             sca.ResolvedTier(sc.DefaultTier),
				Origin:           domain.OriginShareCode,
				Status:           domain.AccessActive,
				ExpiresAt:        sc.ExpiresAt,
				ShareCodeID:      &sc.ID,
			}
			if err := repo.CreateAccess(ctx, tx, &acc); err != nil {
				return err
			}
			created = append(created, acc)
		}
		return nil
	})
	if errors.Is(err, errClaimFailed) {
		return nil, s.classifyClaimFailure(ctx, sc.ID, now)
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

// errClaimFailed aborts the redemption transaction when the conditional
// use-count claim matched no row; the service then classifies why.
var errClaimFailed = errors.New("share code claim failed")

// classifyClaimFailure re-reads the code after a failed claim and maps its
// state to the precise rejection. Expiry detected here also writes the
// EXPIRED status (outside the rolled-back redemption transaction).
func (s *ShareCodeService) classifyClaimFailure(ctx context.Context, id string, now time.Time) error {
	sc, err := repo.GetShareCode(ctx, s.DB, id)
	if err != nil {
		return err
	}
	switch {
	case sc.Status == domain.ShareCodeRevoked:
		return ErrCodeRevoked
	case sc.Status == domain.ShareCodeExpired:
		return ErrCodeExpired
	case sc.ExpiresAt != nil && !now.Before(*sc.ExpiresAt):
		if err := repo.ExpireShareCode(ctx, s.DB, id); err != nil {
			return err
		}
		return ErrCodeExpired
	case sc.MaxUses != nil && sc.UseCount >= *sc.MaxUses:
		return ErrCodeMaxUsesReached
	}
	return errClaimFailed
}

// Revoke marks the code REVOKED and cascades: every ACTIVE access row that
// originated from it is revoked in the same transaction. Owner-only.
func (s *ShareCodeService) Revoke(ctx context.Context, codeID, ownerTenantID string) error {
	sc, err := repo.GetShareCode(ctx, s.DB, codeID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrShareCodeNotFound
		}
		return err
	}
	if sc.OwnerTenantID != ownerTenantID {
		return ErrNotCodeOwner
	}

	now := time.Now().UTC()
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.RevokeShareCode(ctx, tx, codeID, now); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrCodeRevoked // already terminal
			}
			return err
		}
		return repo.RevokeAccessesForShareCode(ctx, tx, codeID, now)
	})
}

// Validation is the read-only state of a code as of the check.
type Validation struct {
	Status        domain.ShareCodeStatus `json:"status"`
	ExpiresAt     *time.Time             `json:"expires_at,omitempty"`
	MaxUses       *int                   `json:"max_uses,omitempty"`
	UseCount      int                    `json:"use_count"`
	AnimalCount   int                    `json:"animal_count"`
	DefaultTier   domain.AccessTier      `json:"default_tier"`
	OwnerTenantID string                 `json:"owner_tenant_id"`
	Redeemable    bool                   `json:"redeemable"`
}

// Validate returns the code's current status and limits without mutating
// anything; a code past its expiry is reported as not redeemable even
// though its stored status has not been flipped yet.
func (s *ShareCodeService) Validate(ctx context.Context, code string) (*Validation, error) {
	sc, err := repo.GetShareCodeByCode(ctx, s.DB, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrShareCodeNotFound
		}
		return nil, err
	}
	now := time.Now().UTC()
	v := &Validation{
		Status:        sc.Status,
		ExpiresAt:     sc.ExpiresAt,
		MaxUses:       sc.MaxUses,
		UseCount:      sc.UseCount,
		AnimalCount:   len(sc.Animals),
		DefaultTier:   sc.DefaultTier,
		OwnerTenantID: sc.OwnerTenantID,
	}
	v.Redeemable = sc.Status == domain.ShareCodeActive &&
		(sc.ExpiresAt == nil || now.Before(*sc.ExpiresAt)) &&
		(sc.MaxUses == nil || sc.UseCount < *sc.MaxUses)
	return v, nil
}

// ListForOwner returns every code the tenant has issued, terminal ones
// included.
func (s *ShareCodeService) ListForOwner(ctx context.Context, ownerTenantID string) ([]domain.ShareCode, error) {
	return repo.ListShareCodesForOwner(ctx, s.DB, ownerTenantID)
}

// newCode draws a fresh code string from the grammar: Segments groups of
// SegmentLen alphabet characters joined by dashes.
func (s *ShareCodeService) newCode() (string, error) {
	segments := s.Segments
	if segments <= 0 {
		segments = 3
	}
	segLen := s.SegmentLen
	if segLen <= 0 {
		segLen = 4
	}

	parts := make([]string, segments)
	var sb strings.Builder
	for i := 0; i < segments; i++ {
		sb.Reset()
		for j := 0; j < segLen; j++ {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
			if err != nil {
				return "", err
			}
			sb.WriteByte(codeAlphabet[n.Int64()])
		}
		parts[i] = sb.String()
	}
	return strings.Join(parts, "-"), nil
}
