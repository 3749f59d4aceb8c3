package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stablemesh/go-breeder-network/internal/domain"
)

func TestCreateShareCode_PersistsAnimalsAndIDs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	full := domain.TierFull
	sc := &domain.ShareCode{
		OwnerTenantID: "t-owner",
		Code:          "AAAA-BBBB-CCCC",
		DefaultTier:   domain.TierGenetics,
		Status:        domain.ShareCodeActive,
		Animals: []domain.ShareCodeAnimal{
			{AnimalID: "an-1"},
			{AnimalID: "an-2", TierOverride: &full},
		},
	}
	if err := CreateShareCode(ctx, db, sc); err != nil {
		t.Fatalf("CreateShareCode: %v", err)
	}
	if sc.ID == "" {
		t.Fatalf("id not assigned")
	}
	for _, a := range sc.Animals {
		if a.ID == "" || a.ShareCodeID != sc.ID {
			t.Fatalf("animal rows not linked: %+v", a)
		}
	}

	got, err := GetShareCodeByCode(ctx, db, "AAAA-BBBB-CCCC")
	if err != nil {
		t.Fatalf("GetShareCodeByCode: %v", err)
	}
	if len(got.Animals) != 2 || got.DefaultTier != domain.TierGenetics {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
}

func TestCreateShareCode_DuplicateCodeString(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	first := &domain.ShareCode{OwnerTenantID: "t1", Code: "DUPL-DUPL-DUPL", DefaultTier: domain.TierBasic, Status: domain.ShareCodeActive}
	if err := CreateShareCode(ctx, db, first); err != nil {
		t.Fatalf("first create: %v", err)
	}
	second := &domain.ShareCode{OwnerTenantID: "t2", Code: "DUPL-DUPL-DUPL", DefaultTier: domain.TierBasic, Status: domain.ShareCodeActive}
	if err := CreateShareCode(ctx, db, second); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestClaimShareCodeUse_GuardsAndIncrement(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	maxUses := 2
	sc := &domain.ShareCode{OwnerTenantID: "t1", Code: "USES-USES-USES", DefaultTier: domain.TierBasic, Status: domain.ShareCodeActive, MaxUses: &maxUses}
	if err := CreateShareCode(ctx, db, sc); err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 1; i <= 2; i++ {
		ok, err := ClaimShareCodeUse(ctx, db, sc.ID, now)
		if err != nil || !ok {
			t.Fatalf("claim %d = %v, %v", i, ok, err)
		}
	}
	// Budget spent: the conditional update matches no row.
	ok, err := ClaimShareCodeUse(ctx, db, sc.ID, now)
	if err != nil || ok {
		t.Fatalf("third claim should fail closed, got %v, %v", ok, err)
	}
	got, err := GetShareCode(ctx, db, sc.ID)
	if err != nil || got.UseCount != 2 {
		t.Fatalf("use count = %+v, %v; want 2", got, err)
	}
}

func TestClaimShareCodeUse_RejectsExpiredAndInactive(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	past := now.Add(-time.Hour)
	expired := &domain.ShareCode{OwnerTenantID: "t1", Code: "EXPD-EXPD-EXPD", DefaultTier: domain.TierBasic, Status: domain.ShareCodeActive, ExpiresAt: &past}
	if err := CreateShareCode(ctx, db, expired); err != nil {
		t.Fatalf("create: %v", err)
	}
	if ok, err := ClaimShareCodeUse(ctx, db, expired.ID, now); err != nil || ok {
		t.Fatalf("expired code claim = %v, %v", ok, err)
	}

	revoked := &domain.ShareCode{OwnerTenantID: "t1", Code: "RVKD-RVKD-RVKD", DefaultTier: domain.TierBasic, Status: domain.ShareCodeActive}
	if err := CreateShareCode(ctx, db, revoked); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := RevokeShareCode(ctx, db, revoked.ID, now); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if ok, err := ClaimShareCodeUse(ctx, db, revoked.ID, now); err != nil || ok {
		t.Fatalf("revoked code claim = %v, %v", ok, err)
	}
}

func TestRevokeShareCode_OneWay(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	sc := &domain.ShareCode{OwnerTenantID: "t1", Code: "ONEW-ONEW-ONEW", DefaultTier: domain.TierBasic, Status: domain.ShareCodeActive}
	if err := CreateShareCode(ctx, db, sc); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := RevokeShareCode(ctx, db, sc.ID, now); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	got, _ := GetShareCode(ctx, db, sc.ID)
	if got.Status != domain.ShareCodeRevoked || got.RevokedAt == nil {
		t.Fatalf("revocation not recorded: %+v", got)
	}

	// Second revoke and a late expire both refuse to touch the terminal row.
	if err := RevokeShareCode(ctx, db, sc.ID, now); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double revoke = %v; want ErrNotFound", err)
	}
	if err := ExpireShareCode(ctx, db, sc.ID); err != nil {
		t.Fatalf("expire no-op: %v", err)
	}
	got, _ = GetShareCode(ctx, db, sc.ID)
	if got.Status != domain.ShareCodeRevoked {
		t.Fatalf("expire overwrote revocation: %+v", got)
	}
}

func TestListShareCodesForOwner_NewestFirstAllStatuses(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	old := &domain.ShareCode{OwnerTenantID: "t1", Code: "LSTA-LSTA-LSTA", DefaultTier: domain.TierBasic, Status: domain.ShareCodeActive}
	if err := CreateShareCode(ctx, db, old); err != nil {
		t.Fatalf("create: %v", err)
	}
	db.Model(old).Update("created_at", time.Now().UTC().Add(-time.Hour))

	_ = RevokeShareCode(ctx, db, old.ID, time.Now().UTC())

	recent := &domain.ShareCode{OwnerTenantID: "t1", Code: "LSTB-LSTB-LSTB", DefaultTier: domain.TierBasic, Status: domain.ShareCodeActive}
	if err := CreateShareCode(ctx, db, recent); err != nil {
		t.Fatalf("create: %v", err)
	}
	other := &domain.ShareCode{OwnerTenantID: "t2", Code: "LSTC-LSTC-LSTC", DefaultTier: domain.TierBasic, Status: domain.ShareCodeActive}
	if err := CreateShareCode(ctx, db, other); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := ListShareCodesForOwner(ctx, db, "t1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != recent.ID || list[1].Status != domain.ShareCodeRevoked {
		t.Fatalf("unexpected listing: %+v", list)
	}
}
