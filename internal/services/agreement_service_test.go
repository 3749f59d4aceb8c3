package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stablemesh/go-breeder-network/internal/domain"
	"github.com/stablemesh/go-breeder-network/internal/repo"
)

func newAgreementEnv(t *testing.T) (*AgreementService, *fakeNotifier) {
	t.Helper()
	plans := newFakePlanStore(
		BreedingPlan{ID: "plan-1", TenantID: "t-acc"},
		BreedingPlan{ID: "plan-other", TenantID: "t-other"},
	)
	notifier := &fakeNotifier{}
	return &AgreementService{DB: newServiceDB(t), Plans: plans, Notifier: notifier}, notifier
}

func seedGrant(t *testing.T, svc *AgreementService, status domain.AccessStatus) *domain.AnimalAccess {
	t.Helper()
	code := "sc-1"
	expiry := time.Now().UTC().Add(30 * 24 * time.Hour)
	acc := &domain.AnimalAccess{
		OwnerTenantID:    "t-owner",
		AccessorTenantID: "t-acc",
		AnimalID:         "an-1",
		Tier:             domain.TierGenetics,
		Origin:           domain.OriginShareCode,
		Status:           status,
		ShareCodeID:      &code,
		ExpiresAt:        &expiry,
	}
	if err := repo.CreateAccess(context.Background(), svc.DB, acc); err != nil {
		t.Fatalf("seed access: %v", err)
	}
	return acc
}

func TestCreateAgreement_Guards(t *testing.T) {
	svc, _ := newAgreementEnv(t)
	ctx := context.Background()
	acc := seedGrant(t, svc, domain.AccessActive)

	cases := []struct {
		name string
		in   CreateAgreementInput
		want error
	}{
		{"missing access", CreateAgreementInput{RequestingTenantID: "t-acc", BreedingPlanID: "plan-1", AnimalAccessID: "missing"}, ErrAccessNotFound},
		{"not the accessor", CreateAgreementInput{RequestingTenantID: "t-other", BreedingPlanID: "plan-1", AnimalAccessID: acc.ID}, ErrNotRequester},
		{"missing plan", CreateAgreementInput{RequestingTenantID: "t-acc", BreedingPlanID: "missing", AnimalAccessID: acc.ID}, ErrPlanNotFound},
		{"plan owned by someone else", CreateAgreementInput{RequestingTenantID: "t-acc", BreedingPlanID: "plan-other", AnimalAccessID: acc.ID}, ErrNotRequester},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v; want %v", tc.name, err, tc.want)
		}
	}
}

func TestCreateAgreement_InactiveGrant(t *testing.T) {
	svc, _ := newAgreementEnv(t)
	acc := seedGrant(t, svc, domain.AccessRevoked)

	_, err := svc.Create(context.Background(), CreateAgreementInput{
		RequestingTenantID: "t-acc", BreedingPlanID: "plan-1", AnimalAccessID: acc.ID,
	})
	if !errors.Is(err, ErrAccessNotActive) {
		t.Fatalf("err = %v; want ErrAccessNotActive", err)
	}
}

func TestCreateAgreement_OnePerPairEvenAfterRejection(t *testing.T) {
	svc, notifier := newAgreementEnv(t)
	ctx := context.Background()
	acc := seedGrant(t, svc, domain.AccessActive)

	in := CreateAgreementInput{
		RequestingTenantID: "t-acc",
		BreedingPlanID:     "plan-1",
		AnimalAccessID:     acc.ID,
		AnimalRole:         "sire",
		RequestMessage:     "using Aster as sire",
	}
	ag, err := svc.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ag.Status != domain.AgreementPending || ag.ApprovingTenantID != "t-owner" {
		t.Fatalf("agreement = %+v", ag)
	}
	if notifier.count() != 1 || notifier.events[0].TenantID != "t-owner" || notifier.events[0].Event != EventAgreementRequested {
		t.Fatalf("owner notification = %+v", notifier.events)
	}

	if _, err := svc.Reject(ctx, "t-owner", ag.ID, "not this season"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	// The (plan, access) pair is spent for good.
	if _, err := svc.Create(ctx, in); !errors.Is(err, ErrDuplicateAgreement) {
		t.Fatalf("re-create after rejection = %v; want ErrDuplicateAgreement", err)
	}
}

func TestApprove_MakesGrantPermanent(t *testing.T) {
	svc, notifier := newAgreementEnv(t)
	ctx := context.Background()
	acc := seedGrant(t, svc, domain.AccessActive)

	ag, err := svc.Create(ctx, CreateAgreementInput{
		RequestingTenantID: "t-acc", BreedingPlanID: "plan-1", AnimalAccessID: acc.ID, AnimalRole: "dam",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Approve(ctx, "t-acc", ag.ID, ""); !errors.Is(err, ErrNotApprover) {
		t.Fatalf("requester approving own request = %v; want ErrNotApprover", err)
	}

	got, err := svc.Approve(ctx, "t-owner", ag.ID, "happy to help")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if got.Status != domain.AgreementApproved || got.ResponseMessage != "happy to help" || got.RespondedAt == nil {
		t.Fatalf("approved agreement = %+v", got)
	}

	fresh, err := repo.GetAccess(ctx, svc.DB, acc.ID)
	if err != nil {
		t.Fatalf("GetAccess: %v", err)
	}
	if fresh.ExpiresAt != nil || fresh.ShareCodeID != nil {
		t.Fatalf("grant still time-limited: %+v", fresh)
	}
	if fresh.Origin != domain.OriginBreedingAgreement || fresh.Status != domain.AccessActive {
		t.Fatalf("grant origin/status = %s/%s", fresh.Origin, fresh.Status)
	}

	if _, err := svc.Approve(ctx, "t-owner", ag.ID, "again"); !errors.Is(err, ErrAgreementNotPending) {
		t.Fatalf("second approve = %v; want ErrAgreementNotPending", err)
	}
	if notifier.count() != 2 || notifier.events[1].TenantID != "t-acc" || notifier.events[1].Event != EventAgreementResolved {
		t.Fatalf("requester notification = %+v", notifier.events)
	}
}

func TestReject_LeavesGrantUntouched(t *testing.T) {
	svc, _ := newAgreementEnv(t)
	ctx := context.Background()
	acc := seedGrant(t, svc, domain.AccessActive)

	ag, err := svc.Create(ctx, CreateAgreementInput{
		RequestingTenantID: "t-acc", BreedingPlanID: "plan-1", AnimalAccessID: acc.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Reject(ctx, "t-acc", ag.ID, ""); !errors.Is(err, ErrNotApprover) {
		t.Fatalf("requester rejecting = %v; want ErrNotApprover", err)
	}
	got, err := svc.Reject(ctx, "t-owner", ag.ID, "timing is wrong")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if got.Status != domain.AgreementRejected || got.RespondedAt == nil {
		t.Fatalf("rejected agreement = %+v", got)
	}

	fresh, err := repo.GetAccess(ctx, svc.DB, acc.ID)
	if err != nil {
		t.Fatalf("GetAccess: %v", err)
	}
	if fresh.ExpiresAt == nil || fresh.ShareCodeID == nil || fresh.Origin != domain.OriginShareCode {
		t.Fatalf("rejection must not alter the grant: %+v", fresh)
	}

	if _, err := svc.Reject(ctx, "t-owner", ag.ID, "again"); !errors.Is(err, ErrAgreementNotPending) {
		t.Fatalf("second reject = %v; want ErrAgreementNotPending", err)
	}
}

func TestAgreementVisibility(t *testing.T) {
	svc, _ := newAgreementEnv(t)
	ctx := context.Background()
	acc := seedGrant(t, svc, domain.AccessActive)

	ag, err := svc.Create(ctx, CreateAgreementInput{
		RequestingTenantID: "t-acc", BreedingPlanID: "plan-1", AnimalAccessID: acc.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, tenant := range []string{"t-acc", "t-owner"} {
		if _, err := svc.Get(ctx, tenant, ag.ID); err != nil {
			t.Fatalf("Get as %s: %v", tenant, err)
		}
	}
	if _, err := svc.Get(ctx, "t-stranger", ag.ID); !errors.Is(err, ErrAgreementNotFound) {
		t.Fatalf("stranger Get = %v; want ErrAgreementNotFound", err)
	}
	if _, err := svc.Get(ctx, "t-acc", "missing"); !errors.Is(err, ErrAgreementNotFound) {
		t.Fatalf("missing Get = %v; want ErrAgreementNotFound", err)
	}

	list, err := svc.List(ctx, "t-owner")
	if err != nil || len(list) != 1 || list[0].ID != ag.ID {
		t.Fatalf("List = %+v, %v", list, err)
	}
}
