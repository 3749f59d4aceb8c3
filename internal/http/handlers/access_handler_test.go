package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/stablemesh/go-breeder-network/internal/domain"
	"github.com/stablemesh/go-breeder-network/internal/services"
)

func TestListReceivedAccess_Pagination(t *testing.T) {
	svc := stubAccSvc{
		listAccessor: func(_ context.Context, tenant string, page, size int) ([]services.AccessView, int64, error) {
			if tenant != "t-acc" || page != 2 || size != 5 {
				t.Fatalf("args tenant=%q page=%d size=%d", tenant, page, size)
			}
			return []services.AccessView{{ID: "acc-1", Tier: domain.TierBasic}}, 12, nil
		},
	}
	h := New(stubCodeSvc{}, svc, stubNetSvc{}, stubInqSvc{}, stubAgrSvc{}, stubConvSvc{})

	req := httptest.NewRequest(http.MethodGet, "/animal-access/received?page=2&page_size=5", nil)
	req.Header.Set("X-Tenant-ID", "t-acc")
	w := serve(http.MethodGet, "/animal-access/received", h.ListReceivedAccess, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list -> %d body=%s", w.Code, w.Body.String())
	}
	var out ListAccessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(out.Accesses) != 1 || out.Pagination.Total != 12 || out.Pagination.TotalPages != 3 || !out.Pagination.HasNext {
		t.Fatalf("response = %+v", out)
	}
}

func TestListSharedAccess(t *testing.T) {
	svc := stubAccSvc{
		listOwner: func(_ context.Context, tenant string, page, size int) ([]services.AccessView, int64, error) {
			return []services.AccessView{{ID: "acc-1"}, {ID: "acc-2"}}, 2, nil
		},
	}
	h := New(stubCodeSvc{}, svc, stubNetSvc{}, stubInqSvc{}, stubAgrSvc{}, stubConvSvc{})

	req := httptest.NewRequest(http.MethodGet, "/animal-access/shared", nil)
	w := serve(http.MethodGet, "/animal-access/shared", h.ListSharedAccess, req)
	if w.Code != http.StatusOK {
		t.Fatalf("list -> %d", w.Code)
	}
	var out ListAccessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil || len(out.Accesses) != 2 || out.Pagination.HasNext {
		t.Fatalf("response = %s err=%v", w.Body.String(), err)
	}
}

func TestRemoveAccess_UUID_Forbidden_Success(t *testing.T) {
	{
		h := newStubHandlers()
		req := httptest.NewRequest(http.MethodDelete, "/animal-access/nope", nil)
		w := serve(http.MethodDelete, "/animal-access/:id", h.RemoveAccess, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("bad uuid -> %d", w.Code)
		}
	}
	{
		svc := stubAccSvc{
			remove: func(context.Context, string, string) error { return services.ErrNotAccessor },
		}
		h := New(stubCodeSvc{}, svc, stubNetSvc{}, stubInqSvc{}, stubAgrSvc{}, stubConvSvc{})
		req := httptest.NewRequest(http.MethodDelete, "/animal-access/"+uuid.NewString(), nil)
		w := serve(http.MethodDelete, "/animal-access/:id", h.RemoveAccess, req)
		if w.Code != http.StatusForbidden {
			t.Fatalf("not accessor -> %d", w.Code)
		}
	}
	{
		var gotID, gotTenant string
		svc := stubAccSvc{
			remove: func(_ context.Context, id, tenant string) error {
				gotID, gotTenant = id, tenant
				return nil
			},
		}
		h := New(stubCodeSvc{}, svc, stubNetSvc{}, stubInqSvc{}, stubAgrSvc{}, stubConvSvc{})
		accessID := uuid.NewString()
		req := httptest.NewRequest(http.MethodDelete, "/animal-access/"+accessID, nil)
		req.Header.Set("X-Tenant-ID", "t-acc")
		w := serve(http.MethodDelete, "/animal-access/:id", h.RemoveAccess, req)
		if w.Code != http.StatusNoContent || gotID != accessID || gotTenant != "t-acc" {
			t.Fatalf("remove -> %d id=%q tenant=%q", w.Code, gotID, gotTenant)
		}
	}
}

func TestRevokeAccess_TerminalConflict(t *testing.T) {
	svc := stubAccSvc{
		revoke: func(context.Context, string, string) error { return services.ErrAccessNotActive },
	}
	h := New(stubCodeSvc{}, svc, stubNetSvc{}, stubInqSvc{}, stubAgrSvc{}, stubConvSvc{})
	req := httptest.NewRequest(http.MethodPost, "/animal-access/"+uuid.NewString()+"/revoke", nil)
	w := serve(http.MethodPost, "/animal-access/:id/revoke", h.RevokeAccess, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("terminal grant -> %d", w.Code)
	}
}

func TestUpdateAccessTier(t *testing.T) {
	// missing tier -> 400
	{
		h := newStubHandlers()
		req := httptest.NewRequest(http.MethodPut, "/animal-access/"+uuid.NewString()+"/tier", bytes.NewBufferString(`{}`))
		w := serve(http.MethodPut, "/animal-access/:id/tier", h.UpdateAccessTier, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("missing tier -> %d", w.Code)
		}
	}

	// invalid tier value -> 400 via service sentinel
	{
		svc := stubAccSvc{
			upgrade: func(context.Context, string, string, domain.AccessTier) error {
				return services.ErrInvalidTier
			},
		}
		h := New(stubCodeSvc{}, svc, stubNetSvc{}, stubInqSvc{}, stubAgrSvc{}, stubConvSvc{})
		req := httptest.NewRequest(http.MethodPut, "/animal-access/"+uuid.NewString()+"/tier", bytes.NewBufferString(`{"tier":"PLATINUM"}`))
		w := serve(http.MethodPut, "/animal-access/:id/tier", h.UpdateAccessTier, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("invalid tier -> %d", w.Code)
		}
	}

	// success -> 204 with tier forwarded
	{
		var gotTier domain.AccessTier
		svc := stubAccSvc{
			upgrade: func(_ context.Context, _, _ string, tier domain.AccessTier) error {
				gotTier = tier
				return nil
			},
		}
		h := New(stubCodeSvc{}, svc, stubNetSvc{}, stubInqSvc{}, stubAgrSvc{}, stubConvSvc{})
		req := httptest.NewRequest(http.MethodPut, "/animal-access/"+uuid.NewString()+"/tier", bytes.NewBufferString(`{"tier":"FULL"}`))
		w := serve(http.MethodPut, "/animal-access/:id/tier", h.UpdateAccessTier, req)
		if w.Code != http.StatusNoContent || gotTier != domain.TierFull {
			t.Fatalf("upgrade -> %d tier=%q", w.Code, gotTier)
		}
	}
}

func TestAnimalDeleted(t *testing.T) {
	var gotAnimal, gotOwner string
	svc := stubAccSvc{
		animalDeleted: func(_ context.Context, animalID, ownerTenantID string) error {
			gotAnimal, gotOwner = animalID, ownerTenantID
			return nil
		},
	}
	h := New(stubCodeSvc{}, svc, stubNetSvc{}, stubInqSvc{}, stubAgrSvc{}, stubConvSvc{})
	req := httptest.NewRequest(http.MethodPost, "/animals/an-9/deleted", nil)
	req.Header.Set("X-Tenant-ID", "t-own")
	w := serve(http.MethodPost, "/animals/:id/deleted", h.AnimalDeleted, req)
	if w.Code != http.StatusNoContent || gotAnimal != "an-9" || gotOwner != "t-own" {
		t.Fatalf("deleted hook -> %d animal=%q owner=%q", w.Code, gotAnimal, gotOwner)
	}
}

func TestAnimalDeleted_Forbidden(t *testing.T) {
	svc := stubAccSvc{
		animalDeleted: func(_ context.Context, _, _ string) error {
			return services.ErrNotAccessOwner
		},
	}
	h := New(stubCodeSvc{}, svc, stubNetSvc{}, stubInqSvc{}, stubAgrSvc{}, stubConvSvc{})
	req := httptest.NewRequest(http.MethodPost, "/animals/an-9/deleted", nil)
	req.Header.Set("X-Tenant-ID", "t-stranger")
	w := serve(http.MethodPost, "/animals/:id/deleted", h.AnimalDeleted, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("stranger delete hook -> %d; want 403", w.Code)
	}
	var e ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil || e.Code != ErrCodeForbidden {
		t.Fatalf("body = %s (%v)", w.Body.String(), err)
	}
}
