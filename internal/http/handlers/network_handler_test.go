package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/gorm"

	"github.com/stablemesh/go-breeder-network/internal/search"
	"github.com/stablemesh/go-breeder-network/internal/services"
)

func TestSearchNetwork(t *testing.T) {
	// missing species -> 400
	{
		h := newStubHandlers()
		req := httptest.NewRequest(http.MethodPost, "/network/search", bytes.NewBufferString(`{"sex":"male"}`))
		w := serve(http.MethodPost, "/network/search", h.SearchNetwork, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("missing species -> %d", w.Code)
		}
	}

	// success -> 200 with caller and criteria forwarded
	{
		var gotCaller string
		var gotCriteria search.Criteria
		svc := stubNetSvc{
			search: func(_ context.Context, caller string, c search.Criteria) (*services.SearchResult, error) {
				gotCaller, gotCriteria = caller, c
				return &services.SearchResult{
					Results:       []services.BreederResult{{TenantID: "t-vis", BreederName: "Willow Creek", MatchCount: 2}},
					TotalBreeders: 1,
				}, nil
			},
		}
		h := New(stubCodeSvc{}, stubAccSvc{}, svc, stubInqSvc{}, stubAgrSvc{}, stubConvSvc{})

		body := `{"species":"dog","sex":"female","genetics":[{"locus":"E","acceptable_genotypes":["Ee"]}]}`
		req := httptest.NewRequest(http.MethodPost, "/network/search", bytes.NewBufferString(body))
		req.Header.Set("X-Tenant-ID", "t-caller")
		w := serve(http.MethodPost, "/network/search", h.SearchNetwork, req)
		if w.Code != http.StatusOK {
			t.Fatalf("search -> %d body=%s", w.Code, w.Body.String())
		}
		if gotCaller != "t-caller" || gotCriteria.Species != "dog" || len(gotCriteria.Genetics) != 1 {
			t.Fatalf("service args: caller=%q criteria=%+v", gotCaller, gotCriteria)
		}
		var out services.SearchResult
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("json: %v", err)
		}
		if out.TotalBreeders != 1 || out.Results[0].BreederName != "Willow Creek" {
			t.Fatalf("result = %+v", out)
		}
	}

	// service error -> 500
	{
		svc := stubNetSvc{
			search: func(context.Context, string, search.Criteria) (*services.SearchResult, error) {
				return nil, gorm.ErrInvalidField
			},
		}
		h := New(stubCodeSvc{}, stubAccSvc{}, svc, stubInqSvc{}, stubAgrSvc{}, stubConvSvc{})
		req := httptest.NewRequest(http.MethodPost, "/network/search", bytes.NewBufferString(`{"species":"dog","sex":"male"}`))
		w := serve(http.MethodPost, "/network/search", h.SearchNetwork, req)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("internal -> %d", w.Code)
		}
	}
}

func TestRebuildIndex(t *testing.T) {
	var gotTenant string
	svc := stubNetSvc{
		rebuild: func(_ context.Context, tenant string) error {
			gotTenant = tenant
			return nil
		},
	}
	h := New(stubCodeSvc{}, stubAccSvc{}, svc, stubInqSvc{}, stubAgrSvc{}, stubConvSvc{})
	req := httptest.NewRequest(http.MethodPost, "/network/rebuild-index", nil)
	req.Header.Set("X-Tenant-ID", "t-owner")
	w := serve(http.MethodPost, "/network/rebuild-index", h.RebuildIndex, req)
	if w.Code != http.StatusNoContent || gotTenant != "t-owner" {
		t.Fatalf("rebuild -> %d tenant=%q", w.Code, gotTenant)
	}
}
