// Handler wiring for the breeding network API.
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses. Every handler
// resolves the calling tenant the same way, and every service rejection is
// mapped to a stable error code in errors.go.
package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stablemesh/go-breeder-network/internal/domain"
	"github.com/stablemesh/go-breeder-network/internal/search"
	"github.com/stablemesh/go-breeder-network/internal/services"
	"github.com/stablemesh/go-breeder-network/internal/utils"
)

//
// Service contracts (context-aware)
//

// ShareCodeService defines share code lifecycle operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ShareCodeService interface {
	// Generate issues a new code covering the owner's animals.
	Generate(ctx context.Context, ownerTenantID string, in services.GenerateInput) (*domain.ShareCode, error)
	// Redeem exchanges a code for access grants.
	Redeem(ctx context.Context, code, accessorTenantID string) ([]domain.AnimalAccess, error)
	// Revoke deactivates a code and cascades to its grants.
	Revoke(ctx context.Context, codeID, ownerTenantID string) error
	// Validate reports a code's state without mutating it.
	Validate(ctx context.Context, code string) (*services.Validation, error)
	// ListForOwner returns the tenant's issued codes.
	ListForOwner(ctx context.Context, ownerTenantID string) ([]domain.ShareCode, error)
}

// AccessService defines animal access grant operations.
type AccessService interface {
	// ListForAccessor returns a page of grants received by the tenant.
	ListForAccessor(ctx context.Context, tenantID string, page, pageSize int) ([]services.AccessView, int64, error)
	// ListForOwner returns a page of grants the tenant has issued.
	ListForOwner(ctx context.Context, tenantID string, page, pageSize int) ([]services.AccessView, int64, error)
	// RemoveByAccessor lets the accessor drop their own grant.
	RemoveByAccessor(ctx context.Context, accessID, accessorTenantID string) error
	// RevokeByOwner lets the owner revoke a grant.
	RevokeByOwner(ctx context.Context, accessID, ownerTenantID string) error
	// UpgradeTier raises or changes a grant's tier, owner-only.
	UpgradeTier(ctx context.Context, accessID, ownerTenantID string, newTier domain.AccessTier) error
	// OnAnimalDeleted snapshots and closes the animal's active grants.
	// Owner-only.
	OnAnimalDeleted(ctx context.Context, animalID, ownerTenantID string) error
}

// NetworkService defines search index operations.
type NetworkService interface {
	// RebuildForTenant refreshes the tenant's index partitions.
	RebuildForTenant(ctx context.Context, tenantID string) error
	// Search runs a criteria query over the aggregate index.
	Search(ctx context.Context, callerTenantID string, criteria search.Criteria) (*services.SearchResult, error)
}

// InquiryService defines breeding inquiry operations.
type InquiryService interface {
	// Send records a new inquiry and opens its thread.
	Send(ctx context.Context, in services.SendInquiryInput) (*services.SentInquiry, error)
	// GetReceived returns the recipient's view of one inquiry.
	GetReceived(ctx context.Context, tenantID, inquiryID string) (*services.ReceivedInquiry, error)
	// ListReceived returns inquiries addressed to the tenant.
	ListReceived(ctx context.Context, tenantID string) ([]services.ReceivedInquiry, error)
	// ListSent returns inquiries the tenant sent.
	ListSent(ctx context.Context, tenantID string) ([]services.SentInquiry, error)
	// Respond accepts or declines a pending inquiry.
	Respond(ctx context.Context, tenantID, inquiryID string, accept bool) (*services.ReceivedInquiry, error)
}

// AgreementService defines breeding data agreement operations.
type AgreementService interface {
	// Create opens a pending agreement for a (plan, access) pair.
	Create(ctx context.Context, in services.CreateAgreementInput) (*domain.BreedingDataAgreement, error)
	// Get returns an agreement visible to the caller.
	Get(ctx context.Context, tenantID, agreementID string) (*domain.BreedingDataAgreement, error)
	// List returns the tenant's agreements on either side.
	List(ctx context.Context, tenantID string) ([]domain.BreedingDataAgreement, error)
	// Approve finalizes the agreement and makes the grant permanent.
	Approve(ctx context.Context, tenantID, agreementID, responseMessage string) (*domain.BreedingDataAgreement, error)
	// Reject declines the agreement without touching the grant.
	Reject(ctx context.Context, tenantID, agreementID, responseMessage string) (*domain.BreedingDataAgreement, error)
}

// ConversationService defines per-access conversation operations.
type ConversationService interface {
	// Get returns the existing conversation for a grant.
	Get(ctx context.Context, tenantID, accessID string) (*services.ConversationView, error)
	// GetOrCreate opens the conversation on first use.
	GetOrCreate(ctx context.Context, tenantID, accessID string) (*services.ConversationView, bool, error)
	// SendMessage appends a message, creating the conversation if needed.
	SendMessage(ctx context.Context, tenantID, accessID, body string) (*services.ConversationMsg, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints of the breeding network API. It depends
// on abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	codeSvc ShareCodeService
	accSvc  AccessService
	netSvc  NetworkService
	inqSvc  InquiryService
	agrSvc  AgreementService
	convSvc ConversationService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(codeSvc ShareCodeService, accSvc AccessService, netSvc NetworkService,
	inqSvc InquiryService, agrSvc AgreementService, convSvc ConversationService) *Handlers {
	return &Handlers{
		codeSvc: codeSvc,
		accSvc:  accSvc,
		netSvc:  netSvc,
		inqSvc:  inqSvc,
		agrSvc:  agrSvc,
		convSvc: convSvc,
	}
}

// tenantID extracts the authenticated tenant id from Gin context (set by
// upstream middleware). If absent, it falls back to "X-Tenant-ID" header
// (tests use it), and finally to "demo-tenant". It never touches c.Request
// if it's nil.
func tenantID(c *gin.Context) string {
	if v, ok := c.Get("tenantID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-Tenant-ID")); h != "" {
			return h
		}
	}
	return "demo-tenant"
}

//
// DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// paginate computes the metadata block for one page.
func paginate(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}
