// Package domain defines the persistence models for the cross-tenant
// breeding network: share codes, shadow animal accesses, the aggregated
// search index, inquiries, data agreements, and conversations. These types
// are mapped with GORM and form the core data layer of the application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// ShareCodeStatus is the lifecycle state of a share code. Transitions are
// one-way: ACTIVE may become REVOKED or EXPIRED, after which the code is
// terminal and kept for audit.
type ShareCodeStatus string

const (
	ShareCodeActive  ShareCodeStatus = "ACTIVE"
	ShareCodeRevoked ShareCodeStatus = "REVOKED"
	ShareCodeExpired ShareCodeStatus = "EXPIRED"
)

// AccessTier is an ordered disclosure level controlling which fields of an
// animal are visible to an accessor. Higher tiers are additive.
type AccessTier string

const (
	TierBasic    AccessTier = "BASIC"
	TierGenetics AccessTier = "GENETICS"
	TierHealth   AccessTier = "HEALTH"
	TierFull     AccessTier = "FULL"
)

// TierRank returns the ordinal position of a tier, or -1 for unknown values.
func TierRank(t AccessTier) int {
	switch t {
	case TierBasic:
		return 0
	case TierGenetics:
		return 1
	case TierHealth:
		return 2
	case TierFull:
		return 3
	}
	return -1
}

// ValidTier reports whether t is one of the known access tiers.
func ValidTier(t AccessTier) bool { return TierRank(t) >= 0 }

// AccessOrigin records how an access grant came to exist.
type AccessOrigin string

const (
	OriginShareCode         AccessOrigin = "SHARE_CODE"
	OriginBreedingAgreement AccessOrigin = "BREEDING_AGREEMENT"
)

// AccessStatus is the lifecycle state of an animal access grant.
type AccessStatus string

const (
	AccessActive       AccessStatus = "ACTIVE"
	AccessRevoked      AccessStatus = "REVOKED"
	AccessOwnerDeleted AccessStatus = "OWNER_DELETED"
)

// InquiryStatus is the lifecycle state of a breeding inquiry.
// PENDING transitions one-way to RESPONDED or DECLINED.
type InquiryStatus string

const (
	InquiryPending   InquiryStatus = "PENDING"
	InquiryResponded InquiryStatus = "RESPONDED"
	InquiryDeclined  InquiryStatus = "DECLINED"
)

// AgreementStatus is the lifecycle state of a breeding data agreement.
type AgreementStatus string

const (
	AgreementPending  AgreementStatus = "PENDING"
	AgreementApproved AgreementStatus = "APPROVED"
	AgreementRejected AgreementStatus = "REJECTED"
)

// NetworkVisibility is the tenant-level policy controlling whether and how a
// tenant appears in network search results.
type NetworkVisibility string

const (
	VisibilityVisible   NetworkVisibility = "VISIBLE"
	VisibilityAnonymous NetworkVisibility = "ANONYMOUS"
	VisibilityHidden    NetworkVisibility = "HIDDEN"
)

// ShareCode is a redeemable token granting accessor tenants shadow access to
// specific owner animals at a chosen tier. Codes are never deleted; revoke
// and expire are one-way status writes so the issuance trail survives.
//
// Invariant: UseCount never exceeds MaxUses when MaxUses is set. The
// check-and-increment is a single conditional UPDATE (repo.ClaimShareCodeUse)
// so concurrent redemptions cannot over-redeem.
type ShareCode struct {
	ID            string          `json:"id"              gorm:"type:char(36);primaryKey"`
	OwnerTenantID string          `json:"owner_tenant_id" gorm:"type:varchar(64);not null;index:idx_sharecode_owner"`
	Code          string          `json:"code"            gorm:"type:varchar(32);not null;uniqueIndex:ux_sharecode_code"`
	DefaultTier   AccessTier      `json:"default_tier"    gorm:"type:varchar(16);not null"`
	Status        ShareCodeStatus `json:"status"          gorm:"type:varchar(16);not null;default:'ACTIVE'"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	MaxUses       *int            `json:"max_uses,omitempty"`
	UseCount      int             `json:"use_count"       gorm:"not null;default:0"`
	RevokedAt     *time.Time      `json:"revoked_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Animals are the per-animal grants covered by this code, including any
	// tier overrides.
	Animals []ShareCodeAnimal `json:"animals" gorm:"foreignKey:ShareCodeID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ShareCode.
func (ShareCode) TableName() string { return "share_codes" }

// ShareCodeAnimal links one covered animal to a share code, optionally
// overriding the code's default tier for that animal.
type ShareCodeAnimal struct {
	ID           string      `json:"id"             gorm:"type:char(36);primaryKey"`
	ShareCodeID  string      `json:"share_code_id"  gorm:"type:char(36);not null;uniqueIndex:ux_code_animal,priority:1"`
	AnimalID     string      `json:"animal_id"      gorm:"type:varchar(64);not null;uniqueIndex:ux_code_animal,priority:2"`
	TierOverride *AccessTier `json:"tier_override,omitempty" gorm:"type:varchar(16)"`
}

// TableName returns the database table name for ShareCodeAnimal.
func (ShareCodeAnimal) TableName() string { return "share_code_animals" }

// ResolvedTier returns the tier granted for this animal: the override when
// present, otherwise the code's default.
func (a ShareCodeAnimal) ResolvedTier(def AccessTier) AccessTier {
	if a.TierOverride != nil {
		return *a.TierOverride
	}
	return def
}

// AnimalAccess is the durable record of one tenant ("accessor") being allowed
// to see a tier-limited projection of another tenant's ("owner") animal.
//
// Invariant: at most one ACTIVE row per (owner, accessor, animal) triple;
// redeeming an already-granted animal again is a no-op for that animal.
//
// When the owner deletes the source animal while the access is ACTIVE, the
// row transitions to OWNER_DELETED and the *Snapshot fields capture the
// animal's identity as of deletion so the accessor's history is preserved.
type AnimalAccess struct {
	ID               string       `json:"id"                 gorm:"type:char(36);primaryKey"`
	OwnerTenantID    string       `json:"owner_tenant_id"    gorm:"type:varchar(64);not null;index:idx_access_owner"`
	AccessorTenantID string       `json:"accessor_tenant_id" gorm:"type:varchar(64);not null;index:idx_access_accessor"`
	AnimalID         string       `json:"animal_id"          gorm:"type:varchar(64);not null;index:idx_access_animal"`
	Tier             AccessTier   `json:"tier"               gorm:"type:varchar(16);not null"`
	Origin           AccessOrigin `json:"origin"             gorm:"type:varchar(24);not null"`
	Status           AccessStatus `json:"status"             gorm:"type:varchar(16);not null;default:'ACTIVE'"`
	ExpiresAt        *time.Time   `json:"expires_at,omitempty"` // nil = permanent
	ShareCodeID      *string      `json:"share_code_id,omitempty" gorm:"type:char(36);index:idx_access_sharecode"`
	RevokedAt        *time.Time   `json:"revoked_at,omitempty"`

	AnimalNameSnapshot    *string `json:"animal_name_snapshot,omitempty"    gorm:"type:varchar(255)"`
	AnimalSpeciesSnapshot *string `json:"animal_species_snapshot,omitempty" gorm:"type:varchar(64)"`
	AnimalSexSnapshot     *string `json:"animal_sex_snapshot,omitempty"     gorm:"type:varchar(16)"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for AnimalAccess.
func (AnimalAccess) TableName() string { return "animal_accesses" }

// SearchIndexEntry is one privacy-preserving aggregate row of the network
// search index, keyed by (owner tenant, species, sex). It carries an animal
// count and per-category trait value sets and nothing else: no animal ids,
// no owner-internal identifiers. The index is fully rebuildable from source
// data; rebuilds replace a tenant's rows wholesale (last write wins).
type SearchIndexEntry struct {
	ID               string    `json:"id"         gorm:"type:char(36);primaryKey"`
	TenantID         string    `json:"tenant_id"  gorm:"type:varchar(64);not null;uniqueIndex:ux_index_partition,priority:1"`
	Species          string    `json:"species"    gorm:"type:varchar(64);not null;uniqueIndex:ux_index_partition,priority:2;index:idx_index_species"`
	Sex              string    `json:"sex"        gorm:"type:varchar(16);not null;uniqueIndex:ux_index_partition,priority:3"`
	AnimalCount      int       `json:"animal_count" gorm:"not null"`
	GeneticTraits    TraitSets `json:"genetic_traits"    gorm:"type:text"`
	HealthClearances TraitSets `json:"health_clearances" gorm:"type:text"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName returns the database table name for SearchIndexEntry.
func (SearchIndexEntry) TableName() string { return "search_index_entries" }

// BreedingInquiry is a tenant-to-tenant contact request generated from a
// network search match.
//
// Invariant: MatchingAnimalIDs exists for the recipient only. The sender-side
// read model (services.SentInquiry) has no field for it, so the omission is
// structural rather than a call-site convention.
type BreedingInquiry struct {
	ID                string        `json:"id"                  gorm:"type:char(36);primaryKey"`
	SenderTenantID    string        `json:"sender_tenant_id"    gorm:"type:varchar(64);not null;index:idx_inquiry_sender"`
	RecipientTenantID string        `json:"recipient_tenant_id" gorm:"type:varchar(64);not null;index:idx_inquiry_recipient"`
	Criteria          JSONText      `json:"criteria"            gorm:"type:text"`
	MatchingAnimalIDs StringList    `json:"matching_animal_ids" gorm:"type:text"`
	MatchedCategories StringList    `json:"matched_categories"  gorm:"type:text"`
	Message           string        `json:"message"             gorm:"type:text"`
	Status            InquiryStatus `json:"status"              gorm:"type:varchar(16);not null;default:'PENDING'"`
	ThreadID          string        `json:"thread_id"           gorm:"type:char(36)"`
	RespondedAt       *time.Time    `json:"responded_at,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// TableName returns the database table name for BreedingInquiry.
func (BreedingInquiry) TableName() string { return "breeding_inquiries" }

// BreedingDataAgreement converts a plan-scoped shadow access into permanent,
// owner-approved data sharing.
//
// Invariant: at most one agreement per (breeding plan, animal access) pair
// regardless of status, enforced by a unique index; duplicates are rejected,
// never merged.
type BreedingDataAgreement struct {
	ID                 string          `json:"id"                   gorm:"type:char(36);primaryKey"`
	BreedingPlanID     string          `json:"breeding_plan_id"     gorm:"type:varchar(64);not null;uniqueIndex:ux_agreement_plan_access,priority:1"`
	AnimalAccessID     string          `json:"animal_access_id"     gorm:"type:char(36);not null;uniqueIndex:ux_agreement_plan_access,priority:2"`
	RequestingTenantID string          `json:"requesting_tenant_id" gorm:"type:varchar(64);not null;index:idx_agreement_requester"`
	ApprovingTenantID  string          `json:"approving_tenant_id"  gorm:"type:varchar(64);not null;index:idx_agreement_approver"`
	AnimalRole         string          `json:"animal_role"          gorm:"type:varchar(32);not null"`
	Status             AgreementStatus `json:"status"               gorm:"type:varchar(16);not null;default:'PENDING'"`
	RequestMessage     string          `json:"request_message"      gorm:"type:text"`
	ResponseMessage    string          `json:"response_message"     gorm:"type:text"`
	RespondedAt        *time.Time      `json:"responded_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// TableName returns the database table name for BreedingDataAgreement.
func (BreedingDataAgreement) TableName() string { return "breeding_data_agreements" }

// AccessConversation binds one message thread to one animal access grant.
// At most one conversation exists per access (unique index); creation is
// idempotent at the service layer.
type AccessConversation struct {
	ID             string         `json:"id"               gorm:"type:char(36);primaryKey"`
	AnimalAccessID string         `json:"animal_access_id" gorm:"type:char(36);not null;uniqueIndex:ux_conversation_access"`
	ThreadID       string         `json:"thread_id"        gorm:"type:char(36);not null"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName returns the database table name for AccessConversation.
func (AccessConversation) TableName() string { return "access_conversations" }

// NotificationRecord deduplicates best-effort notification dispatch. One row
// exists per (subject, event) pair; the unique index makes re-emission of the
// same event a detectable no-op so retries and duplicate triggers never fan
// out twice.
type NotificationRecord struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	SubjectID string    `gorm:"type:char(36);not null;uniqueIndex:ux_notification_subject_event,priority:1"`
	Event     string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_notification_subject_event,priority:2"`
	TenantID  string    `gorm:"type:varchar(64);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName implements the GORM tabler interface.
func (NotificationRecord) TableName() string { return "notification_records" }
