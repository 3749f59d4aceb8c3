// Package services defines the business logic for share codes, animal
// accesses, the network search index, inquiries, agreements, and
// conversations. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// Every rejection the workflows can produce is a distinct named value;
// callers (and tests) depend on the exact kind to decide UI/workflow
// behavior, so these are never collapsed into a generic error. Translation
// into user-facing messages or HTTP status codes is performed at the
// handler layer.
package services

import "errors"

// Share code errors.
var (
	// ErrShareCodeNotFound indicates the code string or id does not resolve.
	ErrShareCodeNotFound = errors.New("share code not found")

	// ErrNoAnimals is returned when a code is generated with an empty
	// animal set.
	ErrNoAnimals = errors.New("share code must cover at least one animal")

	// ErrAnimalNotOwned is returned when a code would cover an animal that
	// does not belong to the issuing tenant.
	ErrAnimalNotOwned = errors.New("animal does not belong to owner tenant")

	// ErrCannotRedeemOwnCode rejects a tenant redeeming its own code.
	ErrCannotRedeemOwnCode = errors.New("cannot redeem own share code")

	// ErrCodeExpired is returned when the code's expiry has passed. The
	// detection also writes the EXPIRED status before rejecting.
	ErrCodeExpired = errors.New("share code expired")

	// ErrCodeRevoked is returned when the code was revoked by its owner.
	ErrCodeRevoked = errors.New("share code revoked")

	// ErrCodeMaxUsesReached is returned when the code's use budget is spent.
	ErrCodeMaxUsesReached = errors.New("share code max uses reached")

	// ErrNotCodeOwner rejects a revoke attempted by a non-owner.
	ErrNotCodeOwner = errors.New("caller is not the share code owner")
)

// Animal access errors.
var (
	// ErrAccessNotFound indicates the access row does not exist.
	ErrAccessNotFound = errors.New("animal access not found")

	// ErrNotAccessOwner rejects an owner-side operation by a non-owner.
	ErrNotAccessOwner = errors.New("caller is not the access owner")

	// ErrNotAccessor rejects an accessor-side operation by a non-accessor.
	ErrNotAccessor = errors.New("caller is not the accessor")

	// ErrAccessNotActive is returned when a transition requires an ACTIVE row.
	ErrAccessNotActive = errors.New("animal access is not active")

	// ErrInvalidTier is returned for tier values outside the known set.
	ErrInvalidTier = errors.New("invalid access tier")

	// ErrAnimalNotFound indicates the referenced animal no longer resolves
	// in the animal store.
	ErrAnimalNotFound = errors.New("animal not found")
)

// Inquiry errors.
var (
	// ErrInquiryNotFound indicates the inquiry does not exist.
	ErrInquiryNotFound = errors.New("inquiry not found")

	// ErrInquiryRateLimited is returned when the sender exhausted its
	// rolling-window inquiry budget.
	ErrInquiryRateLimited = errors.New("inquiry rate limit exceeded")

	// ErrSelfInquiry rejects an inquiry from a tenant to itself.
	ErrSelfInquiry = errors.New("cannot send inquiry to own tenant")

	// ErrNotRecipient rejects a response by anyone but the recipient.
	ErrNotRecipient = errors.New("caller is not the inquiry recipient")

	// ErrInquiryNotPending is returned when the inquiry was already decided.
	ErrInquiryNotPending = errors.New("inquiry is not pending")
)

// Agreement errors.
var (
	// ErrAgreementNotFound indicates the agreement does not exist.
	ErrAgreementNotFound = errors.New("agreement not found")

	// ErrDuplicateAgreement is returned when an agreement already exists for
	// the (breeding plan, animal access) pair, in any status.
	ErrDuplicateAgreement = errors.New("agreement already exists for this plan and access")

	// ErrNotRequester rejects an agreement created by a tenant that is not
	// the access's accessor.
	ErrNotRequester = errors.New("caller is not the access holder")

	// ErrNotApprover rejects a decision by anyone but the approving tenant.
	ErrNotApprover = errors.New("caller is not the approving tenant")

	// ErrAgreementNotPending is returned when the agreement was already decided.
	ErrAgreementNotPending = errors.New("agreement is not pending")

	// ErrPlanNotFound indicates the referenced breeding plan does not exist.
	ErrPlanNotFound = errors.New("breeding plan not found")
)

// Conversation errors.
var (
	// ErrNotParticipant rejects conversation operations by a tenant that is
	// neither the access owner nor the accessor.
	ErrNotParticipant = errors.New("caller is not a conversation participant")

	// ErrEmptyMessage is returned when a message body is blank.
	ErrEmptyMessage = errors.New("message body is empty")

	// ErrConversationNotFound indicates no conversation has been opened for
	// the access grant yet.
	ErrConversationNotFound = errors.New("conversation not found")
)

// Tenant directory errors.
var (
	// ErrTenantNotFound indicates the tenant does not resolve in the
	// directory.
	ErrTenantNotFound = errors.New("tenant not found")
)
