// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package), plus the translation
// from service-level sentinel errors to (status, code) pairs. The codes give
// clients a stable, machine-readable error taxonomy alongside human-readable
// messages.
//
// Conventions:
//   - Codes are lowercase, snake_case.
//   - Generic codes (bad_request, forbidden, conflict) mirror common HTTP
//     status semantics.
//   - Domain-specific codes (code_expired, code_max_uses_reached, ...) are
//     reserved for workflow rejections a status alone cannot convey.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stablemesh/go-breeder-network/internal/services"
)

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeCannotRedeemOwnCode = "cannot_redeem_own_code"
	ErrCodeExpired             = "code_expired"
	ErrCodeRevoked             = "code_revoked"
	ErrCodeMaxUsesReached      = "code_max_uses_reached"
	ErrCodeInvalidTier         = "invalid_tier"
	ErrCodeNotPending          = "not_pending"
	ErrCodeSelfInquiry         = "self_inquiry"
	ErrCodeInquiryRateLimited  = "rate_limit_exceeded"
	ErrCodeDuplicateAgreement  = "duplicate_agreement"
	ErrCodeEmptyMessage        = "empty_message"
	ErrCodeMethodNotAllowed    = "method_not_allowed"
)

// failFromService translates a service sentinel into the matching HTTP
// response. Unknown errors become 500 internal_error with the error text.
func failFromService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrShareCodeNotFound),
		errors.Is(err, services.ErrAccessNotFound),
		errors.Is(err, services.ErrAnimalNotFound),
		errors.Is(err, services.ErrInquiryNotFound),
		errors.Is(err, services.ErrAgreementNotFound),
		errors.Is(err, services.ErrPlanNotFound),
		errors.Is(err, services.ErrTenantNotFound),
		errors.Is(err, services.ErrConversationNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())

	case errors.Is(err, services.ErrNotCodeOwner),
		errors.Is(err, services.ErrNotAccessOwner),
		errors.Is(err, services.ErrNotAccessor),
		errors.Is(err, services.ErrNotRecipient),
		errors.Is(err, services.ErrNotRequester),
		errors.Is(err, services.ErrNotApprover),
		errors.Is(err, services.ErrNotParticipant):
		fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())

	case errors.Is(err, services.ErrCannotRedeemOwnCode):
		fail(c, http.StatusConflict, ErrCodeCannotRedeemOwnCode, err.Error())
	case errors.Is(err, services.ErrCodeExpired):
		fail(c, http.StatusGone, ErrCodeExpired, err.Error())
	case errors.Is(err, services.ErrCodeRevoked):
		fail(c, http.StatusGone, ErrCodeRevoked, err.Error())
	case errors.Is(err, services.ErrCodeMaxUsesReached):
		fail(c, http.StatusGone, ErrCodeMaxUsesReached, err.Error())

	case errors.Is(err, services.ErrNoAnimals),
		errors.Is(err, services.ErrAnimalNotOwned),
		errors.Is(err, services.ErrInvalidTier),
		errors.Is(err, services.ErrEmptyMessage):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())

	case errors.Is(err, services.ErrAccessNotActive):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, services.ErrInquiryNotPending),
		errors.Is(err, services.ErrAgreementNotPending):
		fail(c, http.StatusConflict, ErrCodeNotPending, err.Error())

	case errors.Is(err, services.ErrSelfInquiry):
		fail(c, http.StatusBadRequest, ErrCodeSelfInquiry, err.Error())
	case errors.Is(err, services.ErrInquiryRateLimited):
		fail(c, http.StatusTooManyRequests, ErrCodeInquiryRateLimited, err.Error())
	case errors.Is(err, services.ErrDuplicateAgreement):
		fail(c, http.StatusConflict, ErrCodeDuplicateAgreement, err.Error())

	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
