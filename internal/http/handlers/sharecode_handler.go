// Share code HTTP handlers.
//
// This file exposes REST endpoints for the share code lifecycle:
//   - POST   /share-codes                  (generate)
//   - GET    /share-codes                  (list issued codes)
//   - POST   /share-codes/redeem           (redeem a code)
//   - GET    /share-codes/validate/:code   (read-only check)
//   - DELETE /share-codes/:id              (revoke)
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stablemesh/go-breeder-network/internal/domain"
	"github.com/stablemesh/go-breeder-network/internal/services"
)

// GenerateShareCodeRequest is the JSON payload for issuing a share code.
type GenerateShareCodeRequest struct {
	AnimalIDs     []string                     `json:"animal_ids" binding:"required,min=1"`
	DefaultTier   domain.AccessTier            `json:"default_tier" binding:"required" example:"GENETICS"`
	TierOverrides map[string]domain.AccessTier `json:"tier_overrides,omitempty"`
	ExpiresAt     *time.Time                   `json:"expires_at,omitempty"`
	MaxUses       *int                         `json:"max_uses,omitempty"`
}

// RedeemShareCodeRequest is the JSON payload for redeeming a code.
type RedeemShareCodeRequest struct {
	Code string `json:"code" binding:"required" example:"A7K2-M9P4-Q3R8"`
}

// RedeemShareCodeResponse wraps the grants created by a redemption.
type RedeemShareCodeResponse struct {
	Accesses []domain.AnimalAccess `json:"accesses"`
}

// GenerateShareCode godoc
// @ID          generateShareCode
// @Summary     Issue a share code
// @Description Creates an ACTIVE share code covering the tenant's animals at the given tier.
// @Tags        ShareCodes
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-a)
// @Param       body         body    handlers.GenerateShareCodeRequest  true  "Share code payload"
// @Success     201  {object}  domain.ShareCode
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /share-codes [post]
func (h *Handlers) GenerateShareCode(c *gin.Context) {
	var req GenerateShareCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	sc, err := h.codeSvc.Generate(c.Request.Context(), tenantID(c), services.GenerateInput{
		AnimalIDs:     req.AnimalIDs,
		DefaultTier:   req.DefaultTier,
		TierOverrides: req.TierOverrides,
		ExpiresAt:     req.ExpiresAt,
		MaxUses:       req.MaxUses,
	})
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, sc)
}

// ListShareCodes godoc
// @ID          listShareCodes
// @Summary     List issued share codes
// @Description Returns every code the tenant has issued, including revoked and expired ones.
// @Tags        ShareCodes
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-a)
// @Success     200  {array}   domain.ShareCode
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /share-codes [get]
func (h *Handlers) ListShareCodes(c *gin.Context) {
	codes, err := h.codeSvc.ListForOwner(c.Request.Context(), tenantID(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, codes)
}

// RedeemShareCode godoc
// @ID          redeemShareCode
// @Summary     Redeem a share code
// @Description Exchanges a code for access grants to the covered animals. Counts one use regardless of how many grants result.
// @Tags        ShareCodes
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-b)
// @Param       body         body    handlers.RedeemShareCodeRequest  true  "Redeem payload"
// @Success     201  {object}  handlers.RedeemShareCodeResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown code"
// @Failure     409  {object}  handlers.ErrorResponse "Own code"
// @Failure     410  {object}  handlers.ErrorResponse "Expired, revoked, or spent"
// @Router      /share-codes/redeem [post]
func (h *Handlers) RedeemShareCode(c *gin.Context) {
	var req RedeemShareCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Code) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "code required")
		return
	}

	accesses, err := h.codeSvc.Redeem(c.Request.Context(), req.Code, tenantID(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, RedeemShareCodeResponse{Accesses: accesses})
}

// ValidateShareCode godoc
// @ID          validateShareCode
// @Summary     Validate a share code
// @Description Reports a code's status and limits without consuming a use.
// @Tags        ShareCodes
// @Produce     json
// @Param       code  path  string  true  "Code string" example(A7K2-M9P4-Q3R8)
// @Success     200  {object}  services.Validation
// @Failure     404  {object}  handlers.ErrorResponse "Unknown code"
// @Router      /share-codes/validate/{code} [get]
func (h *Handlers) ValidateShareCode(c *gin.Context) {
	v, err := h.codeSvc.Validate(c.Request.Context(), c.Param("code"))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, v)
}

// RevokeShareCode godoc
// @ID          revokeShareCode
// @Summary     Revoke a share code
// @Description Deactivates the code and revokes every grant it produced.
// @Tags        ShareCodes
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-a)
// @Param       id           path    string  true  "Share code ID (UUID)" format(uuid)
// @Success     204  {string}  string "No Content"
// @Failure     403  {object}  handlers.ErrorResponse "Not the owner"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown code"
// @Router      /share-codes/{id} [delete]
func (h *Handlers) RevokeShareCode(c *gin.Context) {
	codeID := c.Param("id")
	if _, err := uuid.Parse(codeID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "share code id must be a UUID")
		return
	}

	if err := h.codeSvc.Revoke(c.Request.Context(), codeID, tenantID(c)); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}
