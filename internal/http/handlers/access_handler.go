// Animal access HTTP handlers.
//
// This file exposes REST endpoints for access grants:
//   - GET    /animal-access/received   (grants the tenant holds, paginated)
//   - GET    /animal-access/shared     (grants the tenant issued, paginated)
//   - DELETE /animal-access/:id        (accessor drops their grant)
//   - POST   /animal-access/:id/revoke (owner revokes)
//   - PUT    /animal-access/:id/tier   (owner changes tier)
//   - POST   /animals/:id/deleted      (owner deletion hook, snapshots grants)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stablemesh/go-breeder-network/internal/domain"
	"github.com/stablemesh/go-breeder-network/internal/services"
)

// UpdateAccessTierRequest is the JSON payload for changing a grant's tier.
type UpdateAccessTierRequest struct {
	Tier domain.AccessTier `json:"tier" binding:"required" example:"FULL"`
}

// ListAccessResponse wraps a page of access views with pagination metadata.
type ListAccessResponse struct {
	Accesses   []services.AccessView `json:"accesses"`
	Pagination Pagination            `json:"pagination"`
}

// ListReceivedAccess godoc
// @ID          listReceivedAccess
// @Summary     List received access grants
// @Description Returns the grants the tenant holds on other breeders' animals, each projected at its tier.
// @Tags        AnimalAccess
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-b)
// @Param       page         query   int     false "Page number"    minimum(1) default(1)
// @Param       page_size    query   int     false "Items per page" minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListAccessResponse
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /animal-access/received [get]
func (h *Handlers) ListReceivedAccess(c *gin.Context) {
	page, pageSize := clampPagination(c)
	items, total, err := h.accSvc.ListForAccessor(c.Request.Context(), tenantID(c), page, pageSize)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, ListAccessResponse{
		Accesses:   items,
		Pagination: paginate(page, pageSize, total),
	})
}

// ListSharedAccess godoc
// @ID          listSharedAccess
// @Summary     List issued access grants
// @Description Returns the grants the tenant has issued on its own animals.
// @Tags        AnimalAccess
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-a)
// @Param       page         query   int     false "Page number"    minimum(1) default(1)
// @Param       page_size    query   int     false "Items per page" minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListAccessResponse
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /animal-access/shared [get]
func (h *Handlers) ListSharedAccess(c *gin.Context) {
	page, pageSize := clampPagination(c)
	items, total, err := h.accSvc.ListForOwner(c.Request.Context(), tenantID(c), page, pageSize)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, ListAccessResponse{
		Accesses:   items,
		Pagination: paginate(page, pageSize, total),
	})
}

// RemoveAccess godoc
// @ID          removeAccess
// @Summary     Drop a received grant
// @Description The accessor removes their own grant; the owner's code and other grants are untouched.
// @Tags        AnimalAccess
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-b)
// @Param       id           path    string  true  "Access ID (UUID)" format(uuid)
// @Success     204  {string}  string "No Content"
// @Failure     403  {object}  handlers.ErrorResponse "Not the accessor"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown grant"
// @Router      /animal-access/{id} [delete]
func (h *Handlers) RemoveAccess(c *gin.Context) {
	accessID := c.Param("id")
	if _, err := uuid.Parse(accessID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "access id must be a UUID")
		return
	}
	if err := h.accSvc.RemoveByAccessor(c.Request.Context(), accessID, tenantID(c)); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}

// RevokeAccess godoc
// @ID          revokeAccess
// @Summary     Revoke an issued grant
// @Description The owner revokes one grant; other grants from the same code stay active.
// @Tags        AnimalAccess
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-a)
// @Param       id           path    string  true  "Access ID (UUID)" format(uuid)
// @Success     204  {string}  string "No Content"
// @Failure     403  {object}  handlers.ErrorResponse "Not the owner"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown grant"
// @Router      /animal-access/{id}/revoke [post]
func (h *Handlers) RevokeAccess(c *gin.Context) {
	accessID := c.Param("id")
	if _, err := uuid.Parse(accessID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "access id must be a UUID")
		return
	}
	if err := h.accSvc.RevokeByOwner(c.Request.Context(), accessID, tenantID(c)); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}

// UpdateAccessTier godoc
// @ID          updateAccessTier
// @Summary     Change a grant's tier
// @Description The owner raises or lowers the disclosure tier of one grant.
// @Tags        AnimalAccess
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-a)
// @Param       id           path    string  true  "Access ID (UUID)" format(uuid)
// @Param       body         body    handlers.UpdateAccessTierRequest  true  "New tier"
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Invalid tier"
// @Failure     403  {object}  handlers.ErrorResponse "Not the owner"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown grant"
// @Router      /animal-access/{id}/tier [put]
func (h *Handlers) UpdateAccessTier(c *gin.Context) {
	accessID := c.Param("id")
	if _, err := uuid.Parse(accessID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "access id must be a UUID")
		return
	}

	var req UpdateAccessTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "tier required")
		return
	}
	if err := h.accSvc.UpgradeTier(c.Request.Context(), accessID, tenantID(c), req.Tier); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}

// AnimalDeleted godoc
// @ID          animalDeleted
// @Summary     Animal deletion hook
// @Description Snapshots and closes every active grant on a deleted animal; accessors keep a tombstone view.
// @Tags        AnimalAccess
// @Produce     json
// @Param       id  path  string  true  "Animal ID"
// @Success     204  {string}  string "No Content"
// @Failure     403  {object}  handlers.ErrorResponse "Caller does not own the animal"
// @Failure     404  {object}  handlers.ErrorResponse "Animal not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /animals/{id}/deleted [post]
func (h *Handlers) AnimalDeleted(c *gin.Context) {
	if err := h.accSvc.OnAnimalDeleted(c.Request.Context(), c.Param("id"), tenantID(c)); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}
