// Breeding data agreement HTTP handlers.
//
//   - POST /agreements             (request)
//   - GET  /agreements             (both sides, newest first)
//   - GET  /agreements/:id         (one agreement)
//   - POST /agreements/:id/approve (owner approves, grant becomes permanent)
//   - POST /agreements/:id/reject  (owner rejects)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stablemesh/go-breeder-network/internal/services"
)

// CreateAgreementRequest is the JSON payload for requesting an agreement.
type CreateAgreementRequest struct {
	BreedingPlanID string `json:"breeding_plan_id" binding:"required"`
	AnimalAccessID string `json:"animal_access_id" binding:"required" format:"uuid"`
	AnimalRole     string `json:"animal_role" binding:"required" example:"sire"`
	RequestMessage string `json:"request_message,omitempty"`
}

// RespondAgreementRequest is the JSON payload for deciding an agreement.
type RespondAgreementRequest struct {
	ResponseMessage string `json:"response_message,omitempty"`
}

// CreateAgreement godoc
// @ID          createAgreement
// @Summary     Request a breeding data agreement
// @Description Ties an access grant to a breeding plan. Only the grant's accessor may request; the animal's owner approves.
// @Tags        Agreements
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-b)
// @Param       body         body    handlers.CreateAgreementRequest  true  "Agreement payload"
// @Success     201  {object}  domain.BreedingDataAgreement
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse "Not the accessor or plan owner"
// @Failure     409  {object}  handlers.ErrorResponse "Agreement already exists"
// @Router      /agreements [post]
func (h *Handlers) CreateAgreement(c *gin.Context) {
	var req CreateAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ag, err := h.agrSvc.Create(c.Request.Context(), services.CreateAgreementInput{
		RequestingTenantID: tenantID(c),
		BreedingPlanID:     req.BreedingPlanID,
		AnimalAccessID:     req.AnimalAccessID,
		AnimalRole:         req.AnimalRole,
		RequestMessage:     req.RequestMessage,
	})
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, ag)
}

// ListAgreements godoc
// @ID          listAgreements
// @Summary     List agreements
// @Description Returns agreements where the tenant is requester or approver.
// @Tags        Agreements
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-a)
// @Success     200  {array}   domain.BreedingDataAgreement
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /agreements [get]
func (h *Handlers) ListAgreements(c *gin.Context) {
	items, err := h.agrSvc.List(c.Request.Context(), tenantID(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, items)
}

// GetAgreement godoc
// @ID          getAgreement
// @Summary     Get one agreement
// @Tags        Agreements
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-a)
// @Param       id           path    string  true  "Agreement ID (UUID)" format(uuid)
// @Success     200  {object}  domain.BreedingDataAgreement
// @Failure     404  {object}  handlers.ErrorResponse "Unknown agreement"
// @Router      /agreements/{id} [get]
func (h *Handlers) GetAgreement(c *gin.Context) {
	agreementID := c.Param("id")
	if _, err := uuid.Parse(agreementID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "agreement id must be a UUID")
		return
	}
	ag, err := h.agrSvc.Get(c.Request.Context(), tenantID(c), agreementID)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, ag)
}

// ApproveAgreement godoc
// @ID          approveAgreement
// @Summary     Approve an agreement
// @Description The owner approves; the underlying access grant becomes permanent in the same transaction.
// @Tags        Agreements
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-a)
// @Param       id           path    string  true  "Agreement ID (UUID)" format(uuid)
// @Param       body         body    handlers.RespondAgreementRequest  false "Optional message"
// @Success     200  {object}  domain.BreedingDataAgreement
// @Failure     403  {object}  handlers.ErrorResponse "Not the approver"
// @Failure     409  {object}  handlers.ErrorResponse "Already decided"
// @Router      /agreements/{id}/approve [post]
func (h *Handlers) ApproveAgreement(c *gin.Context) {
	h.decideAgreement(c, true)
}

// RejectAgreement godoc
// @ID          rejectAgreement
// @Summary     Reject an agreement
// @Description The owner rejects; the access grant keeps its original expiry.
// @Tags        Agreements
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-a)
// @Param       id           path    string  true  "Agreement ID (UUID)" format(uuid)
// @Param       body         body    handlers.RespondAgreementRequest  false "Optional message"
// @Success     200  {object}  domain.BreedingDataAgreement
// @Failure     403  {object}  handlers.ErrorResponse "Not the approver"
// @Failure     409  {object}  handlers.ErrorResponse "Already decided"
// @Router      /agreements/{id}/reject [post]
func (h *Handlers) RejectAgreement(c *gin.Context) {
	h.decideAgreement(c, false)
}

func (h *Handlers) decideAgreement(c *gin.Context, approve bool) {
	agreementID := c.Param("id")
	if _, err := uuid.Parse(agreementID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "agreement id must be a UUID")
		return
	}

	var req RespondAgreementRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	decide := h.agrSvc.Reject
	if approve {
		decide = h.agrSvc.Approve
	}
	ag, err := decide(c.Request.Context(), tenantID(c), agreementID, req.ResponseMessage)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, ag)
}
