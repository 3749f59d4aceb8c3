// Breeding inquiry HTTP handlers.
//
//   - POST /inquiries              (send)
//   - GET  /inquiries/sent         (sender's view, no animal identities)
//   - GET  /inquiries/received     (recipient's view, own animals named)
//   - GET  /inquiries/received/:id (one inquiry, recipient only)
//   - POST /inquiries/:id/respond  (accept or decline)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stablemesh/go-breeder-network/internal/search"
	"github.com/stablemesh/go-breeder-network/internal/services"
)

// SendInquiryRequest is the JSON payload for sending an inquiry.
type SendInquiryRequest struct {
	RecipientTenantID string                      `json:"recipient_tenant_id" binding:"required" example:"tenant-a"`
	Species           string                      `json:"species" binding:"required" example:"dog"`
	Sex               string                      `json:"sex" binding:"required" example:"male"`
	Genetics          []search.LocusCriterion     `json:"genetics,omitempty"`
	Clearances        []search.ClearanceCriterion `json:"clearances,omitempty"`
	Message           string                      `json:"message,omitempty"`
}

// RespondInquiryRequest is the JSON payload for answering an inquiry.
type RespondInquiryRequest struct {
	Accept bool `json:"accept"`
}

// SendInquiry godoc
// @ID          sendInquiry
// @Summary     Send a breeding inquiry
// @Description Sends an inquiry to a breeder found via network search and opens a message thread.
// @Tags        Inquiries
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-b)
// @Param       body         body    handlers.SendInquiryRequest  true  "Inquiry payload"
// @Success     201  {object}  services.SentInquiry
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown recipient"
// @Failure     429  {object}  handlers.ErrorResponse "Send budget exhausted"
// @Router      /inquiries [post]
func (h *Handlers) SendInquiry(c *gin.Context) {
	var req SendInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	out, err := h.inqSvc.Send(c.Request.Context(), services.SendInquiryInput{
		SenderTenantID:    tenantID(c),
		RecipientTenantID: strings.TrimSpace(req.RecipientTenantID),
		Criteria: search.Criteria{
			Species:    req.Species,
			Sex:        req.Sex,
			Genetics:   req.Genetics,
			Clearances: req.Clearances,
		},
		Message: req.Message,
	})
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, out)
}

// ListSentInquiries godoc
// @ID          listSentInquiries
// @Summary     List sent inquiries
// @Description Returns the tenant's outgoing inquiries. The view never names the recipient's animals.
// @Tags        Inquiries
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-b)
// @Success     200  {array}   services.SentInquiry
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /inquiries/sent [get]
func (h *Handlers) ListSentInquiries(c *gin.Context) {
	items, err := h.inqSvc.ListSent(c.Request.Context(), tenantID(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, items)
}

// ListReceivedInquiries godoc
// @ID          listReceivedInquiries
// @Summary     List received inquiries
// @Description Returns incoming inquiries with the recipient's own matching animals named.
// @Tags        Inquiries
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-a)
// @Success     200  {array}   services.ReceivedInquiry
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /inquiries/received [get]
func (h *Handlers) ListReceivedInquiries(c *gin.Context) {
	items, err := h.inqSvc.ListReceived(c.Request.Context(), tenantID(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, items)
}

// GetReceivedInquiry godoc
// @ID          getReceivedInquiry
// @Summary     Get one received inquiry
// @Tags        Inquiries
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-a)
// @Param       id           path    string  true  "Inquiry ID (UUID)" format(uuid)
// @Success     200  {object}  services.ReceivedInquiry
// @Failure     403  {object}  handlers.ErrorResponse "Not the recipient"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown inquiry"
// @Router      /inquiries/received/{id} [get]
func (h *Handlers) GetReceivedInquiry(c *gin.Context) {
	inquiryID := c.Param("id")
	if _, err := uuid.Parse(inquiryID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "inquiry id must be a UUID")
		return
	}
	out, err := h.inqSvc.GetReceived(c.Request.Context(), tenantID(c), inquiryID)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}

// RespondInquiry godoc
// @ID          respondInquiry
// @Summary     Respond to an inquiry
// @Description The recipient accepts or declines a pending inquiry; the sender is notified.
// @Tags        Inquiries
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-a)
// @Param       id           path    string  true  "Inquiry ID (UUID)" format(uuid)
// @Param       body         body    handlers.RespondInquiryRequest  true  "Decision"
// @Success     200  {object}  services.ReceivedInquiry
// @Failure     403  {object}  handlers.ErrorResponse "Not the recipient"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown inquiry"
// @Failure     409  {object}  handlers.ErrorResponse "Already decided"
// @Router      /inquiries/{id}/respond [post]
func (h *Handlers) RespondInquiry(c *gin.Context) {
	inquiryID := c.Param("id")
	if _, err := uuid.Parse(inquiryID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "inquiry id must be a UUID")
		return
	}

	var req RespondInquiryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	out, err := h.inqSvc.Respond(c.Request.Context(), tenantID(c), inquiryID, req.Accept)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, out)
}
