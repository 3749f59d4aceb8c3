// Conversation HTTP handlers.
//
//   - GET  /conversations/:id          (read, creating on first use)
//   - POST /conversations/:id/messages (send a message)
//
// Conversations are keyed by the access grant id; only the grant's owner and
// accessor may participate.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SendMessageRequest is the JSON payload for posting a conversation message.
type SendMessageRequest struct {
	Body string `json:"body" binding:"required,min=1" example:"Is she available next season?"`
}

// GetConversation godoc
// @ID          getConversation
// @Summary     Get the conversation for a grant
// @Description Returns the conversation between the grant's owner and accessor, creating it on first use.
// @Tags        Conversations
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-b)
// @Param       id           path    string  true  "Access ID (UUID)" format(uuid)
// @Success     200  {object}  services.ConversationView
// @Success     201  {object}  services.ConversationView "Created on first use"
// @Failure     403  {object}  handlers.ErrorResponse "Not a participant"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown grant"
// @Router      /conversations/{id} [get]
func (h *Handlers) GetConversation(c *gin.Context) {
	accessID := c.Param("id")
	if _, err := uuid.Parse(accessID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "access id must be a UUID")
		return
	}

	view, created, err := h.convSvc.GetOrCreate(c.Request.Context(), tenantID(c), accessID)
	if err != nil {
		failFromService(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ok(c, status, view)
}

// SendConversationMessage godoc
// @ID          sendConversationMessage
// @Summary     Send a conversation message
// @Tags        Conversations
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-b)
// @Param       id           path    string  true  "Access ID (UUID)" format(uuid)
// @Param       body         body    handlers.SendMessageRequest  true  "Message payload"
// @Success     201  {object}  services.ConversationMsg
// @Failure     400  {object}  handlers.ErrorResponse "Empty body"
// @Failure     403  {object}  handlers.ErrorResponse "Not a participant"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown grant"
// @Router      /conversations/{id}/messages [post]
func (h *Handlers) SendConversationMessage(c *gin.Context) {
	accessID := c.Param("id")
	if _, err := uuid.Parse(accessID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "access id must be a UUID")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message body required")
		return
	}
	msg, err := h.convSvc.SendMessage(c.Request.Context(), tenantID(c), accessID, req.Body)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, msg)
}
