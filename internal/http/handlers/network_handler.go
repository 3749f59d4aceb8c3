// Network search HTTP handlers.
//
//   - POST /network/search         (criteria query over the aggregate index)
//   - POST /network/rebuild-index  (refresh the caller's index partitions)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stablemesh/go-breeder-network/internal/search"
)

// SearchRequest is the JSON payload for a network search.
type SearchRequest struct {
	Species    string                      `json:"species" binding:"required" example:"dog"`
	Sex        string                      `json:"sex" binding:"required" example:"male"`
	Genetics   []search.LocusCriterion     `json:"genetics,omitempty"`
	Clearances []search.ClearanceCriterion `json:"clearances,omitempty"`
}

// SearchNetwork godoc
// @ID          searchNetwork
// @Summary     Search the breeding network
// @Description Returns breeder-level matches for the criteria. Results never identify individual animals.
// @Tags        Network
// @Accept      json
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-b)
// @Param       body         body    handlers.SearchRequest  true  "Search criteria"
// @Success     200  {object}  services.SearchResult
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /network/search [post]
func (h *Handlers) SearchNetwork(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Species) == "" || strings.TrimSpace(req.Sex) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "species and sex required")
		return
	}

	res, err := h.netSvc.Search(c.Request.Context(), tenantID(c), search.Criteria{
		Species:    req.Species,
		Sex:        req.Sex,
		Genetics:   req.Genetics,
		Clearances: req.Clearances,
	})
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// RebuildIndex godoc
// @ID          rebuildIndex
// @Summary     Rebuild the caller's index partitions
// @Description Recomputes the tenant's aggregate rows from its shareable animals.
// @Tags        Network
// @Produce     json
// @Param       X-Tenant-ID  header  string  false "Tenant ID (demo header)" example(tenant-a)
// @Success     204  {string}  string "No Content"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /network/rebuild-index [post]
func (h *Handlers) RebuildIndex(c *gin.Context) {
	if err := h.netSvc.RebuildForTenant(c.Request.Context(), tenantID(c)); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}
