package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type recordCollectionRequest struct {
	CollectedDate string `json:"collected_date"`
}

// @Summary      Record Collection
// @Description  Append a collection event and advance the next due date
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        id       path string                   true "Subscription ID"
// @Param        request  body recordCollectionRequest  true "Record Collection Request"
// @Success      200  {object}  domain.Result
// @Router       /subscriptions/{id}/collections [post]
func (s *Server) RecordCollection(c *gin.Context) {
	var req recordCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	collected, err := s.referenceDate(req.CollectedDate)
	if err != nil {
		AbortWithError(c, newValidationError("collected_date", "invalid_date", "collected_date must be YYYY-MM-DD"))
		return
	}

	resp, err := s.collectionSvc.Record(c.Request.Context(), c.Param("id"), collected)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "collection.record", "subscription", &resp.SubscriptionID, map[string]any{
		"collected_date": string(collected),
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Undo Collection
// @Description  Remove the most recent collection and restore the prior due date
// @Tags         collections
// @Produce      json
// @Param        id   path      string  true  "Subscription ID"
// @Success      200  {object}  domain.Result
// @Router       /subscriptions/{id}/collections/undo [post]
func (s *Server) UndoCollection(c *gin.Context) {
	resp, err := s.collectionSvc.Undo(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "collection.undo", "subscription", &resp.SubscriptionID, nil)

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Collection History
// @Description  List the subscription's collection ledger, newest first
// @Tags         collections
// @Produce      json
// @Param        id     path   string  true   "Subscription ID"
// @Param        limit  query  int     false  "Limit"
// @Success      200  {object}  []domain.CollectionLogEntry
// @Router       /subscriptions/{id}/collections [get]
func (s *Server) CollectionHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	resp, err := s.collectionSvc.History(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
