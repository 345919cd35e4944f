package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/othomas555/arocwaste/internal/reassign"
	subscriptiondomain "github.com/othomas555/arocwaste/internal/subscription/domain"
)

type reassignRequest struct {
	Limit         int      `json:"limit"`
	DryRun        bool     `json:"dry_run"`
	Force         bool     `json:"force"`
	RecomputeNext bool     `json:"recompute_next"`
	Statuses      []string `json:"statuses"`
	Date          string   `json:"date"`
}

// @Summary      Run Reassignment
// @Description  Recompute route assignments against the current catalogue
// @Tags         ops
// @Accept       json
// @Produce      json
// @Param        request body reassignRequest true "Reassignment Request"
// @Success      200  {object}  reassign.Report
// @Router       /ops/reassign [post]
func (s *Server) RunReassignment(c *gin.Context) {
	var req reassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	reference, err := s.referenceDate(req.Date)
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "date must be YYYY-MM-DD"))
		return
	}

	statuses := make([]subscriptiondomain.SubscriptionStatus, 0, len(req.Statuses))
	for _, status := range req.Statuses {
		statuses = append(statuses, subscriptiondomain.SubscriptionStatus(strings.TrimSpace(status)))
	}

	resp, err := s.reassignBatch.Run(c.Request.Context(), reassign.Options{
		Limit:         req.Limit,
		DryRun:        req.DryRun,
		Force:         req.Force,
		RecomputeNext: req.RecomputeNext,
		Statuses:      statuses,
		Reference:     reference,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "ops.reassign", "subscription", nil, map[string]any{
		"scanned": resp.Scanned,
		"updated": resp.Updated,
		"dry_run": resp.DryRun,
		"force":   req.Force,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
