package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	dailyrundomain "github.com/othomas555/arocwaste/internal/dailyrun/domain"
)

type ensureRunRequest struct {
	RunDate   string `json:"run_date"`
	RouteArea string `json:"route_area"`
	RouteDay  string `json:"route_day"`
	RouteSlot string `json:"route_slot"`
}

// @Summary      Ensure Daily Run
// @Description  Idempotently create the run for a date and route
// @Tags         daily-runs
// @Accept       json
// @Produce      json
// @Param        request body ensureRunRequest true "Ensure Run Request"
// @Success      200  {object}  domain.DailyRun
// @Router       /daily-runs [post]
func (s *Server) EnsureRun(c *gin.Context) {
	var req ensureRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	runDate, err := s.referenceDate(req.RunDate)
	if err != nil {
		AbortWithError(c, newValidationError("run_date", "invalid_date", "run_date must be YYYY-MM-DD"))
		return
	}

	resp, err := s.dailyRunSvc.EnsureRun(c.Request.Context(), dailyrundomain.RunKey{
		RunDate:   runDate,
		RouteArea: strings.TrimSpace(req.RouteArea),
		RouteDay:  strings.TrimSpace(req.RouteDay),
		RouteSlot: strings.TrimSpace(req.RouteSlot),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Daily Runs
// @Description  List runs for a date
// @Tags         daily-runs
// @Produce      json
// @Param        date  query  string  false  "Run Date (YYYY-MM-DD)"
// @Success      200  {object}  []domain.DailyRun
// @Router       /daily-runs [get]
func (s *Server) ListRuns(c *gin.Context) {
	date, err := s.referenceDate(c.Query("date"))
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "date must be YYYY-MM-DD"))
		return
	}

	resp, err := s.dailyRunSvc.ListRuns(c.Request.Context(), date)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Daily Run
// @Description  Get run detail with its assigned crew
// @Tags         daily-runs
// @Produce      json
// @Param        id   path      string  true  "Run ID"
// @Success      200  {object}  domain.RunDetail
// @Router       /daily-runs/{id} [get]
func (s *Server) GetRun(c *gin.Context) {
	resp, err := s.dailyRunSvc.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Assign Crew
// @Description  Replace the run's vehicle and staff assignment
// @Tags         daily-runs
// @Accept       json
// @Produce      json
// @Param        id       path string                    true "Run ID"
// @Param        request  body domain.AssignCrewRequest  true "Assign Crew Request"
// @Success      200  {object}  domain.RunDetail
// @Router       /daily-runs/{id}/crew [put]
func (s *Server) AssignCrew(c *gin.Context) {
	var req dailyrundomain.AssignCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.dailyRunSvc.AssignCrew(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	targetID := resp.ID.String()
	s.audit(c, "daily_run.assign_crew", "daily_run", &targetID, map[string]any{
		"staff_ids": resp.StaffIDs,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Due Count
// @Description  Per area/slot counts of work due on a date
// @Tags         daily-runs
// @Produce      json
// @Param        date  query  string  false  "Run Date (YYYY-MM-DD)"
// @Success      200  {object}  domain.DueCountResponse
// @Router       /daily-runs/due-count [get]
func (s *Server) DueCount(c *gin.Context) {
	date, err := s.referenceDate(c.Query("date"))
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "date must be YYYY-MM-DD"))
		return
	}

	resp, err := s.dailyRunSvc.DueCount(c.Request.Context(), date)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Open Issue
// @Description  Raise a driver-reported issue against a run
// @Tags         issues
// @Accept       json
// @Produce      json
// @Param        id       path string                   true "Run ID"
// @Param        request  body domain.OpenIssueRequest  true "Open Issue Request"
// @Success      200  {object}  domain.Issue
// @Router       /daily-runs/{id}/issues [post]
func (s *Server) OpenIssue(c *gin.Context) {
	var req dailyrundomain.OpenIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.dailyRunSvc.OpenIssue(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	targetID := resp.ID.String()
	s.audit(c, "issue.open", "issue", &targetID, map[string]any{
		"reason": resp.Reason,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Issues
// @Description  List issues raised against a run
// @Tags         issues
// @Produce      json
// @Param        id   path      string  true  "Run ID"
// @Success      200  {object}  []domain.Issue
// @Router       /daily-runs/{id}/issues [get]
func (s *Server) ListIssues(c *gin.Context) {
	resp, err := s.dailyRunSvc.ListIssues(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Resolve Issue
// @Description  Close an issue with a mandatory action note
// @Tags         issues
// @Accept       json
// @Produce      json
// @Param        id       path string                      true "Issue ID"
// @Param        request  body domain.ResolveIssueRequest  true "Resolve Issue Request"
// @Success      200  {object}  domain.Issue
// @Router       /issues/{id}/resolve [post]
func (s *Server) ResolveIssue(c *gin.Context) {
	var req dailyrundomain.ResolveIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.dailyRunSvc.ResolveIssue(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	targetID := resp.ID.String()
	s.audit(c, "issue.resolve", "issue", &targetID, map[string]any{
		"action": resp.ResolutionAction,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
