package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/othomas555/arocwaste/internal/calendar"
)

type checkPostcodeRequest struct {
	Postcode string `json:"postcode"`
	Date     string `json:"date"`
}

// @Summary      Check Postcode
// @Description  Check whether a postcode is inside the service area
// @Tags         postcode
// @Accept       json
// @Produce      json
// @Param        request body checkPostcodeRequest true "Check Postcode Request"
// @Success      200  {object}  domain.MatchResult
// @Router       /postcode/check [post]
func (s *Server) CheckPostcode(c *gin.Context) {
	var req checkPostcodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if strings.TrimSpace(req.Postcode) == "" {
		AbortWithError(c, newValidationError("postcode", "required", "postcode is required"))
		return
	}

	reference, err := s.referenceDate(req.Date)
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "date must be YYYY-MM-DD"))
		return
	}

	resp, err := s.routeSvc.CheckPostcode(c.Request.Context(), req.Postcode, reference)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// referenceDate resolves an optional request date, defaulting to the
// operational today.
func (s *Server) referenceDate(raw string) (calendar.YMD, error) {
	if strings.TrimSpace(raw) == "" {
		return s.clock.Today()
	}
	return calendar.Parse(raw)
}
