package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	routeareadomain "github.com/othomas555/arocwaste/internal/routearea/domain"
)

// @Summary      List Route Areas
// @Description  List the full route catalogue, inactive rows included
// @Tags         routes
// @Produce      json
// @Success      200  {object}  []domain.RouteArea
// @Router       /routes [get]
func (s *Server) ListRouteAreas(c *gin.Context) {
	resp, err := s.routeSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Create Route Area
// @Description  Add a route to the catalogue
// @Tags         routes
// @Accept       json
// @Produce      json
// @Param        request body domain.CreateRouteAreaRequest true "Create Route Area Request"
// @Success      200  {object}  domain.RouteArea
// @Router       /routes [post]
func (s *Server) CreateRouteArea(c *gin.Context) {
	var req routeareadomain.CreateRouteAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.routeSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	targetID := resp.ID.String()
	s.audit(c, "route_area.create", "route_area", &targetID, map[string]any{
		"area":    resp.Area,
		"weekday": resp.Weekday,
		"slot":    string(resp.Slot),
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Update Route Area
// @Description  Patch a catalogue route; omitted fields are untouched
// @Tags         routes
// @Accept       json
// @Produce      json
// @Param        id       path string                          true "Route Area ID"
// @Param        request  body domain.UpdateRouteAreaRequest   true "Update Route Area Request"
// @Success      200  {object}  domain.RouteArea
// @Router       /routes/{id} [patch]
func (s *Server) UpdateRouteArea(c *gin.Context) {
	var req routeareadomain.UpdateRouteAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.routeSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	targetID := resp.ID.String()
	s.audit(c, "route_area.update", "route_area", &targetID, map[string]any{
		"area":    resp.Area,
		"weekday": resp.Weekday,
		"slot":    string(resp.Slot),
		"active":  resp.Active,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
