package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	staffdomain "github.com/othomas555/arocwaste/internal/staff/domain"
	vehicledomain "github.com/othomas555/arocwaste/internal/vehicle/domain"
)

// @Summary      List Staff
// @Tags         staff
// @Produce      json
// @Success      200  {object}  []domain.StaffMember
// @Router       /staff [get]
func (s *Server) ListStaff(c *gin.Context) {
	resp, err := s.staffSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Create Staff
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        request body domain.CreateStaffRequest true "Create Staff Request"
// @Success      200  {object}  domain.StaffMember
// @Router       /staff [post]
func (s *Server) CreateStaff(c *gin.Context) {
	var req staffdomain.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.staffSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	targetID := resp.ID.String()
	s.audit(c, "staff.create", "staff", &targetID, map[string]any{
		"role": string(resp.Role),
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Vehicles
// @Tags         vehicles
// @Produce      json
// @Success      200  {object}  []domain.Vehicle
// @Router       /vehicles [get]
func (s *Server) ListVehicles(c *gin.Context) {
	resp, err := s.vehicleSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Create Vehicle
// @Tags         vehicles
// @Accept       json
// @Produce      json
// @Param        request body domain.CreateVehicleRequest true "Create Vehicle Request"
// @Success      200  {object}  domain.Vehicle
// @Router       /vehicles [post]
func (s *Server) CreateVehicle(c *gin.Context) {
	var req vehicledomain.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.vehicleSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	targetID := resp.ID.String()
	s.audit(c, "vehicle.create", "vehicle", &targetID, map[string]any{
		"registration": resp.Registration,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
