package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/othomas555/arocwaste/internal/booking/domain"
)

// @Summary      Create Booking
// @Description  Register a one-off clearance booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        request body domain.CreateBookingRequest true "Create Booking Request"
// @Success      200  {object}  domain.OneOffBooking
// @Router       /bookings [post]
func (s *Server) CreateBooking(c *gin.Context) {
	var req bookingdomain.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bookingSvc.CreateBooking(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	targetID := resp.ID.String()
	s.audit(c, "booking.create", "one_off_booking", &targetID, map[string]any{
		"date": string(resp.Date),
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Bookings
// @Tags         bookings
// @Produce      json
// @Param        date  query  string  false  "Date (YYYY-MM-DD)"
// @Success      200  {object}  []domain.OneOffBooking
// @Router       /bookings [get]
func (s *Server) ListBookings(c *gin.Context) {
	date, err := s.referenceDate(c.Query("date"))
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "date must be YYYY-MM-DD"))
		return
	}

	resp, err := s.bookingSvc.ListBookings(c.Request.Context(), date)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Create Quote Visit
// @Tags         quote-visits
// @Accept       json
// @Produce      json
// @Param        request body domain.CreateQuoteVisitRequest true "Create Quote Visit Request"
// @Success      200  {object}  domain.QuoteVisit
// @Router       /quote-visits [post]
func (s *Server) CreateQuoteVisit(c *gin.Context) {
	var req bookingdomain.CreateQuoteVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bookingSvc.CreateQuoteVisit(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	targetID := resp.ID.String()
	s.audit(c, "quote_visit.create", "quote_visit", &targetID, map[string]any{
		"date": string(resp.Date),
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Quote Visits
// @Tags         quote-visits
// @Produce      json
// @Param        date  query  string  false  "Date (YYYY-MM-DD)"
// @Success      200  {object}  []domain.QuoteVisit
// @Router       /quote-visits [get]
func (s *Server) ListQuoteVisits(c *gin.Context) {
	date, err := s.referenceDate(c.Query("date"))
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "date must be YYYY-MM-DD"))
		return
	}

	resp, err := s.bookingSvc.ListQuoteVisits(c.Request.Context(), date)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
