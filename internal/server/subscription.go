package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/othomas555/arocwaste/internal/calendar"
	subscriptiondomain "github.com/othomas555/arocwaste/internal/subscription/domain"
	"github.com/othomas555/arocwaste/pkg/db/pagination"
)

type createSubscriptionRequest struct {
	CustomerName string `json:"customer_name"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	Postcode     string `json:"postcode"`
	Frequency    string `json:"frequency"`
	ExtraBags    int    `json:"extra_bags"`
	UseOwnBin    bool   `json:"use_own_bin"`
	Trialing     bool   `json:"trialing"`
	Date         string `json:"date"`
}

// @Summary      Create Subscription
// @Description  Register a subscription after checkout completion
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Param        request body createSubscriptionRequest true "Create Subscription Request"
// @Success      200  {object}  domain.Subscription
// @Router       /subscriptions [post]
func (s *Server) CreateSubscription(c *gin.Context) {
	var req createSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	reference, err := s.referenceDate(req.Date)
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_date", "date must be YYYY-MM-DD"))
		return
	}

	resp, err := s.subscriptionSvc.Create(c.Request.Context(), subscriptiondomain.CreateSubscriptionRequest{
		CustomerName: strings.TrimSpace(req.CustomerName),
		Email:        strings.TrimSpace(req.Email),
		Address:      strings.TrimSpace(req.Address),
		Postcode:     req.Postcode,
		Frequency:    subscriptiondomain.Frequency(strings.TrimSpace(req.Frequency)),
		ExtraBags:    req.ExtraBags,
		UseOwnBin:    req.UseOwnBin,
		Trialing:     req.Trialing,
		Reference:    reference,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	targetID := resp.ID.String()
	s.audit(c, "subscription.create", "subscription", &targetID, map[string]any{
		"postcode":  resp.Postcode,
		"frequency": string(resp.Frequency),
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Subscriptions
// @Description  List subscriptions for the ops table
// @Tags         subscriptions
// @Produce      json
// @Param        status      query  string  false  "Status"
// @Param        postcode    query  string  false  "Postcode"
// @Param        route_area  query  string  false  "Route Area"
// @Param        due_on      query  string  false  "Due On (YYYY-MM-DD)"
// @Param        page_token  query  string  false  "Page Token"
// @Param        page_size   query  int     false  "Page Size"
// @Success      200  {object}  domain.ListSubscriptionResponse
// @Router       /subscriptions [get]
func (s *Server) ListSubscriptions(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status    string `form:"status"`
		Postcode  string `form:"postcode"`
		RouteArea string `form:"route_area"`
		DueOn     string `form:"due_on"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var dueOn calendar.YMD
	if strings.TrimSpace(query.DueOn) != "" {
		parsed, err := calendar.Parse(query.DueOn)
		if err != nil {
			AbortWithError(c, newValidationError("due_on", "invalid_date", "due_on must be YYYY-MM-DD"))
			return
		}
		dueOn = parsed
	}

	resp, err := s.subscriptionSvc.List(c.Request.Context(), subscriptiondomain.ListSubscriptionRequest{
		Pagination: query.Pagination,
		Status:     subscriptiondomain.SubscriptionStatus(strings.TrimSpace(query.Status)),
		Postcode:   query.Postcode,
		RouteArea:  strings.TrimSpace(query.RouteArea),
		DueOn:      dueOn,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Subscription
// @Description  Get subscription by ID
// @Tags         subscriptions
// @Produce      json
// @Param        id   path      string  true  "Subscription ID"
// @Success      200  {object}  domain.Subscription
// @Router       /subscriptions/{id} [get]
func (s *Server) GetSubscription(c *gin.Context) {
	resp, err := s.subscriptionSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type overrideSubscriptionRequest struct {
	RouteArea          *string `json:"route_area"`
	RouteDay           *string `json:"route_day"`
	RouteSlot          *string `json:"route_slot"`
	NextCollectionDate *string `json:"next_collection_date"`
	PauseFrom          *string `json:"pause_from"`
	PauseTo            *string `json:"pause_to"`
	Status             *string `json:"status"`
	OpsNotes           *string `json:"ops_notes"`
}

// @Summary      Override Subscription
// @Description  Explicit ops override of engine-owned fields; empty string clears
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Param        id       path string                       true "Subscription ID"
// @Param        request  body overrideSubscriptionRequest  true "Override Request"
// @Success      200  {object}  domain.Subscription
// @Router       /subscriptions/{id} [patch]
func (s *Server) OverrideSubscription(c *gin.Context) {
	var req overrideSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var status *subscriptiondomain.SubscriptionStatus
	if req.Status != nil {
		value := subscriptiondomain.SubscriptionStatus(strings.TrimSpace(*req.Status))
		status = &value
	}

	resp, err := s.subscriptionSvc.Override(c.Request.Context(), c.Param("id"), subscriptiondomain.OverrideRequest{
		RouteArea:          req.RouteArea,
		RouteDay:           req.RouteDay,
		RouteSlot:          req.RouteSlot,
		NextCollectionDate: req.NextCollectionDate,
		PauseFrom:          req.PauseFrom,
		PauseTo:            req.PauseTo,
		Status:             status,
		OpsNotes:           req.OpsNotes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	targetID := resp.ID.String()
	s.audit(c, "subscription.override", "subscription", &targetID, map[string]any{
		"status": string(resp.Status),
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Cancel Subscription
// @Description  Soft-cancel; history is retained
// @Tags         subscriptions
// @Produce      json
// @Param        id   path      string  true  "Subscription ID"
// @Success      200  {object}  domain.Subscription
// @Router       /subscriptions/{id}/cancel [post]
func (s *Server) CancelSubscription(c *gin.Context) {
	resp, err := s.subscriptionSvc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	targetID := resp.ID.String()
	s.audit(c, "subscription.cancel", "subscription", &targetID, nil)

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
