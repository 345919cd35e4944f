package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/othomas555/arocwaste/internal/opscontext"
)

// requestContext deposits request metadata and the caller identity into the
// request context. Staff identity arrives from the upstream auth proxy via
// the X-Staff-Id header; absent that, the caller is public.
func (s *Server) requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if requestID := c.GetHeader("X-Request-Id"); requestID != "" {
			ctx = opscontext.WithRequestID(ctx, requestID)
		}
		ctx = opscontext.WithIPAddress(ctx, c.ClientIP())
		ctx = opscontext.WithUserAgent(ctx, c.Request.UserAgent())

		if staffID := c.GetHeader("X-Staff-Id"); staffID != "" {
			ctx = opscontext.WithActor(ctx, opscontext.ActorTypeStaff, staffID)
		} else {
			ctx = opscontext.WithActor(ctx, opscontext.ActorTypePublic, "")
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// rateLimitPostcode guards the one endpoint reachable without staff identity.
func (s *Server) rateLimitPostcode() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.postcodeLimiter.Allow(c.ClientIP()) {
			AbortWithError(c, &apiError{
				Status:  http.StatusTooManyRequests,
				Code:    "too_many_requests",
				Message: "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
