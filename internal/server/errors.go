package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/othomas555/arocwaste/internal/booking/domain"
	"github.com/othomas555/arocwaste/internal/calendar"
	collectiondomain "github.com/othomas555/arocwaste/internal/collection/domain"
	dailyrundomain "github.com/othomas555/arocwaste/internal/dailyrun/domain"
	"github.com/othomas555/arocwaste/internal/recurrence"
	routeareadomain "github.com/othomas555/arocwaste/internal/routearea/domain"
	staffdomain "github.com/othomas555/arocwaste/internal/staff/domain"
	subscriptiondomain "github.com/othomas555/arocwaste/internal/subscription/domain"
	vehicledomain "github.com/othomas555/arocwaste/internal/vehicle/domain"
	"github.com/othomas555/arocwaste/pkg/repository"
)

var (
	ErrNotFound           = errors.New("not_found")
	ErrServiceUnavailable = errors.New("service_unavailable")
	ErrTooManyRequests    = errors.New("too_many_requests")
)

type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *apiError) Error() string { return e.Code }

func newValidationError(field, code, message string) *apiError {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    code,
		Message: message,
		Field:   field,
	}
}

func invalidRequestError() *apiError {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_request",
		Message: "request body could not be parsed",
	}
}

// AbortWithError translates service errors to HTTP responses. Unrecognized
// errors become opaque 500s so internals never leak.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	status := http.StatusInternalServerError
	code := "internal_error"

	switch {
	case isValidationSentinel(err):
		status = http.StatusBadRequest
		code = err.Error()
	case isNotFoundSentinel(err):
		status = http.StatusNotFound
		code = err.Error()
	case isConflictSentinel(err):
		status = http.StatusConflict
		code = err.Error()
	case errors.Is(err, recurrence.ErrRecurrenceOverflow):
		status = http.StatusInternalServerError
		code = "corrupt_data"
	case errors.Is(err, ErrTooManyRequests):
		status = http.StatusTooManyRequests
		code = "too_many_requests"
	case errors.Is(err, ErrServiceUnavailable):
		status = http.StatusServiceUnavailable
		code = "service_unavailable"
	}

	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{
		"code":    code,
		"message": httpMessage(status),
	}})
}

func isValidationSentinel(err error) bool {
	for _, sentinel := range []error{
		calendar.ErrInvalidDate,
		recurrence.ErrInvalidFrequency,
		routeareadomain.ErrInvalidArea,
		routeareadomain.ErrInvalidWeekday,
		routeareadomain.ErrInvalidPrefixes,
		subscriptiondomain.ErrInvalidPostcode,
		subscriptiondomain.ErrInvalidFrequency,
		subscriptiondomain.ErrInvalidExtraBags,
		subscriptiondomain.ErrInvalidStatus,
		subscriptiondomain.ErrInvalidPauseWindow,
		subscriptiondomain.ErrRouteDayMismatch,
		collectiondomain.ErrNotSchedulable,
		dailyrundomain.ErrInvalidRunKey,
		dailyrundomain.ErrInvalidIssueReason,
		dailyrundomain.ErrMissingActionNote,
		staffdomain.ErrInvalidName,
		staffdomain.ErrInvalidEmail,
		staffdomain.ErrInvalidRole,
		staffdomain.ErrInvalidPassword,
		vehicledomain.ErrInvalidRegistration,
		bookingdomain.ErrInvalidName,
		bookingdomain.ErrInvalidPostcode,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func isNotFoundSentinel(err error) bool {
	for _, sentinel := range []error{
		ErrNotFound,
		repository.ErrRecordNotFound,
		subscriptiondomain.ErrSubscriptionNotFound,
		routeareadomain.ErrRouteNotFound,
		dailyrundomain.ErrRunNotFound,
		dailyrundomain.ErrIssueNotFound,
		dailyrundomain.ErrStaffNotFound,
		dailyrundomain.ErrVehicleNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func isConflictSentinel(err error) bool {
	for _, sentinel := range []error{
		collectiondomain.ErrNoCollectionToUndo,
		dailyrundomain.ErrIssueAlreadyResolved,
		subscriptiondomain.ErrAlreadyCanceled,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func httpMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "request rejected"
	case http.StatusNotFound:
		return "resource not found"
	case http.StatusConflict:
		return "request conflicts with current state"
	case http.StatusTooManyRequests:
		return "rate limit exceeded"
	case http.StatusServiceUnavailable:
		return "service unavailable"
	default:
		return "internal error"
	}
}
