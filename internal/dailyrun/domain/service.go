package domain

import (
	"context"
	"errors"

	"github.com/othomas555/arocwaste/internal/calendar"
)

// Service is the join point drivers and ops consume: idempotent run creation,
// due-count queries, crew assignment, and issue handling.
type Service interface {
	EnsureRun(ctx context.Context, key RunKey) (*DailyRun, error)
	GetRun(ctx context.Context, id string) (*RunDetail, error)
	ListRuns(ctx context.Context, date calendar.YMD) ([]DailyRun, error)
	AssignCrew(ctx context.Context, id string, req AssignCrewRequest) (*RunDetail, error)
	DueCount(ctx context.Context, date calendar.YMD) (DueCountResponse, error)
	OpenIssue(ctx context.Context, runID string, req OpenIssueRequest) (*Issue, error)
	ResolveIssue(ctx context.Context, issueID string, req ResolveIssueRequest) (*Issue, error)
	ListIssues(ctx context.Context, runID string) ([]Issue, error)
}

// RunKey is the composite identity of a dispatch unit.
type RunKey struct {
	RunDate   calendar.YMD `json:"run_date"`
	RouteArea string       `json:"route_area"`
	RouteDay  string       `json:"route_day"`
	RouteSlot string       `json:"route_slot"`
}

// RunDetail is a run with its assigned staff resolved.
type RunDetail struct {
	DailyRun
	StaffIDs []string `json:"staff_ids"`
}

// AssignCrewRequest replaces the run's crew. Assignment is always an explicit
// update, never implied by EnsureRun.
type AssignCrewRequest struct {
	VehicleID *string  `json:"vehicle_id"`
	StaffIDs  []string `json:"staff_ids"`
	Notes     *string  `json:"notes"`
}

// DueBreakdown partitions one area/slot's due total into mutually exclusive
// categories.
type DueBreakdown struct {
	Recurring int `json:"recurring"`
	OneOff    int `json:"one_off"`
	Quote     int `json:"quote"`
	Total     int `json:"total"`
}

// DueCountResponse maps "area|slot" keys to their due-counts for a date.
type DueCountResponse struct {
	RunDate calendar.YMD            `json:"run_date"`
	Counts  map[string]DueBreakdown `json:"counts"`
}

// OpenIssueRequest is raised by a driver against a stop within a run.
type OpenIssueRequest struct {
	SubscriptionID string `json:"subscription_id"`
	Reason         string `json:"reason"`
	Details        string `json:"details"`
}

// ResolveIssueRequest closes an issue. Action is mandatory.
type ResolveIssueRequest struct {
	Action  string `json:"action"`
	Outcome string `json:"outcome"`
}

var (
	ErrRunNotFound          = errors.New("run_not_found")
	ErrInvalidRunKey        = errors.New("invalid_run_key")
	ErrIssueNotFound        = errors.New("issue_not_found")
	ErrInvalidIssueReason   = errors.New("invalid_issue_reason")
	ErrMissingActionNote    = errors.New("missing_action_note")
	ErrIssueAlreadyResolved = errors.New("issue_already_resolved")
	ErrStaffNotFound        = errors.New("staff_not_found")
	ErrVehicleNotFound      = errors.New("vehicle_not_found")
)
