package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/othomas555/arocwaste/internal/booking/domain"
	"github.com/othomas555/arocwaste/internal/calendar"
	dailyrundomain "github.com/othomas555/arocwaste/internal/dailyrun/domain"
	"github.com/othomas555/arocwaste/internal/events"
	routeareadomain "github.com/othomas555/arocwaste/internal/routearea/domain"
	staffdomain "github.com/othomas555/arocwaste/internal/staff/domain"
	subscriptiondomain "github.com/othomas555/arocwaste/internal/subscription/domain"
	vehicledomain "github.com/othomas555/arocwaste/internal/vehicle/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Outbox *events.Outbox
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	outbox *events.Outbox
}

func NewService(p ServiceParam) dailyrundomain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("dailyrun.service"),
		genID:  p.GenID,
		outbox: p.Outbox,
	}
}

// EnsureRun finds or creates the dispatch unit for a key. The uniqueness
// invariant lives in the database: the insert is ON CONFLICT DO NOTHING
// against the composite unique index, and the follow-up read returns
// whichever row won. Two ops users clicking "open run" in the same instant
// therefore converge on one row, and "already exists" is success, never an
// error. EnsureRun never touches staff or vehicle assignment.
func (s *Service) EnsureRun(ctx context.Context, key dailyrundomain.RunKey) (*dailyrundomain.DailyRun, error) {
	runDate, err := calendar.Parse(string(key.RunDate))
	if err != nil {
		return nil, err
	}
	area := strings.TrimSpace(key.RouteArea)
	if area == "" {
		return nil, dailyrundomain.ErrInvalidRunKey
	}
	day := strings.TrimSpace(key.RouteDay)
	if _, ok := calendar.WeekdayIndex(day); !ok {
		return nil, dailyrundomain.ErrInvalidRunKey
	}
	slot := routeareadomain.NormalizeSlot(key.RouteSlot)

	now := time.Now().UTC()
	newID := s.genID.Generate()
	if err := s.db.WithContext(ctx).Exec(
		`INSERT INTO daily_runs (id, run_date, route_area, route_day, route_slot, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, '', ?, ?)
		 ON CONFLICT (run_date, route_area, route_day, route_slot) DO NOTHING`,
		newID,
		runDate,
		area,
		day,
		slot,
		now,
		now,
	).Error; err != nil {
		return nil, err
	}

	var run dailyrundomain.DailyRun
	err = s.db.WithContext(ctx).
		Where("run_date = ? AND route_area = ? AND route_day = ? AND route_slot = ?", runDate, area, day, slot).
		First(&run).Error
	if err != nil {
		return nil, err
	}

	if run.ID == newID {
		_ = s.outbox.Publish(ctx, events.Event{
			Type: events.EventDailyRunOpened,
			Payload: map[string]any{
				"daily_run_id": run.ID.String(),
				"run_date":     string(run.RunDate),
				"route_area":   run.RouteArea,
			},
			DedupeKey: fmt.Sprintf("run:%s:%s:%s:%s", runDate, area, day, slot),
		})
		s.log.Info("daily run opened",
			zap.String("daily_run_id", run.ID.String()),
			zap.String("run_date", string(run.RunDate)),
			zap.String("route_area", run.RouteArea),
		)
	}
	return &run, nil
}

func (s *Service) GetRun(ctx context.Context, id string) (*dailyrundomain.RunDetail, error) {
	runID, err := parseID(id)
	if err != nil {
		return nil, dailyrundomain.ErrRunNotFound
	}

	var run dailyrundomain.DailyRun
	if err := s.db.WithContext(ctx).First(&run, "id = ?", runID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dailyrundomain.ErrRunNotFound
		}
		return nil, err
	}
	return s.runDetail(ctx, run)
}

func (s *Service) ListRuns(ctx context.Context, date calendar.YMD) ([]dailyrundomain.DailyRun, error) {
	if _, err := calendar.Parse(string(date)); err != nil {
		return nil, err
	}
	var runs []dailyrundomain.DailyRun
	err := s.db.WithContext(ctx).
		Where("run_date = ?", date).
		Order("route_area, route_slot").
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// AssignCrew replaces the run's vehicle, staff set and notes in one
// transaction.
func (s *Service) AssignCrew(ctx context.Context, id string, req dailyrundomain.AssignCrewRequest) (*dailyrundomain.RunDetail, error) {
	runID, err := parseID(id)
	if err != nil {
		return nil, dailyrundomain.ErrRunNotFound
	}

	var run dailyrundomain.DailyRun
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&run, "id = ?", runID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dailyrundomain.ErrRunNotFound
			}
			return err
		}

		updates := map[string]any{"updated_at": time.Now().UTC()}
		if req.VehicleID != nil {
			if strings.TrimSpace(*req.VehicleID) == "" {
				updates["vehicle_id"] = nil
			} else {
				vehicleID, err := parseID(*req.VehicleID)
				if err != nil {
					return dailyrundomain.ErrVehicleNotFound
				}
				var vehicle vehicledomain.Vehicle
				if err := tx.First(&vehicle, "id = ? AND active = ?", vehicleID, true).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return dailyrundomain.ErrVehicleNotFound
					}
					return err
				}
				updates["vehicle_id"] = vehicleID
			}
		}
		if req.Notes != nil {
			updates["notes"] = strings.TrimSpace(*req.Notes)
		}
		if err := tx.Model(&dailyrundomain.DailyRun{}).Where("id = ?", run.ID).Updates(updates).Error; err != nil {
			return err
		}

		if req.StaffIDs != nil {
			if err := tx.Delete(&dailyrundomain.DailyRunStaff{}, "daily_run_id = ?", run.ID).Error; err != nil {
				return err
			}
			for _, raw := range req.StaffIDs {
				staffID, err := parseID(raw)
				if err != nil {
					return dailyrundomain.ErrStaffNotFound
				}
				var member staffdomain.StaffMember
				if err := tx.First(&member, "id = ? AND active = ?", staffID, true).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return dailyrundomain.ErrStaffNotFound
					}
					return err
				}
				link := dailyrundomain.DailyRunStaff{
					ID:         s.genID.Generate(),
					DailyRunID: run.ID,
					StaffID:    staffID,
					CreatedAt:  time.Now().UTC(),
				}
				if err := tx.Create(&link).Error; err != nil {
					return err
				}
			}
		}

		return tx.First(&run, "id = ?", run.ID).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("run crew assigned", zap.String("daily_run_id", run.ID.String()))
	return s.runDetail(ctx, run)
}

type dueRow struct {
	Area  string
	Slot  string
	Total int
}

// DueCount aggregates how many stops are due on a date per "area|slot" key,
// partitioned into recurring subscriptions, one-off bookings and quote
// visits. Paused subscriptions are excluded regardless of their stored next
// collection date.
func (s *Service) DueCount(ctx context.Context, date calendar.YMD) (dailyrundomain.DueCountResponse, error) {
	if _, err := calendar.Parse(string(date)); err != nil {
		return dailyrundomain.DueCountResponse{}, err
	}

	resp := dailyrundomain.DueCountResponse{
		RunDate: date,
		Counts:  map[string]dailyrundomain.DueBreakdown{},
	}

	var recurring []dueRow
	err := s.db.WithContext(ctx).Raw(
		`SELECT route_area AS area, COALESCE(route_slot, 'ANY') AS slot, COUNT(*) AS total
		 FROM subscriptions
		 WHERE status IN (?, ?)
		   AND next_collection_date = ?
		   AND route_area IS NOT NULL
		   AND NOT (
		     pause_from IS NOT NULL AND pause_to IS NOT NULL
		     AND pause_from <= ? AND pause_to >= ?
		   )
		 GROUP BY route_area, COALESCE(route_slot, 'ANY')`,
		subscriptiondomain.StatusActive,
		subscriptiondomain.StatusTrialing,
		date,
		date,
		date,
	).Scan(&recurring).Error
	if err != nil {
		return dailyrundomain.DueCountResponse{}, err
	}
	for _, row := range recurring {
		key := row.Area + "|" + row.Slot
		entry := resp.Counts[key]
		entry.Recurring += row.Total
		entry.Total += row.Total
		resp.Counts[key] = entry
	}

	var oneOff []dueRow
	err = s.db.WithContext(ctx).Raw(
		`SELECT route_area AS area, COALESCE(route_slot, 'ANY') AS slot, COUNT(*) AS total
		 FROM one_off_bookings
		 WHERE status = ? AND date = ? AND route_area IS NOT NULL
		 GROUP BY route_area, COALESCE(route_slot, 'ANY')`,
		bookingdomain.BookingStatusConfirmed,
		date,
	).Scan(&oneOff).Error
	if err != nil {
		return dailyrundomain.DueCountResponse{}, err
	}
	for _, row := range oneOff {
		key := row.Area + "|" + row.Slot
		entry := resp.Counts[key]
		entry.OneOff += row.Total
		entry.Total += row.Total
		resp.Counts[key] = entry
	}

	var quotes []dueRow
	err = s.db.WithContext(ctx).Raw(
		`SELECT route_area AS area, COALESCE(route_slot, 'ANY') AS slot, COUNT(*) AS total
		 FROM quote_visits
		 WHERE status = ? AND date = ? AND route_area IS NOT NULL
		 GROUP BY route_area, COALESCE(route_slot, 'ANY')`,
		bookingdomain.BookingStatusConfirmed,
		date,
	).Scan(&quotes).Error
	if err != nil {
		return dailyrundomain.DueCountResponse{}, err
	}
	for _, row := range quotes {
		key := row.Area + "|" + row.Slot
		entry := resp.Counts[key]
		entry.Quote += row.Total
		entry.Total += row.Total
		resp.Counts[key] = entry
	}

	return resp, nil
}

func (s *Service) OpenIssue(ctx context.Context, runID string, req dailyrundomain.OpenIssueRequest) (*dailyrundomain.Issue, error) {
	id, err := parseID(runID)
	if err != nil {
		return nil, dailyrundomain.ErrRunNotFound
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, dailyrundomain.ErrInvalidIssueReason
	}

	var run dailyrundomain.DailyRun
	if err := s.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dailyrundomain.ErrRunNotFound
		}
		return nil, err
	}

	issue := dailyrundomain.Issue{
		ID:         s.genID.Generate(),
		DailyRunID: run.ID,
		Reason:     reason,
		Details:    strings.TrimSpace(req.Details),
		CreatedAt:  time.Now().UTC(),
	}
	if strings.TrimSpace(req.SubscriptionID) != "" {
		subID, err := parseID(req.SubscriptionID)
		if err != nil {
			return nil, subscriptiondomain.ErrSubscriptionNotFound
		}
		issue.SubscriptionID = &subID
	}

	if err := s.db.WithContext(ctx).Create(&issue).Error; err != nil {
		return nil, err
	}

	_ = s.outbox.Publish(ctx, events.Event{
		Type: events.EventIssueRaised,
		Payload: map[string]any{
			"issue_id":     issue.ID.String(),
			"daily_run_id": run.ID.String(),
			"reason":       issue.Reason,
		},
	})
	return &issue, nil
}

// ResolveIssue closes an issue exactly once. The action note is mandatory; an
// already-resolved issue reports a conflict rather than silently re-closing.
func (s *Service) ResolveIssue(ctx context.Context, issueID string, req dailyrundomain.ResolveIssueRequest) (*dailyrundomain.Issue, error) {
	id, err := parseID(issueID)
	if err != nil {
		return nil, dailyrundomain.ErrIssueNotFound
	}
	action := strings.TrimSpace(req.Action)
	if action == "" {
		return nil, dailyrundomain.ErrMissingActionNote
	}
	outcome := strings.TrimSpace(req.Outcome)

	var issue dailyrundomain.Issue
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&issue, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dailyrundomain.ErrIssueNotFound
			}
			return err
		}
		if !issue.Open() {
			return dailyrundomain.ErrIssueAlreadyResolved
		}

		now := time.Now().UTC()
		// The guarded WHERE keeps a racing second resolver from re-closing.
		res := tx.Model(&dailyrundomain.Issue{}).
			Where("id = ? AND resolved_at IS NULL", issue.ID).
			Updates(map[string]any{
				"resolution_action":  action,
				"resolution_outcome": outcome,
				"resolved_at":        now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return dailyrundomain.ErrIssueAlreadyResolved
		}

		issue.ResolutionAction = &action
		issue.ResolutionOutcome = &outcome
		issue.ResolvedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = s.outbox.Publish(ctx, events.Event{
		Type: events.EventIssueResolved,
		Payload: map[string]any{
			"issue_id": issue.ID.String(),
			"action":   action,
		},
	})
	return &issue, nil
}

func (s *Service) ListIssues(ctx context.Context, runID string) ([]dailyrundomain.Issue, error) {
	id, err := parseID(runID)
	if err != nil {
		return nil, dailyrundomain.ErrRunNotFound
	}
	var issues []dailyrundomain.Issue
	err = s.db.WithContext(ctx).
		Where("daily_run_id = ?", id).
		Order("created_at").
		Find(&issues).Error
	if err != nil {
		return nil, err
	}
	return issues, nil
}

func (s *Service) runDetail(ctx context.Context, run dailyrundomain.DailyRun) (*dailyrundomain.RunDetail, error) {
	var links []dailyrundomain.DailyRunStaff
	err := s.db.WithContext(ctx).
		Where("daily_run_id = ?", run.ID).
		Order("created_at").
		Find(&links).Error
	if err != nil {
		return nil, err
	}

	detail := &dailyrundomain.RunDetail{DailyRun: run, StaffIDs: make([]string, 0, len(links))}
	for _, link := range links {
		detail.StaffIDs = append(detail.StaffIDs, link.StaffID.String())
	}
	return detail, nil
}

func parseID(id string) (snowflake.ID, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid_id")
	}
	return snowflake.ID(parsed), nil
}
