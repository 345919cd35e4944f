// Package reassign scans subscriptions and recomputes their route assignment
// and next collection date against the current route catalogue. It is the
// recovery path after catalogue edits and the burst tool for onboarding
// backfills.
package reassign

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/othomas555/arocwaste/internal/calendar"
	routeareadomain "github.com/othomas555/arocwaste/internal/routearea/domain"
	subscriptiondomain "github.com/othomas555/arocwaste/internal/subscription/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MaxLimit bounds one invocation's blast radius. Force can overwrite
// ops-curated overrides, so a single run is deliberately capped.
const MaxLimit = 500

const DefaultLimit = 100

// Outcome classifies one scanned row.
type Outcome string

const (
	OutcomeUpdated Outcome = "updated"
	OutcomeNoMatch Outcome = "no_match"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// Options controls a batch invocation.
type Options struct {
	Limit         int
	DryRun        bool
	Force         bool
	RecomputeNext bool
	Statuses      []subscriptiondomain.SubscriptionStatus
	Reference     calendar.YMD
}

// RowResult reports one subscription's outcome, including the would-be
// fields on a dry run.
type RowResult struct {
	SubscriptionID string        `json:"subscription_id"`
	Postcode       string        `json:"postcode"`
	Outcome        Outcome       `json:"outcome"`
	OldRouteArea   *string       `json:"old_route_area,omitempty"`
	NewRouteArea   *string       `json:"new_route_area,omitempty"`
	NewRouteDay    *string       `json:"new_route_day,omitempty"`
	NewRouteSlot   *string       `json:"new_route_slot,omitempty"`
	NewNextDate    *calendar.YMD `json:"new_next_date,omitempty"`
	Error          string        `json:"error,omitempty"`
}

// Report summarizes a batch invocation.
type Report struct {
	Scanned int         `json:"scanned"`
	Updated int         `json:"updated"`
	NoMatch int         `json:"no_match"`
	Skipped int         `json:"skipped"`
	Failed  int         `json:"failed"`
	DryRun  bool        `json:"dry_run"`
	Results []RowResult `json:"results"`
}

type BatchParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	RouteSvc routeareadomain.Service
}

// Batch runs bulk reassignments.
type Batch struct {
	db       *gorm.DB
	log      *zap.Logger
	routeSvc routeareadomain.Service
}

func NewBatch(p BatchParam) *Batch {
	return &Batch{
		db:       p.DB,
		log:      p.Log.Named("reassign.batch"),
		routeSvc: p.RouteSvc,
	}
}

// Run scans up to Limit subscriptions and applies (or, on a dry run, only
// reports) recomputed route assignments. Each applied row commits in its own
// transaction: a failure partway through never corrupts rows already
// written, and re-running with the same filter picks up the remainder.
// Ordering carries no correctness weight.
func (b *Batch) Run(ctx context.Context, opts Options) (Report, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	reference := opts.Reference
	if _, err := calendar.Parse(string(reference)); err != nil {
		return Report{}, err
	}

	statuses := opts.Statuses
	if len(statuses) == 0 {
		statuses = []subscriptiondomain.SubscriptionStatus{
			subscriptiondomain.StatusActive,
			subscriptiondomain.StatusTrialing,
		}
	}
	for _, status := range statuses {
		if !subscriptiondomain.ValidStatus(status) {
			return Report{}, subscriptiondomain.ErrInvalidStatus
		}
	}

	catalogue, err := b.routeSvc.Catalogue(ctx)
	if err != nil {
		return Report{}, err
	}

	var rows []subscriptiondomain.Subscription
	err = b.db.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return Report{}, err
	}

	report := Report{DryRun: opts.DryRun, Results: make([]RowResult, 0, len(rows))}
	for _, sub := range rows {
		if err := ctx.Err(); err != nil {
			// Abort between rows only: committed rows stay committed.
			return report, err
		}
		report.Scanned++
		result := b.processRow(ctx, sub, catalogue, reference, opts)
		switch result.Outcome {
		case OutcomeUpdated:
			report.Updated++
		case OutcomeNoMatch:
			report.NoMatch++
		case OutcomeSkipped:
			report.Skipped++
		case OutcomeFailed:
			report.Failed++
		}
		report.Results = append(report.Results, result)
	}

	b.log.Info("reassignment batch finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("updated", report.Updated),
		zap.Int("no_match", report.NoMatch),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
		zap.Bool("dry_run", opts.DryRun),
	)
	return report, nil
}

func (b *Batch) processRow(
	ctx context.Context,
	sub subscriptiondomain.Subscription,
	catalogue []routeareadomain.RouteArea,
	reference calendar.YMD,
	opts Options,
) RowResult {
	result := RowResult{
		SubscriptionID: sub.ID.String(),
		Postcode:       sub.Postcode,
		OldRouteArea:   sub.RouteArea,
	}

	match, err := routeareadomain.Match(sub.Postcode, catalogue, reference)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Error = err.Error()
		return result
	}
	if match.Default == nil {
		result.Outcome = OutcomeNoMatch
		return result
	}
	if sub.RouteArea != nil && !opts.Force {
		result.Outcome = OutcomeSkipped
		return result
	}

	chosen := *match.Default
	result.Outcome = OutcomeUpdated
	result.NewRouteArea = &chosen.Area
	result.NewRouteDay = &chosen.Weekday
	slot := string(chosen.Slot)
	result.NewRouteSlot = &slot

	routeChanged := sub.RouteArea == nil ||
		*sub.RouteArea != chosen.Area ||
		sub.RouteDay == nil ||
		*sub.RouteDay != chosen.Weekday ||
		sub.RouteSlot == nil ||
		*sub.RouteSlot != chosen.Slot

	touchNext := routeChanged || opts.RecomputeNext
	if touchNext {
		result.NewNextDate = &chosen.NextDate
	}

	if opts.DryRun {
		return result
	}

	updates := map[string]any{
		"route_area": chosen.Area,
		"route_day":  chosen.Weekday,
		"route_slot": chosen.Slot,
		"updated_at": time.Now().UTC(),
	}
	if touchNext {
		updates["next_collection_date"] = chosen.NextDate
	}

	err = b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(&subscriptiondomain.Subscription{}).
			Where("id = ?", sub.ID).
			Updates(updates).Error
	})
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Error = err.Error()
	}
	return result
}
