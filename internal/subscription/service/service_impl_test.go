package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/othomas555/arocwaste/internal/cache"
	routeareadomain "github.com/othomas555/arocwaste/internal/routearea/domain"
	routeareaservice "github.com/othomas555/arocwaste/internal/routearea/service"
	subscriptiondomain "github.com/othomas555/arocwaste/internal/subscription/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&routeareadomain.RouteArea{},
		&subscriptiondomain.Subscription{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) subscriptiondomain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	routeSvc := routeareaservice.NewService(routeareaservice.ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Cache: cache.NoopCache[string, []routeareadomain.RouteArea]{},
	})
	return NewService(ServiceParam{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		RouteSvc: routeSvc,
	})
}

func insertRoute(t *testing.T, db *gorm.DB, id int64, area, weekday string, slot routeareadomain.Slot, prefixes string) {
	t.Helper()
	now := time.Now().UTC()
	route := routeareadomain.RouteArea{
		ID:        snowflake.ID(id),
		Area:      area,
		Weekday:   weekday,
		Slot:      slot,
		Prefixes:  prefixes,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(&route).Error; err != nil {
		t.Fatalf("insert route: %v", err)
	}
}

func TestCreatePopulatesRouteAndNextDate(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	insertRoute(t, db, 1, "Porthcawl", "Monday", routeareadomain.SlotAM, "CF36")

	// Reference Wednesday 2024-01-10; next Monday is 2024-01-15.
	sub, err := svc.Create(context.Background(), subscriptiondomain.CreateSubscriptionRequest{
		CustomerName: "Jo Bowen",
		Email:        "JO@example.com",
		Address:      "1 Esplanade Ave",
		Postcode:     "cf36 5aa",
		Frequency:    subscriptiondomain.FrequencyFortnightly,
		Reference:    "2024-01-10",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if sub.Postcode != "CF36 5AA" {
		t.Errorf("postcode = %q, want normalized CF36 5AA", sub.Postcode)
	}
	if sub.Email != "jo@example.com" {
		t.Errorf("email = %q, want lowercased", sub.Email)
	}
	if sub.RouteArea == nil || *sub.RouteArea != "Porthcawl" {
		t.Fatalf("route area = %v, want Porthcawl", sub.RouteArea)
	}
	if sub.RouteDay == nil || *sub.RouteDay != "Monday" {
		t.Errorf("route day = %v, want Monday", sub.RouteDay)
	}
	if sub.NextCollectionDate == nil || *sub.NextCollectionDate != "2024-01-15" {
		t.Errorf("next collection date = %v, want 2024-01-15", sub.NextCollectionDate)
	}
	if sub.Status != subscriptiondomain.StatusActive {
		t.Errorf("status = %s, want active", sub.Status)
	}
}

func TestCreateUncoveredPostcodeLeavesRouteNull(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	insertRoute(t, db, 1, "Porthcawl", "Monday", routeareadomain.SlotAM, "CF36")

	sub, err := svc.Create(context.Background(), subscriptiondomain.CreateSubscriptionRequest{
		CustomerName: "Sam Price",
		Email:        "sam@example.com",
		Address:      "2 High St",
		Postcode:     "SW1A 1AA",
		Frequency:    subscriptiondomain.FrequencyWeekly,
		Reference:    "2024-01-10",
	})
	if err != nil {
		t.Fatalf("uncovered postcode must still create: %v", err)
	}
	if sub.RouteArea != nil || sub.RouteDay != nil || sub.NextCollectionDate != nil {
		t.Errorf("expected null route fields, got %+v", sub)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)

	base := subscriptiondomain.CreateSubscriptionRequest{
		CustomerName: "Jo",
		Email:        "jo@example.com",
		Postcode:     "CF36 5AA",
		Frequency:    subscriptiondomain.FrequencyWeekly,
		Reference:    "2024-01-10",
	}

	req := base
	req.Postcode = "   "
	if _, err := svc.Create(context.Background(), req); !errors.Is(err, subscriptiondomain.ErrInvalidPostcode) {
		t.Errorf("blank postcode: got %v", err)
	}

	req = base
	req.Frequency = "monthly"
	if _, err := svc.Create(context.Background(), req); !errors.Is(err, subscriptiondomain.ErrInvalidFrequency) {
		t.Errorf("bad frequency: got %v", err)
	}

	req = base
	req.ExtraBags = subscriptiondomain.MaxExtraBags + 1
	if _, err := svc.Create(context.Background(), req); !errors.Is(err, subscriptiondomain.ErrInvalidExtraBags) {
		t.Errorf("too many bags: got %v", err)
	}
}

func TestOverridePauseWindow(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	insertRoute(t, db, 1, "Porthcawl", "Monday", routeareadomain.SlotAM, "CF36")

	sub, err := svc.Create(context.Background(), subscriptiondomain.CreateSubscriptionRequest{
		CustomerName: "Jo",
		Email:        "jo@example.com",
		Postcode:     "CF36 5AA",
		Frequency:    subscriptiondomain.FrequencyWeekly,
		Reference:    "2024-01-10",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := sub.ID.String()

	from, to := "2024-02-01", "2024-02-14"
	updated, err := svc.Override(context.Background(), id, subscriptiondomain.OverrideRequest{
		PauseFrom: &from,
		PauseTo:   &to,
	})
	if err != nil {
		t.Fatalf("override: %v", err)
	}
	if updated.PauseFrom == nil || *updated.PauseFrom != "2024-02-01" {
		t.Errorf("pause_from = %v", updated.PauseFrom)
	}
	if !updated.PausedOn("2024-02-01") || !updated.PausedOn("2024-02-14") {
		t.Error("window boundaries must be inclusive")
	}
	if updated.PausedOn("2024-02-15") {
		t.Error("day after window must not be paused")
	}

	// One end without the other is rejected.
	onlyFrom := "2024-03-01"
	empty := ""
	_, err = svc.Override(context.Background(), id, subscriptiondomain.OverrideRequest{
		PauseFrom: &onlyFrom,
		PauseTo:   &empty,
	})
	if !errors.Is(err, subscriptiondomain.ErrInvalidPauseWindow) {
		t.Errorf("half-open window: got %v", err)
	}

	// Inverted window is rejected.
	badFrom, badTo := "2024-03-10", "2024-03-01"
	_, err = svc.Override(context.Background(), id, subscriptiondomain.OverrideRequest{
		PauseFrom: &badFrom,
		PauseTo:   &badTo,
	})
	if !errors.Is(err, subscriptiondomain.ErrInvalidPauseWindow) {
		t.Errorf("inverted window: got %v", err)
	}

	// Clearing both ends together succeeds.
	cleared, err := svc.Override(context.Background(), id, subscriptiondomain.OverrideRequest{
		PauseFrom: &empty,
		PauseTo:   &empty,
	})
	if err != nil {
		t.Fatalf("clear window: %v", err)
	}
	if cleared.PauseFrom != nil || cleared.PauseTo != nil {
		t.Error("expected cleared pause window")
	}
}

func TestOverrideRouteDayMustMatchCatalogue(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	insertRoute(t, db, 1, "Porthcawl", "Monday", routeareadomain.SlotAM, "CF36")

	sub, err := svc.Create(context.Background(), subscriptiondomain.CreateSubscriptionRequest{
		CustomerName: "Jo",
		Email:        "jo@example.com",
		Postcode:     "CF36 5AA",
		Frequency:    subscriptiondomain.FrequencyWeekly,
		Reference:    "2024-01-10",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	day := "Friday"
	_, err = svc.Override(context.Background(), sub.ID.String(), subscriptiondomain.OverrideRequest{
		RouteDay: &day,
	})
	if !errors.Is(err, subscriptiondomain.ErrRouteDayMismatch) {
		t.Errorf("catalogue disagreement: got %v", err)
	}

	valid := "Monday"
	if _, err := svc.Override(context.Background(), sub.ID.String(), subscriptiondomain.OverrideRequest{
		RouteDay: &valid,
	}); err != nil {
		t.Errorf("matching day rejected: %v", err)
	}
}

func TestCancelIsSoftAndConflictsOnRepeat(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	insertRoute(t, db, 1, "Porthcawl", "Monday", routeareadomain.SlotAM, "CF36")

	sub, err := svc.Create(context.Background(), subscriptiondomain.CreateSubscriptionRequest{
		CustomerName: "Jo",
		Email:        "jo@example.com",
		Postcode:     "CF36 5AA",
		Frequency:    subscriptiondomain.FrequencyWeekly,
		Reference:    "2024-01-10",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	canceled, err := svc.Cancel(context.Background(), sub.ID.String())
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if canceled.Status != subscriptiondomain.StatusCanceled {
		t.Errorf("status = %s, want canceled", canceled.Status)
	}
	if canceled.NextCollectionDate != nil {
		t.Error("next collection date must be cleared on cancel")
	}

	if _, err := svc.Get(context.Background(), sub.ID.String()); err != nil {
		t.Errorf("canceled subscription must remain readable: %v", err)
	}

	if _, err := svc.Cancel(context.Background(), sub.ID.String()); !errors.Is(err, subscriptiondomain.ErrAlreadyCanceled) {
		t.Errorf("second cancel: got %v", err)
	}
}

func TestListFiltersByStatusAndDueDate(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	insertRoute(t, db, 1, "Porthcawl", "Monday", routeareadomain.SlotAM, "CF36")

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), subscriptiondomain.CreateSubscriptionRequest{
			CustomerName: fmt.Sprintf("Customer %d", i),
			Email:        fmt.Sprintf("c%d@example.com", i),
			Postcode:     "CF36 5AA",
			Frequency:    subscriptiondomain.FrequencyWeekly,
			Reference:    "2024-01-10",
		}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	resp, err := svc.List(context.Background(), subscriptiondomain.ListSubscriptionRequest{
		Status: subscriptiondomain.StatusActive,
		DueOn:  "2024-01-15",
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Items) != 3 {
		t.Errorf("expected 3 due subscriptions, got %d", len(resp.Items))
	}

	_, err = svc.List(context.Background(), subscriptiondomain.ListSubscriptionRequest{
		Status: "bogus",
	})
	if !errors.Is(err, subscriptiondomain.ErrInvalidStatus) {
		t.Errorf("bogus status: got %v", err)
	}
}
