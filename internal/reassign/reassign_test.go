package reassign

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/othomas555/arocwaste/internal/cache"
	"github.com/othomas555/arocwaste/internal/calendar"
	routeareadomain "github.com/othomas555/arocwaste/internal/routearea/domain"
	routeareaservice "github.com/othomas555/arocwaste/internal/routearea/service"
	subscriptiondomain "github.com/othomas555/arocwaste/internal/subscription/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupBatch(t *testing.T) (*gorm.DB, *Batch) {
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
	batch := NewBatch(BatchParam{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		RouteSvc: routeSvc,
	})
	return db, batch
}

func insertRoute(t *testing.T, db *gorm.DB, id int64, area, weekday string, prefixes string) {
	t.Helper()
	now := time.Now().UTC()
	route := routeareadomain.RouteArea{
		ID:        snowflake.ID(id),
		Area:      area,
		Weekday:   weekday,
		Slot:      routeareadomain.SlotAM,
		Prefixes:  prefixes,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(&route).Error; err != nil {
		t.Fatalf("insert route: %v", err)
	}
}

func insertSub(t *testing.T, db *gorm.DB, id int64, postcode string, routeArea *string) {
	t.Helper()
	now := time.Now().UTC()
	sub := subscriptiondomain.Subscription{
		ID:           snowflake.ID(id),
		CustomerName: "Customer",
		Email:        "c@example.com",
		Address:      "1 High St",
		Postcode:     postcode,
		Frequency:    subscriptiondomain.FrequencyWeekly,
		Status:       subscriptiondomain.StatusActive,
		RouteArea:    routeArea,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if routeArea != nil {
		day := "Monday"
		slot := routeareadomain.SlotAM
		sub.RouteDay = &day
		sub.RouteSlot = &slot
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("insert subscription: %v", err)
	}
}

func TestRunAssignsUnroutedSubscriptions(t *testing.T) {
	db, batch := setupBatch(t)
	insertRoute(t, db, 1, "Porthcawl", "Monday", "CF36")
	insertSub(t, db, 10, "CF36 5AA", nil)
	insertSub(t, db, 11, "SW1A 1AA", nil)

	report, err := batch.Run(context.Background(), Options{Reference: "2024-01-10"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Scanned != 2 || report.Updated != 1 || report.NoMatch != 1 {
		t.Errorf("report = %+v, want 1 updated and 1 no_match", report)
	}

	var sub subscriptiondomain.Subscription
	if err := db.First(&sub, "id = ?", 10).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if sub.RouteArea == nil || *sub.RouteArea != "Porthcawl" {
		t.Errorf("route area = %v, want Porthcawl", sub.RouteArea)
	}
	if sub.NextCollectionDate == nil || *sub.NextCollectionDate != "2024-01-15" {
		t.Errorf("next date = %v, want 2024-01-15", sub.NextCollectionDate)
	}
}

func TestRunDryRunNeverMutates(t *testing.T) {
	db, batch := setupBatch(t)
	insertRoute(t, db, 1, "Porthcawl", "Monday", "CF36")
	insertSub(t, db, 10, "CF36 5AA", nil)

	report, err := batch.Run(context.Background(), Options{DryRun: true, Reference: "2024-01-10"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Updated != 1 || !report.DryRun {
		t.Errorf("report = %+v, want 1 would-be update", report)
	}
	if len(report.Results) != 1 || report.Results[0].NewRouteArea == nil || *report.Results[0].NewRouteArea != "Porthcawl" {
		t.Errorf("dry run must report the would-be route: %+v", report.Results)
	}

	var sub subscriptiondomain.Subscription
	if err := db.First(&sub, "id = ?", 10).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if sub.RouteArea != nil {
		t.Errorf("dry run wrote route %v", *sub.RouteArea)
	}
}

func TestRunSkipsAssignedWithoutForce(t *testing.T) {
	db, batch := setupBatch(t)
	insertRoute(t, db, 1, "Porthcawl", "Monday", "CF36")
	curated := "Pyle"
	insertSub(t, db, 10, "CF36 5AA", &curated)

	report, err := batch.Run(context.Background(), Options{Reference: "2024-01-10"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Skipped != 1 || report.Updated != 0 {
		t.Errorf("report = %+v, want 1 skipped", report)
	}

	var sub subscriptiondomain.Subscription
	if err := db.First(&sub, "id = ?", 10).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if sub.RouteArea == nil || *sub.RouteArea != "Pyle" {
		t.Errorf("curated route must survive, got %v", sub.RouteArea)
	}
}

func TestRunForceOverwritesAndRecomputesNext(t *testing.T) {
	db, batch := setupBatch(t)
	insertRoute(t, db, 1, "Porthcawl", "Monday", "CF36")
	curated := "Pyle"
	insertSub(t, db, 10, "CF36 5AA", &curated)

	report, err := batch.Run(context.Background(), Options{Force: true, Reference: "2024-01-10"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Updated != 1 {
		t.Errorf("report = %+v, want 1 updated", report)
	}

	var sub subscriptiondomain.Subscription
	if err := db.First(&sub, "id = ?", 10).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if sub.RouteArea == nil || *sub.RouteArea != "Porthcawl" {
		t.Errorf("route = %v, want Porthcawl", sub.RouteArea)
	}
	// Route changed, so the next date recomputes even without RecomputeNext.
	if sub.NextCollectionDate == nil || *sub.NextCollectionDate != "2024-01-15" {
		t.Errorf("next date = %v, want 2024-01-15", sub.NextCollectionDate)
	}
}

func TestRunForceUnchangedRouteKeepsNextDate(t *testing.T) {
	db, batch := setupBatch(t)
	insertRoute(t, db, 1, "Porthcawl", "Monday", "CF36")
	area := "Porthcawl"
	insertSub(t, db, 10, "CF36 5AA", &area)
	existing := calendar.YMD("2024-02-05")
	if err := db.Model(&subscriptiondomain.Subscription{}).
		Where("id = ?", 10).
		Update("next_collection_date", existing).Error; err != nil {
		t.Fatalf("seed next date: %v", err)
	}

	if _, err := batch.Run(context.Background(), Options{Force: true, Reference: "2024-01-10"}); err != nil {
		t.Fatalf("run: %v", err)
	}

	var sub subscriptiondomain.Subscription
	if err := db.First(&sub, "id = ?", 10).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if sub.NextCollectionDate == nil || *sub.NextCollectionDate != existing {
		t.Errorf("unchanged route must keep its next date, got %v", sub.NextCollectionDate)
	}
}

func TestRunHonorsLimit(t *testing.T) {
	db, batch := setupBatch(t)
	insertRoute(t, db, 1, "Porthcawl", "Monday", "CF36")
	for i := int64(10); i < 15; i++ {
		insertSub(t, db, i, "CF36 5AA", nil)
	}

	report, err := batch.Run(context.Background(), Options{Limit: 2, Reference: "2024-01-10"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Scanned != 2 {
		t.Errorf("scanned = %d, want 2", report.Scanned)
	}

	// Re-running picks up the remainder.
	report, err = batch.Run(context.Background(), Options{Limit: MaxLimit + 1, Reference: "2024-01-10"})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if report.Skipped != 2 || report.Updated != 3 {
		t.Errorf("second report = %+v, want remaining 3 updated", report)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	_, batch := setupBatch(t)

	if _, err := batch.Run(context.Background(), Options{Reference: "not-a-date"}); err == nil {
		t.Error("expected error for malformed reference date")
	}
	if _, err := batch.Run(context.Background(), Options{
		Reference: "2024-01-10",
		Statuses:  []subscriptiondomain.SubscriptionStatus{"bogus"},
	}); err == nil {
		t.Error("expected error for unknown status")
	}
}
