package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/othomas555/arocwaste/internal/calendar"
	collectiondomain "github.com/othomas555/arocwaste/internal/collection/domain"
	"github.com/othomas555/arocwaste/internal/events"
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
		&subscriptiondomain.Subscription{},
		&collectiondomain.CollectionLogEntry{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE IF NOT EXISTS ops_events (
			id BIGINT PRIMARY KEY,
			event_type TEXT NOT NULL,
			payload TEXT,
			dedupe_key TEXT UNIQUE,
			published BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP NOT NULL
		)`,
	).Error; err != nil {
		t.Fatalf("create ops_events: %v", err)
	}
	return db
}

func newTestService(t *testing.T, db *gorm.DB) collectiondomain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	return NewService(ServiceParam{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Outbox: events.NewOutbox(db, node),
	})
}

func insertSubscription(t *testing.T, db *gorm.DB, id int64, status subscriptiondomain.SubscriptionStatus, freq subscriptiondomain.Frequency, next *calendar.YMD) subscriptiondomain.Subscription {
	t.Helper()
	now := time.Now().UTC()
	sub := subscriptiondomain.Subscription{
		ID:                 snowflake.ID(id),
		CustomerName:       "Jo Bowen",
		Email:              "jo@example.com",
		Address:            "1 Esplanade Ave",
		Postcode:           "CF36 5AA",
		Frequency:          freq,
		Status:             status,
		NextCollectionDate: next,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("insert subscription: %v", err)
	}
	return sub
}

func ymd(s string) *calendar.YMD {
	d := calendar.YMD(s)
	return &d
}

func TestRecordReanchorsOnActualCollectionDate(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	// Scheduled for the 13th but collected late on the 15th; the next cycle
	// runs from the actual date, so weekly lands on the 22nd.
	sub := insertSubscription(t, db, 100, subscriptiondomain.StatusActive, subscriptiondomain.FrequencyWeekly, ymd("2024-01-13"))

	result, err := svc.Record(context.Background(), sub.ID.String(), "2024-01-15")
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if result.NextCollectionDate == nil || *result.NextCollectionDate != "2024-01-22" {
		t.Fatalf("next = %v, want 2024-01-22", result.NextCollectionDate)
	}

	var stored subscriptiondomain.Subscription
	if err := db.First(&stored, "id = ?", sub.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.NextCollectionDate == nil || *stored.NextCollectionDate != "2024-01-22" {
		t.Errorf("stored next = %v, want 2024-01-22", stored.NextCollectionDate)
	}

	entries, err := svc.History(context.Background(), sub.ID.String(), 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.CollectedDate != "2024-01-15" {
		t.Errorf("collected date = %s", entry.CollectedDate)
	}
	if entry.PreviousNextCollectionDate == nil || *entry.PreviousNextCollectionDate != "2024-01-13" {
		t.Errorf("previous snapshot = %v, want 2024-01-13", entry.PreviousNextCollectionDate)
	}
	if entry.ResultingNextCollectionDate != "2024-01-22" {
		t.Errorf("resulting = %s, want 2024-01-22", entry.ResultingNextCollectionDate)
	}
}

func TestRecordThenUndoRoundTrips(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	sub := insertSubscription(t, db, 101, subscriptiondomain.StatusActive, subscriptiondomain.FrequencyFortnightly, ymd("2024-01-13"))

	if _, err := svc.Record(context.Background(), sub.ID.String(), "2024-01-15"); err != nil {
		t.Fatalf("record: %v", err)
	}

	result, err := svc.Undo(context.Background(), sub.ID.String())
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if result.NextCollectionDate == nil || *result.NextCollectionDate != "2024-01-13" {
		t.Fatalf("undo next = %v, want the prior 2024-01-13", result.NextCollectionDate)
	}

	var stored subscriptiondomain.Subscription
	if err := db.First(&stored, "id = ?", sub.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.NextCollectionDate == nil || *stored.NextCollectionDate != "2024-01-13" {
		t.Errorf("stored next = %v, want restored 2024-01-13", stored.NextCollectionDate)
	}

	entries, err := svc.History(context.Background(), sub.ID.String(), 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty ledger after undo, got %d entries", len(entries))
	}
}

func TestUndoRestoresNilSnapshot(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	// No scheduled date before the first collection.
	sub := insertSubscription(t, db, 102, subscriptiondomain.StatusActive, subscriptiondomain.FrequencyWeekly, nil)

	if _, err := svc.Record(context.Background(), sub.ID.String(), "2024-01-15"); err != nil {
		t.Fatalf("record: %v", err)
	}

	result, err := svc.Undo(context.Background(), sub.ID.String())
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	if result.NextCollectionDate != nil {
		t.Errorf("expected nil next after undo, got %v", result.NextCollectionDate)
	}
}

func TestUndoLatestEntryOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	sub := insertSubscription(t, db, 103, subscriptiondomain.StatusActive, subscriptiondomain.FrequencyWeekly, ymd("2024-01-08"))

	if _, err := svc.Record(context.Background(), sub.ID.String(), "2024-01-08"); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if _, err := svc.Record(context.Background(), sub.ID.String(), "2024-01-15"); err != nil {
		t.Fatalf("second record: %v", err)
	}

	result, err := svc.Undo(context.Background(), sub.ID.String())
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	// Undoing the second collection restores the date the first one produced.
	if result.NextCollectionDate == nil || *result.NextCollectionDate != "2024-01-15" {
		t.Errorf("next = %v, want 2024-01-15", result.NextCollectionDate)
	}

	entries, err := svc.History(context.Background(), sub.ID.String(), 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 1 || entries[0].CollectedDate != "2024-01-08" {
		t.Errorf("expected only the first entry to remain, got %+v", entries)
	}
}

func TestUndoWithEmptyLedgerConflicts(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	sub := insertSubscription(t, db, 104, subscriptiondomain.StatusActive, subscriptiondomain.FrequencyWeekly, ymd("2024-01-13"))

	_, err := svc.Undo(context.Background(), sub.ID.String())
	if !errors.Is(err, collectiondomain.ErrNoCollectionToUndo) {
		t.Errorf("empty ledger: got %v", err)
	}
}

func TestRecordRejectsNonSchedulableStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)

	for i, status := range []subscriptiondomain.SubscriptionStatus{
		subscriptiondomain.StatusCanceled,
		subscriptiondomain.StatusHold,
		subscriptiondomain.StatusUnpaid,
	} {
		sub := insertSubscription(t, db, int64(200+i), status, subscriptiondomain.FrequencyWeekly, ymd("2024-01-13"))
		_, err := svc.Record(context.Background(), sub.ID.String(), "2024-01-15")
		if !errors.Is(err, collectiondomain.ErrNotSchedulable) {
			t.Errorf("status %s: got %v", status, err)
		}
	}
}

func TestRecordUnknownSubscription(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.Record(context.Background(), "999999", "2024-01-15")
	if !errors.Is(err, subscriptiondomain.ErrSubscriptionNotFound) {
		t.Errorf("unknown id: got %v", err)
	}
}

func TestRecordRejectsMalformedDate(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestService(t, db)
	sub := insertSubscription(t, db, 105, subscriptiondomain.StatusActive, subscriptiondomain.FrequencyWeekly, ymd("2024-01-13"))

	_, err := svc.Record(context.Background(), sub.ID.String(), "15/01/2024")
	if !errors.Is(err, calendar.ErrInvalidDate) {
		t.Errorf("malformed date: got %v", err)
	}
}
