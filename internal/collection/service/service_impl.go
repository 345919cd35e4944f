package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/othomas555/arocwaste/internal/calendar"
	collectiondomain "github.com/othomas555/arocwaste/internal/collection/domain"
	"github.com/othomas555/arocwaste/internal/events"
	"github.com/othomas555/arocwaste/internal/recurrence"
	subscriptiondomain "github.com/othomas555/arocwaste/internal/subscription/domain"
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

func NewService(p ServiceParam) collectiondomain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("collection.service"),
		genID:  p.GenID,
		outbox: p.Outbox,
	}
}

// Record appends a ledger entry and advances the subscription's next
// collection date in one transaction. The new cycle is anchored on the actual
// collection date, not the previously scheduled one: a late or early
// collection deliberately re-bases the cycle going forward.
func (s *Service) Record(ctx context.Context, subscriptionID string, collected calendar.YMD) (collectiondomain.Result, error) {
	subID, err := parseID(subscriptionID)
	if err != nil {
		return collectiondomain.Result{}, subscriptiondomain.ErrSubscriptionNotFound
	}
	if _, err := calendar.Parse(string(collected)); err != nil {
		return collectiondomain.Result{}, err
	}

	var result collectiondomain.Result
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub subscriptiondomain.Subscription
		if err := tx.First(&sub, "id = ?", subID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return subscriptiondomain.ErrSubscriptionNotFound
			}
			return err
		}
		if !sub.Status.CountsForScheduling() {
			return collectiondomain.ErrNotSchedulable
		}

		dayAfter, err := calendar.AddDays(collected, 1)
		if err != nil {
			return err
		}
		next, err := recurrence.NextDue(collected, sub.Frequency.Days(), dayAfter)
		if err != nil {
			return err
		}

		entry := collectiondomain.CollectionLogEntry{
			ID:                          s.genID.Generate(),
			SubscriptionID:              sub.ID,
			CollectedDate:               collected,
			PreviousNextCollectionDate:  sub.NextCollectionDate,
			ResultingNextCollectionDate: next,
			CreatedAt:                   time.Now().UTC(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		if err := tx.Model(&subscriptiondomain.Subscription{}).
			Where("id = ?", sub.ID).
			Updates(map[string]any{
				"next_collection_date": next,
				"updated_at":           time.Now().UTC(),
			}).Error; err != nil {
			return err
		}

		if err := s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventSubscriptionCollected,
			Payload: events.CollectionPayload{
				SubscriptionID: sub.ID.String(),
				CollectedDate:  string(collected),
				NextDate:       string(next),
			}.ToMap(),
			DedupeKey: fmt.Sprintf("collected:%s:%s", sub.ID, entry.ID),
		}); err != nil {
			return err
		}

		result = collectiondomain.Result{
			SubscriptionID:     sub.ID.String(),
			NextCollectionDate: &next,
		}
		return nil
	})
	if err != nil {
		return collectiondomain.Result{}, err
	}

	s.log.Info("collection recorded",
		zap.String("subscription_id", result.SubscriptionID),
		zap.String("collected_date", string(collected)),
	)
	return result, nil
}

// Undo removes the most recent ledger entry and restores the snapshot it
// carried. Record followed immediately by Undo leaves the subscription's next
// collection date byte-identical to its prior value.
func (s *Service) Undo(ctx context.Context, subscriptionID string) (collectiondomain.Result, error) {
	subID, err := parseID(subscriptionID)
	if err != nil {
		return collectiondomain.Result{}, subscriptiondomain.ErrSubscriptionNotFound
	}

	var result collectiondomain.Result
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sub subscriptiondomain.Subscription
		if err := tx.First(&sub, "id = ?", subID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return subscriptiondomain.ErrSubscriptionNotFound
			}
			return err
		}

		var entry collectiondomain.CollectionLogEntry
		err := tx.Where("subscription_id = ?", sub.ID).
			Order("created_at DESC, id DESC").
			First(&entry).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return collectiondomain.ErrNoCollectionToUndo
			}
			return err
		}

		if err := tx.Delete(&collectiondomain.CollectionLogEntry{}, "id = ?", entry.ID).Error; err != nil {
			return err
		}

		if err := tx.Model(&subscriptiondomain.Subscription{}).
			Where("id = ?", sub.ID).
			Updates(map[string]any{
				"next_collection_date": entry.PreviousNextCollectionDate,
				"updated_at":           time.Now().UTC(),
			}).Error; err != nil {
			return err
		}

		if err := s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventCollectionUndone,
			Payload: events.CollectionPayload{
				SubscriptionID: sub.ID.String(),
				CollectedDate:  string(entry.CollectedDate),
			}.ToMap(),
			DedupeKey: fmt.Sprintf("undo:%s:%s", sub.ID, entry.ID),
		}); err != nil {
			return err
		}

		result = collectiondomain.Result{
			SubscriptionID:     sub.ID.String(),
			NextCollectionDate: entry.PreviousNextCollectionDate,
		}
		return nil
	})
	if err != nil {
		return collectiondomain.Result{}, err
	}

	s.log.Info("collection undone", zap.String("subscription_id", result.SubscriptionID))
	return result, nil
}

func (s *Service) History(ctx context.Context, subscriptionID string, limit int) ([]collectiondomain.CollectionLogEntry, error) {
	subID, err := parseID(subscriptionID)
	if err != nil {
		return nil, subscriptiondomain.ErrSubscriptionNotFound
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var entries []collectiondomain.CollectionLogEntry
	err = s.db.WithContext(ctx).
		Where("subscription_id = ?", subID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func parseID(id string) (snowflake.ID, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid_id")
	}
	return snowflake.ID(parsed), nil
}
