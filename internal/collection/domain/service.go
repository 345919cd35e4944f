package domain

import (
	"context"
	"errors"

	"github.com/othomas555/arocwaste/internal/calendar"
)

// Service records and reverses collection events. Each operation is a single
// atomic write: the ledger change and the subscription date change commit
// together or not at all.
type Service interface {
	Record(ctx context.Context, subscriptionID string, collected calendar.YMD) (Result, error)
	Undo(ctx context.Context, subscriptionID string) (Result, error)
	History(ctx context.Context, subscriptionID string, limit int) ([]CollectionLogEntry, error)
}

// Result reports the subscription's next collection date after the operation.
type Result struct {
	SubscriptionID     string        `json:"subscription_id"`
	NextCollectionDate *calendar.YMD `json:"next_collection_date,omitempty"`
}

var (
	ErrNoCollectionToUndo = errors.New("no_collection_to_undo")
	ErrNotSchedulable     = errors.New("subscription_not_schedulable")
)
