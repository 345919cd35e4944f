// Package domain contains the append-only collection ledger.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/othomas555/arocwaste/internal/calendar"
)

// CollectionLogEntry is one completed collection event. Entries are never
// mutated: the log is appended to, and on undo the most recent entry is
// removed. PreviousNextCollectionDate is the snapshot undo restores.
type CollectionLogEntry struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	SubscriptionID snowflake.ID `gorm:"not null;index" json:"subscription_id"`

	CollectedDate               calendar.YMD  `gorm:"type:text;not null" json:"collected_date"`
	PreviousNextCollectionDate  *calendar.YMD `gorm:"type:text" json:"previous_next_collection_date,omitempty"`
	ResultingNextCollectionDate calendar.YMD  `gorm:"type:text;not null" json:"resulting_next_collection_date"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (CollectionLogEntry) TableName() string { return "collection_log_entries" }
