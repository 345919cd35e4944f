// Package events feeds the outbound notification queue. The engine only ever
// writes here; nothing in this core reads the queue back.
package events

// Operational event types consumed by the notification workers.
const (
	EventSubscriptionCreated   = "subscription.created"
	EventSubscriptionCollected = "subscription.collected"
	EventCollectionUndone      = "subscription.collection_undone"
	EventDailyRunOpened        = "daily_run.opened"
	EventIssueRaised           = "issue.raised"
	EventIssueResolved         = "issue.resolved"
)

// CollectionPayload carries the minimal data a notification needs.
type CollectionPayload struct {
	SubscriptionID string `json:"subscription_id"`
	CollectedDate  string `json:"collected_date,omitempty"`
	NextDate       string `json:"next_date,omitempty"`
}

// ToMap converts the payload into an outbox-friendly map.
func (p CollectionPayload) ToMap() map[string]any {
	payload := map[string]any{
		"subscription_id": p.SubscriptionID,
	}
	if p.CollectedDate != "" {
		payload["collected_date"] = p.CollectedDate
	}
	if p.NextDate != "" {
		payload["next_date"] = p.NextDate
	}
	return payload
}
