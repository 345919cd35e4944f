package domain

import "context"

// Service records audit entries. Failures to audit are logged by callers but
// never fail the audited operation itself.
type Service interface {
	AuditLog(ctx context.Context, action, targetType string, targetID *string, metadata map[string]any) error
	List(ctx context.Context, filter ListFilter) ([]*AuditLog, error)
}

// ListFilter narrows the audit trail view.
type ListFilter struct {
	Action     string
	TargetType string
	TargetID   string
	Limit      int
}
