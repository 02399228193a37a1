package bootstrap

import "context"

// AuditLog is one operational audit entry, such as a server shutdown.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger records operational events that should survive in the audit
// trail even when regular request logging is sampled or dropped.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
