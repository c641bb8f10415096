package bootstrap

import "context"

// AuditLog is one operator-facing event: process lifecycle, payroll runs.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
