package model

import "time"

// AuditAction identifies the kind of write operation recorded.
type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
)

// AuditRecord captures the outcome of a single console write operation.
// Only operation metadata is persisted; entities themselves never are.
type AuditRecord struct {
	ID       string      `json:"id"`
	Entity   string      `json:"entity"`
	EntityID string      `json:"entity_id"`
	Cluster  string      `json:"cluster"`
	Action   AuditAction `json:"action"`
	Actor    string      `json:"actor"`
	Success  bool        `json:"success"`
	Error    string      `json:"error,omitempty"`
	At       time.Time   `json:"at"`
}
