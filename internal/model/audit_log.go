package model

import "time"

// AuditActor identifies who performed an audited action.
type AuditActor struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Email string `json:"email"`
}

// AuditLogEntry is an append-only record produced by the exeat API on every
// transition or role change. The portal only reads it.
type AuditLogEntry struct {
	ID         int64      `json:"id"`
	Actor      AuditActor `json:"actor"`
	Action     string     `json:"action"`
	TargetType string     `json:"target_type"`
	TargetID   int64      `json:"target_id"`
	Details    string     `json:"details,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}
