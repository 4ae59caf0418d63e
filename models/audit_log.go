package models

import "time"

// AuditLogEntry represents one recorded HTTP exchange.
// Entries are append-only: the middleware inserts exactly one per request
// and nothing ever updates or deletes them.
type AuditLogEntry struct {
	ID           int64     `json:"id" db:"id"`
	Method       string    `json:"method" db:"method"`
	Path         string    `json:"path" db:"path"`
	Timestamp    time.Time `json:"timestamp" db:"timestamp"`
	RequestBody  string    `json:"request_body" db:"request_body"`
	ResponseBody string    `json:"response_body" db:"response_body"`
	StatusCode   int       `json:"status_code" db:"status_code"`
	UserID       *int64    `json:"user_id" db:"user_id"`
}

// AuditLogFilter holds the optional exact-match filters for listing audit
// entries. Zero values mean "not set"; set filters are combined with AND.
type AuditLogFilter struct {
	Path       string
	Method     string
	StatusCode *int
	UserID     *int64
}
