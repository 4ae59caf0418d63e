package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"item-audit-api/models"
)

// AuditRepository handles audit log persistence. The table is append-only:
// Create is the only write and entries are never updated or deleted.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLogEntry) error
	List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLogEntry, error)
}

type sqliteAuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &sqliteAuditRepository{db: db}
}

// Create inserts a new audit log entry synchronously, committing before it
// returns. Callers depend on the entry being durable once this succeeds.
func (r *sqliteAuditRepository) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	query := `
		INSERT INTO audit_log (method, path, timestamp, request_body, response_body, status_code, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		entry.Method,
		entry.Path,
		entry.Timestamp,
		entry.RequestBody,
		entry.ResponseBody,
		entry.StatusCode,
		entry.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}

	entry.ID = id
	return nil
}

// List retrieves audit log entries matching the filter. All set filters are
// exact-match and combined with AND; an empty filter returns everything.
func (r *sqliteAuditRepository) List(ctx context.Context, filter models.AuditLogFilter) ([]models.AuditLogEntry, error) {
	query := `
		SELECT id, method, path, timestamp, request_body, response_body, status_code, user_id
		FROM audit_log
	`

	var conditions []string
	var args []any

	if filter.Path != "" {
		conditions = append(conditions, "path = ?")
		args = append(args, filter.Path)
	}
	if filter.Method != "" {
		conditions = append(conditions, "method = ?")
		args = append(args, filter.Method)
	}
	if filter.StatusCode != nil {
		conditions = append(conditions, "status_code = ?")
		args = append(args, *filter.StatusCode)
	}
	if filter.UserID != nil {
		conditions = append(conditions, "user_id = ?")
		args = append(args, *filter.UserID)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditLogEntry
	for rows.Next() {
		var entry models.AuditLogEntry
		var requestBody, responseBody sql.NullString
		var userID sql.NullInt64

		err := rows.Scan(
			&entry.ID,
			&entry.Method,
			&entry.Path,
			&entry.Timestamp,
			&requestBody,
			&responseBody,
			&entry.StatusCode,
			&userID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log entry: %w", err)
		}

		// Convert NULL values to empty string/nil
		if requestBody.Valid {
			entry.RequestBody = requestBody.String
		}
		if responseBody.Valid {
			entry.ResponseBody = responseBody.String
		}
		if userID.Valid {
			entry.UserID = &userID.Int64
		}

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit log entries: %w", err)
	}

	return entries, nil
}
