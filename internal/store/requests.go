package store

import (
	"context"
	"database/sql"
	"fmt"
)

// RequestLogEntry is one recorded API request.
type RequestLogEntry struct {
	ID            int64  `json:"id"`
	Method        string `json:"method"`
	Path          string `json:"path"`
	PortalID      int64  `json:"portalId,omitempty"`
	StatusCode    int    `json:"statusCode"`
	RequestBody   string `json:"requestBody,omitempty"`
	ResponseBody  string `json:"responseBody,omitempty"`
	DurationMs    int64  `json:"durationMs"`
	CorrelationID string `json:"correlationId,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

// RequestLogStore defines the interface for request log persistence.
type RequestLogStore interface {
	Record(ctx context.Context, e *RequestLogEntry) error
	List(ctx context.Context, limit int, afterID int64) ([]*RequestLogEntry, bool, error)
}

// SQLiteRequestLogStore implements RequestLogStore backed by SQLite.
type SQLiteRequestLogStore struct {
	db *sql.DB
}

// NewSQLiteRequestLogStore creates a new SQLiteRequestLogStore.
func NewSQLiteRequestLogStore(db *sql.DB) *SQLiteRequestLogStore {
	return &SQLiteRequestLogStore{db: db}
}

// Record inserts e and fills in its ID and CreatedAt.
func (s *SQLiteRequestLogStore) Record(ctx context.Context, e *RequestLogEntry) error {
	e.CreatedAt = now()

	var portal any
	if e.PortalID != 0 {
		portal = e.PortalID
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO request_log (method, path, portal_id, status_code, request_body, response_body, duration_ms, correlation_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Method, e.Path, portal, e.StatusCode, e.RequestBody, e.ResponseBody, e.DurationMs, e.CorrelationID, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert request log: %w", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	return nil
}

// List returns entries newest first. A positive afterID continues from an
// earlier page. The boolean reports whether more entries remain.
func (s *SQLiteRequestLogStore) List(ctx context.Context, limit int, afterID int64) ([]*RequestLogEntry, bool, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT id, method, path, COALESCE(portal_id,0), status_code, COALESCE(request_body,''), COALESCE(response_body,''),
			  COALESCE(duration_ms,0), COALESCE(correlation_id,''), created_at
			  FROM request_log`
	args := []any{}

	if afterID > 0 {
		query += " WHERE id < ?"
		args = append(args, afterID)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("query request log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*RequestLogEntry, 0, limit)
	for rows.Next() {
		var e RequestLogEntry
		if err := rows.Scan(&e.ID, &e.Method, &e.Path, &e.PortalID, &e.StatusCode,
			&e.RequestBody, &e.ResponseBody, &e.DurationMs,
			&e.CorrelationID, &e.CreatedAt); err != nil {
			return nil, false, fmt.Errorf("scan request log: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("rows iteration: %w", err)
	}

	hasMore := len(entries) > limit
	if hasMore {
		entries = entries[:limit]
	}
	return entries, hasMore, nil
}
