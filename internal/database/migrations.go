package database

// migrations is an ordered list of SQL migration groups. Each entry is a slice
// of SQL statements that are executed together in a single transaction. The
// version number is the 1-based index into this slice.
var migrations = [][]string{
	// Migration 1: content tables
	{
		// Every content kind shares one table. body holds the JSON document
		// without id and portal fields, which are added on read. parent_id is
		// the owning HubDB table for rows.
		`CREATE TABLE content_objects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			portal_id INTEGER NOT NULL,
			kind TEXT NOT NULL,
			parent_id INTEGER,
			name TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_content_portal_kind ON content_objects(portal_id, kind, name)`,
		`CREATE INDEX idx_content_parent ON content_objects(parent_id)`,

		`CREATE TABLE request_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			method TEXT NOT NULL,
			path TEXT NOT NULL,
			portal_id INTEGER,
			status_code INTEGER NOT NULL,
			request_body TEXT,
			response_body TEXT,
			duration_ms INTEGER,
			correlation_id TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_request_log_time ON request_log(created_at)`,
	},
}
