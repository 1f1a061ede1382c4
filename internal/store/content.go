package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/johnwards/solarsail/internal/domain"
)

// DefaultListLimit is the page size used when a list request names none.
const DefaultListLimit = 20

// Filter narrows a content listing. Zero values match everything.
type Filter struct {
	Limit  int
	Offset int

	// NameContains matches the kind's name field case-insensitively.
	NameContains string
	// Languages matches any of the listed languages.
	Languages []string
	// ParentID restricts HubDB rows to one table.
	ParentID int64
}

// ContentStore defines the interface for content persistence. Every call is
// scoped to one portal; ids are unique across portals.
type ContentStore interface {
	List(ctx context.Context, portalID int64, kind domain.Kind, f Filter) ([]domain.Entity, int64, error)
	Get(ctx context.Context, portalID int64, kind domain.Kind, id int64) (domain.Entity, error)
	FindByName(ctx context.Context, portalID int64, kind domain.Kind, name string) (domain.Entity, error)
	Create(ctx context.Context, portalID int64, kind domain.Kind, parentID int64, body domain.Entity) (domain.Entity, error)
	Delete(ctx context.Context, portalID int64, kind domain.Kind, id int64) error
	Count(ctx context.Context, portalID int64) (int64, error)
}

// uniqueNames lists the kinds whose name field must be unique per portal.
var uniqueNames = map[domain.Kind]bool{
	domain.KindTemplate:   true,
	domain.KindHubDBTable: true,
}

// SQLiteContentStore implements ContentStore backed by SQLite.
type SQLiteContentStore struct {
	db *sql.DB
}

// NewSQLiteContentStore creates a new SQLiteContentStore.
func NewSQLiteContentStore(db *sql.DB) *SQLiteContentStore {
	return &SQLiteContentStore{db: db}
}

// Create stores body as a new object of kind in the portal. Any id or portal
// field in body is discarded and replaced by the stored values.
func (s *SQLiteContentStore) Create(ctx context.Context, portalID int64, kind domain.Kind, parentID int64, body domain.Entity) (domain.Entity, error) {
	doc := body.Clone()
	if doc == nil {
		doc = domain.Entity{}
	}
	delete(doc, "id")
	delete(doc, kind.PortalField())

	name := doc.String(kind.NameField())
	if uniqueNames[kind] && name != "" {
		_, err := s.FindByName(ctx, portalID, kind, name)
		if err == nil {
			return nil, fmt.Errorf("%s %q already exists: %w", kind, name, ErrConflict)
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}

	var parent any
	if parentID != 0 {
		parent = parentID
	}
	ts := now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO content_objects (portal_id, kind, parent_id, name, language, body, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		portalID, string(kind), parent, name, doc.Language(), string(raw), ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", kind, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return withIdentity(doc, kind, id, portalID), nil
}

// Get retrieves a single object by id.
func (s *SQLiteContentStore) Get(ctx context.Context, portalID int64, kind domain.Kind, id int64) (domain.Entity, error) {
	return s.scanOne(ctx, kind,
		`SELECT id, portal_id, body FROM content_objects WHERE portal_id = ? AND kind = ? AND id = ?`,
		portalID, string(kind), id,
	)
}

// FindByName returns the oldest object whose name field equals name exactly.
func (s *SQLiteContentStore) FindByName(ctx context.Context, portalID int64, kind domain.Kind, name string) (domain.Entity, error) {
	return s.scanOne(ctx, kind,
		`SELECT id, portal_id, body FROM content_objects WHERE portal_id = ? AND kind = ? AND name = ? ORDER BY id ASC LIMIT 1`,
		portalID, string(kind), name,
	)
}

// List returns one page of objects in id order together with the total
// number of matches.
func (s *SQLiteContentStore) List(ctx context.Context, portalID int64, kind domain.Kind, f Filter) ([]domain.Entity, int64, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	where := ` WHERE portal_id = ? AND kind = ?`
	args := []any{portalID, string(kind)}

	if f.NameContains != "" {
		where += ` AND name LIKE ? ESCAPE '\'`
		args = append(args, "%"+likeEscaper.Replace(f.NameContains)+"%")
	}
	if len(f.Languages) > 0 {
		where += ` AND language IN (?` + strings.Repeat(`, ?`, len(f.Languages)-1) + `)`
		for _, l := range f.Languages {
			args = append(args, l)
		}
	}
	if f.ParentID != 0 {
		where += ` AND parent_id = ?`
		args = append(args, f.ParentID)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM content_objects`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", kind, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, portal_id, body FROM content_objects`+where+` ORDER BY id ASC LIMIT ? OFFSET ?`,
		append(args, f.Limit, f.Offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", kind, err)
	}
	defer func() { _ = rows.Close() }()

	objects := make([]domain.Entity, 0)
	for rows.Next() {
		e, err := scanEntity(rows.Scan, kind)
		if err != nil {
			return nil, 0, err
		}
		objects = append(objects, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration: %w", err)
	}
	return objects, total, nil
}

// Delete removes an object and anything parented to it.
func (s *SQLiteContentStore) Delete(ctx context.Context, portalID int64, kind domain.Kind, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM content_objects WHERE portal_id = ? AND kind = ? AND id = ?`,
		portalID, string(kind), id,
	)
	if err != nil {
		return fmt.Errorf("delete %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM content_objects WHERE portal_id = ? AND parent_id = ?`, portalID, id); err != nil {
		return fmt.Errorf("delete children of %s %d: %w", kind, id, err)
	}
	return nil
}

// Count returns the number of objects of any kind in the portal.
func (s *SQLiteContentStore) Count(ctx context.Context, portalID int64) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM content_objects WHERE portal_id = ?`, portalID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count content: %w", err)
	}
	return n, nil
}

func (s *SQLiteContentStore) scanOne(ctx context.Context, kind domain.Kind, query string, args ...any) (domain.Entity, error) {
	e, err := scanEntity(s.db.QueryRowContext(ctx, query, args...).Scan, kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

func scanEntity(scan func(dest ...any) error, kind domain.Kind) (domain.Entity, error) {
	var (
		id, portalID int64
		raw          string
	)
	if err := scan(&id, &portalID, &raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan %s: %w", kind, err)
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var doc domain.Entity
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode %s %d: %w", kind, id, err)
	}
	return withIdentity(doc, kind, id, portalID), nil
}

func withIdentity(doc domain.Entity, kind domain.Kind, id, portalID int64) domain.Entity {
	if doc == nil {
		doc = domain.Entity{}
	}
	doc["id"] = id
	doc[kind.PortalField()] = portalID
	return doc
}
