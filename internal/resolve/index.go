package resolve

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/johnwards/solarsail/internal/domain"
	"github.com/johnwards/solarsail/internal/hubapi"
)

// Index is a snapshot of a destination collection keyed by one field. The
// first entity wins when several share a key.
type Index struct {
	field string
	byKey map[string]domain.Entity
}

// BuildIndex lists listPath on the destination and indexes it by field. A
// positive limit is passed through as the page size.
func BuildIndex(ctx context.Context, api Getter, listPath, field string, limit int) (*Index, error) {
	var q url.Values
	if limit > 0 {
		q = url.Values{}
		q.Set("limit", strconv.Itoa(limit))
	}
	resp, err := api.Get(ctx, listPath, hubapi.Destination, q)
	if err != nil {
		return nil, fmt.Errorf("list destination %s: %w", listPath, err)
	}
	return NewIndex(field, resp.Objects()), nil
}

// NewIndex indexes entities by field.
func NewIndex(field string, entities []domain.Entity) *Index {
	idx := &Index{field: field, byKey: make(map[string]domain.Entity, len(entities))}
	for _, e := range entities {
		idx.Add(e)
	}
	return idx
}

// Add inserts e unless its key is empty or already taken.
func (i *Index) Add(e domain.Entity) {
	key := e.String(i.field)
	if key == "" {
		return
	}
	if _, ok := i.byKey[key]; !ok {
		i.byKey[key] = e
	}
}

// Find returns the entity whose field equals key.
func (i *Index) Find(key string) (domain.Entity, error) {
	if e, ok := i.byKey[key]; ok && key != "" {
		return e, nil
	}
	return nil, fmt.Errorf("%s %q: %w", i.field, key, ErrNotFound)
}

// Len returns the number of indexed keys.
func (i *Index) Len() int {
	return len(i.byKey)
}
