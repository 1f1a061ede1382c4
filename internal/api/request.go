package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/johnwards/solarsail/internal/domain"
	"github.com/johnwards/solarsail/internal/store"
)

// ListFilter reads the content API list parameters: limit, offset,
// name__icontains and language__in.
func ListFilter(r *http.Request) store.Filter {
	q := r.URL.Query()
	f := store.Filter{Limit: store.DefaultListLimit}

	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			f.Offset = n
		}
	}
	f.NameContains = q.Get("name__icontains")
	if v := q.Get("language__in"); v != "" {
		for _, lang := range strings.Split(v, ",") {
			if lang = strings.TrimSpace(lang); lang != "" {
				f.Languages = append(f.Languages, lang)
			}
		}
	}
	return f
}

// PathID parses the named path value as an object id.
func PathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// DecodeEntity reads a JSON object request body. Numbers stay json.Number.
func DecodeEntity(r *http.Request) (domain.Entity, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var e domain.Entity
	if err := dec.Decode(&e); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if e == nil {
		return nil, fmt.Errorf("request body must be a JSON object")
	}
	return e, nil
}

// WriteList writes a page of entities in the content API list envelope.
func WriteList(w http.ResponseWriter, objects []domain.Entity, total int64, f store.Filter) {
	out := make([]any, len(objects))
	for i, o := range objects {
		out[i] = o
	}
	WriteJSON(w, http.StatusOK, ListResponse{
		Objects: out,
		Total:   total,
		Limit:   f.Limit,
		Offset:  f.Offset,
	})
}
