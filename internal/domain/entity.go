package domain

import (
	"encoding/json"
	"strconv"
)

// DefaultLanguage is assumed for content that carries no language field.
const DefaultLanguage = "en-us"

// Entity is a content object exactly as the content API returns it: a map of
// field name to JSON value. Numbers are kept as json.Number when decoded by
// the hubapi client so large ids survive a round trip unchanged.
type Entity map[string]any

// ID returns the entity's own id, or 0 when it has none.
func (e Entity) ID() int64 {
	id, _ := Int64(e["id"])
	return id
}

// TranslatedFromID returns the same-portal id of the entity this one is a
// translation of, or 0 for primary-language content.
func (e Entity) TranslatedFromID() int64 {
	id, _ := Int64(e["translated_from_id"])
	return id
}

// Language returns the entity's language, falling back to DefaultLanguage.
func (e Entity) Language() string {
	if lang := e.String("language"); lang != "" {
		return lang
	}
	return DefaultLanguage
}

// Name returns the "name" field.
func (e Entity) Name() string {
	return e.String("name")
}

// String returns the field as a string. Numbers are formatted; anything else
// yields "".
func (e Entity) String(key string) string {
	switch v := e[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

// Object returns a nested JSON object field, or nil.
func (e Entity) Object(key string) Entity {
	switch v := e[key].(type) {
	case map[string]any:
		return Entity(v)
	case Entity:
		return v
	default:
		return nil
	}
}

// Clone returns a deep copy of e. Nested objects and arrays are copied so a
// payload built from a snapshot never aliases the snapshot.
func (e Entity) Clone() Entity {
	if e == nil {
		return nil
	}
	out := make(Entity, len(e))
	for k, v := range e {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(Entity(t).Clone())
	case Entity:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// Int64 converts a decoded JSON value into an int64. It accepts json.Number,
// float64, the Go integer types and numeric strings.
func Int64(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return int64(f), true
	case float64:
		return int64(t), true
	case int64:
		return t, true
	case int:
		return int64(t), true
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
