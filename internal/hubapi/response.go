package hubapi

import (
	"net/http"

	"github.com/johnwards/solarsail/internal/domain"
)

// Response is a normalized API response. Body holds the decoded JSON object,
// or nil when the body was empty or not a JSON object, in which case Raw
// holds whatever was returned.
type Response struct {
	Status int
	Body   domain.Entity
	Raw    []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// Failed reports whether the API rejected the call, either with a non-2xx
// status or with an error envelope ({"status": "error"}).
func (r *Response) Failed() bool {
	if r == nil {
		return true
	}
	if !r.OK() {
		return true
	}
	return r.Body != nil && r.Body.String("status") == "error"
}

// Message returns the API's error message, or a generic description of the
// status when the body carries none.
func (r *Response) Message() string {
	if r == nil {
		return "no response"
	}
	if msg := r.Body.String("message"); msg != "" {
		return msg
	}
	if text := http.StatusText(r.Status); text != "" {
		return text
	}
	return "unexpected response"
}

// Entity returns the body as a single entity.
func (r *Response) Entity() domain.Entity {
	if r == nil {
		return nil
	}
	return r.Body
}

// ID returns the id of the entity in the body, or 0.
func (r *Response) ID() int64 {
	if r == nil {
		return 0
	}
	return r.Body.ID()
}

// Objects returns the "objects" array of a list response. Non-object items
// are ignored.
func (r *Response) Objects() []domain.Entity {
	if r == nil || r.Body == nil {
		return nil
	}
	raw, ok := r.Body["objects"].([]any)
	if !ok {
		return nil
	}
	out := make([]domain.Entity, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, domain.Entity(m))
		}
	}
	return out
}

// Total returns the "total" field of a list response. ok is false when the
// response carries no total.
func (r *Response) Total() (total int64, ok bool) {
	if r == nil || r.Body == nil {
		return 0, false
	}
	return domain.Int64(r.Body["total"])
}
