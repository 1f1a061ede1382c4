package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON marshals v as JSON and writes it to w with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

// ListResponse is the offset-paginated envelope of the legacy content API.
type ListResponse struct {
	Objects []any `json:"objects"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
}

// Paging represents cursor-based pagination info in sandbox admin responses.
type Paging struct {
	Next *PagingNext `json:"next,omitempty"`
}

// PagingNext holds the cursor for the next page.
type PagingNext struct {
	After string `json:"after"`
}
