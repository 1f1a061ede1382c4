package store

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a requested object does not exist.
	ErrNotFound = errors.New("object not found")
	// ErrConflict is returned when a unique constraint is violated.
	ErrConflict = errors.New("conflict")
)

// now returns the current UTC time formatted as a HubSpot-compatible timestamp.
func now() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000Z")
}

// likeEscaper escapes LIKE wildcards so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
