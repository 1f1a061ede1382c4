package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingCredentials is returned by Validate when either API key is unset.
var ErrMissingCredentials = errors.New("HAPI_KEY_SOURCE and HAPI_KEY_DESTINATION must both be set (a .env file in the working directory works)")

// Config holds migration settings loaded from .env files and the environment.
type Config struct {
	BaseURL         string        // SOLARSAIL_BASE_URL, default "https://api.hubapi.com/"
	SourceKey       string        // HAPI_KEY_SOURCE, required
	DestinationKey  string        // HAPI_KEY_DESTINATION, required
	RequestInterval time.Duration // SOLARSAIL_REQUEST_INTERVAL, default 105ms
	HTTPTimeout     time.Duration // SOLARSAIL_HTTP_TIMEOUT, default none
	PageLimit       int           // SOLARSAIL_PAGE_LIMIT, default 20000
	PostLimit       int           // SOLARSAIL_POST_LIMIT, default 200
	DefaultAuthor   string        // SOLARSAIL_DEFAULT_AUTHOR, optional
	Match           string        // SOLARSAIL_MATCH, "fuzzy" or "exact", default "fuzzy"
	LogLevel        string        // SOLARSAIL_LOG_LEVEL, default "warn"

	// ForbiddenPortals extends the built-in production denylist.
	ForbiddenPortals []int64 // SOLARSAIL_FORBIDDEN_PORTALS, comma separated
}

// Load reads the given .env files (".env" when none are named) into the
// process environment without overriding variables already set, then builds
// a Config from the environment. A missing .env file is not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	interval, err := envDuration("SOLARSAIL_REQUEST_INTERVAL", 105*time.Millisecond)
	if err != nil {
		return Config{}, err
	}
	timeout, err := envDuration("SOLARSAIL_HTTP_TIMEOUT", 0)
	if err != nil {
		return Config{}, err
	}
	pageLimit, err := envInt("SOLARSAIL_PAGE_LIMIT", 20000)
	if err != nil {
		return Config{}, err
	}
	postLimit, err := envInt("SOLARSAIL_POST_LIMIT", 200)
	if err != nil {
		return Config{}, err
	}
	forbidden, err := parseIDs(os.Getenv("SOLARSAIL_FORBIDDEN_PORTALS"))
	if err != nil {
		return Config{}, fmt.Errorf("SOLARSAIL_FORBIDDEN_PORTALS: %w", err)
	}

	return Config{
		BaseURL:          envOr("SOLARSAIL_BASE_URL", "https://api.hubapi.com/"),
		SourceKey:        os.Getenv("HAPI_KEY_SOURCE"),
		DestinationKey:   os.Getenv("HAPI_KEY_DESTINATION"),
		RequestInterval:  interval,
		HTTPTimeout:      timeout,
		PageLimit:        pageLimit,
		PostLimit:        postLimit,
		DefaultAuthor:    os.Getenv("SOLARSAIL_DEFAULT_AUTHOR"),
		Match:            envOr("SOLARSAIL_MATCH", "fuzzy"),
		LogLevel:         envOr("SOLARSAIL_LOG_LEVEL", "warn"),
		ForbiddenPortals: forbidden,
	}, nil
}

// Validate checks the preconditions for running any procedure.
func (c Config) Validate() error {
	if c.SourceKey == "" || c.DestinationKey == "" {
		return ErrMissingCredentials
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
