package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// SandboxConfig holds content sandbox settings loaded from environment
// variables.
type SandboxConfig struct {
	Addr   string // SANDBOX_ADDR, default ":8080"
	DBPath string // SANDBOX_DB, default "sandbox.db"

	// Portals maps API keys to portal ids. SANDBOX_PORTALS, formatted
	// "key:portalId,key:portalId", default "source-key:101,destination-key:202".
	Portals map[string]int64

	// SeedPortal receives demo content on startup and reset. SANDBOX_SEED_PORTAL,
	// 0 disables seeding.
	SeedPortal int64
}

// LoadSandbox reads sandbox configuration from environment variables with
// sensible defaults.
func LoadSandbox() (SandboxConfig, error) {
	portals, err := ParsePortals(envOr("SANDBOX_PORTALS", "source-key:101,destination-key:202"))
	if err != nil {
		return SandboxConfig{}, fmt.Errorf("SANDBOX_PORTALS: %w", err)
	}

	var seed int64
	if v := os.Getenv("SANDBOX_SEED_PORTAL"); v != "" {
		seed, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return SandboxConfig{}, fmt.Errorf("SANDBOX_SEED_PORTAL: %w", err)
		}
	}

	return SandboxConfig{
		Addr:       envOr("SANDBOX_ADDR", ":8080"),
		DBPath:     envOr("SANDBOX_DB", "sandbox.db"),
		Portals:    portals,
		SeedPortal: seed,
	}, nil
}

// ParsePortals parses "key:portalId" pairs separated by commas.
func ParsePortals(s string) (map[string]int64, error) {
	portals := make(map[string]int64)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, id, ok := strings.Cut(pair, ":")
		if !ok || key == "" {
			return nil, fmt.Errorf("malformed portal %q (want key:portalId)", pair)
		}
		portalID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("portal %q: %w", pair, err)
		}
		portals[key] = portalID
	}
	if len(portals) == 0 {
		return nil, fmt.Errorf("no portals configured")
	}
	return portals, nil
}
