package migrate_test

import (
	"github.com/johnwards/solarsail/internal/resolve"
)

func exactStrategy(h *harness) resolve.Strategy {
	s, err := resolve.StrategyByName("exact", h.client)
	if err != nil {
		h.t.Fatalf("strategy: %v", err)
	}
	return s
}
