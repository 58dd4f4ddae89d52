package provider

import (
	"fmt"
	"sort"

	"scholarpay/config"
	"scholarpay/internal/core/domain"
	"scholarpay/internal/core/ports"

	"github.com/shopspring/decimal"
)

// Registry holds the configured provider adapters, immutable after
// construction. Iteration order is the configured failover priority.
type Registry struct {
	byName  map[string]ports.ProviderAdapter
	ordered []ports.ProviderAdapter
}

// Build constructs a Registry from configuration. Unknown provider names and
// enabled providers with no base URL are configuration errors, not runtime
// conditions.
func Build(cfgs map[string]config.ProviderConfig) (*Registry, error) {
	type entry struct {
		adapter  ports.ProviderAdapter
		priority int
	}

	var entries []entry
	for name, cfg := range cfgs {
		if !cfg.Enabled {
			continue
		}
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("provider %q: base_url is required", name)
		}

		var adapter ports.ProviderAdapter
		switch name {
		case "stripe":
			adapter = NewStripe(cfg)
		case "adyen":
			adapter = NewAdyen(cfg)
		case "paystack":
			adapter = NewPaystack(cfg)
		default:
			return nil, fmt.Errorf("provider %q: no adapter implementation", name)
		}
		entries = append(entries, entry{adapter: adapter, priority: cfg.Priority})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].priority < entries[j].priority
	})

	r := &Registry{byName: make(map[string]ports.ProviderAdapter, len(entries))}
	for _, e := range entries {
		r.byName[e.adapter.Name()] = e.adapter
		r.ordered = append(r.ordered, e.adapter)
	}
	return r, nil
}

// NewRegistry builds a registry from already-constructed adapters, in the
// given failover order. Used by tests and by callers that wire adapters
// manually.
func NewRegistry(adapters ...ports.ProviderAdapter) *Registry {
	r := &Registry{byName: make(map[string]ports.ProviderAdapter, len(adapters))}
	for _, a := range adapters {
		r.byName[a.Name()] = a
		r.ordered = append(r.ordered, a)
	}
	return r
}

// Get returns the adapter for a provider name, or nil if not configured.
func (r *Registry) Get(name string) ports.ProviderAdapter {
	return r.byName[name]
}

// InOrder returns the adapters in failover priority order. The returned
// slice is a copy; the registry itself never changes.
func (r *Registry) InOrder() []ports.ProviderAdapter {
	out := make([]ports.ProviderAdapter, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// capabilityFromConfig parses the static capability block of one provider.
// Malformed amount bounds collapse to zero (no bound).
func capabilityFromConfig(cfg config.ProviderConfig) domain.Capability {
	minAmount, err := decimal.NewFromString(cfg.MinAmount)
	if err != nil {
		minAmount = decimal.Zero
	}
	maxAmount, err := decimal.NewFromString(cfg.MaxAmount)
	if err != nil {
		maxAmount = decimal.Zero
	}
	return domain.Capability{
		Currencies: cfg.Currencies,
		Methods:    cfg.Methods,
		MinAmount:  minAmount,
		MaxAmount:  maxAmount,
	}
}
