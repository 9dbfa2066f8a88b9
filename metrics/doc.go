// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics registers Prometheus counters for the ticketing service.

All metrics register on the default registry via promauto and are served
by the /metrics endpoint. A nil *Metrics is safe to use; every method is
a no-op on nil, so callers that do not care about observability can pass
nil instead of wiring a registry.

	m := metrics.New()
	m.IncrementVerdict(true)
	m.IncrementPurchase()
*/
package metrics
