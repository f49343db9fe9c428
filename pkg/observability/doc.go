/*
Package observability exports simulator activity as Prometheus metrics.

Metrics plugs into the simulator through domain.LifecycleHooks, so the core
never imports Prometheus:

	m := observability.NewMetrics(prometheus.DefaultRegisterer)
	sim, err := drunkard.New(drunkard.WithLifecycleHooks(m.Hooks()))
*/
package observability
