package ingest

import "log/slog"

type ResolverOption func(r *Resolver)

// WithResolverLogger specifies the logger for the resolver
func WithResolverLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = l
	}
}

type CollectorOption func(c *Collector)

// WithCollectorLogger specifies the logger for the collector
func WithCollectorLogger(l *slog.Logger) CollectorOption {
	return func(c *Collector) {
		c.logger = l
	}
}
