// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package metrics exports asset registry diagnostics as Prometheus metrics.
//
//	reg := asset.NewRegistry()
//	prometheus.MustRegister(metrics.NewCollector(reg))
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/asset"
)

const namespace = "asset"

// Source is the diagnostics surface of an asset.Registry.
type Source interface {
	Resolvers() []asset.ResolverInfo
	CacheStats() map[asset.ResolverInfo]asset.CacheStats
}

// Collector is a prometheus.Collector reporting per-resolver memory and
// cache statistics. Values are read from the source on every scrape.
type Collector struct {
	src Source

	memory  *prometheus.Desc
	entries *prometheus.Desc
	hits    *prometheus.Desc
	misses  *prometheus.Desc
}

// NewCollector creates a collector for src.
func NewCollector(src Source) *Collector {
	labels := []string{"layer", "resolver"}
	return &Collector{
		src: src,
		memory: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "resolver", "memory_bytes"),
			"Bytes held by the resolver's cache.",
			labels, nil,
		),
		entries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "resolver", "cache_entries"),
			"Number of memoized entries in the resolver's cache.",
			labels, nil,
		),
		hits: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "resolver", "cache_hits_total"),
			"Cache lookups that found an entry.",
			labels, nil,
		),
		misses: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "resolver", "cache_misses_total"),
			"Cache lookups that found nothing.",
			labels, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.memory
	ch <- c.entries
	ch <- c.hits
	ch <- c.misses
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.src.CacheStats()
	for _, info := range c.src.Resolvers() {
		layer := info.Layer.String()
		ch <- prometheus.MustNewConstMetric(c.memory, prometheus.GaugeValue, float64(info.MemoryUsed), layer, info.ID)

		st, ok := stats[asset.ResolverInfo{Layer: info.Layer, ID: info.ID}]
		if !ok {
			continue
		}
		ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(st.Entries), layer, info.ID)
		ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(st.Hits), layer, info.ID)
		ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(st.Misses), layer, info.ID)
	}
}
