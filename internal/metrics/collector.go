package metrics

import (
	"time"

	"gallery-indexer/internal/logging"
)

// StatsProvider supplies index totals for the gauges the Collector refreshes.
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current index database totals.
type Stats struct {
	TotalFiles int
	TotalTags  int
}

// Collector periodically collects and updates metrics while the preview
// server is running.
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	DBFilesTotal.Set(float64(stats.TotalFiles))
	DBTagsTotal.Set(float64(stats.TotalTags))

	logging.Debug("Metrics collected: files=%d, tags=%d", stats.TotalFiles, stats.TotalTags)
}
