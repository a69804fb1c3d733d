package stats

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exposes the stats counters as gauges, read on every scrape.
type Collector struct {
	svc     *Service
	timeout time.Duration

	open        *prometheus.Desc
	overdue     *prometheus.Desc
	openOverdue *prometheus.Desc
	books       *prometheus.Desc
	borrowers   *prometheus.Desc
	up          *prometheus.Desc
}

func NewCollector(svc *Service) *Collector {
	return &Collector{
		svc:         svc,
		timeout:     5 * time.Second,
		open:        prometheus.NewDesc("bibler_loans_open", "Loans currently open.", nil, nil),
		overdue:     prometheus.NewDesc("bibler_loans_overdue", "Loans (open or closed) whose expiration date lies before today.", nil, nil),
		openOverdue: prometheus.NewDesc("bibler_loans_open_overdue", "Open loans whose expiration date lies before today.", nil, nil),
		books:       prometheus.NewDesc("bibler_books", "Books in the catalog.", nil, nil),
		borrowers:   prometheus.NewDesc("bibler_borrowers", "Registered borrowers.", nil, nil),
		up:          prometheus.NewDesc("bibler_stats_up", "Whether the last scrape could read the database.", nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.open
	ch <- c.overdue
	ch <- c.openOverdue
	ch <- c.books
	ch <- c.borrowers
	ch <- c.up
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	n, err := c.svc.Snapshot(ctx)
	if err != nil {
		log.Printf("[WARN] metrics: %v", err)
		ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 0)
		return
	}
	for _, g := range []struct {
		desc *prometheus.Desc
		v    int64
	}{
		{c.open, n.Open},
		{c.overdue, n.Overdue},
		{c.openOverdue, n.OpenOverdue},
		{c.books, n.Books},
		{c.borrowers, n.Borrowers},
	} {
		ch <- prometheus.MustNewConstMetric(g.desc, prometheus.GaugeValue, float64(g.v))
	}
	ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, 1)
}
