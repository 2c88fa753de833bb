// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace       = "pebble"
	metricsInterval = 10 * time.Second
)

type metrics struct {
	delayStart time.Time
	writeStall metric.Averager

	getLatency   metric.Averager
	batchLatency metric.Averager
	batchBytes   prometheus.Counter

	l0Compactions     prometheus.Counter
	otherCompactions  prometheus.Counter
	activeCompactions prometheus.Gauge

	tombstoneCount     prometheus.Gauge
	obsoleteTableSize  prometheus.Gauge
	obsoleteTableCount prometheus.Gauge
	obsoleteWALSize    prometheus.Gauge
}

func newGauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	})
}

func newCounter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	})
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	errs := wrappers.Errs{}
	writeStall, err := metric.NewAverager("pebble_write_stall", "time spent waiting for disk write", r)
	errs.Add(err)
	getLatency, err := metric.NewAverager("pebble_read_latency", "time spent waiting for db get", r)
	errs.Add(err)
	batchLatency, err := metric.NewAverager("pebble_batch_latency", "time spent committing a batch", r)
	errs.Add(err)
	if errs.Errored() {
		return nil, nil, errs.Err
	}

	m := &metrics{
		writeStall:         writeStall,
		getLatency:         getLatency,
		batchLatency:       batchLatency,
		batchBytes:         newCounter("batch_bytes", "bytes committed through batches"),
		l0Compactions:      newCounter("l0_compactions", "number of l0 compactions"),
		otherCompactions:   newCounter("other_compactions", "number of l1+ compactions"),
		activeCompactions:  newGauge("active_compactions", "number of active compactions"),
		tombstoneCount:     newGauge("tombstone_count", "approximate count of internal tombstones"),
		obsoleteTableSize:  newGauge("obsolete_table_size", "number of bytes present in tables no longer referenced by the db"),
		obsoleteTableCount: newGauge("obsolete_table_count", "number of table files no longer referenced by the db"),
		obsoleteWALSize:    newGauge("obsolete_wal_size", "number of bytes present in WAL no longer needed by the db"),
	}
	errs.Add(
		r.Register(m.batchBytes),
		r.Register(m.l0Compactions),
		r.Register(m.otherCompactions),
		r.Register(m.activeCompactions),
		r.Register(m.tombstoneCount),
		r.Register(m.obsoleteTableSize),
		r.Register(m.obsoleteTableCount),
		r.Register(m.obsoleteWALSize),
	)
	return r, m, errs.Err
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	db.metrics.activeCompactions.Inc()
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		db.metrics.l0Compactions.Inc()
	} else {
		db.metrics.otherCompactions.Inc()
	}
}

func (db *Database) onCompactionEnd(pebble.CompactionInfo) {
	db.metrics.activeCompactions.Dec()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.delayStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.writeStall.Observe(float64(time.Since(db.metrics.delayStart)))
}

func (db *Database) collectMetrics() {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			db.lock.RLock()
			if db.closed {
				db.lock.RUnlock()
				return
			}
			m := db.db.Metrics()
			db.lock.RUnlock()

			db.metrics.tombstoneCount.Set(float64(m.Keys.TombstoneCount))
			db.metrics.obsoleteTableSize.Set(float64(m.Table.ObsoleteSize))
			db.metrics.obsoleteTableCount.Set(float64(m.Table.ObsoleteCount))
			db.metrics.obsoleteWALSize.Set(float64(m.WAL.ObsoletePhysicalSize))
		case <-db.closing:
			return
		}
	}
}
