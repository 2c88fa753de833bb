// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"strconv"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vm"

type Metrics struct {
	txsSubmitted prometheus.Counter
	txsRejected  prometheus.Counter
	txsAccepted  prometheus.Counter
	txsExpired   prometheus.Counter
	txsReplayed  prometheus.Counter
	blocksBuilt  prometheus.Counter
	actions      *prometheus.CounterVec
	mempoolSize  prometheus.Gauge
	height       prometheus.Gauge
	blockBuild   prometheus.Histogram
}

func newMetrics() (*prometheus.Registry, *Metrics, error) {
	r := prometheus.NewRegistry()
	m := &Metrics{
		txsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "txs_submitted",
			Help:      "number of txs submitted to vm",
		}),
		txsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "txs_rejected",
			Help:      "number of submitted txs not added to the mempool",
		}),
		txsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "txs_accepted",
			Help:      "number of txs included in accepted blocks",
		}),
		txsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "txs_expired",
			Help:      "number of txs dropped from the mempool after expiry",
		}),
		txsReplayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "txs_replayed",
			Help:      "number of already accepted txs dropped while building",
		}),
		blocksBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blocks_built",
			Help:      "number of blocks built and accepted",
		}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "actions",
			Help:      "number of executed actions by type and outcome",
		}, []string{"action", "success"}),
		mempoolSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chain",
			Name:      "mempool_size",
			Help:      "number of transactions in the mempool",
		}),
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chain",
			Name:      "height",
			Help:      "height of the last accepted block",
		}),
		blockBuild: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chain",
			Name:      "block_build",
			Help:      "time spent building, executing and committing a block in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.txsSubmitted),
		r.Register(m.txsRejected),
		r.Register(m.txsAccepted),
		r.Register(m.txsExpired),
		r.Register(m.txsReplayed),
		r.Register(m.blocksBuilt),
		r.Register(m.actions),
		r.Register(m.mempoolSize),
		r.Register(m.height),
		r.Register(m.blockBuild),
	)
	return r, m, errs.Err
}

func (m *Metrics) recordAction(typeID uint8, success bool) {
	m.actions.WithLabelValues(strconv.Itoa(int(typeID)), strconv.FormatBool(success)).Inc()
}
