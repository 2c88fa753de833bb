// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/corruptabledb"
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/bloom"
	"github.com/prometheus/client_golang/prometheus"
)

var _ database.Database = (*Database)(nil)

type Config struct {
	CacheSize                   int64  `json:"cacheSize"                   yaml:"cacheSize"`
	BytesPerSync                int    `json:"bytesPerSync"                yaml:"bytesPerSync"`
	WALBytesPerSync             int    `json:"walBytesPerSync"             yaml:"walBytesPerSync"`
	MemTableStopWritesThreshold int    `json:"memTableStopWritesThreshold" yaml:"memTableStopWritesThreshold"`
	MemTableSize                uint64 `json:"memTableSize"                yaml:"memTableSize"`
	MaxOpenFiles                int    `json:"maxOpenFiles"                yaml:"maxOpenFiles"`
	ConcurrentCompactions       int    `json:"concurrentCompactions"       yaml:"concurrentCompactions"`
	Sync                        bool   `json:"sync"                        yaml:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   256 * 1024 * 1024,
		BytesPerSync:                1024 * 1024,
		WALBytesPerSync:             1024 * 1024,
		MemTableStopWritesThreshold: 8,
		MemTableSize:                16 * 1024 * 1024,
		MaxOpenFiles:                4_096,
		ConcurrentCompactions:       1,
		Sync:                        true,
	}
}

// Database is a [database.Database] backed by pebble.
type Database struct {
	db           *pebble.DB
	writeOptions *pebble.WriteOptions
	metrics      *metrics

	lock    sync.RWMutex
	closed  bool
	closing chan struct{}
}

func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	// These default settings are based on https://github.com/ethereum/go-ethereum/blob/master/ethdb/pebble/pebble.go
	d := &Database{
		writeOptions: pebble.NoSync,
		closing:      make(chan struct{}),
	}
	if cfg.Sync {
		d.writeOptions = pebble.Sync
	}
	opts := &pebble.Options{
		Cache:                       pebble.NewCache(cfg.CacheSize),
		BytesPerSync:                cfg.BytesPerSync,
		Comparer:                    pebble.DefaultComparer,
		WALBytesPerSync:             cfg.WALBytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MemTableSize:                cfg.MemTableSize,
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    func() int { return cfg.ConcurrentCompactions },
		Levels:                      make([]pebble.LevelOptions, 7),
	}
	defer opts.Cache.Unref()
	for i := 0; i < len(opts.Levels); i++ {
		l := &opts.Levels[i]
		l.BlockSize = 32 * 1024
		l.IndexBlockSize = 256 * 1024
		l.FilterPolicy = bloom.FilterPolicy(10)
		l.FilterType = pebble.TableFilter
		if i > 0 {
			l.TargetFileSize = opts.Levels[i-1].TargetFileSize * 2
		}
		l.EnsureDefaults()
	}
	opts.Levels[6].FilterPolicy = nil
	opts.FlushSplitBytes = opts.Levels[0].TargetFileSize
	opts.EnsureDefaults()

	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	d.metrics = metrics
	opts.EventListener = &pebble.EventListener{
		CompactionBegin: d.onCompactionBegin,
		CompactionEnd:   d.onCompactionEnd,
		WriteStallBegin: d.onWriteStallBegin,
		WriteStallEnd:   d.onWriteStallEnd,
	}

	db, err := pebble.Open(file, opts)
	if err != nil {
		return nil, nil, err
	}
	d.db = db
	go d.collectMetrics()
	return d, registry, nil
}

// Open creates [namespace] under [dataDir] and opens a pebble database in
// it. The returned database reports itself corrupted after any unexpected
// storage error.
func Open(cfg Config, dataDir string, namespace string) (database.Database, prometheus.Gatherer, error) {
	path := filepath.Join(dataDir, namespace)
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, nil, fmt.Errorf("unable to create database directory: %w", err)
	}
	db, registry, err := New(path, cfg)
	if err != nil {
		return nil, nil, err
	}
	return corruptabledb.New(db), registry, nil
}

func (db *Database) Has(key []byte) (bool, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return false, database.ErrClosed
	}
	_, closer, err := db.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, closer.Close()
}

func (db *Database) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, database.ErrClosed
	}
	start := time.Now()
	v, closer, err := db.db.Get(key)
	db.metrics.getLatency.Observe(float64(time.Since(start)))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	value := make([]byte, len(v))
	copy(value, v)
	return value, closer.Close()
}

func (db *Database) Put(key []byte, value []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	return db.db.Set(key, value, db.writeOptions)
}

func (db *Database) Delete(key []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	return db.db.Delete(key, db.writeOptions)
}

// Compact compacts [start, limit). A nil limit compacts through the last
// key.
func (db *Database) Compact(start []byte, limit []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	if limit == nil {
		it, err := db.db.NewIter(&pebble.IterOptions{})
		if err != nil {
			return err
		}
		if it.Last() {
			limit = append(append([]byte{}, it.Key()...), 0)
		}
		if err := it.Close(); err != nil {
			return err
		}
		if limit == nil {
			return nil
		}
	}
	return db.db.Compact(start, limit, true)
}

func (db *Database) HealthCheck(context.Context) (interface{}, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, database.ErrClosed
	}
	return nil, nil
}

func (db *Database) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return database.ErrClosed
	}
	db.closed = true
	close(db.closing)
	return db.db.Close()
}
