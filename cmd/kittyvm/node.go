// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/kittyvm/actions"
	"github.com/ava-labs/kittyvm/config"
	"github.com/ava-labs/kittyvm/consts"
	"github.com/ava-labs/kittyvm/genesis"
	"github.com/ava-labs/kittyvm/pebble"
	"github.com/ava-labs/kittyvm/rpc"
	"github.com/ava-labs/kittyvm/server"
	"github.com/ava-labs/kittyvm/vm"

	kittytrace "github.com/ava-labs/kittyvm/trace"
)

const (
	baseURL     = "ext"
	metricsBase = "metrics"
	dbNamespace = "db"
)

type node struct {
	log           logging.Logger
	tracer        trace.Tracer
	vm            *vm.VM
	ws            *rpc.WebSocketServer
	server        server.Server
	blockInterval time.Duration
}

// loadGenesis reads the genesis at [path], or returns the default genesis
// when no path is set.
func loadGenesis(path string) (*genesis.Genesis, error) {
	if len(path) == 0 {
		return genesis.Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read genesis: %w", err)
	}
	return genesis.Load(b)
}

func newNode(
	ctx context.Context,
	cfg config.Config,
	g *genesis.Genesis,
	log logging.Logger,
	db database.Database,
	dbGatherer prometheus.Gatherer,
	listener net.Listener,
) (*node, error) {
	tracer, err := kittytrace.New(&cfg.TraceConfig)
	if err != nil {
		return nil, err
	}
	registry, err := actions.NewRegistry()
	if err != nil {
		return nil, err
	}
	kittyVM, err := vm.New(log, tracer, cfg, g, registry, db)
	if err != nil {
		return nil, err
	}
	if err := kittyVM.Initialize(ctx); err != nil {
		return nil, err
	}
	ws, pubsubServer := rpc.NewWebSocketServer(
		kittyVM,
		cfg.WebSocketConfig,
		cfg.StreamingBacklogSize,
		cfg.AuthVerificationCores,
	)
	kittyVM.Subscribe(ws)

	apiRegistry := prometheus.NewRegistry()
	requestMetrics, err := server.NewRequestMetrics(apiRegistry)
	if err != nil {
		return nil, err
	}
	srv, err := server.New(
		baseURL,
		log,
		listener,
		cfg.HTTPConfig,
		cfg.AllowedOrigins,
		cfg.AllowedHosts,
		cfg.ShutdownTimeout,
		requestMetrics,
	)
	if err != nil {
		return nil, err
	}
	jsonRPCHandler, err := server.NewHandler(rpc.NewJSONRPCServer(kittyVM), rpc.Name)
	if err != nil {
		return nil, err
	}
	gatherers := prometheus.Gatherers{kittyVM.Gatherer(), dbGatherer, apiRegistry}
	routes := []struct {
		handler  http.Handler
		base     string
		endpoint string
	}{
		{jsonRPCHandler, consts.Name, rpc.JSONRPCEndpoint},
		{pubsubServer, consts.Name, rpc.WebSocketEndpoint},
		{promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{}), metricsBase, ""},
	}
	for _, r := range routes {
		if err := srv.AddRoute(r.handler, r.base, r.endpoint); err != nil {
			return nil, err
		}
	}
	return &node{
		log:           log,
		tracer:        tracer,
		vm:            kittyVM,
		ws:            ws,
		server:        srv,
		blockInterval: cfg.BlockInterval,
	}, nil
}

// serve runs the API and the block builder until [ctx] is done.
func (n *node) serve(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := n.server.Dispatch(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return n.server.Shutdown()
	})
	g.Go(func() error {
		n.buildBlocks(gctx)
		return nil
	})
	return g.Wait()
}

// buildBlocks seals the mempool into a block every interval.
func (n *node) buildBlocks(ctx context.Context) {
	ticker := time.NewTicker(n.blockInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		blk, results, err := n.vm.BuildBlock(ctx)
		switch {
		case errors.Is(err, vm.ErrEmptyBlock):
			continue
		case err != nil:
			n.log.Warn("unable to build block", zap.Error(err))
			continue
		}
		if err := n.ws.SetMinTx(blk.Timestamp); err != nil {
			n.log.Warn("unable to expire tx listeners", zap.Error(err))
		}
		n.log.Debug("built block",
			zap.Uint64("height", blk.Height),
			zap.Int64("timestamp", blk.Timestamp),
			zap.Int("txs", len(results)),
		)
	}
}

func (n *node) Close() error {
	return errors.Join(
		n.vm.Close(),
		n.tracer.Close(),
	)
}

func run(ctx context.Context, cfg config.Config) error {
	log, err := config.NewLogger(cfg.Log, consts.Name)
	if err != nil {
		return err
	}
	defer log.Stop()

	g, err := loadGenesis(cfg.GenesisFile)
	if err != nil {
		return err
	}
	log.Info("starting node",
		append([]zap.Field{zap.String("version", consts.Version)}, g.Fields()...)...,
	)
	db, dbGatherer, err := pebble.Open(cfg.PebbleConfig, cfg.DataDir, dbNamespace)
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", cfg.Address())
	if err != nil {
		return errors.Join(err, db.Close())
	}
	n, err := newNode(ctx, cfg, g, log, db, dbGatherer, listener)
	if err != nil {
		return errors.Join(err, listener.Close(), db.Close())
	}
	err = n.serve(ctx)
	log.Info("shutting down node")
	return errors.Join(err, n.Close())
}
