// Package node assembles every collaborator - bus adapter, transport,
// ingestion loop, command dispatcher, playback engine, heartbeat
// scheduler, and config reconciler - into the single running CAN
// Controller Node process.
package node

import (
	"context"
	"fmt"
	"sync"

	"github.com/nmeactl/can-controller-node/internal/basenode"
	"github.com/nmeactl/can-controller-node/internal/canbus"
	"github.com/nmeactl/can-controller-node/internal/config"
	"github.com/nmeactl/can-controller-node/internal/dispatch"
	"github.com/nmeactl/can-controller-node/internal/fanout"
	"github.com/nmeactl/can-controller-node/internal/heartbeat"
	"github.com/nmeactl/can-controller-node/internal/ingestion"
	"github.com/nmeactl/can-controller-node/internal/pause"
	"github.com/nmeactl/can-controller-node/internal/playback"
	"github.com/nmeactl/can-controller-node/internal/reconcile"
	"go.uber.org/zap"
)

const masterCorePeerName = "master-core"

// Node is the fully wired CAN Controller Node.
type Node struct {
	cfg       config.NodeConfig
	logger    *zap.Logger
	transport basenode.Transport
	bus       *canbus.Adapter
	registry  *fanout.Registry
	emergency *pause.Flag

	reconciler *reconcile.Reconciler
	ingestLoop *ingestion.Loop
	dispatcher *dispatch.Dispatcher
	playback   *playback.Engine
	heartbeat  *heartbeat.Scheduler

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// Deps lets callers substitute collaborators (a simulated bus backend,
// a loopback transport) for tests or non-Linux platforms; zero values
// pick the production defaults.
type Deps struct {
	Backend   canbus.Backend
	Transport basenode.Transport
}

// New builds a Node from cfg, opening its bus (with auto-detect across
// configured alternatives) and transport. Before doing so it blocks for
// up to reconcile.InitialConfigWait waiting for a Master Core config
// push on the transport, per §4.11's start-up sequence. It does not
// start any goroutines; call Run for that.
func New(ctx context.Context, cfg config.NodeConfig, logger *zap.Logger, selfName string, deps Deps) (*Node, error) {
	backend := deps.Backend
	if backend == nil {
		backend = newDefaultBackend()
	}
	bus := canbus.NewAdapter(backend)

	transport := deps.Transport
	if transport == nil {
		udp, err := basenode.NewUDPTransport(cfg.ListenPort)
		if err != nil {
			return nil, fmt.Errorf("node: start transport: %w", err)
		}
		if err := udp.RegisterPeer(masterCorePeerName, fmt.Sprintf("%s:%d", cfg.MasterCoreHost, cfg.MasterCorePort)); err != nil {
			return nil, fmt.Errorf("node: register master core peer: %w", err)
		}
		transport = udp
	}

	cfg = reconcile.CollectInitialOverride(ctx, transport, cfg)

	registry := fanout.NewRegistry()
	emergency := &pause.Flag{}

	reconciler := reconcile.NewReconciler(bus, logger)
	if err := reconciler.OpenWithAutoDetect(cfg); err != nil {
		return nil, fmt.Errorf("node: open CAN bus: %w", err)
	}

	playbackEngine := playback.NewEngine(bus, emergency)
	playbackEngine.Logger = logger

	n := &Node{
		cfg:        cfg,
		logger:     logger,
		transport:  transport,
		bus:        bus,
		registry:   registry,
		emergency:  emergency,
		reconciler: reconciler,
		playback:   playbackEngine,
	}

	n.ingestLoop = &ingestion.Loop{
		Bus:        bus,
		Transport:  transport,
		Registry:   registry,
		SelfName:   selfName,
		MasterCore: masterCorePeerName,
		TTLDays:    cfg.DataTTLDays,
		Logger:     logger,
		StatusFunc: func(reason string) {
			if logger != nil {
				logger.Warn("ingestion degraded", zap.String("reason", reason))
			}
		},
	}

	n.dispatcher = &dispatch.Dispatcher{
		Bus:            bus,
		Transport:      transport,
		Registry:       registry,
		Playback:       playbackEngine,
		Emergency:      emergency,
		SelfName:       selfName,
		SourceAddr:     cfg.CANSourceAddress,
		Logger:         logger,
		EmergencyNodes: cfg.EmergencyNodes,
		ConfigHandler:  n.ApplyConfigPush,
	}

	n.heartbeat = &heartbeat.Scheduler{
		Transport:  transport,
		SelfName:   selfName,
		MasterCore: masterCorePeerName,
		Monitoring: func() bool { return n.dispatcher.Monitoring },
		Logger:     logger,
	}

	return n, nil
}

// Run starts every collaborator's goroutine and blocks until ctx is
// cancelled, then shuts them all down.
func (n *Node) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	n.cancel = cancel

	n.wg.Add(3)
	go func() { defer n.wg.Done(); n.runAndLog("ingestion", n.ingestLoop.Run, runCtx) }()
	go func() { defer n.wg.Done(); n.runAndLog("dispatch", n.dispatcher.Run, runCtx) }()
	go func() { defer n.wg.Done(); n.runAndLog("heartbeat", n.heartbeat.Run, runCtx) }()

	<-runCtx.Done()
	n.wg.Wait()

	if err := n.bus.Close(); err != nil && n.logger != nil {
		n.logger.Warn("error closing bus on shutdown", zap.Error(err))
	}
	if err := n.transport.Close(); err != nil && n.logger != nil {
		n.logger.Warn("error closing transport on shutdown", zap.Error(err))
	}
	return nil
}

func (n *Node) runAndLog(name string, fn func(context.Context) error, ctx context.Context) {
	if err := fn(ctx); err != nil && err != context.Canceled && n.logger != nil {
		n.logger.Error("component stopped with error", zap.String("component", name), zap.Error(err))
	}
}

// Stop cancels the running node's context, triggering an orderly
// shutdown of every collaborator.
func (n *Node) Stop() {
	if n.cancel != nil {
		n.cancel()
	}
}

// ApplyConfigPush hot-reconciles the bus against a Master Core config
// override, per §4.11.
func (n *Node) ApplyConfigPush(ctx context.Context, override config.NodeConfig) error {
	merged, err := n.reconciler.OnConfigUpdated(ctx, override)
	if err != nil {
		return err
	}
	n.cfg = merged
	n.ingestLoop.TTLDays = merged.DataTTLDays
	return nil
}
