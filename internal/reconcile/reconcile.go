// Package reconcile keeps the CAN bus adapter's open parameters in sync
// with the node's configuration: it waits briefly for an initial config
// push at start-up, hot-restarts the bus when Master Core changes its
// interface/channel/bitrate, and probes a list of candidate
// interface/channel pairs when the configured one fails to open.
package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nmeactl/can-controller-node/internal/basenode"
	"github.com/nmeactl/can-controller-node/internal/canbus"
	"github.com/nmeactl/can-controller-node/internal/config"
	"go.uber.org/zap"
)

// InitialConfigWait bounds how long Start-up waits for a Master Core
// config push before falling back to the local/default configuration.
const InitialConfigWait = 500 * time.Millisecond

// bounceSettleDelay is how long a hot-restart waits between closing and
// reopening the bus, giving the underlying driver time to release the
// interface.
const bounceSettleDelay = 500 * time.Millisecond

// Reconciler owns the single bus adapter and keeps it open against
// whatever interface/channel/bitrate the current config names,
// including falling back to any configured alternative when the
// primary interface cannot be opened.
type Reconciler struct {
	Bus    *canbus.Adapter
	Logger *zap.Logger

	current config.NodeConfig
}

// NewReconciler wraps bus with no configuration applied yet; call
// OpenWithAutoDetect to perform the first open.
func NewReconciler(bus *canbus.Adapter, logger *zap.Logger) *Reconciler {
	return &Reconciler{Bus: bus, Logger: logger}
}

// WaitForInitialOverride blocks until pushCh delivers a config (the
// Master Core's start-up push) or InitialConfigWait elapses, whichever
// comes first. It returns base unchanged if no push arrives in time.
func WaitForInitialOverride(ctx context.Context, base config.NodeConfig, pushCh <-chan config.NodeConfig) config.NodeConfig {
	select {
	case override := <-pushCh:
		return config.ApplyMasterCoreOverride(base, override)
	case <-time.After(InitialConfigWait):
		return base
	case <-ctx.Done():
		return base
	}
}

// CollectInitialOverride listens directly on transport for Master
// Core's start-up config push, for up to InitialConfigWait, merging it
// into base if one arrives in time. It must run before anything else
// (the Command Dispatcher included) reads transport.Subscribe(), since
// only one goroutine can drain that channel at a time.
func CollectInitialOverride(ctx context.Context, transport basenode.Transport, base config.NodeConfig) config.NodeConfig {
	waitCtx, cancel := context.WithTimeout(ctx, InitialConfigWait)
	defer cancel()

	for {
		select {
		case msg, ok := <-transport.Subscribe():
			if !ok {
				return base
			}
			if msg.Type != basenode.MessageTypeConfig {
				continue
			}
			var override config.NodeConfig
			if err := json.Unmarshal(msg.Payload, &override); err != nil {
				continue
			}
			return config.ApplyMasterCoreOverride(base, override)
		case <-waitCtx.Done():
			return base
		}
	}
}

// candidatePair is one interface/channel pair the auto-detect routine
// tries in order.
type candidatePair struct{ ifName, channel string }

// candidates returns the primary interface/channel pair, followed by
// every non-empty configured alternative (can_interface_1..4), followed
// by the platform's built-in default candidates, in order.
func candidates(cfg config.NodeConfig) []candidatePair {
	out := []candidatePair{{cfg.CANInterface, cfg.CANChannel}}
	for i := range cfg.CANInterfaceAlternatives {
		ifName := cfg.CANInterfaceAlternatives[i]
		if ifName == "" {
			continue
		}
		out = append(out, candidatePair{ifName, cfg.CANChannelAlternatives[i]})
	}
	out = append(out, platformDefaultCandidates()...)
	return out
}

// OpenWithAutoDetect tries cfg's primary CAN interface, then each
// configured alternative, then the platform's built-in default
// candidates, in order, opening the bus with the first one that
// succeeds. It returns an error only if every candidate fails, leaving
// the bus adapter closed; node.New treats that error as a start-up
// failure, so the node does not keep running without a bus.
func (r *Reconciler) OpenWithAutoDetect(cfg config.NodeConfig) error {
	var lastErr error
	for _, c := range candidates(cfg) {
		err := r.Bus.Open(c.ifName, c.channel, cfg.CANBitrate)
		if err == nil {
			r.current = cfg
			r.current.CANInterface, r.current.CANChannel = c.ifName, c.channel
			if r.Logger != nil {
				r.Logger.Info("opened CAN bus", zap.String("interface", c.ifName), zap.String("channel", c.channel), zap.Int("bitrate", cfg.CANBitrate))
			}
			return nil
		}
		if r.Logger != nil {
			r.Logger.Warn("CAN interface candidate failed to open", zap.String("interface", c.ifName), zap.Error(err))
		}
		lastErr = err
		// Open left the adapter Closed on failure; safe to try the next candidate.
	}
	return fmt.Errorf("reconcile: no CAN interface candidate could be opened, last error: %w", lastErr)
}

// OnConfigUpdated applies a Master Core config push, hot-restarting the
// bus (close, settle, reopen with auto-detect) only when the bus
// parameters actually changed.
func (r *Reconciler) OnConfigUpdated(ctx context.Context, override config.NodeConfig) (config.NodeConfig, error) {
	merged := config.ApplyMasterCoreOverride(r.current, override)
	if !config.BusParamsChanged(r.current, merged) {
		r.current = merged
		return merged, nil
	}

	if r.Logger != nil {
		r.Logger.Info("CAN bus parameters changed, restarting bus",
			zap.String("old_interface", r.current.CANInterface), zap.String("new_interface", merged.CANInterface))
	}

	if err := r.Bus.Close(); err != nil && r.Logger != nil {
		r.Logger.Warn("error closing bus before restart", zap.Error(err))
	}

	select {
	case <-time.After(bounceSettleDelay):
	case <-ctx.Done():
		return r.current, ctx.Err()
	}

	if err := r.OpenWithAutoDetect(merged); err != nil {
		return r.current, err
	}
	return r.current, nil
}

// Current reports the configuration the bus is presently open with.
func (r *Reconciler) Current() config.NodeConfig {
	return r.current
}
