package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nmeactl/can-controller-node/internal/basenode"
	"github.com/nmeactl/can-controller-node/internal/canbus"
	"github.com/nmeactl/can-controller-node/internal/config"
	"github.com/nmeactl/can-controller-node/internal/fanout"
	"github.com/nmeactl/can-controller-node/internal/pause"
	"github.com/nmeactl/can-controller-node/internal/pgn"
	"go.uber.org/zap"
)

// PlaybackController is the subset of the playback engine's behavior the
// dispatcher needs; kept as a narrow interface here to avoid an import
// cycle between internal/dispatch and internal/playback.
type PlaybackController interface {
	Play(ctx context.Context, path string, speed float64) error
	Stop()
}

// Dispatcher routes inbound COMMAND envelopes to their handlers and
// replies with a RESPONSE.
type Dispatcher struct {
	Bus        *canbus.Adapter
	Transport  basenode.Transport
	Registry   *fanout.Registry
	Playback   PlaybackController
	Emergency  *pause.Flag
	SelfName   string
	SourceAddr uint8
	Monitoring bool
	Logger     *zap.Logger

	// EmergencyNodes are the peer names (e.g. "engine", "steering",
	// "autopilot") broadcast an EMERGENCY-priority message whenever
	// emergency_stop fires, per config's emergency_nodes list.
	EmergencyNodes []string

	// ConfigHandler, if set, is called whenever a CONFIG message arrives
	// from Master Core, with its payload decoded into a config override.
	// This is the hot-restart trigger: Run is the only goroutine reading
	// Transport.Subscribe(), so a Master Core config push has to be
	// routed through here rather than polled separately.
	ConfigHandler func(ctx context.Context, override config.NodeConfig) error
}

// EmergencyPayload is the body of the peer broadcast sent to every
// EmergencyNodes entry when emergency_stop fires.
type EmergencyPayload struct {
	Source string `json:"source"`
}

// Run blocks, handling commands and Master Core config pushes from
// transport.Subscribe() until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-d.Transport.Subscribe():
			if !ok {
				return nil
			}
			switch msg.Type {
			case basenode.MessageTypeCommand:
				d.handle(ctx, msg)
			case basenode.MessageTypeConfig:
				d.handleConfig(ctx, msg)
			}
		}
	}
}

func (d *Dispatcher) handleConfig(ctx context.Context, msg basenode.Message) {
	if d.ConfigHandler == nil {
		return
	}
	var override config.NodeConfig
	if err := json.Unmarshal(msg.Payload, &override); err != nil {
		if d.Logger != nil {
			d.Logger.Warn("malformed config push", zap.Error(err))
		}
		return
	}
	if err := d.ConfigHandler(ctx, override); err != nil && d.Logger != nil {
		d.Logger.Error("failed to apply config push", zap.Error(err))
	}
}

func (d *Dispatcher) handle(ctx context.Context, msg basenode.Message) {
	var env CommandEnvelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		d.reply(ctx, msg.Source, "", false, fmt.Sprintf("malformed command envelope: %v", err), nil)
		return
	}

	result, err := d.dispatch(ctx, env)
	if err != nil {
		d.reply(ctx, msg.Source, env.Command, false, err.Error(), nil)
		return
	}
	d.reply(ctx, msg.Source, env.Command, true, "", result)
}

func (d *Dispatcher) dispatch(ctx context.Context, env CommandEnvelope) (interface{}, error) {
	switch env.Command {
	// start/stop_monitoring only toggle the Monitoring flag reported in
	// heartbeats; they do not open or close the CAN bus.
	case CommandStartMonitoring:
		d.Monitoring = true
		return nil, nil

	case CommandStopMonitoring:
		d.Monitoring = false
		return nil, nil

	case CommandSendMessage:
		var args SendMessageArgs
		if err := json.Unmarshal(env.Args, &args); err != nil {
			return nil, fmt.Errorf("send_message: %w", err)
		}
		relay, err := basenode.NewMessage(basenode.MessageTypeData, basenode.PriorityNormal, d.SelfName, args.Destination, json.RawMessage(args.Payload), time.Now())
		if err != nil {
			return nil, err
		}
		return nil, d.Transport.Send(ctx, args.Destination, relay)

	case CommandSendJ1939:
		var args SendJ1939Args
		if err := json.Unmarshal(env.Args, &args); err != nil {
			return nil, fmt.Errorf("send_j1939: %w", err)
		}
		canID, data, err := pgn.EncodeJ1939(args.PGN, d.SourceAddr, args.Destination, args.Priority, args.Data)
		if err != nil {
			return nil, fmt.Errorf("send_j1939: %w", err)
		}
		if err := d.Bus.Send(canbus.Frame{ID: canID, Extended: true, Data: data}); err != nil {
			return nil, fmt.Errorf("send_j1939: %w", err)
		}
		return nil, nil

	case CommandSendCANMessage:
		var args SendCANMessageArgs
		if err := json.Unmarshal(env.Args, &args); err != nil {
			return nil, fmt.Errorf("send_can_message: %w", err)
		}
		if args.PGN != pgn.PGNRudder {
			return nil, fmt.Errorf("send_can_message: unsupported pgn %d", args.PGN)
		}
		canID, data := pgn.EncodeRudder(args.Instance, pgn.DirectionOrder(args.DirectionOrder), args.AngleOrderRad, args.PositionRad, d.SourceAddr, args.Priority)
		if err := d.Bus.Send(canbus.Frame{ID: canID, Extended: true, Data: data}); err != nil {
			return nil, fmt.Errorf("send_can_message: %w", err)
		}
		return nil, nil

	case CommandSubscribeData:
		var args SubscribeDataArgs
		if err := json.Unmarshal(env.Args, &args); err != nil {
			return nil, fmt.Errorf("subscribe_data: %w", err)
		}
		d.Registry.Subscribe(args.PeerName)
		return nil, nil

	case CommandUnsubscribeData:
		var args SubscribeDataArgs
		if err := json.Unmarshal(env.Args, &args); err != nil {
			return nil, fmt.Errorf("unsubscribe_data: %w", err)
		}
		d.Registry.Unsubscribe(args.PeerName)
		return nil, nil

	case CommandEmergencyStop:
		var args EmergencyStopArgs
		_ = json.Unmarshal(env.Args, &args)

		d.Emergency.Set(true)
		defer d.Emergency.Set(false)
		data := pgn.EncodeEmergencyStop()
		if err := d.Bus.Send(canbus.Frame{ID: pgn.EmergencyArbitrationID, Extended: false, Data: data}); err != nil {
			return nil, fmt.Errorf("emergency_stop: %w", err)
		}
		d.broadcastEmergency(ctx, args.Source)
		return nil, nil

	case CommandPlayCANFile:
		var args PlayCANFileArgs
		if err := json.Unmarshal(env.Args, &args); err != nil {
			return nil, fmt.Errorf("play_can_file: %w", err)
		}
		speed := args.Speed
		if speed == 0 {
			speed = 1.0
		}
		go func() {
			if err := d.Playback.Play(ctx, args.Path, speed); err != nil && d.Logger != nil {
				d.Logger.Warn("playback failed", zap.String("path", args.Path), zap.Error(err))
			}
		}()
		return nil, nil

	default:
		return nil, fmt.Errorf("unrecognized command %q", env.Command)
	}
}

// broadcastEmergency sends an EMERGENCY-priority message to every
// configured emergency node after emergency_stop fires. Failures to
// reach an individual peer are logged, not fatal: the rest of the list
// still gets the broadcast.
func (d *Dispatcher) broadcastEmergency(ctx context.Context, source string) {
	if source == "" {
		source = d.SelfName
	}
	for _, peer := range d.EmergencyNodes {
		msg, err := basenode.NewMessage(basenode.MessageTypeEmergency, basenode.PriorityEmergency, d.SelfName, peer, EmergencyPayload{Source: source}, time.Now())
		if err != nil {
			if d.Logger != nil {
				d.Logger.Error("failed to build emergency broadcast", zap.String("peer", peer), zap.Error(err))
			}
			continue
		}
		if err := d.Transport.Send(ctx, peer, msg); err != nil && d.Logger != nil {
			d.Logger.Warn("failed to send emergency broadcast", zap.String("peer", peer), zap.Error(err))
		}
	}
}

func (d *Dispatcher) reply(ctx context.Context, dest string, cmd CommandName, success bool, errMsg string, result interface{}) {
	priority := basenode.PriorityNormal
	if !success {
		priority = basenode.PriorityHigh
	}
	resp, err := basenode.NewMessage(basenode.MessageTypeResponse, priority, d.SelfName, dest, ResponsePayload{
		Command: cmd, Success: success, Error: errMsg, Result: result,
	}, time.Now())
	if err != nil {
		if d.Logger != nil {
			d.Logger.Error("failed to build response", zap.Error(err))
		}
		return
	}
	if err := d.Transport.Send(ctx, dest, resp); err != nil && d.Logger != nil {
		d.Logger.Warn("failed to send response", zap.String("dest", dest), zap.Error(err))
	}
}
