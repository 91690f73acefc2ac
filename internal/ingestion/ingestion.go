// Package ingestion runs the node's central read loop: pull a frame off
// the CAN bus adapter, split its arbitration ID, decode its payload,
// classify it, fan it out to subscriber peers, and forward it to Master
// Core as a DATA message (plus a store_can_data command when it decodes
// to a known category).
package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/nmeactl/can-controller-node/internal/arbitration"
	"github.com/nmeactl/can-controller-node/internal/basenode"
	"github.com/nmeactl/can-controller-node/internal/canbus"
	"github.com/nmeactl/can-controller-node/internal/fanout"
	"github.com/nmeactl/can-controller-node/internal/pgn"
	"go.uber.org/zap"
)

// maxConsecutiveRecvErrors is how many Recv failures in errorWindow are
// tolerated before the loop reports a non-fatal degraded status rather
// than continuing to retry silently.
const maxConsecutiveRecvErrors = 3

const errorWindow = 5 * time.Second

// MessageDataRecord is the raw-plus-decoded view of one frame sent to
// Master Core as the can_message part of each DATA message: arbitration
// fields, the raw bytes, and whether/how decode succeeded. Subscribers
// do not receive this record; they get the pgn.DecodedMessage, which
// carries neither the raw bytes nor the decode error.
type MessageDataRecord struct {
	ArbitrationID uint32    `json:"arbitration_id"`
	Data          []byte    `json:"data"`
	Timestamp     time.Time `json:"timestamp"`
	Extended      bool      `json:"extended"`
	Decoded       bool      `json:"decoded"`
	PGN           uint32    `json:"pgn,omitempty"`
	Category      string    `json:"category"`
	Error         string    `json:"error,omitempty"`
}

// DataPayload is the DATA message forwarded to Master Core for every
// frame, decoded or not.
type DataPayload struct {
	CANMessage MessageDataRecord  `json:"can_message"`
	ParsedData pgn.DecodedMessage `json:"parsed_data"`
}

// StoreCommandPayload is the store_can_data COMMAND payload forwarded
// to Master Core only when a frame decodes to a known category.
type StoreCommandPayload struct {
	Collection string             `json:"collection"`
	TTLDays    int                `json:"ttl_days"`
	Message    pgn.DecodedMessage `json:"message"`
}

// Loop owns the ingestion goroutine's dependencies.
type Loop struct {
	Bus        *canbus.Adapter
	Transport  basenode.Transport
	Registry   *fanout.Registry
	SelfName   string
	MasterCore string
	TTLDays    int
	Now        func() time.Time
	Logger     *zap.Logger

	// StatusFunc, if set, is called when three consecutive receive
	// errors occur within errorWindow: a non-fatal ERROR status report.
	StatusFunc func(reason string)
}

// Run blocks, ingesting frames until ctx is cancelled. Receive errors
// are logged and the loop keeps going.
func (l *Loop) Run(ctx context.Context) error {
	now := l.Now
	if now == nil {
		now = time.Now
	}

	// times of the current run of consecutive receive errors, newest last
	var recentErrors []time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frame, err := l.Bus.Recv(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			at := now()
			recentErrors = append(recentErrors, at)
			if len(recentErrors) > maxConsecutiveRecvErrors {
				recentErrors = recentErrors[1:]
			}
			if len(recentErrors) == maxConsecutiveRecvErrors && at.Sub(recentErrors[0]) <= errorWindow {
				if l.StatusFunc != nil {
					l.StatusFunc(fmt.Sprintf("%d consecutive receive errors: %v", len(recentErrors), err))
				}
				recentErrors = recentErrors[:0]
			}
			if l.Logger != nil {
				l.Logger.Warn("bus receive failed", zap.Error(err))
			}
			continue
		}
		recentErrors = recentErrors[:0]

		l.handleFrame(ctx, frame, now())
	}
}

func (l *Loop) handleFrame(ctx context.Context, frame canbus.Frame, at time.Time) {
	id := arbitration.Decode(frame.ID)
	msg, err := pgn.Decode(id, frame.Data, at)
	decoded := err == nil

	record := MessageDataRecord{
		ArbitrationID: frame.ID,
		Data:          frame.Data,
		Timestamp:     at,
		Extended:      frame.Extended,
		Decoded:       decoded,
		Category:      string(msg.Category),
	}
	if decoded {
		record.PGN = id.PGN
	} else {
		// an unknown PGN (or any other decode error) still gets forwarded,
		// with the raw frame preserved and the error annotated, rather
		// than being silently dropped.
		record.Error = err.Error()
		if l.Logger != nil {
			l.Logger.Debug("decode failed, forwarding raw frame", zap.Uint32("pgn", id.PGN), zap.Error(err))
		}
	}

	// Step 2: fan out to subscribers regardless of decode outcome.
	if errs := fanout.Fanout(ctx, l.Transport, l.Registry, msg, l.SelfName, at); len(errs) > 0 && l.Logger != nil {
		l.Logger.Warn("fan-out delivery had errors", zap.Int("failures", len(errs)))
	}

	// Step 3: forward the raw-plus-decoded record to Master Core as a
	// DATA message, unconditionally.
	data, buildErr := basenode.NewMessage(basenode.MessageTypeData, basenode.PriorityNormal, l.SelfName, l.MasterCore, DataPayload{
		CANMessage: record,
		ParsedData: msg,
	}, at)
	if buildErr != nil {
		if l.Logger != nil {
			l.Logger.Error("failed to build data message", zap.Error(buildErr))
		}
		return
	}
	if sendErr := l.Transport.Send(ctx, l.MasterCore, data); sendErr != nil && l.Logger != nil {
		l.Logger.Warn("failed to forward to master core", zap.Error(sendErr))
	}

	// Step 4: only decoded frames with a known category also get a
	// store_can_data COMMAND; the Master Core store step is skipped on
	// decode failure.
	if !decoded || msg.Category == pgn.CategoryUnknown {
		return
	}
	command, buildErr := basenode.NewMessage(basenode.MessageTypeCommand, basenode.PriorityNormal, l.SelfName, l.MasterCore, StoreCommandPayload{
		Collection: pgn.CollectionName(msg.Category),
		TTLDays:    l.TTLDays,
		Message:    msg,
	}, at)
	if buildErr != nil {
		if l.Logger != nil {
			l.Logger.Error("failed to build store_can_data command", zap.Error(buildErr))
		}
		return
	}
	if sendErr := l.Transport.Send(ctx, l.MasterCore, command); sendErr != nil && l.Logger != nil {
		l.Logger.Warn("failed to forward store_can_data to master core", zap.Error(sendErr))
	}
}
