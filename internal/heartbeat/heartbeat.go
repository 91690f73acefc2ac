// Package heartbeat periodically announces this node's liveness to the
// Master Core.
package heartbeat

import (
	"context"
	"math/rand"
	"time"

	"github.com/nmeactl/can-controller-node/internal/basenode"
	"go.uber.org/zap"
)

// Interval is the nominal period between heartbeats. Actual sends are
// jittered by up to jitterFraction to avoid every node in a fleet
// beating in lockstep.
const Interval = 10 * time.Second

const jitterFraction = 0.1

// Payload is the body of each heartbeat Message.
type Payload struct {
	NodeName  string    `json:"node_name"`
	Monitoring bool     `json:"monitoring"`
	SentAt    time.Time `json:"sent_at"`
}

// Scheduler sends a heartbeat message to the Master Core every Interval
// (±jitterFraction) until its context is cancelled.
type Scheduler struct {
	Transport  basenode.Transport
	SelfName   string
	MasterCore string
	Monitoring func() bool
	Now        func() time.Time
	Logger     *zap.Logger
	Rand       *rand.Rand
}

// Run blocks, sending heartbeats until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	now := s.Now
	if now == nil {
		now = time.Now
	}
	rng := s.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.nextDelay(rng)):
			s.send(ctx, now())
		}
	}
}

func (s *Scheduler) nextDelay(rng *rand.Rand) time.Duration {
	jitter := time.Duration(float64(Interval) * jitterFraction * (rng.Float64()*2 - 1))
	return Interval + jitter
}

func (s *Scheduler) send(ctx context.Context, at time.Time) {
	monitoring := false
	if s.Monitoring != nil {
		monitoring = s.Monitoring()
	}
	msg, err := basenode.NewMessage(basenode.MessageTypeHeartbeat, basenode.PriorityNormal, s.SelfName, s.MasterCore, Payload{
		NodeName:   s.SelfName,
		Monitoring: monitoring,
		SentAt:     at,
	}, at)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Error("failed to build heartbeat message", zap.Error(err))
		}
		return
	}
	if err := s.Transport.Send(ctx, s.MasterCore, msg); err != nil && s.Logger != nil {
		s.Logger.Warn("failed to send heartbeat", zap.Error(err))
	}
}
