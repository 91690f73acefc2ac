package playback

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/nmeactl/can-controller-node/internal/canbus"
	"github.com/nmeactl/can-controller-node/internal/pause"
	"go.uber.org/zap"
)

// fallbackInterval is used when consecutive timestamps fail to increase
// and a delta can't be trusted. A file with only one message sends it
// at once, with no delay.
const fallbackInterval = 100 * time.Millisecond

// minInterval floors every computed delay so a dense log never busy-loops.
const minInterval = time.Millisecond

// Engine replays a previously captured log file onto the bus, frame by
// frame, honoring the recorded timestamps (scaled by a speed
// multiplier) and yielding to an in-progress emergency stop.
type Engine struct {
	Bus       *canbus.Adapter
	Emergency *pause.Flag
	Logger    *zap.Logger
	Sleep     func(ctx context.Context, d time.Duration) error

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// NewEngine returns an Engine wired to the given bus adapter and
// emergency-stop flag, using real-clock sleeping.
func NewEngine(bus *canbus.Adapter, emergency *pause.Flag) *Engine {
	return &Engine{Bus: bus, Emergency: emergency, Sleep: ctxSleep}
}

func ctxSleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Play opens path, parses it as a Kvaser-style log, and replays its
// frames in order at a cadence derived from their recorded timestamps
// divided by speed (1.0 is real time, 2.0 is twice as fast). Only one
// Play can be active at a time; calling Play while one is already
// running returns an error.
func (e *Engine) Play(ctx context.Context, path string, speed float64) error {
	if speed <= 0 {
		speed = 1.0
	}

	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return fmt.Errorf("playback: a run is already in progress")
	}
	runCtx, cancel := context.WithCancel(ctx)
	e.running = true
	e.cancel = cancel
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.cancel = nil
		e.mu.Unlock()
		cancel()
	}()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("playback: open %s: %w", path, err)
	}
	defer f.Close()

	frames, err := ParseLogFile(f, e.Logger)
	if err != nil {
		return fmt.Errorf("playback: parse %s: %w", path, err)
	}
	if len(frames) == 0 {
		return nil
	}

	return e.replay(runCtx, frames, speed)
}

func (e *Engine) replay(ctx context.Context, frames []LoggedFrame, speed float64) error {
	if len(frames) == 1 {
		return e.sendOne(ctx, frames[0])
	}

	if err := e.sendOne(ctx, frames[0]); err != nil {
		return err
	}

	for i := 1; i < len(frames); i++ {
		interval := fallbackInterval
		delta := frames[i].Timestamp - frames[i-1].Timestamp
		if delta > 0 {
			scaled := time.Duration(delta/speed*float64(time.Second))
			if scaled > minInterval {
				interval = scaled
			} else {
				interval = minInterval
			}
		}

		if err := e.Sleep(ctx, interval); err != nil {
			return err
		}
		if err := e.sendOne(ctx, frames[i]); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) sendOne(ctx context.Context, lf LoggedFrame) error {
	for e.Emergency != nil && e.Emergency.Get() {
		if err := e.Sleep(ctx, minInterval); err != nil {
			return err
		}
	}
	return e.Bus.Send(canbus.Frame{
		ID:       lf.CANID,
		Extended: true,
		Data:     lf.Data,
	})
}

// Stop cancels an in-progress Play call, if any. It is a no-op when
// nothing is running.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
}
