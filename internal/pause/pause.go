// Package pause provides the single flag shared between the emergency
// stop path and the playback engine: playback checks this flag before
// sending each frame so an emergency stop pre-empts an in-progress
// replay without needing a full priority queue on the bus adapter.
package pause

import "sync/atomic"

// Flag is a concurrency-safe on/off switch.
type Flag struct {
	v atomic.Bool
}

// Set marks the flag on or off.
func (f *Flag) Set(paused bool) { f.v.Store(paused) }

// Get reports the flag's current value.
func (f *Flag) Get() bool { return f.v.Load() }
