//go:build linux

package reconcile

// platformDefaultCandidates lists the interface/channel pairs probed
// after every configured candidate has failed, on Linux.
func platformDefaultCandidates() []candidatePair {
	return []candidatePair{
		{"socketcan", "vcan0"},
		{"slcan", ""},
	}
}
