//go:build !linux

package reconcile

// platformDefaultCandidates lists the interface/channel pairs probed
// after every configured candidate has failed, on non-Linux hosts.
func platformDefaultCandidates() []candidatePair {
	return []candidatePair{
		{"kvaser", ""},
		{"pcan", ""},
		{"vector", ""},
		{"slcan", ""},
		{"usb2can", ""},
	}
}
