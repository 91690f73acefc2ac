// Package dispatch implements the command dispatcher: it receives
// COMMAND envelopes over the BaseNode transport from Master Core and
// routes them to the matching handler (monitoring flag, outbound sends,
// subscription management, emergency stop, playback control),
// replying with a RESPONSE envelope.
package dispatch

import "encoding/json"

// CommandName enumerates the recognized command payload kinds.
type CommandName string

const (
	CommandStartMonitoring CommandName = "start_monitoring"
	CommandStopMonitoring  CommandName = "stop_monitoring"
	CommandSendMessage     CommandName = "send_message"
	CommandSendJ1939       CommandName = "send_j1939"
	CommandSendCANMessage  CommandName = "send_can_message" // rudder
	CommandSubscribeData   CommandName = "subscribe_data"
	CommandUnsubscribeData CommandName = "unsubscribe_data"
	CommandEmergencyStop   CommandName = "emergency_stop"
	CommandPlayCANFile     CommandName = "play_can_file"
)

// CommandEnvelope is the shape of a COMMAND message's JSON payload:
// a command name plus a command-specific argument object.
type CommandEnvelope struct {
	Command CommandName     `json:"command"`
	Args    json.RawMessage `json:"args"`
}

// ResponsePayload is the RESPONSE message payload sent back for every
// handled command.
type ResponsePayload struct {
	Command CommandName `json:"command"`
	Success bool        `json:"success"`
	Error   string       `json:"error,omitempty"`
	Result  interface{}  `json:"result,omitempty"`
}

// SendMessageArgs is the send_message command's arguments: an opaque
// payload relayed to another peer unchanged.
type SendMessageArgs struct {
	Destination string          `json:"destination"`
	Payload     json.RawMessage `json:"payload"`
}

// SendJ1939Args is the send_j1939 command's arguments: a raw outbound
// J1939 frame.
type SendJ1939Args struct {
	PGN         uint32 `json:"pgn"`
	Destination uint8  `json:"destination"`
	Priority    uint8  `json:"priority"`
	Data        []byte `json:"data"`
}

// SendCANMessageArgs is the send_can_message command's arguments. pgn
// names which bit-packed encoder to use; the only one currently wired
// is 127245 (Rudder), so any other pgn is rejected.
type SendCANMessageArgs struct {
	PGN            uint32  `json:"pgn"`
	Instance       uint8   `json:"instance"`
	DirectionOrder uint8   `json:"direction_order"`
	AngleOrderRad  float64 `json:"angle_order_rad"`
	PositionRad    float64 `json:"position_rad"`
	Priority       uint8   `json:"priority"`
}

// SubscribeDataArgs names the peer subscribing/unsubscribing to fan-out.
type SubscribeDataArgs struct {
	PeerName string `json:"peer_name"`
}

// PlayCANFileArgs names the log file to play back and an optional speed
// multiplier (defaults to 1.0 when zero).
type PlayCANFileArgs struct {
	Path  string  `json:"path"`
	Speed float64 `json:"speed"`
}

// EmergencyStopArgs names who triggered the emergency stop, echoed into
// the peer broadcast sent to every configured emergency node.
type EmergencyStopArgs struct {
	Source string `json:"source"`
}
