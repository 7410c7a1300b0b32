// Package protocol defines the message structures and types used for communication
// between pigeistctl and the pigeistd daemon. It can be used externally to build
// additional tooling or integrations, e.g. alternative remote controls.
package protocol

import "github.com/google/uuid"

// Command types for Request.Type
const (
	CmdKeyPress   = "key.press"
	CmdKeymapList = "keymap.list"
	CmdRobotState = "robot.state"
	CmdPing       = "system.ping"
)

// Response status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Request represents a message sent from a client to the daemon.
type Request struct {
	ID   string      `json:"id,omitempty"`   // correlates the response
	Type string      `json:"type"`           // e.g. "key.press", "keymap.list"
	Auth *Auth       `json:"auth,omitempty"` // Optional auth block
	Data interface{} `json:"data,omitempty"` // Optional payload
}

// Response represents a message sent from the daemon to a client.
type Response struct {
	ID     string      `json:"id,omitempty"`    // ID of the request being answered
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // Optional result
	Error  string      `json:"error,omitempty"` // Optional error message
}

// Auth holds authentication information for a client.
type Auth struct {
	User  string `json:"user"`
	Token string `json:"token"`
}

// NewRequest builds a request with a fresh ID.
func NewRequest(cmd string, auth *Auth, data interface{}) *Request {
	return &Request{
		ID:   uuid.NewString(),
		Type: cmd,
		Auth: auth,
		Data: data,
	}
}

// OK builds a successful response to req.
func OK(req *Request, data interface{}) *Response {
	return &Response{ID: req.ID, Status: StatusOK, Data: data}
}

// Fail builds an error response to req.
func Fail(req *Request, msg string) *Response {
	return &Response{ID: req.ID, Status: StatusError, Error: msg}
}

// --- Payload Types ---

// KeyRequest presses a single key on the daemon's keyboard map.
type KeyRequest struct {
	Key string `json:"key"`
}

// KeyResponse reports the effect of a key press: one of
// "nothing", "moving", "path", "static" or "exit".
type KeyResponse struct {
	Key    string `json:"key"`
	Effect string `json:"effect"`
}

// Binding is one entry of the daemon's key map.
type Binding struct {
	Key         string `json:"key"`
	Description string `json:"description"`
	Handler     string `json:"handler"`
}

// KeymapResponse lists the bindings in menu order.
type KeymapResponse struct {
	Bindings []Binding `json:"bindings"`
}

// StateResponse reports the toggle flags held by the daemon.
type StateResponse struct {
	LeftBlinker  bool `json:"left_blinker"`
	RightBlinker bool `json:"right_blinker"`
	LeftEye      bool `json:"left_eye"`
	RightEye     bool `json:"right_eye"`
	EyesOn       bool `json:"eyes_on"`
}

// PingResponse answers system.ping.
type PingResponse struct {
	Backend string `json:"backend"`
}
