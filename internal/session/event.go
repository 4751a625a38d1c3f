package session

// Event types pushed to the client over the websocket.
const (
	EventStatus          = "status"
	EventTranscript      = "transcript"
	EventResponse        = "response"
	EventAudio           = "audio"
	EventMedicationNudge = "medication_nudge"
	EventError           = "error"
	EventPong            = "pong"
)

// Status values carried by status events.
const (
	StatusProcessing = "processing"
	StatusNoSpeech   = "no_speech"
	StatusDone       = "done"
)

// Event is one outbound message. Audio is base64-encoded by the JSON layer.
type Event struct {
	Type      string `json:"type"`
	Status    string `json:"status,omitempty"`
	Text      string `json:"text,omitempty"`
	Audio     []byte `json:"audio,omitempty"`
	Sentiment string `json:"sentiment,omitempty"`
	State     string `json:"state,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Transport delivers events to the connected client. Send reports false when
// the connection is gone; the session keeps processing regardless.
type Transport interface {
	Send(ev Event) bool
}
