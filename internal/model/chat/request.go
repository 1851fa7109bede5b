package chat

// TurnRequest is the body accepted by every chat transport.
type TurnRequest struct {
	Message     string `json:"message"`
	SessionID   string `json:"session_id,omitempty"`
	Personality string `json:"personality,omitempty"`
}
