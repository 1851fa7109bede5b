package chat

import "time"

// Session captures a server-held conversation: the active personality and the
// transcript sent to the provider each turn. Transcript[0] is always the
// personality's system message.
type Session struct {
	ID            string    `json:"id"`
	PersonalityID string    `json:"personalityId"`
	Transcript    []Message `json:"transcript"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Clone returns a copy whose transcript does not alias the receiver's.
func (s Session) Clone() Session {
	s.Transcript = append([]Message(nil), s.Transcript...)
	return s
}
