package core

import "time"

// SessionRecord is the ephemeral live-mode view of one external session.
// FocusTargetID is empty when the session reports no focus.
type SessionRecord struct {
	SessionID     string    `json:"sessionId"`
	FocusTargetID string    `json:"focusTargetId,omitempty"`
	FirstSeen     time.Time `json:"firstSeen,omitzero"`
	LastSeen      time.Time `json:"lastSeen,omitzero"`
}

// SessionMap maps session ids to their records.
type SessionMap map[string]SessionRecord

// Clone returns a shallow copy of the map.
func (m SessionMap) Clone() SessionMap {
	if m == nil {
		return nil
	}
	out := make(SessionMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Focus returns the focus target reported by a session, and whether the
// session exists at all.
func (m SessionMap) Focus(sessionID string) (string, bool) {
	rec, ok := m[sessionID]
	return rec.FocusTargetID, ok
}
