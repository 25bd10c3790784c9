package session

import (
	"sync"
	"time"

	"github.com/hupe1980/crowdmesh/core"
)

// TrackerOptions configures a Tracker.
type TrackerOptions struct {
	// Now is the clock used for FirstSeen and LastSeen. Defaults to time.Now.
	Now func() time.Time
}

// Tracker is a volatile, process local session store. It is safe for
// concurrent access. Every returned map is a copy.
type Tracker struct {
	mu       sync.RWMutex
	now      func() time.Time
	sessions core.SessionMap
	version  uint64
}

// NewTracker constructs an empty tracker.
func NewTracker(optFns ...func(o *TrackerOptions)) *Tracker {
	opts := TrackerOptions{Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Tracker{now: opts.Now, sessions: make(core.SessionMap)}
}

// Observe records a heartbeat from a session, creating it when unknown. An
// empty focus clears the session's focus.
func (t *Tracker) Observe(sessionID, focusTargetID string) {
	if sessionID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observeLocked(core.SessionRecord{SessionID: sessionID, FocusTargetID: focusTargetID}, t.now())
}

// observeLocked merges rec into the store; caller must hold the write lock.
func (t *Tracker) observeLocked(rec core.SessionRecord, now time.Time) {
	prev, ok := t.sessions[rec.SessionID]
	if !ok || prev.FocusTargetID != rec.FocusTargetID {
		t.version++
	}
	if rec.FirstSeen.IsZero() {
		rec.FirstSeen = now
		if ok {
			rec.FirstSeen = prev.FirstSeen
		}
	}
	if rec.LastSeen.IsZero() {
		rec.LastSeen = now
	}
	t.sessions[rec.SessionID] = rec
}

// Forget removes a session. It reports whether the session existed.
func (t *Tracker) Forget(sessionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.sessions[sessionID]; !ok {
		return false
	}
	delete(t.sessions, sessionID)
	t.version++
	return true
}

// Replace makes membership mirror an upstream snapshot. Sessions missing from
// m are dropped; known sessions keep their FirstSeen unless m sets one.
func (t *Tracker) Replace(m core.SessionMap) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	for id := range t.sessions {
		if _, ok := m[id]; !ok {
			delete(t.sessions, id)
			t.version++
		}
	}
	for id, rec := range m {
		if id == "" {
			continue
		}
		rec.SessionID = id
		t.observeLocked(rec, now)
	}
}

// Expire drops sessions not seen within ttl and returns their ids.
func (t *Tracker) Expire(ttl time.Duration) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := t.now().Add(-ttl)
	var expired []string
	for id, rec := range t.sessions {
		if rec.LastSeen.Before(cutoff) {
			delete(t.sessions, id)
			expired = append(expired, id)
		}
	}
	if len(expired) > 0 {
		t.version++
	}
	return expired
}

// Snapshot returns a copy of the current sessions.
func (t *Tracker) Snapshot() core.SessionMap {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sessions.Clone()
}

// Version increases whenever membership or a focus changes. Heartbeats that
// only refresh LastSeen leave it alone.
func (t *Tracker) Version() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.version
}

// Len returns the number of tracked sessions.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}

// AverageDuration is the mean time since FirstSeen across all sessions.
func (t *Tracker) AverageDuration() time.Duration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.sessions) == 0 {
		return 0
	}
	now := t.now()
	var total time.Duration
	for _, rec := range t.sessions {
		total += now.Sub(rec.FirstSeen)
	}
	return total / time.Duration(len(t.sessions))
}
