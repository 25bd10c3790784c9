package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/hupe1980/crowdmesh/core"
)

// ErrMalformedSnapshot is returned when a presence payload is not a JSON object.
var ErrMalformedSnapshot = errors.New("malformed session snapshot")

// focusKeys are the fields a presence record may name its focus with.
var focusKeys = []string{"target", "focusTargetId", "focus"}

// DecodeSnapshot parses a presence payload of the form
//
//	{"<sessionId>": {"target": "<targetId>", "start_time": 1700000000000}, ...}
//
// A record may also be a bare string naming the focus, or null for a session
// without focus. Timestamps are optional unix milliseconds.
func DecodeSnapshot(data []byte) (core.SessionMap, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformedSnapshot)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: expected object, got %s", ErrMalformedSnapshot, root.Type)
	}

	out := make(core.SessionMap)
	root.ForEach(func(key, value gjson.Result) bool {
		id := key.String()
		if id == "" {
			return true
		}
		rec := core.SessionRecord{SessionID: id}
		switch {
		case value.Type == gjson.String:
			rec.FocusTargetID = value.String()
		case value.IsObject():
			for _, k := range focusKeys {
				if f := value.Get(k); f.Type == gjson.String {
					rec.FocusTargetID = f.String()
					break
				}
			}
			rec.FirstSeen = millis(value.Get("start_time"))
			rec.LastSeen = millis(value.Get("last_seen"))
		}
		out[id] = rec
		return true
	})
	return out, nil
}

func millis(r gjson.Result) time.Time {
	if r.Type != gjson.Number {
		return time.Time{}
	}
	return time.UnixMilli(r.Int())
}
