package core

import (
	"fmt"
	"strings"
)

// Mode selects the population source driving the agent pool.
type Mode int

const (
	// ModeSynthetic sizes the pool from a configured capacity and matches
	// agents to targets by aggregate desired counts.
	ModeSynthetic Mode = iota
	// ModeLive mirrors one agent per external session and assigns each agent
	// to the target its session reports as focused.
	ModeLive
)

// String returns the lower case name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeSynthetic:
		return "synthetic"
	case ModeLive:
		return "live"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps a user supplied name onto a Mode. "demo" is accepted as an
// alias of synthetic.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "synthetic", "demo", "":
		return ModeSynthetic, nil
	case "live":
		return ModeLive, nil
	default:
		return ModeSynthetic, fmt.Errorf("unknown mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
