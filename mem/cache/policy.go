package cache

import (
	"fmt"
	"strings"
)

// ReplacementPolicy selects the victim when a set is full.
type ReplacementPolicy string

// Supported replacement policies.
const (
	LRU  ReplacementPolicy = "LRU"
	Rand ReplacementPolicy = "RAND"
)

// ParseReplacementPolicy accepts a policy name in any letter case.
func ParseReplacementPolicy(s string) (ReplacementPolicy, error) {
	switch p := ReplacementPolicy(strings.ToUpper(strings.TrimSpace(s))); p {
	case LRU, Rand:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported replacement policy %q", s)
	}
}

// Mode controls how a level treats writes and hits relative to the levels
// around it.
type Mode int

// Supported modes.
const (
	ModeNone Mode = iota
	ModeWriteAllocate
	ModeInvalidateOnHit
)

var modeNames = map[Mode]string{
	ModeNone:            "",
	ModeWriteAllocate:   "WRITE_ALLOCATE",
	ModeInvalidateOnHit: "INVALIDATE_ON_HIT",
}

// noneToken is how MarshalText prints ModeNone.
const noneToken = "NONE"

// ParseMode reads the mode token used in configuration files. The empty
// string and NONE mean no special mode.
func ParseMode(s string) (Mode, error) {
	token := strings.ToUpper(strings.TrimSpace(s))
	if token == noneToken {
		return ModeNone, nil
	}

	for m, name := range modeNames {
		if name == token {
			return m, nil
		}
	}

	return ModeNone, fmt.Errorf("unsupported cache mode %q", s)
}

// String returns the configuration token of the mode.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}

	return fmt.Sprintf("Mode(%d)", int(m))
}

// WriteAllocate reports whether the mode is write-allocate.
func (m Mode) WriteAllocate() bool {
	return m == ModeWriteAllocate
}

// InvalidateOnHit reports whether the mode is invalidate-on-hit.
func (m Mode) InvalidateOnHit() bool {
	return m == ModeInvalidateOnHit
}

// MarshalText lets serializers print modes by name.
func (m Mode) MarshalText() ([]byte, error) {
	name := m.String()
	if name == "" {
		name = noneToken
	}

	return []byte(name), nil
}
