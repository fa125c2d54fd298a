package config

import (
	"fmt"
	"strings"
)

// PermissionLevel is the access a group or user holds on a note.
// Levels are ordered, so comparisons are meaningful.
type PermissionLevel int

const (
	PermissionInvalid PermissionLevel = iota - 1
	PermissionDeny
	PermissionRead
	PermissionWrite
	// PermissionFull is reserved for note owners and cannot be configured as a default.
	PermissionFull
)

func ParsePermissionLevel(raw string) (PermissionLevel, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "deny", "none":
		return PermissionDeny, nil
	case "read":
		return PermissionRead, nil
	case "write":
		return PermissionWrite, nil
	}
	return PermissionInvalid, fmt.Errorf("unknown permission level %q", raw)
}

// IsValid reports whether the level may be used as a configured default.
func (l PermissionLevel) IsValid() bool {
	return l >= PermissionDeny && l <= PermissionWrite
}

func (l PermissionLevel) String() string {
	switch l {
	case PermissionDeny:
		return "deny"
	case PermissionRead:
		return "read"
	case PermissionWrite:
		return "write"
	case PermissionFull:
		return "full"
	}
	return "invalid"
}
