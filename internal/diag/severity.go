package diag

import (
	"fmt"
	"strings"
)

// Severity defines the importance of a result.
type Severity uint8

const (
	// SevSuggestion is for stylistic hints.
	SevSuggestion Severity = iota
	// SevWarning is for probable defects.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevSuggestion:
		return "suggestion"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// Demerit is the weight a result of this severity contributes to the score.
func (s Severity) Demerit() int {
	switch s {
	case SevError:
		return 5
	case SevWarning:
		return 3
	default:
		return 1
	}
}

// ParseSeverity accepts the lowercase names produced by String.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return SevError, nil
	case "warning":
		return SevWarning, nil
	case "suggestion":
		return SevSuggestion, nil
	default:
		return SevWarning, fmt.Errorf("invalid severity: %q (expected: error|warning|suggestion)", s)
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(b []byte) error {
	v, err := ParseSeverity(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
