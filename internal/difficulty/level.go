package difficulty

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is a puzzle difficulty level. Levels are totally ordered.
type Level int

const (
	Easy Level = iota + 1
	Medium
	Hard
	Expert
)

// Min and Max bound the level ladder.
const (
	Min = Easy
	Max = Expert
)

// Levels returns all levels in ascending order.
func Levels() []Level {
	return []Level{Easy, Medium, Hard, Expert}
}

// Valid reports whether l is one of the four defined levels.
func (l Level) Valid() bool {
	return l >= Min && l <= Max
}

// String returns the display name of the level.
func (l Level) String() string {
	switch l {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	case Expert:
		return "Expert"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Key returns the lowercase identifier used in config files and JSON.
func (l Level) Key() string {
	return strings.ToLower(l.String())
}

// Up returns the next harder level, clamped at Max.
// The boolean is false when l is already the hardest level.
func (l Level) Up() (Level, bool) {
	if l >= Max {
		return Max, false
	}
	return l + 1, true
}

// Down returns the next easier level, clamped at Min.
// The boolean is false when l is already the easiest level.
func (l Level) Down() (Level, bool) {
	if l <= Min {
		return Min, false
	}
	return l - 1, true
}

// ParseLevel parses a level from its name ("easy", "Medium") or its
// number ("1".."4").
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	case "expert":
		return Expert, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		l := Level(n)
		if l.Valid() {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown difficulty level %q (want easy, medium, hard, expert or 1-4)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid difficulty level %d", int(l))
	}
	return []byte(l.Key()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
