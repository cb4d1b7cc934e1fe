package puzzle

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNotANumber is returned by CheckAnswer when the input is not an
// integer. The caller should reprompt without recording an attempt.
var ErrNotANumber = errors.New("answer is not a number")

// CheckAnswer compares the learner's input against the puzzle answer.
//
// Whitespace is trimmed, leading zeros and an optional sign are accepted,
// so "007" and "+7" both match 7.
func CheckAnswer(input string, p *Puzzle) (bool, error) {
	n, err := ParseAnswer(input)
	if err != nil {
		return false, err
	}
	return n == p.Answer, nil
}

// ParseAnswer normalizes a learner answer to an integer.
func ParseAnswer(input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, ErrNotANumber
	}
	n, err := strconv.Atoi(input)
	if err != nil {
		return 0, ErrNotANumber
	}
	return n, nil
}
