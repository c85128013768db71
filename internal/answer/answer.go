// Package answer scores submitted answers and builds multiple-choice options.
// Everything here is pure: the same inputs (and the same seeded source of
// randomness) always produce the same outputs.
package answer

import (
	"fmt"
	"strconv"
	"strings"
)

// Attempt is a single scored answer.
type Attempt struct {
	Expected  string
	Submitted string
	Correct   bool
}

// CheckText compares a submitted word against the expected one.
//
// Normalization rules:
// - Whitespace is trimmed
// - Comparison is case-insensitive (Unicode-aware)
// - An empty submission is never correct
func CheckText(expected, submitted string) Attempt {
	a := Attempt{Expected: expected, Submitted: submitted}
	s := strings.TrimSpace(submitted)
	if s == "" {
		return a
	}
	a.Correct = strings.EqualFold(s, strings.TrimSpace(expected))
	return a
}

// CheckNumber compares integers exactly.
func CheckNumber(expected, submitted int) Attempt {
	return Attempt{
		Expected:  strconv.Itoa(expected),
		Submitted: strconv.Itoa(submitted),
		Correct:   expected == submitted,
	}
}

// CheckTyped scores free-form numeric input such as " 007 " against an
// integer answer. Input that does not parse is an incorrect attempt, not an
// error.
func CheckTyped(expected int, input string) Attempt {
	n, err := ParseNumber(input)
	if err != nil {
		return Attempt{Expected: strconv.Itoa(expected), Submitted: input}
	}
	a := CheckNumber(expected, n)
	a.Submitted = input
	return a
}

// ParseNumber normalizes typed integer input. Leading zeros and surrounding
// whitespace are accepted.
func ParseNumber(input string) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, fmt.Errorf("empty answer")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer: %w", err)
	}
	return int(n), nil
}

// Normalize lower-cases and trims a word for set comparisons.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}
