// Package numbering allocates sequential, tenant scoped quotation numbers.
package numbering

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultPrefix is used when neither the tenant nor the configuration sets one.
const DefaultPrefix = "QT"

var ErrMalformedNumber = errors.New("malformed quotation number")

// Number is a quotation number such as QT-0042.
type Number struct {
	Prefix   string
	Sequence int
}

// String renders the number with the sequence zero padded to four digits.
func (n Number) String() string {
	return fmt.Sprintf("%s-%04d", n.Prefix, n.Sequence)
}

// Next returns the number that follows n under the given prefix.
func (n Number) Next(prefix string) Number {
	return Number{Prefix: prefix, Sequence: n.Sequence + 1}
}

// NormalizePrefix trims whitespace and trailing separators so "QUO-" and "QUO" both yield "QUO".
func NormalizePrefix(prefix string) string {
	p := strings.TrimRight(strings.TrimSpace(prefix), "-")
	if p == "" {
		return DefaultPrefix
	}
	return strings.ToUpper(p)
}

// Parse splits a stored number into prefix and sequence. The suffix after the
// last "-" must be a positive integer.
func Parse(s string) (Number, error) {
	idx := strings.LastIndex(s, "-")
	if idx <= 0 || idx == len(s)-1 {
		return Number{}, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}
	seq, err := strconv.Atoi(s[idx+1:])
	if err != nil || seq < 1 {
		return Number{}, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}
	return Number{Prefix: s[:idx], Sequence: seq}, nil
}
