package domain

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// SeatLabel is a client-supplied seat reference, either "<row>-<number>"
// ("B-7") or a bare number ("7"). A bare number only resolves when the venue
// has exactly one seat with that number.
type SeatLabel struct {
	Row    string // empty for bare-number labels
	Number int
}

func ParseSeatLabel(s string) (SeatLabel, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SeatLabel{}, errors.Wrap(ErrInvalidInput, "empty seat label")
	}

	row := ""
	numPart := s
	if i := strings.IndexByte(s, '-'); i >= 0 {
		row = strings.ToUpper(strings.TrimSpace(s[:i]))
		numPart = strings.TrimSpace(s[i+1:])
		if row == "" {
			return SeatLabel{}, errors.Wrapf(ErrInvalidInput, "seat label %q has empty row", s)
		}
	}

	n, err := strconv.Atoi(numPart)
	if err != nil || n < 1 {
		return SeatLabel{}, errors.Wrapf(ErrInvalidInput, "seat label %q has invalid seat number", s)
	}
	return SeatLabel{Row: row, Number: n}, nil
}
