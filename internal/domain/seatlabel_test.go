package domain

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeatLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  SeatLabel
	}{
		{"row and number", "B-7", SeatLabel{Row: "B", Number: 7}},
		{"lowercase row", "b-7", SeatLabel{Row: "B", Number: 7}},
		{"bare number", "7", SeatLabel{Row: "", Number: 7}},
		{"padded", "  C-10 ", SeatLabel{Row: "C", Number: 10}},
		{"spaces around dash", "D - 3", SeatLabel{Row: "D", Number: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSeatLabel(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSeatLabel_Invalid(t *testing.T) {
	for _, input := range []string{"", "B-", "-7", "B-x", "0", "B-0", "B--2", "seven"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseSeatLabel(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}
