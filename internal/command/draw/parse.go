package draw

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/draftsmith/draftsmith/internal/command"
)

func parseFloat(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", command.ErrBadValue, text)
	}
	return v, nil
}

func parseInt(text string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", command.ErrBadValue, text)
	}
	return v, nil
}

// parsePair splits "3 4" or "3,4" into two integers.
func parsePair(text string) (int, int, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == 'x' || r == 'X'
	})
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: %q is not a pair", command.ErrBadValue, text)
	}
	a, err := parseInt(fields[0])
	if err != nil {
		return 0, 0, err
	}
	b, err := parseInt(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
