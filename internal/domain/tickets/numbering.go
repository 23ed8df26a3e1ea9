package tickets

import (
	"fmt"
	"strconv"
	"strings"

	"fieldops/internal/core/apperror"
)

// NumberPrefix opens every ticket number.
const NumberPrefix = "RIT"

// FormatNumber renders a ticket number, e.g. RIT-2026-007.
// The sequence restarts at 1 every year.
func FormatNumber(year, seq int) string {
	return fmt.Sprintf("%s-%d-%03d", NumberPrefix, year, seq)
}

// ParseSequence extracts the sequence from a ticket number. Numbers
// longer than three digits parse fine; the padding is a minimum width.
func ParseSequence(number string) (int, error) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, apperror.NewValidationf("malformed ticket number %q", number)
	}
	seq, err := strconv.Atoi(number[idx+1:])
	if err != nil || seq < 1 {
		return 0, apperror.NewValidationf("malformed ticket number %q", number)
	}
	return seq, nil
}
