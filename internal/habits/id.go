package habits

import (
	"fmt"
	"regexp"
	"strconv"
)

var habitIDPattern = regexp.MustCompile(`^[1-9][0-9]*$`)

// ParseHabitID validates a caller-supplied habit id. Leading zeros, signs,
// whitespace and values beyond int64 are all rejected.
func ParseHabitID(raw string) (int64, error) {
	if !habitIDPattern.MatchString(raw) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
	}
	return id, nil
}
