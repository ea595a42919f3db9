package job

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for report dates: YYYY-MM-DD.
const DateLayout = "2006-01-02"

// Today returns the current local calendar date as YYYY-MM-DD.
func Today() string {
	return time.Now().Format(DateLayout)
}

// ParseDate validates a date string and returns its canonical YYYY-MM-DD
// form. Anything that does not parse as a real calendar date in that layout
// is rejected with ErrInvalidDate.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%q: %w", s, ErrInvalidDate)
	}
	return t.Format(DateLayout), nil
}
