package clock

import "time"

// Today returns the current date in calendar order (YYYY-MM-DD), the
// canonical internal date representation.
func Today() string {
	return time.Now().Format("2006-01-02")
}
