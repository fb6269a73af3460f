package gtfs

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTime converts a GTFS "HH:MM:SS" string into seconds since midnight
// of the service day. Hours of 24 and above are valid (a trip departing at
// 25:10:00 runs at 01:10 on the following calendar day); minutes and
// seconds must be within 0..59.
func ParseTime(hms string) (int, error) {
	parts := strings.Split(strings.TrimSpace(hms), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("malformed time %q: want HH:MM:SS", hms)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, fmt.Errorf("malformed time %q: bad hours", hms)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("malformed time %q: bad minutes", hms)
	}
	s, err := strconv.Atoi(parts[2])
	if err != nil || s < 0 || s > 59 {
		return 0, fmt.Errorf("malformed time %q: bad seconds", hms)
	}
	return h*3600 + m*60 + s, nil
}
