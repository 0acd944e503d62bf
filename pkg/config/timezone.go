package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimezone parses a default_timezone value into a fixed location.
// Accepted forms: "UTC", "Z" (case-insensitive), or "±HH[:MM[:SS]]".
func ParseTimezone(value string) (*time.Location, error) {
	if strings.EqualFold(value, "UTC") || strings.EqualFold(value, "Z") {
		return time.UTC, nil
	}

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, fmt.Errorf("default_timezone %q is empty", value)
	}

	sign := 0
	switch trimmed[0] {
	case '+':
		sign = 1
	case '-':
		sign = -1
	default:
		return nil, fmt.Errorf("default_timezone must start with '+' or '-'")
	}

	parts := strings.Split(trimmed[1:], ":")
	if len(parts) > 3 {
		return nil, fmt.Errorf("default_timezone %q has too many components", value)
	}

	fields := [3]int{}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("default_timezone %q component %q invalid", value, part)
		}
		fields[i] = n
	}

	hours, minutes, seconds := fields[0], fields[1], fields[2]
	if hours > 23 || minutes > 59 || seconds > 59 {
		return nil, fmt.Errorf("default_timezone %q out of range", value)
	}

	offset := sign * (hours*3600 + minutes*60 + seconds)
	if offset == 0 {
		return time.UTC, nil
	}
	return time.FixedZone(trimmed, offset), nil
}
