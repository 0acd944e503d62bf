package content

import (
	"fmt"
	"strings"
	"time"

	"github.com/WaylonWalker/bckt-go/pkg/config"
	"github.com/WaylonWalker/bckt-go/pkg/models"
)

const naiveLayout = "2006-01-02 15:04:05"

// ParsePostDate parses a front-matter date. Accepted forms:
//   - RFC3339
//   - "YYYY-MM-DD HH:MM:SS", assumed to be in the configured default offset
//   - "YYYY-MM-DD HH:MM:SS <offset>" with offset ±HHMM, ±HH:MM, ±HH:MM:SS,
//     UTC or Z
func ParsePostDate(value string, cfg *models.Config, origin string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}

	if parsed, err := time.Parse(naiveLayout, value); err == nil {
		location, err := config.ParseTimezone(cfg.DefaultTimezone)
		if err != nil {
			return time.Time{}, fmt.Errorf("%s: default_timezone %q is invalid: %w", origin, cfg.DefaultTimezone, err)
		}
		return time.Date(parsed.Year(), parsed.Month(), parsed.Day(),
			parsed.Hour(), parsed.Minute(), parsed.Second(), 0, location), nil
	}

	if idx := strings.LastIndex(value, " "); idx > 0 {
		main, offsetPart := value[:idx], value[idx+1:]
		if parsed, err := time.Parse(naiveLayout, main); err == nil {
			if location, err := parseOffset(offsetPart); err == nil {
				return time.Date(parsed.Year(), parsed.Month(), parsed.Day(),
					parsed.Hour(), parsed.Minute(), parsed.Second(), 0, location), nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("%s: date must be RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD HH:MM:SS ±HHMM/±HH:MM'", origin)
}

// parseOffset parses a trailing date offset: UTC, Z, ±HHMM, ±HH:MM or
// ±HH:MM:SS.
func parseOffset(value string) (*time.Location, error) {
	if strings.EqualFold(value, "UTC") || strings.EqualFold(value, "Z") {
		return time.UTC, nil
	}

	trimmed := strings.TrimSpace(value)
	if len(trimmed) < 3 {
		return nil, fmt.Errorf("offset %q is too short", value)
	}

	normalized := trimmed
	if len(trimmed) == 5 && (trimmed[0] == '+' || trimmed[0] == '-') && !strings.Contains(trimmed, ":") {
		normalized = trimmed[:3] + ":" + trimmed[3:]
	}

	if normalized[0] != '+' && normalized[0] != '-' {
		return nil, fmt.Errorf("offset %q is invalid", value)
	}

	return config.ParseTimezone(normalized)
}
