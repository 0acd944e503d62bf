package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/WaylonWalker/bckt-go/pkg/models"
)

// RFC3339Keyword is the literal date_format value selecting RFC3339 output.
const RFC3339Keyword = "RFC3339"

// layoutComponents are the Go reference-layout tokens recognized as date
// or time components. Longer tokens are listed first so that a layout
// like "2006" is not mistaken for its "06" substring.
var layoutComponents = []string{
	"2006", "January", "Monday", "Z07:00", "-07:00", "Z0700", "-0700",
	"15:04", "Jan", "Mon", "15", "03", "04", "05", "01", "02", "06",
	"PM", "pm", "_2",
}

// ValidateDateFormat checks a date_format value: either the RFC3339
// keyword or a Go reference layout containing at least one date or time
// component.
func ValidateDateFormat(value string) error {
	if strings.EqualFold(value, RFC3339Keyword) {
		return nil
	}

	for _, component := range layoutComponents {
		if strings.Contains(value, component) {
			return nil
		}
	}
	return fmt.Errorf("date_format %q must contain at least one date or time component", value)
}

// FormatDate renders a date using the configured date_format.
func FormatDate(cfg *models.Config, date time.Time) string {
	if strings.EqualFold(cfg.DateFormat, RFC3339Keyword) {
		return date.Format(time.RFC3339)
	}
	return date.Format(cfg.DateFormat)
}
