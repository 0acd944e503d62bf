package templates

import (
	"fmt"
	"strings"
	"time"
)

// Strftime formats a time using the strftime subset supported by the
// format_date filter: %Y %y %m %b %B %d %H %I %M %S %a %A %p %P %R %T
// %F %z %%. Any other directive is an error.
func Strftime(t time.Time, format string) (string, error) {
	var b strings.Builder
	runes := []rune(format)

	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if ch != '%' {
			b.WriteRune(ch)
			continue
		}
		i++
		if i >= len(runes) {
			return "", fmt.Errorf("format_date received a dangling '%%'")
		}
		if err := writeDirective(&b, t, runes[i]); err != nil {
			return "", err
		}
	}

	return b.String(), nil
}

func writeDirective(b *strings.Builder, t time.Time, code rune) error {
	switch code {
	case '%':
		b.WriteByte('%')
	case 'Y':
		fmt.Fprintf(b, "%04d", t.Year())
	case 'y':
		fmt.Fprintf(b, "%02d", t.Year()%100)
	case 'm':
		fmt.Fprintf(b, "%02d", int(t.Month()))
	case 'b':
		b.WriteString(t.Format("Jan"))
	case 'B':
		b.WriteString(t.Format("January"))
	case 'd':
		fmt.Fprintf(b, "%02d", t.Day())
	case 'H':
		fmt.Fprintf(b, "%02d", t.Hour())
	case 'I':
		hour := t.Hour() % 12
		if hour == 0 {
			hour = 12
		}
		fmt.Fprintf(b, "%02d", hour)
	case 'M':
		fmt.Fprintf(b, "%02d", t.Minute())
	case 'S':
		fmt.Fprintf(b, "%02d", t.Second())
	case 'a':
		b.WriteString(t.Format("Mon"))
	case 'A':
		b.WriteString(t.Format("Monday"))
	case 'p':
		b.WriteString(t.Format("PM"))
	case 'P':
		b.WriteString(t.Format("pm"))
	case 'R':
		fmt.Fprintf(b, "%02d:%02d", t.Hour(), t.Minute())
	case 'T':
		fmt.Fprintf(b, "%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
	case 'F':
		fmt.Fprintf(b, "%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
	case 'z':
		_, offset := t.Zone()
		sign := '+'
		if offset < 0 {
			sign = '-'
			offset = -offset
		}
		fmt.Fprintf(b, "%c%02d%02d", sign, offset/3600, offset%3600/60)
	default:
		return fmt.Errorf("format_date does not support %%%c", code)
	}
	return nil
}
