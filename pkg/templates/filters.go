package templates

import (
	"strings"
	"sync"
	"time"

	"github.com/flosch/pongo2/v6"
)

var registerOnce sync.Once

// registerFilters registers the custom template filters with pongo2.
// Called once when the first Engine is created.
//
//nolint:errcheck // pongo2 registration errors only flag duplicates, protected by sync.Once
func registerFilters() {
	registerOnce.Do(func() {
		pongo2.RegisterFilter("format_date", filterFormatDate)
	})
}

// filterFormatDate parses an RFC3339 string (e.g. post.date_iso) and
// formats it with the strftime subset implemented by Strftime.
func filterFormatDate(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	raw, ok := in.Interface().(string)
	if !ok {
		return nil, &pongo2.Error{
			Sender:    "filter:format_date",
			OrigError: errFormatDateInput,
		}
	}
	if strings.TrimSpace(raw) == "" {
		return pongo2.AsValue(""), nil
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, &pongo2.Error{
			Sender:    "filter:format_date",
			OrigError: errFormatDateValue(raw, err),
		}
	}

	formatted, err := Strftime(parsed, param.String())
	if err != nil {
		return nil, &pongo2.Error{
			Sender:    "filter:format_date",
			OrigError: err,
		}
	}
	return pongo2.AsValue(formatted), nil
}
