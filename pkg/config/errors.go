package config

import "fmt"

// ErrorKind classifies configuration failures.
type ErrorKind string

// Configuration failure kinds. Each surfaces with the offending file path.
const (
	KindMissingBase              ErrorKind = "missing_base"
	KindInvalidURL               ErrorKind = "invalid_url"
	KindInvalidYAML              ErrorKind = "invalid_yaml"
	KindInvalidDateFormat        ErrorKind = "invalid_date_format"
	KindInvalidTimezone          ErrorKind = "invalid_timezone"
	KindInvalidPageSize          ErrorKind = "invalid_page_size"
	KindInvalidTheme             ErrorKind = "invalid_theme"
	KindEmptyAssetPath           ErrorKind = "empty_asset_path"
	KindEmptyLanguages           ErrorKind = "empty_languages"
	KindDuplicateLanguage        ErrorKind = "duplicate_language"
	KindDefaultLanguageNotListed ErrorKind = "default_language_not_listed"
)

// Error is a configuration failure annotated with the config file path.
type Error struct {
	Kind ErrorKind
	Path string
	Msg  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

func newError(kind ErrorKind, path, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Path: path, Msg: fmt.Sprintf(format, args...)}
}
