package models

import "strings"

// AbsoluteURL joins the site base URL with a site-absolute path,
// preserving a single trailing slash on the root.
func AbsoluteURL(base, path string) string {
	trimmedBase := strings.TrimRight(base, "/")
	trimmedPath := strings.TrimLeft(path, "/")

	if trimmedPath == "" {
		return trimmedBase + "/"
	}
	return trimmedBase + "/" + trimmedPath
}
