package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/lucasefe/dboutline/schema"
)

// Format selects an output rendering.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat accepts "text" or "json" in any case. An empty string means
// FormatText.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q: use 'text' or 'json'", s)
	}
}

// Render writes db to w in the given format.
func Render(w io.Writer, db *schema.Database, format Format) error {
	switch format {
	case FormatText, "":
		return Run(w, db)
	case FormatJSON:
		return RunJSON(w, db)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
