package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

var funcs = htmpl.FuncMap{
	"fmtTime": func(v any) string {
		switch t := v.(type) {
		case time.Time:
			return t.Format("02 January 2006, 15:04 MST")
		case string:
			if parsed, err := time.Parse(time.RFC3339, t); err == nil {
				return parsed.Format("02 January 2006, 15:04 MST")
			}
			return t
		default:
			return fmt.Sprintf("%v", v)
		}
	},
}

// Render renders the named template with the given data and returns the
// subject and HTML body.
func Render(name string, data map[string]any) (subject, html string, err error) {
	fname := name + ".tmpl"
	t, err := htmpl.New(fname).Funcs(funcs).ParseFS(FS, fname)
	if err != nil {
		return "", "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("render template %s: %w", name, err)
	}
	return Subject(name), buf.String(), nil
}

// Subject maps a template name to its email subject line.
func Subject(name string) string {
	switch name {
	case "verify_email":
		return "Verify your email address"
	case "welcome":
		return "Welcome to Vestira"
	default:
		return "Notification"
	}
}
