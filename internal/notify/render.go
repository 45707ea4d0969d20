// AngelaMos | 2026
// render.go

package notify

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type Email struct {
	To      string
	ReplyTo string
	Subject string
	Text    string
}

// Every template file defines a "subject" and a "body" block, so each file
// is parsed into its own set.
var templates = mustLoadTemplates()

func mustLoadTemplates() map[string]*template.Template {
	funcs := template.FuncMap{"price": formatPrice}

	names, err := fs.Glob(templateFS, "templates/*.tmpl")
	if err != nil {
		panic(err)
	}

	set := make(map[string]*template.Template, len(names))
	for _, path := range names {
		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".tmpl")
		set[name] = template.Must(
			template.New(name).Funcs(funcs).ParseFS(templateFS, path),
		)
	}
	return set
}

func render(name string, data any) (subject, body string, err error) {
	tpl, ok := templates[name]
	if !ok {
		return "", "", fmt.Errorf("unknown template %q", name)
	}

	var sb, bb bytes.Buffer
	if err := tpl.ExecuteTemplate(&sb, "subject", data); err != nil {
		return "", "", fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := tpl.ExecuteTemplate(&bb, "body", data); err != nil {
		return "", "", fmt.Errorf("render %s body: %w", name, err)
	}

	return strings.TrimSpace(sb.String()), strings.TrimSpace(bb.String()) + "\n", nil
}

func formatPrice(p float64) string {
	if p == 0 {
		return "Free"
	}
	return fmt.Sprintf("$%.2f", p)
}
