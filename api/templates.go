package api

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"gavel/stores"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.UTC().Format(stores.EndDateLayout)
	},
	"formatBid": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	"dateLayout": func() string {
		return stores.EndDateLayout
	},
}

func loadTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("fail to parse templates, err=%w", err)
	}
	return tmpl, nil
}
