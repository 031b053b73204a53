package server

import (
	"embed"
	"html/template"
)

//go:embed templates
var templatesFS embed.FS

// loadTemplates は埋め込みテンプレートを読み込む
func loadTemplates() *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/*.html"))
}
