package handlers

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

func parsePage(name string) (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
}

// NewStaticHandler serves the sandbox stylesheet and script
func NewStaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
