package server

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// renderMarkdown converts proposal markdown to HTML for page embedding.
func renderMarkdown(text string) template.HTML {
	if text == "" {
		return template.HTML("")
	}

	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	mdParser := parser.NewWithExtensions(extensions)

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.HrefTargetBlank,
	})

	return template.HTML(markdown.ToHTML([]byte(text), mdParser, renderer))
}

var proposalPageTemplate = template.Must(template.New("proposal").Parse(`<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: 'Hiragino Sans', 'Meiryo', sans-serif; max-width: 860px; margin: 0 auto; padding: 2rem; color: #1a1a2e; }
h1 { border-bottom: 3px solid #e60012; padding-bottom: 0.5rem; }
h2 { color: #b3000e; margin-top: 2rem; }
hr { border: none; border-top: 1px solid #ccc; margin: 2rem 0; }
a { color: #0055b8; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// handleProposalPage serves a saved proposal markdown artifact as an HTML
// page. Filenames are restricted to the proposals directory.
func (s *Server) handleProposalPage(w http.ResponseWriter, r *http.Request) {
	filename := filepath.Base(chi.URLParam(r, "filename"))
	if !strings.HasSuffix(filename, ".md") {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(s.deps.Config.App.StaticDir, "proposals", filename)
	data, err := os.ReadFile(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = proposalPageTemplate.Execute(w, struct {
		Title string
		Body  template.HTML
	}{
		Title: strings.TrimSuffix(filename, ".md"),
		Body:  renderMarkdown(string(data)),
	})
	if err != nil {
		s.log.Error("failed to render proposal page", "error", err)
	}
}
