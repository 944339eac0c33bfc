package server

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFiles embed.FS

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<script src="/engine/vis-network.min.js"></script>
<script src="/static/graph.js"></script>
<style>
  html, body { margin: 0; height: 100%; font-family: sans-serif; }
  #graph { width: 100%; height: 100vh; }
  .empty { padding: 2rem; color: #666; }
</style>
</head>
<body>
{{if .API}}
<div id="graph"></div>
<script>GraphWidget.init({{.Target}}, {{.API}});</script>
{{else}}
<div class="empty">No graph loaded.</div>
<script>GraphWidget.waitForGraph("/events");</script>
{{end}}
</body>
</html>
`))

type pageData struct {
	Title  string
	Target string
	API    string
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	data := pageData{Title: "graphwidget", Target: DefaultTarget}
	if h, ok := s.controller.Registry().ByTarget(DefaultTarget); ok {
		data.API = "/api/widgets/" + h.ID.String()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		s.logger.Warn("render page", "err", err)
	}
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
