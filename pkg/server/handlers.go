package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/graphwidget/pkg/errors"
	"github.com/matzehuels/graphwidget/pkg/label"
	"github.com/matzehuels/graphwidget/pkg/render/nodelink"
	"github.com/matzehuels/graphwidget/pkg/widget"
)

// doubleClicker is implemented by networks that accept click events from
// the page.
type doubleClicker interface {
	DoubleClick(widget.ClickParams) (label.DisplayNode, bool)
}

type createRequest struct {
	Target string          `json:"target"`
	Nodes  []label.RawNode `json:"nodes"`
	Edges  []label.RawEdge `json:"edges"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Engine  string `json:"engine"`
	Widgets int    `json:"widgets"`
	Clients int    `json:"clients"`
}

func widgetID(r *http.Request) string { return chi.URLParam(r, "id") }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Engine:  s.loader.State().String(),
		Widgets: s.controller.Registry().Len(),
		Clients: s.hub.ClientCount(),
	})
}

func (s *Server) handleEngine(w http.ResponseWriter, r *http.Request) {
	b, err := s.loader.Bundle(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	etag := strconv.Quote(b.Digest)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(b.Size()))
	w.Write(b.Script)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	h, err := s.controller.Init(r.Context(), req.Target, req.Nodes, req.Edges)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.Target == DefaultTarget {
		s.hub.Broadcast(EventReload)
	}
	w.Header().Set("Location", "/api/widgets/"+h.ID.String())
	writeJSON(w, http.StatusCreated, h)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	handles := s.controller.Registry().List()
	ids := make([]string, len(handles))
	for i, h := range handles {
		ids[i] = h.ID.String()
	}
	writeJSON(w, http.StatusOK, ids)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	h, err := s.controller.Registry().Lookup(widgetID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	h, err := s.controller.Registry().Lookup(widgetID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.controller.Registry().Remove(h.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleDoubleClick dispatches a page double-click to the widget. It
// responds with the toggled node, or 204 when no known node was hit.
func (s *Server) handleDoubleClick(w http.ResponseWriter, r *http.Request) {
	h, err := s.controller.Registry().Lookup(widgetID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	var params widget.ClickParams
	if err := readJSON(w, r, &params); err != nil {
		writeError(w, err)
		return
	}

	dc, ok := h.Network.(doubleClicker)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "widget does not accept click events"))
		return
	}
	n, ok := dc.DoubleClick(params)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	h, err := s.controller.Registry().Lookup(widgetID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	opts := nodelink.Options{Expanded: r.URL.Query().Get("expanded") == "true"}
	svg, err := nodelink.RenderSVG(r.Context(), nodelink.ToDOT(h.Nodes.All(), h.Edges, opts))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

