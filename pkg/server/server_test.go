package server

import (
	"bufio"
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/matzehuels/graphwidget/pkg/engine"
	"github.com/matzehuels/graphwidget/pkg/graphio"
	"github.com/matzehuels/graphwidget/pkg/label"
	"github.com/matzehuels/graphwidget/pkg/widget"
)

const script = "var vis = {};"

func newTestServer(t *testing.T, fetch engine.FetcherFunc) *Server {
	t.Helper()
	if fetch == nil {
		fetch = func(context.Context) (*engine.Bundle, error) {
			return &engine.Bundle{URL: "test://vis", Script: []byte(script), Digest: "abc123"}, nil
		}
	}
	loader := engine.NewLoader(fetch, nil)
	return New(widget.New(loader, nil, nil), loader, nil)
}

const graphBody = `{
  "target": "graph",
  "nodes": [
    {"id": "service-a", "label": "service-a\n(cited by: 4, cites: 2)"},
    {"id": 2, "label": "x"},
    {"id": "An Extremely Long Paper Title That Will Certainly Need Truncation Somewhere"}
  ],
  "edges": [{"from": "service-a", "to": 2}]
}`

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func create(t *testing.T, s *Server) string {
	t.Helper()
	rec := do(t, s.Handler(), http.MethodPost, "/api/widgets", graphBody)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body)
	}
	var got struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	return got.ID
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s.Handler(), http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got healthResponse
	json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Status != "ok" || got.Engine != "not requested" || got.Widgets != 0 {
		t.Errorf("health = %+v", got)
	}
}

func TestEngineRoute(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s.Handler(), http.MethodGet, "/engine/vis-network.min.js", "")
	if rec.Code != http.StatusOK || rec.Body.String() != script {
		t.Fatalf("engine: %d %q", rec.Code, rec.Body)
	}
	etag := rec.Header().Get("ETag")
	if etag != `"abc123"` {
		t.Errorf("ETag = %q", etag)
	}
	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "application/javascript") {
		t.Errorf("content type = %q", rec.Header().Get("Content-Type"))
	}

	req := httptest.NewRequest(http.MethodGet, "/engine/vis-network.min.js", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Errorf("conditional request status = %d", rec.Code)
	}
	if s.loader.State() != engine.Ready {
		t.Errorf("loader state = %v", s.loader.State())
	}
}

func TestEngineRoute_Unavailable(t *testing.T) {
	s := newTestServer(t, func(context.Context) (*engine.Bundle, error) {
		return nil, stderrors.New("offline")
	})
	rec := do(t, s.Handler(), http.MethodGet, "/engine/vis-network.min.js", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", rec.Code)
	}
	var body errorBody
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body.Code != "ENGINE_UNAVAILABLE" {
		t.Errorf("code = %q", body.Code)
	}

	rec = do(t, s.Handler(), http.MethodPost, "/api/widgets", graphBody)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("create without engine: %d", rec.Code)
	}
	if s.controller.Registry().Len() != 0 {
		t.Error("widget created without engine")
	}
}

func TestWidgetLifecycle(t *testing.T) {
	s := newTestServer(t, nil)
	id := create(t, s)

	rec := do(t, s.Handler(), http.MethodGet, "/api/widgets", "")
	var ids []string
	json.Unmarshal(rec.Body.Bytes(), &ids)
	if len(ids) != 1 || ids[0] != id {
		t.Errorf("list = %v", ids)
	}

	rec = do(t, s.Handler(), http.MethodGet, "/api/widgets/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: %d", rec.Code)
	}
	var got struct {
		Target  string              `json:"target"`
		Nodes   []label.DisplayNode `json:"nodes"`
		Edges   []label.RawEdge     `json:"edges"`
		Options widget.Options      `json:"options"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Target != "#graph" || len(got.Nodes) != 3 || len(got.Edges) != 1 {
		t.Errorf("widget = %+v", got)
	}
	if got.Options.Physics.Repulsion.NodeDistance != 1500 {
		t.Error("options not included")
	}
	if got.Nodes[0].Label != "service-a\n(cited by: 4, cites: 2)" {
		t.Errorf("label = %q", got.Nodes[0].Label)
	}

	rec = do(t, s.Handler(), http.MethodDelete, "/api/widgets/"+id, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete: %d", rec.Code)
	}
	rec = do(t, s.Handler(), http.MethodGet, "/api/widgets/"+id, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: %d", rec.Code)
	}
}

func TestCreate_BadRequests(t *testing.T) {
	s := newTestServer(t, nil)
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"nodes": [`},
		{"empty target", `{"target": "", "nodes": []}`},
		{"bad id", `{"target": "g", "nodes": [{"id": true}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s.Handler(), http.MethodPost, "/api/widgets", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, body = %s", rec.Code, rec.Body)
			}
		})
	}
}

func TestUnknownWidget(t *testing.T) {
	s := newTestServer(t, nil)
	for _, path := range []string{
		"/api/widgets/not-a-uuid",
		"/api/widgets/00000000-0000-0000-0000-000000000000",
	} {
		if rec := do(t, s.Handler(), http.MethodGet, path, ""); rec.Code != http.StatusNotFound {
			t.Errorf("GET %s = %d", path, rec.Code)
		}
	}
}

func TestDoubleClick(t *testing.T) {
	s := newTestServer(t, nil)
	id := create(t, s)
	path := "/api/widgets/" + id + "/doubleclick"

	rec := do(t, s.Handler(), http.MethodPost, path, `{"nodes": [2]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d %s", rec.Code, rec.Body)
	}
	var n label.DisplayNode
	json.Unmarshal(rec.Body.Bytes(), &n)
	if n.IsShort || n.Label != n.LongLabel {
		t.Errorf("node after toggle = %+v", n)
	}

	rec = do(t, s.Handler(), http.MethodPost, path, `{"nodes": [2]}`)
	json.Unmarshal(rec.Body.Bytes(), &n)
	if !n.IsShort || n.Label != n.ShortLabel {
		t.Errorf("node after second toggle = %+v", n)
	}

	for _, body := range []string{`{"nodes": []}`, `{}`, `{"nodes": ["missing"]}`, `{"nodes": ["2"]}`} {
		if rec := do(t, s.Handler(), http.MethodPost, path, body); rec.Code != http.StatusNoContent {
			t.Errorf("body %s: status = %d", body, rec.Code)
		}
	}
}

func TestDoubleClick_NumericSpelling(t *testing.T) {
	s := newTestServer(t, nil)
	id := create(t, s)

	rec := do(t, s.Handler(), http.MethodPost, "/api/widgets/"+id+"/doubleclick", `{"nodes": [2.0]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for id 2.0", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"id":2,`) {
		t.Errorf("body = %s, want canonical id 2", rec.Body)
	}
}

func TestDoubleClick_ConcurrentResponses(t *testing.T) {
	s := newTestServer(t, nil)
	id := create(t, s)
	path := "/api/widgets/" + id + "/doubleclick"

	const clicks = 20
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		long  int
		short int
	)
	for range clicks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := do(t, s.Handler(), http.MethodPost, path, `{"nodes": [2]}`)
			var n label.DisplayNode
			if err := json.Unmarshal(rec.Body.Bytes(), &n); err != nil {
				t.Errorf("decode: %v", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if n.IsShort {
				short++
			} else {
				long++
			}
		}()
	}
	wg.Wait()

	// Each response reports the state its own toggle produced, so the
	// alternating sequence splits evenly.
	if long != clicks/2 || short != clicks/2 {
		t.Errorf("responses: %d long, %d short; want %d each", long, short, clicks/2)
	}
}

func TestPage(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s.Handler(), http.MethodGet, "/", "")
	if !strings.Contains(rec.Body.String(), "No graph loaded") {
		t.Errorf("empty page body:\n%s", rec.Body)
	}

	id := create(t, s)
	body := do(t, s.Handler(), http.MethodGet, "/", "").Body.String()
	engineIdx := strings.Index(body, `<script src="/engine/vis-network.min.js">`)
	clientIdx := strings.Index(body, `<script src="/static/graph.js">`)
	headEnd := strings.Index(body, "</head>")
	if engineIdx < 0 || clientIdx < engineIdx || headEnd < clientIdx {
		t.Errorf("scripts not injected into head in order:\n%s", body)
	}
	if !strings.Contains(body, `<div id="graph">`) || !strings.Contains(body, id) {
		t.Errorf("page does not mount widget %s:\n%s", id, body)
	}
}

func TestStatic(t *testing.T) {
	s := newTestServer(t, nil)
	rec := do(t, s.Handler(), http.MethodGet, "/static/graph.js", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "GraphWidget") {
		t.Errorf("static: %d", rec.Code)
	}
}

// readEvent returns the next SSE event name and data.
func readEvent(t *testing.T, r *bufio.Reader) (string, string) {
	t.Helper()
	var event, data string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read event: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "" && event != "":
			return event, data
		}
	}
}

func openStream(t *testing.T, url string) *bufio.Reader {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}
	r := bufio.NewReader(resp.Body)
	if ev, _ := readEvent(t, r); ev != EventConnected {
		t.Fatalf("first event = %q", ev)
	}
	return r
}

func TestWidgetEvents(t *testing.T) {
	s := newTestServer(t, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	defer s.Hub().Close()

	id := create(t, s)
	stream := openStream(t, ts.URL+"/api/widgets/"+id+"/events")

	resp, err := http.Post(ts.URL+"/api/widgets/"+id+"/doubleclick", "application/json", strings.NewReader(`{"nodes": ["service-a"]}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	ev, data := readEvent(t, stream)
	if ev != EventUpdate {
		t.Fatalf("event = %q", ev)
	}
	var u label.Update
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		t.Fatal(err)
	}
	if u.ID != label.StringID("service-a") || u.IsShort {
		t.Errorf("update = %+v", u)
	}

	// Replacing the widget on its mount point ends the stream with a reload.
	if _, err := s.Load(context.Background(), &graphio.Graph{Nodes: []label.RawNode{{ID: label.StringID("z")}}}); err != nil {
		t.Fatal(err)
	}
	if ev, _ := readEvent(t, stream); ev != EventReload {
		t.Errorf("event after replace = %q", ev)
	}
}

func TestServerEvents_Reload(t *testing.T) {
	s := newTestServer(t, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	defer s.Hub().Close()

	stream := openStream(t, ts.URL+"/events")
	deadline := time.Now().Add(time.Second)
	for s.Hub().ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	if _, err := s.Load(context.Background(), &graphio.Graph{Nodes: []label.RawNode{{ID: label.IntID(1)}}}); err != nil {
		t.Fatal(err)
	}
	if ev, _ := readEvent(t, stream); ev != EventReload {
		t.Errorf("event = %q", ev)
	}
}

func TestSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping graphviz render in short mode")
	}
	s := newTestServer(t, nil)
	id := create(t, s)
	rec := do(t, s.Handler(), http.MethodGet, "/api/widgets/"+id+"/graph.svg", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d %s", rec.Code, rec.Body)
	}
	if rec.Header().Get("Content-Type") != "image/svg+xml" || !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("response is not svg")
	}
}

func TestServe_Shutdown(t *testing.T) {
	s := newTestServer(t, nil)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	var resp *http.Response
	for range 50 {
		if resp, err = http.Get(url); err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
