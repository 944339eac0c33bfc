package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	e := NoopEngineHooks{}
	e.OnLoadStart(ctx, "https://unpkg.com/vis-network")
	e.OnLoadComplete(ctx, "https://unpkg.com/vis-network", 1024, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "engine")
	c.OnCacheMiss(ctx, "engine")
	c.OnCacheSet(ctx, "engine", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "unpkg.com", "/vis-network")
	h.OnResponse(ctx, "GET", "unpkg.com", "/vis-network", 200, time.Second)
	h.OnError(ctx, "GET", "unpkg.com", "/vis-network", nil)

	w := NoopWidgetHooks{}
	w.OnInit(ctx, "w1", 3, 2, nil)
	w.OnToggle(ctx, "w1", "service-a", false)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Engine() should return NoopEngineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}
	if _, ok := Widget().(NoopWidgetHooks); !ok {
		t.Error("Widget() should return NoopWidgetHooks by default")
	}

	customEngine := &testEngineHooks{}
	SetEngineHooks(customEngine)
	if Engine() != customEngine {
		t.Error("SetEngineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	customWidget := &testWidgetHooks{}
	SetWidgetHooks(customWidget)
	if Widget() != customWidget {
		t.Error("SetWidgetHooks should set custom hooks")
	}

	Reset()
	if _, ok := Engine().(NoopEngineHooks); !ok {
		t.Error("Reset() should restore NoopEngineHooks")
	}
	if _, ok := Widget().(NoopWidgetHooks); !ok {
		t.Error("Reset() should restore NoopWidgetHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testEngineHooks{}
	SetEngineHooks(custom)
	SetEngineHooks(nil)

	if Engine() != custom {
		t.Error("SetEngineHooks(nil) should be ignored")
	}

	Reset()
}

type testEngineHooks struct{ NoopEngineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
type testWidgetHooks struct{ NoopWidgetHooks }
