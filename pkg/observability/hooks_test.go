package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Route hooks
	r := NoopRouteHooks{}
	r.OnRoute(ctx, "routed", 1600, 3, time.Millisecond)
	r.OnRefresh(ctx, 4, 6, time.Millisecond)

	// Render hooks
	rd := NoopRenderHooks{}
	rd.OnRenderStart(ctx, "svg")
	rd.OnRenderComplete(ctx, "svg", 2048, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "route")
	c.OnCacheMiss(ctx, "render")
	c.OnCacheSet(ctx, "render", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Route().(NoopRouteHooks); !ok {
		t.Error("Route() should return NoopRouteHooks by default")
	}
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Set custom hooks
	customRoute := &testRouteHooks{}
	SetRouteHooks(customRoute)
	if Route() != customRoute {
		t.Error("SetRouteHooks should set custom hooks")
	}

	customRender := &testRenderHooks{}
	SetRenderHooks(customRender)
	if Render() != customRender {
		t.Error("SetRenderHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Route().(NoopRouteHooks); !ok {
		t.Error("Reset() should restore NoopRouteHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testRouteHooks{}
	SetRouteHooks(custom)

	// Setting nil should be ignored
	SetRouteHooks(nil)

	if Route() != custom {
		t.Error("SetRouteHooks(nil) should be ignored")
	}

	Reset()
}

func TestRouteHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	rec := &testRouteHooks{}
	SetRouteHooks(rec)
	Route().OnRoute(context.Background(), "no_path_found", 100, 2, 0)

	if rec.outcomes != 1 || rec.last != "no_path_found" {
		t.Errorf("recorded %d events, last %q", rec.outcomes, rec.last)
	}
}

// Test implementations
type testRouteHooks struct {
	NoopRouteHooks
	outcomes int
	last     string
}

func (h *testRouteHooks) OnRoute(_ context.Context, outcome string, _, _ int, _ time.Duration) {
	h.outcomes++
	h.last = outcome
}

type testRenderHooks struct{ NoopRenderHooks }
type testCacheHooks struct{ NoopCacheHooks }
