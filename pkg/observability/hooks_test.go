package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingHooks struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnStageStart(_ context.Context, s Stage) { h.add("start:" + string(s)) }
func (h *recordingHooks) OnStageComplete(_ context.Context, s Stage, _ time.Duration, _ error) {
	h.add("done:" + string(s))
}
func (h *recordingHooks) OnFormatRendered(_ context.Context, f string, _ int, _ time.Duration, _ error) {
	h.add("format:" + f)
}
func (h *recordingHooks) OnCacheHit(_ context.Context, k string)        { h.add("hit:" + k) }
func (h *recordingHooks) OnCacheMiss(_ context.Context, k string)       { h.add("miss:" + k) }
func (h *recordingHooks) OnCacheSet(_ context.Context, k string, _ int) { h.add("set:" + k) }

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnStageStart(ctx, StageLoad)
	p.OnStageComplete(ctx, StageLoad, time.Second, nil)
	p.OnFormatRendered(ctx, "svg", 1024, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	h := &recordingHooks{}
	SetPipelineHooks(h)
	SetCacheHooks(h)
	if Pipeline() != h || Cache() != h {
		t.Fatal("custom hooks not registered")
	}

	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	if Pipeline() != h || Cache() != h {
		t.Error("nil replaced registered hooks")
	}

	ctx := context.Background()
	Pipeline().OnStageStart(ctx, StageLayout)
	Cache().OnCacheHit(ctx, "layout")
	if len(h.events) != 2 || h.events[0] != "start:layout" || h.events[1] != "hit:layout" {
		t.Errorf("events = %v", h.events)
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}
