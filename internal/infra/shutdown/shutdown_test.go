package shutdown

import (
	"context"
	"errors"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/yndnr/kiwi/internal/telemetry/logger"
)

func TestHandler_TriggerRunsHooksInReverse(t *testing.T) {
	h := NewHandler(time.Second, logger.Nop())

	var mu sync.Mutex
	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		h.OnShutdown(name, func(context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		})
	}

	h.Trigger()
	h.Trigger()
	if err := h.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	if got := strings.Join(order, ","); got != "third,second,first" {
		t.Errorf("hook order = %s, want third,second,first", got)
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done() not closed after Wait")
	}
}

func TestHandler_HookErrorsJoined(t *testing.T) {
	h := NewHandler(time.Second, logger.Nop())
	errA := errors.New("a failed")
	ran := false

	h.OnShutdown("a", func(context.Context) error { return errA })
	h.OnShutdown("b", func(context.Context) error { ran = true; return nil })

	h.Trigger()
	err := h.Wait(context.Background())
	if !errors.Is(err, errA) {
		t.Fatalf("Wait() error = %v, want %v", err, errA)
	}
	if !strings.Contains(err.Error(), "a: a failed") {
		t.Errorf("error %q should name the hook", err)
	}
	if !ran {
		t.Error("later hooks must run after a failing hook")
	}
}

func TestHandler_HookTimeout(t *testing.T) {
	h := NewHandler(50*time.Millisecond, logger.Nop())
	h.OnShutdown("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	h.Trigger()
	if err := h.Wait(context.Background()); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait() error = %v, want deadline exceeded", err)
	}
}

func TestHandler_ContextCancel(t *testing.T) {
	h := NewHandler(time.Second, logger.Nop())
	called := false
	h.OnShutdown("hook", func(context.Context) error { called = true; return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := h.Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if !called {
		t.Error("hook not called on context cancel")
	}
}

func TestHandler_Signal(t *testing.T) {
	h := NewHandler(time.Second, logger.Nop())

	errCh := make(chan error, 1)
	go func() { errCh <- h.Wait(context.Background()) }()

	<-h.listening
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("kill: %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() did not return after SIGTERM")
	}
}

func TestHandler_AbortRunsHooksOnce(t *testing.T) {
	h := NewHandler(time.Second, logger.Nop())
	calls := 0
	h.OnShutdown("listener", func(context.Context) error {
		calls++
		return nil
	})

	if err := h.Abort(); err != nil {
		t.Fatalf("Abort() error = %v", err)
	}
	<-h.Done()

	h.Trigger()
	if err := h.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() after Abort error = %v", err)
	}
	if calls != 1 {
		t.Errorf("hook ran %d times, want 1", calls)
	}
}
