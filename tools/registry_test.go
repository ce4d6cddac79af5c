package tools_test

import (
	"context"
	"errors"
	"testing"

	"github.com/devtool-substrate/orchestrator/tools"
)

func echoHandler(_ context.Context, args string) (tools.Result, error) {
	return tools.Result{Ok: true, Content: args}, nil
}

func TestRegister_EmptyName(t *testing.T) {
	r := tools.NewRegistry()
	err := r.Register("", echoHandler)
	if !errors.Is(err, tools.ErrEmptyName) {
		t.Errorf("Register() error = %v, want ErrEmptyName", err)
	}
}

func TestRegister_ReplacesExisting(t *testing.T) {
	r := tools.NewRegistry()
	if err := r.Register("echo", echoHandler); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	replacement := func(_ context.Context, _ string) (tools.Result, error) {
		return tools.Result{Ok: true, Content: "replaced"}, nil
	}
	if err := r.Register("echo", replacement); err != nil {
		t.Fatalf("Register() replacement failed: %v", err)
	}

	result, err := r.Execute(context.Background(), "echo", "hello")
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if result.Content != "replaced" {
		t.Errorf("Content = %q, want %q", result.Content, "replaced")
	}
}

func TestUnregister_RoundTrip(t *testing.T) {
	r := tools.NewRegistry()
	if err := r.Register("echo", echoHandler); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	before := r.Names()

	if ok := r.Unregister("echo"); !ok {
		t.Fatal("Unregister() = false, want true")
	}
	if ok := r.Unregister("echo"); ok {
		t.Error("second Unregister() = true, want false")
	}

	if err := r.Register("echo", echoHandler); err != nil {
		t.Fatalf("re-Register() failed: %v", err)
	}
	after := r.Names()

	if len(before) != len(after) {
		t.Errorf("registry observable state diverged: before=%v after=%v", before, after)
	}
}

func TestGet(t *testing.T) {
	r := tools.NewRegistry()
	if err := r.Register("echo", echoHandler); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	handler, exists := r.Get("echo")
	if !exists || handler == nil {
		t.Fatal("Get() did not return the registered handler")
	}
}

func TestGet_NotFound(t *testing.T) {
	r := tools.NewRegistry()
	if _, exists := r.Get("missing"); exists {
		t.Error("Get() exists = true for unregistered tool")
	}
}

func TestExecute_NotFound(t *testing.T) {
	r := tools.NewRegistry()
	_, err := r.Execute(context.Background(), "missing", "")
	if !errors.Is(err, tools.ErrNotFound) {
		t.Errorf("Execute() error = %v, want ErrNotFound", err)
	}
}

func TestExecute_HandlerError(t *testing.T) {
	r := tools.NewRegistry()
	handlerErr := errors.New("handler failed")
	handler := func(_ context.Context, _ string) (tools.Result, error) {
		return tools.Result{}, handlerErr
	}
	if err := r.Register("failing", handler); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	_, err := r.Execute(context.Background(), "failing", "")
	if !errors.Is(err, handlerErr) {
		t.Errorf("Execute() error chain does not contain handler error: %v", err)
	}
}

func TestExecute_RespectsContext(t *testing.T) {
	r := tools.NewRegistry()
	handler := func(ctx context.Context, _ string) (tools.Result, error) {
		if err := ctx.Err(); err != nil {
			return tools.Result{}, err
		}
		return tools.Result{Ok: true}, nil
	}
	if err := r.Register("ctx-check", handler); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Execute(ctx, "ctx-check", "")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestNames(t *testing.T) {
	r := tools.NewRegistry()
	r.Register("one", echoHandler)
	r.Register("two", echoHandler)

	names := r.Names()
	found := map[string]bool{}
	for _, n := range names {
		found[n] = true
	}
	if !found["one"] || !found["two"] {
		t.Errorf("Names() = %v, missing expected entries", names)
	}
}
