package auxdata

import (
	"testing"

	"github.com/wippyai/sqlite-bridge/hosttest"
)

type compiled struct{ pattern string }

func TestSetGet(t *testing.T) {
	host := hosttest.New()
	ctx := host.NewContext()

	Set(host, ctx, 0, &compiled{pattern: "a*"}, nil)

	got, ok := Get[*compiled](host, ctx, 0)
	if !ok {
		t.Fatal("Get reported empty slot")
	}
	if got.pattern != "a*" {
		t.Errorf("pattern = %q, want %q", got.pattern, "a*")
	}
}

func TestGet_EmptySlot(t *testing.T) {
	host := hosttest.New()
	ctx := host.NewContext()

	if _, ok := Get[*compiled](host, ctx, 0); ok {
		t.Error("Get on empty slot reported present")
	}
}

func TestGet_TypeMismatch(t *testing.T) {
	host := hosttest.New()
	ctx := host.NewContext()

	Set(host, ctx, 0, "just a string", nil)

	if _, ok := Get[*compiled](host, ctx, 0); ok {
		t.Error("Get matched a different stored type")
	}
	// the slot itself is intact under the right type
	if got, ok := Get[string](host, ctx, 0); !ok || got != "just a string" {
		t.Errorf("Get[string] = %q, %v", got, ok)
	}
}

func TestSet_SlotsAreIndependent(t *testing.T) {
	host := hosttest.New()
	ctx := host.NewContext()

	Set(host, ctx, 0, &compiled{pattern: "a"}, nil)
	Set(host, ctx, 1, &compiled{pattern: "b"}, nil)

	a, _ := Get[*compiled](host, ctx, 0)
	b, _ := Get[*compiled](host, ctx, 1)
	if a.pattern != "a" || b.pattern != "b" {
		t.Errorf("slots = %q, %q", a.pattern, b.pattern)
	}
}

func TestSet_ReplacementRunsOldDestructor(t *testing.T) {
	host := hosttest.New()
	ctx := host.NewContext()

	freed := 0
	Set(host, ctx, 0, &compiled{pattern: "old"}, func(*compiled) { freed++ })
	Set(host, ctx, 0, &compiled{pattern: "new"}, func(*compiled) { freed++ })

	if freed != 1 {
		t.Errorf("old destructor ran %d times, want 1", freed)
	}

	host.Teardown()
	if freed != 2 {
		t.Errorf("destructors ran %d times after teardown, want 2", freed)
	}
}
