package result

import (
	"errors"
	"strings"
	"testing"

	bridgeerrors "github.com/wippyai/sqlite-bridge/errors"
	"github.com/wippyai/sqlite-bridge/hosttest"
	"github.com/wippyai/sqlite-bridge/pointer"
)

func TestSink_Text(t *testing.T) {
	host := hosttest.New()
	ctx := host.NewContext()
	sink := NewSink(host, ctx)

	if err := sink.Text("hello"); err != nil {
		t.Fatalf("Text: %v", err)
	}

	inv := host.Invocation(ctx)
	if inv.Kind != hosttest.ResultText || inv.Text != "hello" {
		t.Errorf("recorded %v %q, want text %q", inv.Kind, inv.Text, "hello")
	}
	if inv.Writes != 1 {
		t.Errorf("Writes = %d, want 1", inv.Writes)
	}

	// the host runs the buffer destructor on teardown
	host.Teardown()
	if host.DestructorRuns != 1 {
		t.Errorf("DestructorRuns = %d, want 1", host.DestructorRuns)
	}
}

func TestSink_Text_EmbeddedNul(t *testing.T) {
	host := hosttest.New()
	sink := NewSink(host, host.NewContext())

	err := sink.Text("bad\x00string")
	want := &bridgeerrors.Error{Phase: bridgeerrors.PhaseWrite, Kind: bridgeerrors.KindNulByte}
	if !errors.Is(err, want) {
		t.Fatalf("Text with embedded nul = %v, want nul-byte write error", err)
	}
	if host.Invocation(sink.Context()).Writes != 0 {
		t.Error("failed Text still wrote a result")
	}
}

func TestSink_Scalars(t *testing.T) {
	host := hosttest.New()

	tests := []struct {
		name  string
		write func(*Sink)
		check func(*testing.T, *hosttest.Invocation)
	}{
		{"int", func(s *Sink) { s.Int(-5) }, func(t *testing.T, inv *hosttest.Invocation) {
			if inv.Kind != hosttest.ResultInt || inv.Int != -5 {
				t.Errorf("got %v %d", inv.Kind, inv.Int)
			}
		}},
		{"int64", func(s *Sink) { s.Int64(1 << 40) }, func(t *testing.T, inv *hosttest.Invocation) {
			if inv.Kind != hosttest.ResultInt64 || inv.Int64 != 1<<40 {
				t.Errorf("got %v %d", inv.Kind, inv.Int64)
			}
		}},
		{"double", func(s *Sink) { s.Double(2.5) }, func(t *testing.T, inv *hosttest.Invocation) {
			if inv.Kind != hosttest.ResultDouble || inv.Double != 2.5 {
				t.Errorf("got %v %g", inv.Kind, inv.Double)
			}
		}},
		{"blob", func(s *Sink) { s.Blob([]byte{1, 2}) }, func(t *testing.T, inv *hosttest.Invocation) {
			if inv.Kind != hosttest.ResultBlob || len(inv.Blob) != 2 {
				t.Errorf("got %v %v", inv.Kind, inv.Blob)
			}
		}},
		{"null", func(s *Sink) { s.Null() }, func(t *testing.T, inv *hosttest.Invocation) {
			if inv.Kind != hosttest.ResultNull {
				t.Errorf("got %v", inv.Kind)
			}
		}},
		{"bool true", func(s *Sink) { s.Bool(true) }, func(t *testing.T, inv *hosttest.Invocation) {
			if inv.Kind != hosttest.ResultInt || inv.Int != 1 {
				t.Errorf("got %v %d", inv.Kind, inv.Int)
			}
		}},
		{"bool false", func(s *Sink) { s.Bool(false) }, func(t *testing.T, inv *hosttest.Invocation) {
			if inv.Kind != hosttest.ResultInt || inv.Int != 0 {
				t.Errorf("got %v %d", inv.Kind, inv.Int)
			}
		}},
		{"error code", func(s *Sink) { s.ErrorCode(7) }, func(t *testing.T, inv *hosttest.Invocation) {
			if inv.Kind != hosttest.ResultErrorCode || inv.ErrCode != 7 {
				t.Errorf("got %v %d", inv.Kind, inv.ErrCode)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := host.NewContext()
			tt.write(NewSink(host, ctx))
			inv := host.Invocation(ctx)
			if inv.Writes != 1 {
				t.Errorf("Writes = %d, want 1", inv.Writes)
			}
			tt.check(t, inv)
		})
	}
}

func TestSink_Error(t *testing.T) {
	host := hosttest.New()
	ctx := host.NewContext()
	sink := NewSink(host, ctx)

	if err := sink.Error("no such user"); err != nil {
		t.Fatalf("Error: %v", err)
	}
	inv := host.Invocation(ctx)
	if inv.Kind != hosttest.ResultError || inv.ErrMsg != "no such user" {
		t.Errorf("recorded %v %q", inv.Kind, inv.ErrMsg)
	}

	if err := sink.Error("bad\x00message"); err == nil {
		t.Error("Error with embedded nul succeeded")
	}
}

func TestSink_JSON(t *testing.T) {
	host := hosttest.New()
	ctx := host.NewContext()
	sink := NewSink(host, ctx)

	if err := sink.JSON(map[string]int{"n": 3}); err != nil {
		t.Fatalf("JSON: %v", err)
	}

	inv := host.Invocation(ctx)
	if inv.Kind != hosttest.ResultText {
		t.Fatalf("Kind = %v, want text", inv.Kind)
	}
	if inv.Text != `{"n":3}` {
		t.Errorf("Text = %q", inv.Text)
	}
	if !inv.HasSubtype || inv.Subtype != SubtypeJSON {
		t.Errorf("Subtype = %d (set=%v), want %d", inv.Subtype, inv.HasSubtype, SubtypeJSON)
	}
}

func TestSink_JSON_Unserializable(t *testing.T) {
	host := hosttest.New()
	sink := NewSink(host, host.NewContext())

	err := sink.JSON(func() {})
	if err == nil {
		t.Fatal("JSON on a func value succeeded")
	}
	if host.Invocation(sink.Context()).Writes != 0 {
		t.Error("failed JSON still wrote a result")
	}
}

func TestSink_Pointer(t *testing.T) {
	host := hosttest.New()
	ctx := host.NewContext()

	type cursor struct{ pos int }
	Pointer(NewSink(host, ctx), "cursor", &cursor{pos: 9})

	inv := host.Invocation(ctx)
	if inv.Kind != hosttest.ResultPointer || inv.Pointer == nil {
		t.Fatalf("recorded %v, want pointer", inv.Kind)
	}
	got, ok := pointer.Reclaim[*cursor](inv.Pointer, "cursor")
	if !ok || got.pos != 9 {
		t.Errorf("Reclaim = %v, %v", got, ok)
	}
}

func TestSink_PointerFunc_DestructorOnTeardown(t *testing.T) {
	host := hosttest.New()
	ctx := host.NewContext()

	freed := 0
	PointerFunc(NewSink(host, ctx), "conn", "payload", func(string) { freed++ })

	host.Teardown()
	if freed != 1 {
		t.Errorf("destructor ran %d times, want 1", freed)
	}
	// a second teardown must not run it again
	host.Teardown()
	if freed != 1 {
		t.Errorf("destructor ran %d times after second teardown, want 1", freed)
	}
}

func TestEncodeText_LargeStringsStayExact(t *testing.T) {
	host := hosttest.New()
	ctx := host.NewContext()
	big := strings.Repeat("x", 100_000)

	if err := NewSink(host, ctx).Text(big); err != nil {
		t.Fatalf("Text: %v", err)
	}
	if got := host.Invocation(ctx).Text; got != big {
		t.Errorf("round trip lost bytes: len %d, want %d", len(got), len(big))
	}
}
