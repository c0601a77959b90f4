package value

import (
	"errors"
	"testing"

	bridge "github.com/wippyai/sqlite-bridge"
	bridgeerrors "github.com/wippyai/sqlite-bridge/errors"
	"github.com/wippyai/sqlite-bridge/hosttest"
	"github.com/wippyai/sqlite-bridge/pointer"
)

func TestNew_CachesType(t *testing.T) {
	host := hosttest.New()

	tests := []struct {
		name   string
		handle bridge.ValueHandle
		want   Type
	}{
		{"integer", host.AddInt64(42), TypeInteger},
		{"float", host.AddDouble(3.14), TypeFloat},
		{"text", host.AddText("hello"), TypeText},
		{"blob", host.AddBlob([]byte{1, 2, 3}), TypeBlob},
		{"null", host.AddNull(), TypeNull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(host, tt.handle)
			if v.Type() != tt.want {
				t.Errorf("Type() = %v, want %v", v.Type(), tt.want)
			}
			if v.Handle() != tt.handle {
				t.Errorf("Handle() = %v, want %v", v.Handle(), tt.handle)
			}
		})
	}
}

func TestAt(t *testing.T) {
	host := hosttest.New()
	handles := []bridge.ValueHandle{host.AddInt64(1), host.AddText("two")}

	v, ok := At(host, handles, 1)
	if !ok {
		t.Fatal("At(1) reported out of range")
	}
	if v.Type() != TypeText {
		t.Errorf("Type() = %v, want %v", v.Type(), TypeText)
	}

	for _, i := range []int{-1, 2, 100} {
		if _, ok := At(host, handles, i); ok {
			t.Errorf("At(%d) = ok, want out of range", i)
		}
	}
}

func TestValue_NotNullOr(t *testing.T) {
	host := hosttest.New()
	sentinel := errors.New("required")

	v, err := New(host, host.AddText("x")).NotNullOr(sentinel)
	if err != nil {
		t.Fatalf("NotNullOr on text value: %v", err)
	}
	if v == nil {
		t.Fatal("NotNullOr returned nil value without error")
	}

	_, err = New(host, host.AddNull()).NotNullOr(sentinel)
	if err != sentinel {
		t.Errorf("NotNullOr on null = %v, want sentinel", err)
	}
}

func TestValue_NotNullOrElse(t *testing.T) {
	host := hosttest.New()

	called := false
	_, err := New(host, host.AddText("x")).NotNullOrElse(func() error {
		called = true
		return errors.New("boom")
	})
	if err != nil || called {
		t.Fatalf("NotNullOrElse on text value: err=%v called=%v", err, called)
	}

	_, err = New(host, host.AddNull()).NotNullOrElse(func() error {
		return errors.New("boom")
	})
	if err == nil || err.Error() != "boom" {
		t.Errorf("NotNullOrElse on null = %v, want boom", err)
	}
}

func TestValue_Text(t *testing.T) {
	host := hosttest.New()

	got, err := New(host, host.AddText("hello")).Text()
	if err != nil {
		t.Fatalf("Text() error: %v", err)
	}
	if got != "hello" {
		t.Errorf("Text() = %q, want %q", got, "hello")
	}

	// integer values convert through the engine's text representation
	got, err = New(host, host.AddInt64(42)).Text()
	if err != nil {
		t.Fatalf("Text() on integer: %v", err)
	}
	if got != "42" {
		t.Errorf("Text() on integer = %q, want %q", got, "42")
	}
}

func TestValue_Text_InvalidUTF8(t *testing.T) {
	host := hosttest.New()
	v := New(host, host.AddTextBytes([]byte{0xff, 0xfe, 'a'}))

	_, err := v.Text()
	if err == nil {
		t.Fatal("Text() on invalid UTF-8 succeeded")
	}
	want := &bridgeerrors.Error{Phase: bridgeerrors.PhaseRead, Kind: bridgeerrors.KindInvalidUTF8}
	if !errors.Is(err, want) {
		t.Errorf("Text() error = %v, want invalid UTF-8 read error", err)
	}
}

func TestValue_TextNotNull(t *testing.T) {
	host := hosttest.New()

	got, err := New(host, host.AddText("ok")).TextNotNull()
	if err != nil || got != "ok" {
		t.Fatalf("TextNotNull() = %q, %v", got, err)
	}

	_, err = New(host, host.AddNull()).TextNotNull()
	want := &bridgeerrors.Error{Phase: bridgeerrors.PhaseRead, Kind: bridgeerrors.KindUnexpectedNull}
	if !errors.Is(err, want) {
		t.Errorf("TextNotNull() on null = %v, want unexpected-null error", err)
	}
}

func TestValue_Blob(t *testing.T) {
	host := hosttest.New()
	data := []byte{0x00, 0x01, 0xff}

	got := New(host, host.AddBlob(data)).Blob()
	if string(got) != string(data) {
		t.Errorf("Blob() = %v, want %v", got, data)
	}

	if _, err := New(host, host.AddBlob(data)).BlobNotNull(); err != nil {
		t.Errorf("BlobNotNull() on blob: %v", err)
	}

	_, err := New(host, host.AddNull()).BlobNotNull()
	want := &bridgeerrors.Error{Phase: bridgeerrors.PhaseRead, Kind: bridgeerrors.KindUnexpectedNull}
	if !errors.Is(err, want) {
		t.Errorf("BlobNotNull() on null = %v, want unexpected-null error", err)
	}
}

func TestValue_NumericCoercion(t *testing.T) {
	host := hosttest.New()

	tests := []struct {
		name       string
		handle     bridge.ValueHandle
		wantInt    int32
		wantInt64  int64
		wantDouble float64
	}{
		{"integer", host.AddInt64(7), 7, 7, 7},
		{"float truncates toward zero", host.AddDouble(2.9), 2, 2, 2.9},
		{"numeric text", host.AddText("42"), 42, 42, 42},
		{"prefixed text", host.AddText("13 items"), 13, 13, 13},
		{"non-numeric text", host.AddText("abc"), 0, 0, 0},
		{"null", host.AddNull(), 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(host, tt.handle)
			if got := v.Int(); got != tt.wantInt {
				t.Errorf("Int() = %d, want %d", got, tt.wantInt)
			}
			if got := v.Int64(); got != tt.wantInt64 {
				t.Errorf("Int64() = %d, want %d", got, tt.wantInt64)
			}
			if got := v.Double(); got != tt.wantDouble {
				t.Errorf("Double() = %g, want %g", got, tt.wantDouble)
			}
		})
	}
}

func TestValue_Bytes(t *testing.T) {
	host := hosttest.New()

	if got := New(host, host.AddText("hello")).Bytes(); got != 5 {
		t.Errorf("Bytes() = %d, want 5", got)
	}
	if got := New(host, host.AddBlob(make([]byte, 9))).Bytes(); got != 9 {
		t.Errorf("Bytes() = %d, want 9", got)
	}
	if got := New(host, host.AddNull()).Bytes(); got != 0 {
		t.Errorf("Bytes() on null = %d, want 0", got)
	}
}

type session struct{ id int }

func TestPointerAs(t *testing.T) {
	host := hosttest.New()
	h := host.AddPointer(pointer.Bind("session", &session{id: 7}, nil))
	v := New(host, h)

	got, ok := PointerAs[*session](v, "session")
	if !ok {
		t.Fatal("PointerAs reported not present")
	}
	if got.id != 7 {
		t.Errorf("payload id = %d, want 7", got.id)
	}

	// reclaiming consumed the payload
	if _, ok := PointerAs[*session](v, "session"); ok {
		t.Error("second PointerAs succeeded, want consumed")
	}
}

func TestPointerAs_Mismatches(t *testing.T) {
	host := hosttest.New()

	t.Run("name mismatch", func(t *testing.T) {
		v := New(host, host.AddPointer(pointer.Bind("session", &session{}, nil)))
		if _, ok := PointerAs[*session](v, "cursor"); ok {
			t.Error("PointerAs matched a different name")
		}
	})

	t.Run("type mismatch", func(t *testing.T) {
		v := New(host, host.AddPointer(pointer.Bind("session", &session{}, nil)))
		if _, ok := PointerAs[string](v, "session"); ok {
			t.Error("PointerAs matched a different payload type")
		}
	})

	t.Run("plain null carries no pointer", func(t *testing.T) {
		v := New(host, host.AddNull())
		if _, ok := PointerAs[*session](v, "session"); ok {
			t.Error("PointerAs found a pointer on a plain null")
		}
	})
}
