package main

import (
	"regexp"
	"strings"

	bridge "github.com/wippyai/sqlite-bridge"
	"github.com/wippyai/sqlite-bridge/affinity"
	"github.com/wippyai/sqlite-bridge/auxdata"
	"github.com/wippyai/sqlite-bridge/engine"
	"github.com/wippyai/sqlite-bridge/result"
	"github.com/wippyai/sqlite-bridge/value"
)

// registerDemoFunctions installs the shell's sample scalar functions.
func registerDemoFunctions(conn *engine.Conn) error {
	funcs := []struct {
		name string
		nArg int32
		det  bool
		fn   engine.Func
	}{
		{"regex_match", 2, true, regexMatch},
		{"type_name", 1, true, typeName},
		{"as_numeric", 1, true, asNumeric},
		{"json_pair", 2, true, jsonPair},
	}
	for _, f := range funcs {
		if err := conn.RegisterScalar(f.name, f.nArg, f.det, f.fn); err != nil {
			return err
		}
	}
	return nil
}

// regexMatch reports whether arg 1 matches the pattern in arg 0. The compiled
// pattern is memoized in the pattern argument's auxiliary data slot, so a
// constant pattern compiles once per statement, not once per row.
func regexMatch(h *engine.Host, ctx bridge.ContextHandle, args []bridge.ValueHandle) {
	sink := result.NewSink(h, ctx)

	re, ok := auxdata.Get[*regexp.Regexp](h, ctx, 0)
	if !ok {
		arg, _ := value.At(h, args, 0)
		pattern, err := arg.TextNotNull()
		if err != nil {
			sink.Error(err.Error())
			return
		}
		re, err = regexp.Compile(pattern)
		if err != nil {
			sink.Error("regex_match: " + err.Error())
			return
		}
		auxdata.Set(h, ctx, 0, re, nil)
	}

	subject, _ := value.At(h, args, 1)
	text, err := subject.TextNotNull()
	if err != nil {
		sink.Error(err.Error())
		return
	}
	sink.Bool(re.MatchString(text))
}

// typeName reports the storage class of its argument.
func typeName(h *engine.Host, ctx bridge.ContextHandle, args []bridge.ValueHandle) {
	sink := result.NewSink(h, ctx)
	v, _ := value.At(h, args, 0)
	if err := sink.Text(strings.ToLower(v.Type().String())); err != nil {
		sink.Error(err.Error())
	}
}

// asNumeric re-types its text argument under NUMERIC column affinity.
func asNumeric(h *engine.Host, ctx bridge.ContextHandle, args []bridge.ValueHandle) {
	sink := result.NewSink(h, ctx)
	v, _ := value.At(h, args, 0)
	text, err := v.TextNotNull()
	if err != nil {
		sink.Error(err.Error())
		return
	}
	if err := affinity.Numeric.Result(sink, text); err != nil {
		sink.Error(err.Error())
	}
}

// jsonPair wraps its two arguments into a one-field JSON object tagged with
// the JSON subtype, so json_extract and friends consume it directly.
func jsonPair(h *engine.Host, ctx bridge.ContextHandle, args []bridge.ValueHandle) {
	sink := result.NewSink(h, ctx)

	key, _ := value.At(h, args, 0)
	k, err := key.TextNotNull()
	if err != nil {
		sink.Error(err.Error())
		return
	}

	val, _ := value.At(h, args, 1)
	var payload any
	switch val.Type() {
	case value.TypeInteger:
		payload = val.Int64()
	case value.TypeFloat:
		payload = val.Double()
	case value.TypeNull:
		payload = nil
	default:
		text, err := val.Text()
		if err != nil {
			sink.Error(err.Error())
			return
		}
		payload = text
	}

	if err := sink.JSON(map[string]any{k: payload}); err != nil {
		sink.Error(err.Error())
	}
}
