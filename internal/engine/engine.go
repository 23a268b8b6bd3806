// Package engine evaluates JavaScript for the worker process. One
// Engine owns one persistent goja runtime, so bindings survive across
// run requests until the worker is restarted.
package engine

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dop251/goja"

	"github.com/itsmostafa/jseval/internal/protocol"
)

// Engine handles protocol requests against a persistent runtime.
type Engine struct {
	vm *goja.Runtime
}

// New creates an engine whose console functions write to the given
// streams.
func New(stdout, stderr io.Writer) (*Engine, error) {
	e := &Engine{vm: goja.New()}
	if err := e.setupConsole(stdout, stderr); err != nil {
		return nil, fmt.Errorf("failed to set up console: %w", err)
	}
	return e, nil
}

// Handle executes one request and always produces exactly one reply.
func (e *Engine) Handle(req protocol.Request) protocol.Reply {
	switch req.Action {
	case protocol.ActionRun:
		return e.Run(req.Code)
	case protocol.ActionGetAllPropertyNames:
		return e.PropertyNames(req.Code)
	case protocol.ActionInspect:
		return e.Inspect(req.Code)
	default:
		return protocol.Reply{Error: &protocol.ErrorResult{
			Ename:     "ProtocolError",
			Evalue:    fmt.Sprintf("unknown action %q", req.Action),
			Traceback: []string{fmt.Sprintf("unknown action %q", req.Action)},
		}}
	}
}

// Run evaluates code and replies with a text/plain rendering of the
// result value.
func (e *Engine) Run(code string) protocol.Reply {
	val, err := e.vm.RunString(code)
	if err != nil {
		return protocol.Reply{Error: toErrorResult(err)}
	}
	return protocol.Reply{Mime: map[string]string{"text/plain": e.format(val)}}
}

// propertyNamesTemplate collects own property names along the whole
// prototype chain, most derived first.
const propertyNamesTemplate = `(function (o) {
	var names = [];
	for (; o !== null && o !== undefined; o = Object.getPrototypeOf(Object(o))) {
		names = names.concat(Object.getOwnPropertyNames(Object(o)));
	}
	return names;
})(%s)`

// PropertyNames evaluates a scope expression and enumerates the
// property names reachable on it, inherited ones included.
func (e *Engine) PropertyNames(code string) protocol.Reply {
	val, err := e.vm.RunString(fmt.Sprintf(propertyNamesTemplate, "("+code+")"))
	if err != nil {
		return protocol.Reply{Error: toErrorResult(err)}
	}
	raw, _ := val.Export().([]any)
	names := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			names = append(names, s)
		}
	}
	return protocol.Reply{Names: names}
}

// inspectTemplate evaluates the expression once and describes the
// value entirely in JavaScript, so no helper globals leak into the
// runtime.
const inspectTemplate = `(function () {
	function repr(v) {
		if (typeof v === "string") return JSON.stringify(v);
		if (typeof v === "function") return String(v);
		if (v !== null && typeof v === "object") {
			try {
				var s = JSON.stringify(v);
				if (s !== undefined) return s;
			} catch (ignored) {}
		}
		return String(v);
	}
	var value = (%s);
	var result = { string: repr(value), type: typeof value };
	if (value !== null && value !== undefined) {
		var ctors = [];
		for (var p = Object.getPrototypeOf(Object(value)); p !== null; p = Object.getPrototypeOf(p)) {
			if (p.constructor && p.constructor.name) {
				ctors.push(p.constructor.name);
			}
		}
		if (ctors.length > 0) result.constructorList = ctors;
		var len = Object(value).length;
		if (typeof len === "number") result.length = len;
	}
	return result;
})()`

// Inspect evaluates an expression and replies with its representation,
// type, constructor chain and length.
func (e *Engine) Inspect(code string) protocol.Reply {
	val, err := e.vm.RunString(fmt.Sprintf(inspectTemplate, code))
	if err != nil {
		return protocol.Reply{Error: toErrorResult(err)}
	}
	raw, _ := val.Export().(map[string]any)
	insp := &protocol.Inspection{}
	if s, ok := raw["string"].(string); ok {
		insp.String = s
	}
	if s, ok := raw["type"].(string); ok {
		insp.Type = s
	}
	if list, ok := raw["constructorList"].([]any); ok {
		for _, v := range list {
			if s, ok := v.(string); ok {
				insp.ConstructorList = append(insp.ConstructorList, s)
			}
		}
	}
	if n, ok := asInt(raw["length"]); ok {
		insp.Length = &n
	}
	return protocol.Reply{Inspection: insp}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// setupConsole wires console.log/info/warn to stdout and console.error
// to stderr.
func (e *Engine) setupConsole(stdout, stderr io.Writer) error {
	write := func(w io.Writer) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			args := make([]string, len(call.Arguments))
			for i, arg := range call.Arguments {
				args[i] = arg.String()
			}
			fmt.Fprintln(w, strings.Join(args, " "))
			return goja.Undefined()
		}
	}
	console := e.vm.NewObject()
	for _, name := range []string{"log", "info", "warn"} {
		if err := console.Set(name, write(stdout)); err != nil {
			return err
		}
	}
	if err := console.Set("error", write(stderr)); err != nil {
		return err
	}
	return e.vm.Set("console", console)
}

// format renders a result value for the text/plain mime entry.
func (e *Engine) format(val goja.Value) string {
	if val == nil || goja.IsUndefined(val) {
		return "undefined"
	}
	if goja.IsNull(val) {
		return "null"
	}

	switch v := val.Export().(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case []any:
		if len(v) == 0 {
			return "[]"
		}
		items := make([]string, 0, 21)
		for i, item := range v {
			if i == 20 {
				items = append(items, fmt.Sprintf("... (%d more items)", len(v)-20))
				break
			}
			items = append(items, fmt.Sprintf("%v", item))
		}
		return "[" + strings.Join(items, ", ") + "]"
	default:
		return val.String()
	}
}

// toErrorResult maps an evaluation error to the protocol's error
// payload, pulling name/message from the thrown value when it looks
// like an Error object.
func toErrorResult(err error) *protocol.ErrorResult {
	res := &protocol.ErrorResult{
		Ename:     "Error",
		Evalue:    err.Error(),
		Traceback: []string{err.Error()},
	}
	var ex *goja.Exception
	if errors.As(err, &ex) {
		res.Traceback = strings.Split(strings.TrimRight(ex.String(), "\n"), "\n")
		if obj, ok := ex.Value().(*goja.Object); ok {
			if v := obj.Get("name"); v != nil && !goja.IsUndefined(v) {
				res.Ename = v.String()
			}
			if v := obj.Get("message"); v != nil && !goja.IsUndefined(v) {
				res.Evalue = v.String()
			}
		}
	}
	return res
}
