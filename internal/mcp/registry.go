package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-faster/errors"
)

// Arguments are the decoded arguments of a tools/call request. Numbers are
// kept as json.Number so handlers decide how to coerce them.
type Arguments map[string]interface{}

// Lookup returns the raw value for key. Null values count as absent.
func (a Arguments) Lookup(key string) (interface{}, bool) {
	v, ok := a[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String returns the string value for key. Numbers are accepted in their
// literal form.
func (a Arguments) String(key string) (string, bool, error) {
	v, ok := a.Lookup(key)
	if !ok {
		return "", false, nil
	}
	switch s := v.(type) {
	case string:
		return s, true, nil
	case json.Number:
		return s.String(), true, nil
	default:
		return "", true, errors.Errorf("parameter %q: expected string, got %s", key, jsonType(v))
	}
}

// Int returns the integer value for key. Integral numbers and strings of
// digits are accepted.
func (a Arguments) Int(key string) (int, bool, error) {
	v, ok := a.Lookup(key)
	if !ok {
		return 0, false, nil
	}
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true, nil
		}
		f, err := n.Float64()
		if err != nil || f != float64(int64(f)) {
			return 0, true, errors.Errorf("parameter %q: expected integer, got %s", key, n)
		}
		return int(f), true, nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, true, errors.Errorf("parameter %q: expected integer, got %q", key, n)
		}
		return i, true, nil
	default:
		return 0, true, errors.Errorf("parameter %q: expected integer, got %s", key, jsonType(v))
	}
}

func jsonType(v interface{}) string {
	switch v.(type) {
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case bool:
		return "boolean"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// decodeArguments turns the raw arguments member into Arguments. Missing or
// null arguments are an empty map.
func decodeArguments(raw json.RawMessage) (Arguments, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Arguments{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(err, "decode arguments")
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, errors.Errorf("arguments must be an object, got %s", jsonType(v))
	}
	return Arguments(m), nil
}

// Outcome is the result of running a tool handler: either text to return
// to the caller or an error describing why the call failed.
type Outcome struct {
	text string
	err  error
}

// Success returns an Outcome carrying text.
func Success(text string) Outcome {
	return Outcome{text: text}
}

// Failure returns an Outcome carrying err. A nil err is replaced by a
// generic failure so the outcome never reads as a success.
func Failure(err error) Outcome {
	if err == nil {
		err = errors.New("tool failed")
	}
	return Outcome{err: err}
}

// Failuref formats a failure message.
func Failuref(format string, args ...interface{}) Outcome {
	return Failure(errors.Errorf(format, args...))
}

// Text returns the success text.
func (o Outcome) Text() string { return o.text }

// Err returns the failure, or nil on success.
func (o Outcome) Err() error { return o.err }

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool { return o.err == nil }

// Handler runs a tool. Handlers validate their own arguments.
type Handler func(ctx context.Context, args Arguments) Outcome

type registeredTool struct {
	tool    Tool
	handler Handler
}

// Registry maps tool names to descriptors and handlers, preserving
// registration order. It is populated at startup and only read afterwards.
type Registry struct {
	order []string
	tools map[string]registeredTool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]registeredTool)}
}

// Register adds a tool. Names must be non-empty and unique.
func (r *Registry) Register(tool Tool, h Handler) error {
	if tool.Name == "" {
		return errors.New("tool name is required")
	}
	if h == nil {
		return errors.Errorf("tool %s: handler is nil", tool.Name)
	}
	if _, exists := r.tools[tool.Name]; exists {
		return errors.Errorf("tool %s already registered", tool.Name)
	}
	r.order = append(r.order, tool.Name)
	r.tools[tool.Name] = registeredTool{tool: tool, handler: h}
	return nil
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	rt, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return rt.handler, true
}

// Tools returns the descriptors in registration order.
func (r *Registry) Tools() []Tool {
	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name].tool)
	}
	return tools
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}
